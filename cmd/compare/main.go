package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/Hakuto4838/OrderedDict.git/bench"
	"github.com/Hakuto4838/OrderedDict.git/datastream"
	"github.com/Hakuto4838/OrderedDict.git/dict"
	"github.com/Hakuto4838/OrderedDict.git/dict/analyTool"
)

// compare 以 Zipf 權重計算各實作的期望搜尋步數，並印出 skip list 的層級結構
func main() {
	var n int
	var a, b float64
	var seed int64
	var impls string
	var csvPath string

	flag.IntVar(&n, "n", 900, "number of keys")
	flag.Float64Var(&a, "a", 1.07, "Zipf parameter a")
	flag.Float64Var(&b, "b", 1.0, "Zipf parameter b")
	flag.Int64Var(&seed, "seed", 42, "seed for the generator and the skip list coins")
	flag.StringVar(&impls, "impl", "all", "implementations to compare: all or comma list (avl,skip,basic)")
	flag.StringVar(&csvPath, "csv", "", "also write the skip list levels and step maps to this CSV file")
	flag.Parse()

	names, err := bench.ParseImpls(impls)
	if err != nil {
		log.Fatalf("parse -impl: %v", err)
	}

	gen := datastream.NewZipfDataGenerator(n, a, b, seed)
	kmap := gen.GetKeyMap()
	fmt.Printf("keys: %d, entropy: %.6f\n\n", n, gen.Entropy())

	var writer *csv.Writer
	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			log.Fatalf("create %s: %v", csvPath, err)
		}
		defer file.Close()
		writer = csv.NewWriter(file)
		if err := datastream.DistributeToCSV(writer, kmap); err != nil {
			log.Fatalf("write distribution: %v", err)
		}
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		d, err := bench.NewImpl(name, seed)
		if err != nil {
			log.Fatalf("%v", err)
		}
		for key := range kmap {
			if _, err := d.Insert(key, ""); err != nil {
				log.Fatalf("%s insert %d: %v", name, key, err)
			}
		}

		score, steps := analyTool.AnalyzeStep(d, kmap)
		size, height := d.GetMaxStats()
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", size),
			fmt.Sprintf("%d", height),
			fmt.Sprintf("%.6f", score),
		})

		fmt.Printf("=== %s ===\n", name)
		if sl, ok := d.(dict.Leveled); ok {
			analyTool.CountLevel(os.Stdout, sl)
			analyTool.PrintSkipList(os.Stdout, sl, 8, 35)
			if writer != nil {
				if err := analyTool.PrintSkipListToCSV(sl, 32, n, writer); err != nil {
					log.Fatalf("write %s levels: %v", name, err)
				}
			}
		}
		if writer != nil {
			if err := steps.PrintToCSV(writer); err != nil {
				log.Fatalf("write %s steps: %v", name, err)
			}
		}
		fmt.Println()
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Impl", "Size", "Height", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	if writer != nil {
		writer.Flush()
		if err := writer.Error(); err != nil {
			log.Fatalf("flush %s: %v", csvPath, err)
		}
	}
}
