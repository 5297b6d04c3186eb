package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v2"

	"github.com/Hakuto4838/OrderedDict.git/datastream"
	"github.com/Hakuto4838/OrderedDict.git/dict"
)

// genbench writes benchmark workload files.
// Usage:
// $ genbench [global flags] sub-command [sub-command flags]
// It has sub-commands:
// - sized: fill-to-2^m workloads, the layout benchrun reports on
// - zipf:  single round workloads whose keys follow a Zipf (or uniform) stream
//
// Global flags:
// - path: output directory, default is .
// - out:  output filename prefix, generated from the parameters when empty
// - nums: number of files, each with seed+i

func main() {
	app := newCliApp(afero.NewOsFs())
	if err := app.Run(os.Args); err != nil {
		fmt.Printf("genbench failed: %v\n", err)
		os.Exit(1)
	}
}

func newCliApp(fs afero.Fs) *cli.App {
	app := cli.NewApp()
	app.Name = "genbench"
	app.Usage = "generate DICTBEN1 workload files"
	app.Commands = []*cli.Command{
		newSizedCommand(fs),
		newZipfCommand(fs),
	}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "output directory",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output filename prefix (留空則自動生成)",
		},
		&cli.IntFlag{
			Name:  "nums",
			Usage: "number of files to generate",
			Value: 1,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "seed of the first file",
			Value: 1,
		},
	}
	return app
}

func newSizedCommand(fs afero.Fs) *cli.Command {
	def := datastream.DefaultWorkloadConfig()
	return &cli.Command{
		Name:  "sized",
		Usage: "fill to 2^m-1 keys per size exponent m, then insert/find/closest/remove rounds",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "min-exp", Value: def.Exponents[0], Usage: "smallest size exponent"},
			&cli.IntFlag{Name: "max-exp", Value: def.Exponents[len(def.Exponents)-1], Usage: "largest size exponent"},
			&cli.StringFlag{Name: "times", Value: "1e5", Usage: "operations of each kind per size (支援科學記號)"},
			&cli.Int64Flag{Name: "min-key", Value: def.MinKey, Usage: "smallest key"},
			&cli.Int64Flag{Name: "max-key", Value: def.MaxKey, Usage: "largest key"},
		},
		Action: func(c *cli.Context) error {
			times, err := parseScientificNotation(c.String("times"))
			if err != nil {
				return errors.Wrap(err, "parse times")
			}
			cfg := datastream.WorkloadConfig{
				Times:  times,
				MinKey: dict.K(c.Int64("min-key")),
				MaxKey: dict.K(c.Int64("max-key")),
			}
			for m := c.Int("min-exp"); m <= c.Int("max-exp"); m++ {
				cfg.Exponents = append(cfg.Exponents, m)
			}
			prefix := fmt.Sprintf("sized_m%d-%d_t%s", c.Int("min-exp"), c.Int("max-exp"), formatScientific(times))

			return writeFiles(fs, c, prefix, func(seed int64) (*datastream.Workload, error) {
				cfg.Seed = seed
				return datastream.GenerateWorkload(cfg)
			})
		},
	}
}

func newZipfCommand(fs afero.Fs) *cli.Command {
	return &cli.Command{
		Name:  "zipf",
		Usage: "keys 0..n-1 drawn from a Zipf stream; a=0 draws uniformly",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "n", Value: "1e3", Usage: "number of keys (支援科學記號)"},
			&cli.Float64Flag{Name: "a", Value: 1.07, Usage: "Zipf parameter a (設為 0 時使用均勻分布)"},
			&cli.Float64Flag{Name: "b", Value: 0.0, Usage: "Zipf parameter b"},
			&cli.StringFlag{Name: "k", Value: "1e5", Usage: "number of operations (支援科學記號)"},
		},
		Action: func(c *cli.Context) error {
			n, err := parseScientificNotation(c.String("n"))
			if err != nil {
				return errors.Wrap(err, "parse n")
			}
			k, err := parseScientificNotation(c.String("k"))
			if err != nil {
				return errors.Wrap(err, "parse k")
			}
			if n <= 0 {
				return errors.Errorf("invalid n: %d", n)
			}
			a, b := c.Float64("a"), c.Float64("b")
			prefix := fmt.Sprintf("zipf_n%s_k%s_a%s_b%s", formatScientific(n), formatScientific(k), formatDecimal(a), formatDecimal(b))

			return writeFiles(fs, c, prefix, func(seed int64) (*datastream.Workload, error) {
				var gen datastream.DataStream
				if a == 0 {
					gen = datastream.NewUniformDataGenerator(n, seed)
				} else {
					gen = datastream.NewZipfDataGenerator(n, a, b, seed)
				}
				defer gen.Close()
				fmt.Printf("  entropy: %.6f\n", gen.Entropy())
				return datastream.GenerateStreamWorkload(gen, k, seed)
			})
		},
	}
}

func writeFiles(fs afero.Fs, c *cli.Context, prefix string, gen func(seed int64) (*datastream.Workload, error)) error {
	out := c.String("out")
	if out == "" {
		out = prefix
	}
	dir := c.String("path")
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "建立輸出目錄 %s", dir)
	}

	nums := max(c.Int("nums"), 1)
	seed := c.Int64("seed")
	for i := 0; i < nums; i++ {
		filename := out + ".bin"
		if nums > 1 {
			filename = fmt.Sprintf("%s_%d.bin", out, i)
		}
		outfile := filepath.Join(dir, filename)
		fmt.Printf("正在生成 %s...\n", outfile)

		wl, err := gen(seed + int64(i))
		if err != nil {
			return err
		}
		if err := datastream.WriteWorkloadFile(fs, outfile, wl); err != nil {
			return err
		}
		fmt.Printf("  rounds: %d, ops: %d\n", len(wl.Rounds), wl.OpCount())
	}
	fmt.Println("完成!")
	return nil
}

// parseScientificNotation 解析科學記號字串（如 "1e5"）為整數
func parseScientificNotation(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// formatScientific 將數字格式化為科學記號（用於檔名）
func formatScientific(n int) string {
	if n == 0 {
		return "0"
	}
	exp := 0
	divisor := 1
	for n/divisor >= 10 {
		divisor *= 10
		exp++
	}
	coefficient := float64(n) / float64(divisor)
	if coefficient == float64(int(coefficient)) {
		return fmt.Sprintf("%de%d", int(coefficient), exp)
	}
	return fmt.Sprintf("%.1fe%d", coefficient, exp)
}

// formatDecimal 將浮點數格式化為不含小數點的字串（用於檔名），如 1.07 -> 1_07
func formatDecimal(f float64) string {
	val := int(f*100 + 0.5)
	switch {
	case val%100 == 0:
		return fmt.Sprintf("%d", val/100)
	case val%10 == 0:
		return fmt.Sprintf("%d_%d", val/100, (val%100)/10)
	default:
		return fmt.Sprintf("%d_%02d", val/100, val%100)
	}
}
