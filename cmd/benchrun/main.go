package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Hakuto4838/OrderedDict.git/bench"
	"github.com/Hakuto4838/OrderedDict.git/datastream"
)

type flags struct {
	config      string
	file        string
	impls       string
	seed        int64
	times       int
	minExp      int
	maxExp      int
	runs        int
	verify      bool
	agree       bool
	noProgress  bool
	writeConfig bool
}

func main() {
	var f flags

	var rootCmd = &cobra.Command{
		Use:   "benchrun",
		Short: "Time AVL tree and skip list operations over growing sizes",
		Long: `benchrun fills every engine to 2^m-1 entries for each size exponent m,
then times insert, find, closest-key-after and remove, interleaving every
operation across the engines. The workload comes from --file or is
generated from the config file and flags.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(cmd, &f); err != nil {
				log.Fatalf("benchrun: %v", err)
			}
		},
	}

	fl := rootCmd.Flags()
	fl.StringVar(&f.config, "config", "dictbench.yaml", "YAML config file; defaults apply when it does not exist")
	fl.StringVar(&f.file, "file", "", "existing workload file (DICTBEN1 format)")
	fl.StringVar(&f.impls, "impl", "", "implementations to run: all or comma list (avl,skip,basic)")
	fl.Int64Var(&f.seed, "seed", 1, "seed for the workload and the skip list coins")
	fl.IntVar(&f.times, "times", 0, "operations of each kind per size")
	fl.IntVar(&f.minExp, "min-exp", 0, "smallest size exponent")
	fl.IntVar(&f.maxExp, "max-exp", 0, "largest size exponent")
	fl.IntVar(&f.runs, "runs", 0, "how many times to repeat the workload")
	fl.BoolVar(&f.verify, "verify", false, "validate engine invariants after every round")
	fl.BoolVar(&f.agree, "agree", true, "fail when engines disagree on any result")
	fl.BoolVar(&f.noProgress, "no-progress", false, "log each round instead of drawing a progress bar")
	fl.BoolVar(&f.writeConfig, "write-config", false, "write the default config to --config and exit")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, f *flags) error {
	fs := afero.NewOsFs()
	if f.writeConfig {
		if err := bench.WriteDefaultConfig(fs, f.config); err != nil {
			return err
		}
		fmt.Printf("default config written to %s\n", f.config)
		return nil
	}

	config, err := bench.LoadConfig(fs, f.config)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, config)
	if err := config.Validate(); err != nil {
		return err
	}

	impls, err := bench.ParseImpls(strings.Join(config.Impls, ","))
	if err != nil {
		return err
	}

	var wl *datastream.Workload
	if f.file != "" {
		wl, err = datastream.ReadWorkloadFile(fs, f.file)
		fmt.Printf("bench_file: %s\n", f.file)
	} else {
		wl, err = datastream.GenerateWorkload(config.Workload)
		fmt.Printf("Key range: (%d, %d)\nNumber of times: %d for every size\n",
			config.Workload.MinKey, config.Workload.MaxKey, config.Workload.Times)
	}
	if err != nil {
		return err
	}
	fmt.Printf("implementations to test: %s\n", strings.Join(impls, ","))
	fmt.Println(strings.Repeat("=", 80))

	opts := []bench.Option{
		bench.WithVerify(config.Verify),
		bench.WithAgreement(config.Agreement),
		bench.WithRuns(config.Runs),
	}
	if !f.noProgress {
		bar := progressbar.NewOptions(wl.OpCount()*config.Runs,
			progressbar.OptionSetDescription("replaying operations"),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
		opts = append(opts,
			bench.WithLogger(bench.NopLogger()),
			bench.WithProgress(func(delta int) { bar.Add(delta) }),
		)
	}

	rep, err := bench.NewRunner(opts...).Run(cmd.Context(), wl, impls, config.Seed)
	if err != nil {
		return err
	}
	bench.RenderReport(os.Stdout, rep)
	return nil
}

// applyFlags 只覆寫使用者明確指定的旗標
func applyFlags(cmd *cobra.Command, f *flags, config *bench.Config) {
	changed := cmd.Flags().Changed
	if changed("impl") {
		config.Impls = strings.Split(f.impls, ",")
	}
	if changed("seed") {
		config.Seed = f.seed
		config.Workload.Seed = f.seed
	}
	if changed("times") {
		config.Workload.Times = f.times
	}
	if changed("min-exp") || changed("max-exp") {
		exps := config.Workload.Exponents
		if len(exps) == 0 {
			exps = datastream.DefaultWorkloadConfig().Exponents
		}
		lo, hi := exps[0], exps[len(exps)-1]
		if changed("min-exp") {
			lo = f.minExp
		}
		if changed("max-exp") {
			hi = f.maxExp
		}
		config.Workload.Exponents = nil
		for m := lo; m <= hi; m++ {
			config.Workload.Exponents = append(config.Workload.Exponents, m)
		}
	}
	if changed("runs") {
		config.Runs = f.runs
	}
	if changed("verify") {
		config.Verify = f.verify
	}
	if changed("agree") {
		config.Agreement = f.agree
	}
}
