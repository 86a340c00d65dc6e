package main

import (
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pipeline"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

var (
	runData        string
	runTestSize    float64
	runSeed        int64
	runNoNormalize bool
	runFormat      string
	runModels      []string
	runProgress    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train every configured classifier and report its accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("data") {
			cfg.Data.Path = runData
		}
		if f.Changed("test-size") {
			cfg.Split.TestSize = runTestSize
		}
		if f.Changed("seed") {
			cfg.Split.Seed = runSeed
		}
		if runNoNormalize {
			cfg.Normalize.Enabled = false
		}
		if f.Changed("models") {
			cfg.Models.Enabled = runModels
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var opts []pipeline.RunOption
		if progressEnabled(f.Changed("progress"), runProgress, cmd.ErrOrStderr()) {
			bar := pb.New(len(cfg.Jobs()))
			bar.Output = cmd.ErrOrStderr()
			bar.ShowTimeLeft = false
			bar.Start()
			defer bar.Finish()
			opts = append(opts, pipeline.WithObserver(func(pipeline.Result) { bar.Increment() }))
		}

		report, err := pipeline.Run(ctx, cfg, opts...)
		if err != nil {
			return err
		}
		return report.Write(cmd.OutOrStdout(), runFormat)
	},
}

// progressEnabled honours an explicit --progress and otherwise draws the bar
// only when w is a terminal.
func progressEnabled(set, requested bool, w io.Writer) bool {
	if set {
		return requested
	}
	return log.IsTerminal(w)
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runData, "data", "", "path to the credit application CSV")
	f.Float64Var(&runTestSize, "test-size", 0.25, "fraction of rows held out for evaluation")
	f.Int64Var(&runSeed, "seed", 2, "seed of the train/test shuffle")
	f.BoolVar(&runNoNormalize, "no-normalize", false, "skip the min-max scaled feature set")
	f.StringVar(&runFormat, "format", pipeline.FormatText, "report format: text or json")
	f.StringSliceVar(&runModels, "models", nil, "classifiers to train (default from config)")
	f.BoolVar(&runProgress, "progress", false, "show a progress bar on stderr (default: when stderr is a terminal)")
	rootCmd.AddCommand(runCmd)
}
