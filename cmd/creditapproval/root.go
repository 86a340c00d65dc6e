package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pipeline"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

var (
	cfgFile  string
	logLevel string

	cfg pipeline.Config
)

var rootCmd = &cobra.Command{
	Use:           "creditapproval",
	Short:         "Credit card approval prediction",
	Long:          `creditapproval cleans a credit application table, trains logistic regression, random forest, decision tree and gradient boosting classifiers on it and reports their accuracy and confusion matrices.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.SetupLogger(logLevel, cmd.ErrOrStderr()); err != nil {
			return err
		}
		c, err := pipeline.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportFailure(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// reportFailure logs err with its stack trace and prints it for the user.
func reportFailure(w io.Writer, err error) {
	slog.Error("Command failed", log.ErrAttr(err))
	fmt.Fprintln(w, "Error:", err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}
