package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/madankc71/Credit-Card-Approval-Prediction/dataset"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pipeline"
)

var (
	describeData         string
	describeFormat       string
	describeSanitizedOut string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the columns and label balance of a dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("data") {
			cfg.Data.Path = describeData
		}
		opts, err := cfg.LoadOptions()
		if err != nil {
			return err
		}
		table, err := dataset.Load(cfg.Data.Path, opts)
		if err != nil {
			return err
		}
		sanitized := dataset.Sanitize(table, cfg.Data.Placeholder)

		if describeSanitizedOut != "" {
			if err := writeSanitized(describeSanitizedOut, sanitized, cfg.Data.Placeholder); err != nil {
				return err
			}
		}

		summary := dataset.Describe(sanitized)
		switch describeFormat {
		case pipeline.FormatJSON:
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		case pipeline.FormatText:
			return writeSummary(cmd.OutOrStdout(), summary)
		default:
			return errors.NewValidationError("format", "must be text or json", describeFormat)
		}
	},
}

func writeSanitized(path string, t *dataset.Table, placeholder string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewDataAccessError(path, 0, err)
	}
	defer f.Close()
	return dataset.WriteCSV(f, t, placeholder)
}

func writeSummary(w io.Writer, s dataset.Summary) error {
	fmt.Fprintf(w, "rows=%d columns=%d\n\n", s.Rows, s.Cols)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tKIND\tCOUNT\tMISSING\tUNIQUE\tMEAN\tSTD\tMIN\tMAX\tTOP\tFREQ")
	for _, c := range s.Columns {
		if c.Kind == dataset.Numeric {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%.4g\t%.4g\t%.4g\t%.4g\t\t\n",
				c.Name, c.Kind, c.Count, c.Missing, c.Unique, c.Mean, c.Std, c.Min, c.Max)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t\t\t\t\t%s\t%d\n",
			c.Name, c.Kind, c.Count, c.Missing, c.Unique, c.Top, c.TopFreq)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nlabels:")
	for _, l := range s.Labels {
		fmt.Fprintf(w, "  %s\t%d\n", l.Label, l.Count)
	}
	return nil
}

func init() {
	f := describeCmd.Flags()
	f.StringVar(&describeData, "data", "", "path to the credit application CSV")
	f.StringVar(&describeFormat, "format", pipeline.FormatText, "output format: text or json")
	f.StringVar(&describeSanitizedOut, "sanitized-out", "", "also write the sanitized table to this CSV path")
	rootCmd.AddCommand(describeCmd)
}
