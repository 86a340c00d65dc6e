package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

// Output formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders the report in the given format.
func (r *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	default:
		return errors.NewValidationError("format", "must be text or json", format)
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(r), "encode report")
}

// WriteText writes a summary table followed by one confusion matrix per
// result, rows by true label.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", r.RunID)
	fmt.Fprintf(&b, "rows=%d columns=%d train=%d test=%d features=%d target=%s positive_label=%q\n\n",
		r.Rows, r.Columns, r.TrainRows, r.TestRows, r.Features, r.TargetName, r.PositiveLabel)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tVARIANT\tTRAIN ACC\tTEST ACC\tPRECISION\tRECALL\tF1\tAUC")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			res.Model, res.Variant, res.TrainAccuracy, res.TestAccuracy,
			res.Precision, res.Recall, res.F1, res.AUC)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "render summary")
	}

	for _, res := range r.Results {
		if res.Confusion == nil {
			continue
		}
		fmt.Fprintf(&b, "\nconfusion matrix: %s (%s)\n%s", res.Model, res.Variant, res.Confusion)
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write report")
}
