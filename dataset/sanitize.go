package dataset

import (
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// Sanitize returns a copy of t in which every cell whose raw text equals
// placeholder is the missing marker. Other cells are untouched.
func Sanitize(t *Table, placeholder string) *Table {
	out := t.Clone()
	replaced := 0
	for _, row := range out.Rows {
		for j, v := range row {
			if !v.IsMissing() && v.Raw == placeholder {
				row[j] = Missing()
				replaced++
			}
		}
	}

	log.GetLoggerWithName("dataset").Debug("Sanitized placeholders",
		log.StageKey, log.StageSanitize,
		"placeholder", placeholder,
		log.MissingKey, replaced,
	)
	return out
}
