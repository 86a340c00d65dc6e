package dataset

import (
	"fmt"
	"strconv"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// ColumnKind decides how a column is imputed and encoded.
type ColumnKind int

const (
	Numeric ColumnKind = iota
	Categorical
)

func (k ColumnKind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// MarshalText lets ColumnKind appear by name in JSON and YAML.
func (k ColumnKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses "numeric" or "categorical".
func (k *ColumnKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "numeric":
		*k = Numeric
	case "categorical":
		*k = Categorical
	default:
		return errors.NewValidationError("kind", "must be numeric or categorical", string(b))
	}
	return nil
}

// Column describes one table column.
type Column struct {
	Index int        `json:"index"`
	Name  string     `json:"name"`
	Kind  ColumnKind `json:"kind"`
}

// Schema is the ordered column list of a table. The last column is the label.
type Schema struct {
	Columns []Column `json:"columns"`
}

// Len returns the number of columns.
func (s Schema) Len() int { return len(s.Columns) }

// TargetIndex returns the label column position, or -1 for an empty schema.
func (s Schema) TargetIndex() int { return len(s.Columns) - 1 }

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Clone returns a deep copy.
func (s Schema) Clone() Schema {
	cols := make([]Column, len(s.Columns))
	copy(cols, s.Columns)
	return Schema{Columns: cols}
}

// DefaultNames numbers columns "0", "1", ... like a headerless data frame.
func DefaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

// InferMode selects how column kinds are detected.
type InferMode int

const (
	// InferRaw treats a column as numeric only if every non-missing cell is
	// a number, so a column holding the placeholder is categorical.
	InferRaw InferMode = iota
	// InferSanitized ignores placeholder cells while inferring.
	InferSanitized
)

func (m InferMode) String() string {
	if m == InferSanitized {
		return "sanitized"
	}
	return "raw"
}

// ParseInferMode parses "raw" or "sanitized".
func ParseInferMode(s string) (InferMode, error) {
	switch s {
	case "", "raw":
		return InferRaw, nil
	case "sanitized":
		return InferSanitized, nil
	default:
		return InferRaw, errors.NewValidationError("infer_mode", "must be raw or sanitized", s)
	}
}

// InferSchema detects column kinds from cell values. names may be nil, and
// declared kinds override detection. Under InferRaw a column that is numeric
// apart from placeholder cells raises a DataConversionWarning.
func InferSchema(t *Table, mode InferMode, placeholder string, names []string, declared map[int]ColumnKind) (Schema, error) {
	nCols := t.NumCols()
	if names == nil {
		names = DefaultNames(nCols)
	}
	if len(names) != nCols {
		return Schema{}, errors.NewSchemaError("InferSchema", fmt.Sprintf("got %d column names", len(names)), nCols)
	}

	logger := log.GetLoggerWithName("dataset")
	cols := make([]Column, nCols)
	for j := 0; j < nCols; j++ {
		cols[j] = Column{Index: j, Name: names[j]}
		if kind, ok := declared[j]; ok {
			cols[j].Kind = kind
			continue
		}

		numbers, texts, placeholders := 0, 0, 0
		for _, row := range t.Rows {
			v := row[j]
			switch {
			case v.IsMissing():
			case placeholder != "" && v.Raw == placeholder:
				placeholders++
			case v.Kind == KindNumber:
				numbers++
			default:
				texts++
			}
		}

		switch {
		case texts > 0:
			cols[j].Kind = Categorical
		case placeholders > 0 && mode == InferRaw:
			cols[j].Kind = Categorical
			if numbers > 0 {
				errors.Warn(errors.NewDataConversionWarning("numeric", "categorical",
					fmt.Sprintf("column %s holds %d %q placeholder cells", names[j], placeholders, placeholder)))
			}
		default:
			cols[j].Kind = Numeric
		}
		logger.Debug("Inferred column kind",
			log.ColumnKey, names[j],
			"kind", cols[j].Kind.String(),
			"mode", mode.String(),
		)
	}
	return Schema{Columns: cols}, nil
}
