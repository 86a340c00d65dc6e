package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// DefaultPlaceholder is the missing-value token of the crx dataset.
const DefaultPlaceholder = "?"

// Options controls how a delimited file becomes a Table.
type Options struct {
	// Delimiter separates cells. Zero means ','.
	Delimiter rune
	// Header treats the first record as column names.
	Header bool
	// Names overrides column names. Ignored when nil.
	Names []string
	// Placeholder is the missing-value token consulted by schema inference.
	Placeholder string
	// Infer selects the schema inference mode.
	Infer InferMode
	// Kinds declares column kinds by position, overriding inference.
	Kinds map[int]ColumnKind
}

// DefaultOptions returns headerless comma-separated input with "?" as the
// placeholder and raw inference.
func DefaultOptions() Options {
	return Options{
		Delimiter:   ',',
		Placeholder: DefaultPlaceholder,
		Infer:       InferRaw,
	}
}

// Load reads the delimited file at path.
func Load(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataAccessError(path, 0, err)
	}
	defer f.Close()

	return readTable(bufio.NewReader(f), path, opts)
}

// Read reads a delimited table from r.
func Read(r io.Reader, opts Options) (*Table, error) {
	return readTable(r, "-", opts)
}

func readTable(r io.Reader, path string, opts Options) (*Table, error) {
	start := time.Now()
	logger := log.GetLoggerWithName("dataset")

	reader := csv.NewReader(r)
	reader.Comma = ','
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	// zero: the first record fixes the width for every following record
	reader.FieldsPerRecord = 0

	var (
		rows       [][]Value
		names      = opts.Names
		headerSeen bool
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, errors.NewDataAccessError(path, pe.Line, pe.Err)
			}
			return nil, errors.NewDataAccessError(path, 0, err)
		}

		if opts.Header && !headerSeen {
			headerSeen = true
			if names == nil {
				names = make([]string, len(rec))
				for j, cell := range rec {
					names[j] = strings.TrimSpace(cell)
				}
			}
			continue
		}

		row := make([]Value, len(rec))
		for j, cell := range rec {
			row[j] = Parse(strings.TrimSpace(cell))
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.NewDataAccessError(path, 0, errors.ErrEmptyData)
	}

	t := &Table{Rows: rows}
	schema, err := InferSchema(t, opts.Infer, opts.Placeholder, names, opts.Kinds)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	t.Schema = schema

	logger.Info("Loaded table",
		log.StageKey, log.StageLoad,
		log.PathKey, path,
		log.SamplesKey, t.NumRows(),
		log.FeaturesKey, t.NumCols(),
		log.DurationMsKey, time.Since(start),
	)
	return t, nil
}

// WriteCSV writes t as headerless delimited text, missing cells as
// placeholder.
func WriteCSV(w io.Writer, t *Table, placeholder string) error {
	cw := csv.NewWriter(w)
	rec := make([]string, t.NumCols())
	for i, row := range t.Rows {
		for j, v := range row {
			if v.IsMissing() {
				rec[j] = placeholder
			} else {
				rec[j] = v.Raw
			}
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, fmt.Sprintf("write row %d", i))
		}
	}
	cw.Flush()
	return cw.Error()
}
