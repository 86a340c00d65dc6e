package dataset

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds per-column statistics. Mean, Std, Min and Max are
// set for numeric columns only; Top and TopFreq for categorical ones.
type ColumnSummary struct {
	Name    string     `json:"name"`
	Kind    ColumnKind `json:"kind"`
	Count   int        `json:"count"`
	Missing int        `json:"missing"`
	Unique  int        `json:"unique"`
	Mean    float64    `json:"mean,omitempty"`
	Std     float64    `json:"std,omitempty"`
	Min     float64    `json:"min,omitempty"`
	Max     float64    `json:"max,omitempty"`
	Top     string     `json:"top,omitempty"`
	TopFreq int        `json:"freq,omitempty"`
}

// LabelCount is the frequency of one label value.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is an exploratory overview of a table.
type Summary struct {
	Rows    int             `json:"rows"`
	Cols    int             `json:"cols"`
	Columns []ColumnSummary `json:"columns"`
	Labels  []LabelCount    `json:"labels"`
}

// Describe summarizes t. Missing cells are those already sanitized.
func Describe(t *Table) Summary {
	s := Summary{
		Rows:    t.NumRows(),
		Cols:    t.NumCols(),
		Columns: make([]ColumnSummary, t.NumCols()),
		Labels:  LabelDistribution(t),
	}
	missing := MissingCounts(t)

	for j, col := range t.Schema.Columns {
		cs := ColumnSummary{
			Name:    col.Name,
			Kind:    col.Kind,
			Missing: missing[j],
		}
		counts := valueCounts(t, j)
		cs.Unique = len(counts)
		cs.Count = t.NumRows() - cs.Missing

		if col.Kind == Numeric {
			xs := numericColumn(t, j)
			if len(xs) > 0 {
				cs.Mean = stat.Mean(xs, nil)
				if len(xs) > 1 {
					cs.Std = stat.StdDev(xs, nil)
				}
				cs.Min = floats.Min(xs)
				cs.Max = floats.Max(xs)
			}
		} else if len(counts) > 0 {
			top := mostFrequent(counts)
			cs.Top, cs.TopFreq = top.Label, top.Count
		}
		s.Columns[j] = cs
	}
	return s
}

// MissingCounts returns the number of missing cells per column.
func MissingCounts(t *Table) []int {
	counts := make([]int, t.NumCols())
	for _, row := range t.Rows {
		for j, v := range row {
			if v.IsMissing() {
				counts[j]++
			}
		}
	}
	return counts
}

// UniqueValues returns the distinct raw values of column j, sorted.
// Missing cells are not included.
func UniqueValues(t *Table, j int) []string {
	counts := valueCounts(t, j)
	out := make([]string, 0, len(counts))
	for v := range counts {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// LabelDistribution counts the values of the last column, most frequent first.
func LabelDistribution(t *Table) []LabelCount {
	if t.NumCols() == 0 {
		return nil
	}
	counts := valueCounts(t, t.NumCols()-1)
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sortLabelCounts(out)
	return out
}

// MostFrequent returns the most frequent non-missing raw value of column j
// with ties going to the lexicographically smallest value. ok is false when
// the column has no observed values.
func MostFrequent(t *Table, j int) (value string, ok bool) {
	counts := valueCounts(t, j)
	if len(counts) == 0 {
		return "", false
	}
	return mostFrequent(counts).Label, true
}

func mostFrequent(counts map[string]int) LabelCount {
	best := LabelCount{Count: -1}
	for v, n := range counts {
		if n > best.Count || (n == best.Count && v < best.Label) {
			best = LabelCount{Label: v, Count: n}
		}
	}
	return best
}

func sortLabelCounts(lc []LabelCount) {
	sort.Slice(lc, func(a, b int) bool {
		if lc[a].Count != lc[b].Count {
			return lc[a].Count > lc[b].Count
		}
		return lc[a].Label < lc[b].Label
	})
}

func valueCounts(t *Table, j int) map[string]int {
	counts := make(map[string]int)
	for _, row := range t.Rows {
		if v := row[j]; !v.IsMissing() {
			counts[v.Raw]++
		}
	}
	return counts
}

func numericColumn(t *Table, j int) []float64 {
	xs := make([]float64, 0, t.NumRows())
	for _, row := range t.Rows {
		if f, ok := row[j].Float(); ok {
			xs = append(xs, f)
		}
	}
	return xs
}

// NumericColumn returns the numbers of column j, skipping other cells.
func NumericColumn(t *Table, j int) []float64 {
	return numericColumn(t, j)
}
