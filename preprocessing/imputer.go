package preprocessing

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/dataset"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// SimpleImputer fills missing cells column by column: numeric columns with
// the mean of their observed values, categorical columns with the most
// frequent observed value (ties go to the lexicographically smallest).
//
// The pipeline fits one imputer per subset, so training and evaluation
// statistics never mix.
type SimpleImputer struct {
	state *model.StateManager

	subset     string
	statistics []dataset.Value
}

// ImputerOption configures a SimpleImputer.
type ImputerOption func(*SimpleImputer)

// WithSubset names the subset the imputer is fitted on. The name appears in
// logs and in ImputationError.
func WithSubset(name string) ImputerOption {
	return func(s *SimpleImputer) {
		s.subset = name
	}
}

// NewSimpleImputer creates an unfitted imputer.
func NewSimpleImputer(opts ...ImputerOption) *SimpleImputer {
	s := &SimpleImputer{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit computes a fill value for every column of t. A column that has no
// observed value returns an ImputationError.
func (s *SimpleImputer) Fit(t *dataset.Table) error {
	if t.NumRows() == 0 || t.NumCols() == 0 {
		return errors.NewModelError("SimpleImputer.Fit", "empty data", errors.ErrEmptyData)
	}

	stats := make([]dataset.Value, t.NumCols())
	for j, col := range t.Schema.Columns {
		var (
			fill dataset.Value
			ok   bool
		)
		if col.Kind == dataset.Numeric {
			fill, ok = columnMean(t, j)
		} else {
			fill, ok = columnMode(t, j)
		}
		if !ok {
			s.state.Reset()
			return errors.NewImputationError(col.Name, s.subset)
		}
		stats[j] = fill
	}

	s.statistics = stats
	s.state.SetDimensions(t.NumCols(), t.NumRows())
	s.state.SetFitted()
	return nil
}

// Transform returns a copy of t with every missing cell replaced by the
// fitted statistic of its column. A table without missing cells comes back
// value-equal.
func (s *SimpleImputer) Transform(t *dataset.Table) (*dataset.Table, error) {
	if err := s.state.RequireFitted("SimpleImputer", "Transform"); err != nil {
		return nil, err
	}
	if err := s.state.CheckFeatures("SimpleImputer.Transform", t.NumCols()); err != nil {
		return nil, err
	}

	start := time.Now()
	out := t.Clone()
	filled := make([]int, t.NumCols())
	total := 0
	for _, row := range out.Rows {
		for j, v := range row {
			if v.IsMissing() {
				row[j] = s.statistics[j]
				filled[j]++
				total++
			}
		}
	}

	logger := log.GetLoggerWithName("preprocessing").With(
		log.ModelNameKey, "SimpleImputer",
		log.PhaseKey, s.subset,
	)
	for j, n := range filled {
		if n > 0 {
			logger.Debug("Imputed column",
				log.ColumnKey, t.Schema.Columns[j].Name,
				log.MissingKey, n,
				"fill", s.statistics[j].String(),
			)
		}
	}
	logger.Info("Imputed missing values",
		log.StageKey, log.StageImpute,
		log.MissingKey, total,
		log.DurationMsKey, time.Since(start),
	)
	return out, nil
}

// FitTransform fits on t and fills t.
func (s *SimpleImputer) FitTransform(t *dataset.Table) (*dataset.Table, error) {
	if err := s.Fit(t); err != nil {
		return nil, err
	}
	return s.Transform(t)
}

// Statistics returns the fitted fill value per column.
func (s *SimpleImputer) Statistics() []dataset.Value {
	return append([]dataset.Value(nil), s.statistics...)
}

// GetParams returns the imputer configuration.
func (s *SimpleImputer) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"numeric_strategy":     "mean",
		"categorical_strategy": "most_frequent",
		"subset":               s.subset,
	}
}

func columnMean(t *dataset.Table, j int) (dataset.Value, bool) {
	xs := dataset.NumericColumn(t, j)
	if len(xs) == 0 {
		return dataset.Missing(), false
	}
	return dataset.Number(stat.Mean(xs, nil)), true
}

func columnMode(t *dataset.Table, j int) (dataset.Value, bool) {
	raw, ok := dataset.MostFrequent(t, j)
	if !ok {
		return dataset.Missing(), false
	}
	// reuse an observed cell so the fill keeps its original kind
	for _, row := range t.Rows {
		if v := row[j]; !v.IsMissing() && v.Raw == raw {
			return v, true
		}
	}
	return dataset.Parse(raw), true
}
