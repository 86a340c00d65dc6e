package preprocessing

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/madankc71/Credit-Card-Approval-Prediction/core/model"
	"github.com/madankc71/Credit-Card-Approval-Prediction/dataset"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/log"
)

// OneHotEncoder expands categorical feature columns into 0/1 indicator
// columns in place and keeps numeric columns as they are. The last column is
// the target: it stays a single column, numeric labels pass through and
// categorical labels become 1 for the positive label and 0 otherwise.
// The other labels are not emitted unless WithLabelIndicators is set: they
// are a function of the target and would leak it into the features.
//
// Indicator columns are named "<column>_<category>" with categories sorted;
// numeric columns keep their name. The fitted names are the schema of record
// for every frame this encoder produces.
type OneHotEncoder struct {
	state *model.StateManager

	positiveLabel   string
	labelIndicators bool

	schema      dataset.Schema
	categories  map[int][]string
	positive    string
	otherLabels []string
	names       []string
}

// EncoderOption configures a OneHotEncoder.
type EncoderOption func(*OneHotEncoder)

// WithPositiveLabel sets the categorical label encoded as 1. When empty the
// lexicographically last training label is used.
func WithPositiveLabel(label string) EncoderOption {
	return func(e *OneHotEncoder) {
		e.positiveLabel = label
	}
}

// WithLabelIndicators also emits an indicator feature for every
// non-positive training label, placed just before the target, the way
// get_dummies expands the label column of the whole frame. Those features
// determine the target exactly.
func WithLabelIndicators(enabled bool) EncoderOption {
	return func(e *OneHotEncoder) {
		e.labelIndicators = enabled
	}
}

// NewOneHotEncoder creates an unfitted encoder.
func NewOneHotEncoder(opts ...EncoderOption) *OneHotEncoder {
	e := &OneHotEncoder{state: model.NewStateManager()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fit learns the categories of every categorical feature column of t and
// resolves the positive label.
func (e *OneHotEncoder) Fit(t *dataset.Table) error {
	nCols := t.NumCols()
	if nCols < 2 {
		return errors.NewSchemaError("OneHotEncoder.Fit", "need at least one feature and the target", nCols)
	}
	if t.NumRows() == 0 {
		return errors.NewModelError("OneHotEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	target := t.Schema.TargetIndex()
	categories := make(map[int][]string)
	var names []string
	for j, col := range t.Schema.Columns {
		if j == target {
			continue
		}
		if col.Kind == dataset.Numeric {
			names = append(names, col.Name)
			continue
		}
		cats := dataset.UniqueValues(t, j)
		categories[j] = cats
		for _, c := range cats {
			names = append(names, indicatorName(col.Name, c))
		}
	}

	targetCol := t.Schema.Columns[target]
	positive := ""
	var others []string
	if targetCol.Kind == dataset.Categorical {
		labels := dataset.UniqueValues(t, target)
		if len(labels) == 0 {
			return errors.NewValueError("OneHotEncoder.Fit", "target column has no observed labels")
		}
		positive = e.positiveLabel
		if positive == "" {
			positive = labels[len(labels)-1]
		}
		if e.labelIndicators {
			for _, l := range labels {
				if l != positive {
					others = append(others, l)
					names = append(names, indicatorName(targetCol.Name, l))
				}
			}
		}
		names = append(names, indicatorName(targetCol.Name, positive))
	} else {
		names = append(names, targetCol.Name)
	}

	e.schema = t.Schema.Clone()
	e.categories = categories
	e.positive = positive
	e.otherLabels = others
	e.names = names
	e.state.SetDimensions(len(names)-1, t.NumRows())
	e.state.SetFitted()
	return nil
}

// Transform encodes t against the fitted categories. Categories unseen
// during Fit produce all-zero indicators. Missing cells are rejected.
func (e *OneHotEncoder) Transform(t *dataset.Table) (*Frame, error) {
	if err := e.state.RequireFitted("OneHotEncoder", "Transform"); err != nil {
		return nil, err
	}
	if t.NumCols() != e.schema.Len() {
		return nil, errors.NewDimensionError("OneHotEncoder.Transform", e.schema.Len(), t.NumCols(), 1)
	}
	if t.NumRows() == 0 {
		return nil, errors.NewModelError("OneHotEncoder.Transform", "empty data", errors.ErrEmptyData)
	}

	// column offset of every source column in the output
	target := e.schema.TargetIndex()
	offsets := make([]int, e.schema.Len())
	index := make(map[int]map[string]int, len(e.categories))
	k := 0
	for j, col := range e.schema.Columns {
		offsets[j] = k
		if j != target && col.Kind == dataset.Categorical {
			idx := make(map[string]int, len(e.categories[j]))
			for c, cat := range e.categories[j] {
				idx[cat] = c
			}
			index[j] = idx
			k += len(e.categories[j])
		} else if j == target && len(e.otherLabels) > 0 {
			idx := make(map[string]int, len(e.otherLabels))
			for c, l := range e.otherLabels {
				idx[l] = c
			}
			index[j] = idx
			k += len(e.otherLabels) + 1
		} else {
			k++
		}
	}

	data := mat.NewDense(t.NumRows(), len(e.names), nil)
	for i, row := range t.Rows {
		for j, v := range row {
			col := e.schema.Columns[j]
			if v.IsMissing() {
				return nil, errors.NewValueError("OneHotEncoder.Transform",
					fmt.Sprintf("column %s row %d is missing; impute before encoding", col.Name, i))
			}
			switch {
			case j == target && col.Kind == dataset.Categorical:
				if v.Raw == e.positive {
					data.Set(i, offsets[j]+len(e.otherLabels), 1)
				} else if c, ok := index[j][v.Raw]; ok {
					data.Set(i, offsets[j]+c, 1)
				}
			case col.Kind == dataset.Numeric:
				f, ok := v.Float()
				if !ok {
					return nil, errors.NewValueError("OneHotEncoder.Transform",
						fmt.Sprintf("column %s row %d holds non-numeric value %q", col.Name, i, v.Raw))
				}
				data.Set(i, offsets[j], f)
			default:
				if c, ok := index[j][v.Raw]; ok {
					data.Set(i, offsets[j]+c, 1)
				}
			}
		}
	}
	return NewFrame(e.names, data)
}

// FitTransform fits on t and encodes it. The result carries the schema of
// record.
func (e *OneHotEncoder) FitTransform(t *dataset.Table) (*Frame, error) {
	if err := e.Fit(t); err != nil {
		return nil, err
	}
	return e.Transform(t)
}

// Names returns the fitted output column names, target last.
func (e *OneHotEncoder) Names() []string {
	return append([]string(nil), e.names...)
}

// PositiveLabel returns the resolved positive label, empty for a numeric target.
func (e *OneHotEncoder) PositiveLabel() string {
	return e.positive
}

// Categories returns the sorted categories learned for column j.
func (e *OneHotEncoder) Categories(j int) []string {
	return append([]string(nil), e.categories[j]...)
}

// GetParams returns the encoder configuration.
func (e *OneHotEncoder) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"positive_label":   e.positiveLabel,
		"label_indicators": e.labelIndicators,
	}
}

// EncodeAligned encodes both subsets the way a data frame's get_dummies plus
// reindex would: each subset is expanded against its own categories, then
// the evaluation frame is conformed to the training columns, adding missing
// indicators as 0 and dropping evaluation-only ones.
func EncodeAligned(train, test *dataset.Table, opts ...EncoderOption) (trainFrame, testFrame *Frame, enc *OneHotEncoder, err error) {
	enc = NewOneHotEncoder(opts...)
	trainFrame, err = enc.FitTransform(train)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "encode training subset")
	}

	// same positive label on both sides so the target means the same thing
	testEnc := NewOneHotEncoder(WithPositiveLabel(enc.PositiveLabel()), WithLabelIndicators(enc.labelIndicators))
	own, err := testEnc.FitTransform(test)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "encode evaluation subset")
	}
	testFrame = own.Reindex(trainFrame.Names, 0)

	_, trainCols := trainFrame.Dims()
	_, ownCols := own.Dims()
	log.GetLoggerWithName("preprocessing").Info("Encoded subsets",
		log.StageKey, log.StageEncode,
		"train_columns", trainCols,
		"test_columns_before_align", ownCols,
		"positive_label", enc.PositiveLabel(),
	)
	return trainFrame, testFrame, enc, nil
}

func indicatorName(column, category string) string {
	return column + "_" + category
}
