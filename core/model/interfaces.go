package model

import (
	"gonum.org/v1/gonum/mat"
)

// Classifier is what the pipeline needs from a model: fit on numeric
// features and 0/1 labels, then predict labels and class probabilities.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns an n_samples × n_classes matrix whose columns
	// follow Classes().
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting, ascending.
	Classes() []int
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
