// Package creditapproval predicts whether a credit card application is
// approved from the anonymized UCI "crx" credit approval table.
//
// The work happens in subpackages:
//
//   - dataset loads the CSV, infers a schema and turns the "?" placeholder
//     into missing cells, then splits rows into training and evaluation
//     subsets with a seeded shuffle.
//   - preprocessing imputes each subset (mean for numeric columns, mode for
//     categorical ones), one-hot encodes categorical columns against the
//     training schema, separates features from the target and optionally
//     min-max scales the features.
//   - sklearn/linear_model, sklearn/tree and sklearn/ensemble provide logistic
//     regression, a CART decision tree, a random forest and gradient boosted
//     trees behind one Fit/Predict/PredictProba interface.
//   - metrics computes accuracy, the confusion matrix, precision, recall,
//     F1, log loss and ROC AUC.
//   - pipeline wires the stages together and renders the report.
//
// # Quick Start
//
//	cfg := pipeline.DefaultConfig()
//	cfg.Data.Path = "crx.data"
//	report, err := pipeline.Run(context.Background(), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.Write(os.Stdout, pipeline.FormatText)
//
// The creditapproval command under cmd/ exposes the same run along with a
// dataset summary and config file scaffolding.
//
// # Error Handling
//
// Errors are built with github.com/cockroachdb/errors through pkg/errors and
// carry stack traces. Typed errors such as ImputationError, NotFittedError
// and ValidationError can be matched with errors.As.
package creditapproval
