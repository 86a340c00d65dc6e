// Standard attribute keys for pipeline logging.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so JSON output can be filtered by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator or transformer.
	// Examples: "LogisticRegression", "SimpleImputer", "MinMaxScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// PhaseKey indicates which subset the operation runs on.
	PhaseKey = "ml.phase"
)

// Pipeline Context
const (
	// RunIDKey carries the identifier of a single pipeline run.
	RunIDKey = "run.id"

	// StageKey names the pipeline stage ("load", "sanitize", "split", ...).
	StageKey = "pipeline.stage"

	// VariantKey distinguishes raw and normalized feature sets.
	VariantKey = "pipeline.variant"

	// ColumnKey names a single table column.
	ColumnKey = "data.column"

	// MissingKey records how many cells were missing.
	MissingKey = "data.missing"

	// PathKey records the input file path.
	PathKey = "data.path"
)

// Data Shape
const (
	// SamplesKey indicates the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of distinct target labels.
	ClassesKey = "data.classes"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LossKey records a training loss value.
	LossKey = "metrics.loss"

	// IterationKey records the current iteration number during iterative fitting.
	IterationKey = "training.iteration"
)

// Hyperparameters and Configuration
const (
	LearningRateKey = "hyperparams.learning_rate"
	EstimatorsKey   = "hyperparams.n_estimators"
	MaxDepthKey     = "hyperparams.max_depth"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// ConfigFileKey records which configuration file was loaded, if any.
	ConfigFileKey = "config.file"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides a hint for resolving an issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"

	PhaseTraining   = "train"
	PhaseEvaluation = "test"

	StageLoad      = "load"
	StageSanitize  = "sanitize"
	StageSplit     = "split"
	StageImpute    = "impute"
	StageEncode    = "encode"
	StageSegregate = "segregate"
	StageNormalize = "normalize"
	StageTrain     = "train"
	StageEvaluate  = "evaluate"

	VariantRaw        = "raw"
	VariantNormalized = "normalized"
)
