// Package pipeline wires the credit approval stages together: sanitize,
// split, per-subset imputation, one-hot encoding aligned to the training
// schema, feature/target separation, optional min-max scaling, then fitting
// and scoring each configured classifier on raw and normalized features.
//
// Every stage receives its inputs explicitly, so a Run holds no shared state
// and concurrent runs with different configurations are independent.
package pipeline
