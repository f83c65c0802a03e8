package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Threshold errors wrap ErrInvalidThreshold with
// the offending key.
var (
	// ErrNoInput is returned when no record file is given.
	ErrNoInput = errors.New("no input specified: provide at least one record file (.json, .jsonl or .ndjson)")

	// ErrInvalidFormat is returned when the output format is not supported.
	ErrInvalidFormat = errors.New("invalid format: must be one of xlsx, markdown, json")

	// ErrInvalidConcurrency is returned when parallel evaluation is requested
	// with a non-positive concurrency.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrNoDBDir is returned when history saving is enabled without a directory.
	ErrNoDBDir = errors.New("history database directory is empty")

	// ErrInvalidThreshold is returned when a threshold is out of range or
	// a banded pair is out of order.
	ErrInvalidThreshold = errors.New("invalid threshold")
)
