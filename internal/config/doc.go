// Package config provides configuration structures and utilities for seoaudit.
// It defines the run options (inputs, output format, history storage), the
// rule thresholds and page-type segments, and the YAML configuration file
// that can override them.
package config
