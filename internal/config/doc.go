// Package config provides configuration structures and utilities for spdoc.
// It defines the options for generating documentation from record files,
// the output formats and destinations, and the optional .spdoc file with
// per-procedure settings and theme overrides.
package config
