package config

import (
	"fmt"
	"maps"

	"github.com/nao1215/spdoc/internal/model"
	"github.com/nao1215/spdoc/internal/report"
	"github.com/nao1215/spdoc/internal/style"
)

// ProcedureConfig holds settings for a single procedure.
// Keys of File.Procedures are qualified names such as "dbo.usp_Customer_Update".
type ProcedureConfig struct {
	// Mode overrides the record's mode ("standard" or "qa").
	// Empty keeps the record's own mode.
	Mode string `yaml:"mode,omitempty"`

	// Formats overrides the output formats for this procedure.
	Formats []string `yaml:"formats,omitempty"`

	// OutputDir overrides the output directory for this procedure.
	OutputDir string `yaml:"outputDir,omitempty"`
}

// File represents the structure of the .spdoc configuration file.
type File struct {
	// Procedures maps qualified procedure names to their settings.
	Procedures map[string]ProcedureConfig `yaml:"procedures,omitempty"`

	// Defaults contains settings applied to every procedure unless
	// overridden in the procedure-specific configuration.
	Defaults ProcedureConfig `yaml:"defaults,omitempty"`

	// Styles overrides entries of the default theme, keyed by style tag.
	Styles map[style.Tag]style.Override `yaml:"styles,omitempty"`
}

// GetProcedureConfig returns the configuration for a specific procedure.
// It merges the procedure-specific configuration with defaults.
func (cf *File) GetProcedureConfig(qualifiedName string) ProcedureConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with procedure-specific configuration if present
	if pc, ok := cf.Procedures[qualifiedName]; ok {
		if pc.Mode != "" {
			result.Mode = pc.Mode
		}
		if len(pc.Formats) > 0 {
			result.Formats = pc.Formats
		}
		if pc.OutputDir != "" {
			result.OutputDir = pc.OutputDir
		}
	}

	return result
}

// Theme returns the default theme with the file's style overrides applied.
// Overrides for tags the assembler never emits are rejected so that a
// misspelled tag does not go unnoticed.
func (cf *File) Theme() (*style.Theme, error) {
	if cf == nil || len(cf.Styles) == 0 {
		return style.DefaultTheme(), nil
	}

	known := make(map[style.Tag]bool)
	for _, tag := range style.AllTags() {
		known[tag] = true
	}
	for tag := range maps.Keys(cf.Styles) {
		if !known[tag] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStyleTag, tag)
		}
	}

	return style.DefaultTheme().With(cf.Styles)
}

// Validate checks the mode and format names of the file.
func (cf *File) Validate() error {
	if err := cf.Defaults.validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for name, pc := range cf.Procedures {
		if err := pc.validate(); err != nil {
			return fmt.Errorf("procedure %s: %w", name, err)
		}
	}
	return nil
}

func (pc ProcedureConfig) validate() error {
	if _, err := model.ParseMode(pc.Mode); err != nil {
		return err
	}
	for _, name := range pc.Formats {
		if _, err := report.ParseFormat(name); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
	}
	return nil
}
