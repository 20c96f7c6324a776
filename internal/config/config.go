package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"

	"github.com/nao1215/spdoc/internal/model"
	"github.com/nao1215/spdoc/internal/report"
)

// Default configuration values.
const (
	// DefaultBatchSize of 4 concurrent generations keeps a batch run fast
	// without opening many output files at once. Assembly is CPU bound and
	// cheap; most of the time goes to file I/O.
	DefaultBatchSize = 4

	// DefaultOutputDir is the directory generated documents are written to.
	DefaultOutputDir = "."

	// DefaultTextWidth is the line width of the plain text format.
	DefaultTextWidth = report.DefaultTextWidth

	// MinTextWidth is the narrowest accepted text width.
	MinTextWidth = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "spdoc"
)

// DefaultFormats returns the formats used when none are configured.
func DefaultFormats() []string {
	return []string{string(report.FormatMarkdown)}
}

// Config holds all configuration options for spdoc.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., OutputConfig, HistoryConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Targets is the list of record files to generate documentation from.
	Targets []string

	// Formats lists the output formats by name (text, markdown, html, json).
	// Every target is rendered once per format.
	Formats []string

	// OutputDir is the directory generated files are written to.
	// Files are named "<schema>.<procedure>.<ext>".
	OutputDir string

	// Stdout writes every rendered document to standard output instead of
	// files. OutputDir is ignored when set.
	Stdout bool

	// ForceQA renders every record in QA mode regardless of its mode field.
	ForceQA bool

	// TextWidth is the line width of the plain text format.
	TextWidth int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of records generated concurrently.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .spdoc in the current directory,
	// then in the user's home directory, then in the XDG config directory.
	ConfigFilePath string

	// File holds the settings loaded from the configuration file.
	// It is nil when no configuration file was found.
	File *File

	// DBDir is the directory path for storing the SQLite history database.
	// Defaults to XDG data directory (~/.local/share/spdoc on Linux).
	DBDir string

	// SaveToDB indicates whether generations are recorded in the history
	// database. Disabled by --no-history.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (batch size, formats,
// history). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Formats:   DefaultFormats(),
		OutputDir: DefaultOutputDir,
		TextWidth: DefaultTextWidth,
		BatchSize: DefaultBatchSize,
		DBDir:     XDGDataDir(),
		SaveToDB:  true,
	}
}

// XDGDataDir returns the XDG data directory for spdoc.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/spdoc
// On macOS: ~/Library/Application Support/spdoc
// On Windows: %LOCALAPPDATA%\spdoc
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for spdoc.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/spdoc
// On macOS: ~/Library/Application Support/spdoc
// On Windows: %APPDATA%\spdoc
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any record is read.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one record to document
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// BatchSize must be positive; zero would mean no generation
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if _, err := c.OutputFormats(); err != nil {
		return err
	}

	if !c.Stdout && c.OutputDir == "" {
		return ErrInvalidOutputDir
	}

	if c.TextWidth < MinTextWidth {
		return ErrInvalidTextWidth
	}

	return nil
}

// OutputFormats parses Formats into report formats.
// Duplicates and aliases of the same format collapse into one entry;
// the order of first appearance is kept.
func (c *Config) OutputFormats() ([]report.Format, error) {
	if len(c.Formats) == 0 {
		return nil, ErrNoFormat
	}

	formats := make([]report.Format, 0, len(c.Formats))
	for _, name := range c.Formats {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// OutputPath returns the path of the file that holds the rendering of the
// named procedure in format.
func (c *Config) OutputPath(qualifiedName string, format report.Format) string {
	return filepath.Join(c.OutputDir, qualifiedName+"."+report.FormatExtension(format))
}

// ApplyFileDefaults copies the defaults section of the configuration file
// into c. Values given on the command line win, so callers pass whether the
// corresponding flag was set.
func (c *Config) ApplyFileDefaults(formatsFromFlag, outputDirFromFlag bool) {
	if c.File == nil {
		return
	}
	if !formatsFromFlag && len(c.File.Defaults.Formats) > 0 {
		c.Formats = slices.Clone(c.File.Defaults.Formats)
	}
	if !outputDirFromFlag && c.File.Defaults.OutputDir != "" {
		c.OutputDir = c.File.Defaults.OutputDir
	}
}

// ForProcedure returns a copy of c with the procedure's entry of the
// configuration file applied. Procedure entries override the command line
// so that one procedure can be routed elsewhere in a batch run.
func (c *Config) ForProcedure(qualifiedName string) *Config {
	pc := *c
	if c.File == nil {
		return &pc
	}
	entry, ok := c.File.Procedures[qualifiedName]
	if !ok {
		return &pc
	}
	if len(entry.Formats) > 0 {
		pc.Formats = slices.Clone(entry.Formats)
	}
	if entry.OutputDir != "" {
		pc.OutputDir = entry.OutputDir
	}
	return &pc
}

// ResolveMode returns the mode a procedure is rendered in.
// ForceQA wins over everything, then the configuration file, then the
// record's own mode.
func (c *Config) ResolveMode(qualifiedName string, recordMode model.Mode) model.Mode {
	if c.ForceQA {
		return model.ModeQA
	}
	if c.File == nil {
		return recordMode
	}
	name := c.File.GetProcedureConfig(qualifiedName).Mode
	if name == "" {
		return recordMode
	}
	// The file was validated when loaded.
	mode, err := model.ParseMode(name)
	if err != nil {
		return recordMode
	}
	return mode
}
