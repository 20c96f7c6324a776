package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/spdoc/internal/model"
	"github.com/nao1215/spdoc/internal/report"
	"github.com/nao1215/spdoc/internal/style"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// This test ensures that defaults are documented through tests and that changes
// to defaults are intentional (tests will fail if defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Formats is markdown", func(t *testing.T) {
		t.Parallel()
		if len(cfg.Formats) != 1 || cfg.Formats[0] != "markdown" {
			t.Errorf("expected Formats to be [markdown], got %v", cfg.Formats)
		}
	})

	t.Run("default OutputDir is current directory", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "." {
			t.Errorf("expected OutputDir to be '.', got '%s'", cfg.OutputDir)
		}
	})

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default TextWidth is 70", func(t *testing.T) {
		t.Parallel()
		if cfg.TextWidth != 70 {
			t.Errorf("expected TextWidth to be 70, got %d", cfg.TextWidth)
		}
	})

	t.Run("history is enabled in the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default ForceQA and Stdout are false", func(t *testing.T) {
		t.Parallel()
		if cfg.ForceQA || cfg.Stdout {
			t.Error("expected ForceQA and Stdout to be false")
		}
	})

	t.Run("DefaultFormats returns a fresh slice", func(t *testing.T) {
		t.Parallel()
		a := DefaultFormats()
		a[0] = "json"
		if DefaultFormats()[0] != "markdown" {
			t.Error("expected DefaultFormats to be unaffected by caller mutation")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		return &Config{
			Targets:   []string{"usp_Customer_Update.yaml"},
			Formats:   []string{"markdown"},
			OutputDir: "docs",
			TextWidth: 70,
			BatchSize: 4,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config returns nil", mutate: func(*Config) {}, wantErr: nil},
		{name: "no targets", mutate: func(c *Config) { c.Targets = nil }, wantErr: ErrNoTarget},
		{name: "zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{name: "negative batch size", mutate: func(c *Config) { c.BatchSize = -1 }, wantErr: ErrInvalidBatchSize},
		{name: "no formats", mutate: func(c *Config) { c.Formats = nil }, wantErr: ErrNoFormat},
		{name: "unknown format", mutate: func(c *Config) { c.Formats = []string{"markdown", "docx"} }, wantErr: ErrUnknownFormat},
		{name: "empty output dir", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: ErrInvalidOutputDir},
		{name: "empty output dir with stdout", mutate: func(c *Config) { c.OutputDir = ""; c.Stdout = true }, wantErr: nil},
		{name: "narrow text width", mutate: func(c *Config) { c.TextWidth = 10 }, wantErr: ErrInvalidTextWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unknown format error names the format", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig()
		cfg.Formats = []string{"docx"}
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "docx") {
			t.Errorf("expected error mentioning docx, got %v", err)
		}
	})
}

// TestConfigOutputFormats tests format parsing and de-duplication.
func TestConfigOutputFormats(t *testing.T) {
	t.Parallel()

	cfg := &Config{Formats: []string{"md", "html", "markdown", "TEXT"}}
	got, err := cfg.OutputFormats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []report.Format{report.FormatMarkdown, report.FormatHTML, report.FormatText}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("format %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// TestConfigOutputPath tests output file naming.
func TestConfigOutputPath(t *testing.T) {
	t.Parallel()

	cfg := &Config{OutputDir: "docs"}
	got := cfg.OutputPath("dbo.usp_Customer_Update", report.FormatHTML)
	want := filepath.Join("docs", "dbo.usp_Customer_Update.html")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// TestFileGetProcedureConfig tests merging of defaults and per-procedure settings.
func TestFileGetProcedureConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: ProcedureConfig{
			Formats:   []string{"markdown"},
			OutputDir: "docs",
		},
		Procedures: map[string]ProcedureConfig{
			"qa.usp_Check_Orders": {
				Mode:    "qa",
				Formats: []string{"html", "json"},
			},
			"dbo.usp_Archive": {
				OutputDir: "docs/archive",
			},
		},
	}

	t.Run("returns defaults for unknown procedure", func(t *testing.T) {
		t.Parallel()

		pc := cf.GetProcedureConfig("dbo.usp_Unknown")
		if pc.Mode != "" {
			t.Errorf("expected empty mode, got %q", pc.Mode)
		}
		if pc.OutputDir != "docs" {
			t.Errorf("expected docs, got %q", pc.OutputDir)
		}
	})

	t.Run("overrides mode and formats", func(t *testing.T) {
		t.Parallel()

		pc := cf.GetProcedureConfig("qa.usp_Check_Orders")
		if pc.Mode != "qa" {
			t.Errorf("expected qa mode, got %q", pc.Mode)
		}
		if len(pc.Formats) != 2 || pc.Formats[0] != "html" {
			t.Errorf("expected [html json], got %v", pc.Formats)
		}
		if pc.OutputDir != "docs" {
			t.Errorf("expected default output dir, got %q", pc.OutputDir)
		}
	})

	t.Run("overrides output dir only", func(t *testing.T) {
		t.Parallel()

		pc := cf.GetProcedureConfig("dbo.usp_Archive")
		if pc.OutputDir != "docs/archive" {
			t.Errorf("expected docs/archive, got %q", pc.OutputDir)
		}
		if len(pc.Formats) != 1 || pc.Formats[0] != "markdown" {
			t.Errorf("expected default formats, got %v", pc.Formats)
		}
	})
}

// TestConfigApplyFileDefaults tests that file defaults only fill unset flags.
func TestConfigApplyFileDefaults(t *testing.T) {
	t.Parallel()

	newFile := func() *File {
		return &File{Defaults: ProcedureConfig{Formats: []string{"html"}, OutputDir: "docs"}}
	}

	t.Run("fills values not given on the command line", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.File = newFile()
		cfg.ApplyFileDefaults(false, false)

		if len(cfg.Formats) != 1 || cfg.Formats[0] != "html" {
			t.Errorf("expected [html], got %v", cfg.Formats)
		}
		if cfg.OutputDir != "docs" {
			t.Errorf("expected docs, got %q", cfg.OutputDir)
		}
	})

	t.Run("keeps command line values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Formats = []string{"json"}
		cfg.OutputDir = "out"
		cfg.File = newFile()
		cfg.ApplyFileDefaults(true, true)

		if len(cfg.Formats) != 1 || cfg.Formats[0] != "json" {
			t.Errorf("expected [json], got %v", cfg.Formats)
		}
		if cfg.OutputDir != "out" {
			t.Errorf("expected out, got %q", cfg.OutputDir)
		}
	})

	t.Run("no file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFileDefaults(false, false)
		if cfg.OutputDir != DefaultOutputDir {
			t.Errorf("expected default output dir, got %q", cfg.OutputDir)
		}
	})
}

// TestConfigForProcedure tests per-procedure routing.
func TestConfigForProcedure(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.OutputDir = "out"
	cfg.File = &File{
		Procedures: map[string]ProcedureConfig{
			"dbo.usp_Archive": {Formats: []string{"text"}, OutputDir: "archive"},
		},
	}

	pc := cfg.ForProcedure("dbo.usp_Archive")
	if pc.OutputDir != "archive" {
		t.Errorf("expected archive, got %q", pc.OutputDir)
	}
	if len(pc.Formats) != 1 || pc.Formats[0] != "text" {
		t.Errorf("expected [text], got %v", pc.Formats)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("ForProcedure modified the receiver: %q", cfg.OutputDir)
	}

	other := cfg.ForProcedure("dbo.usp_Other")
	if other.OutputDir != "out" {
		t.Errorf("expected out, got %q", other.OutputDir)
	}
}

// TestConfigResolveMode tests mode precedence.
func TestConfigResolveMode(t *testing.T) {
	t.Parallel()

	file := &File{
		Defaults: ProcedureConfig{Mode: "standard"},
		Procedures: map[string]ProcedureConfig{
			"qa.usp_Check_Orders": {Mode: "qa"},
		},
	}

	tests := []struct {
		name       string
		forceQA    bool
		file       *File
		procedure  string
		recordMode model.Mode
		want       model.Mode
	}{
		{name: "record mode without file", procedure: "dbo.usp_A", recordMode: model.ModeQA, want: model.ModeQA},
		{name: "procedure entry wins over record", file: file, procedure: "qa.usp_Check_Orders", recordMode: model.ModeStandard, want: model.ModeQA},
		{name: "defaults win over record", file: file, procedure: "dbo.usp_A", recordMode: model.ModeQA, want: model.ModeStandard},
		{name: "empty file mode keeps record", file: &File{}, procedure: "dbo.usp_A", recordMode: model.ModeQA, want: model.ModeQA},
		{name: "force qa wins", forceQA: true, file: file, procedure: "dbo.usp_A", recordMode: model.ModeStandard, want: model.ModeQA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.ForceQA = tt.forceQA
			cfg.File = tt.file

			if got := cfg.ResolveMode(tt.procedure, tt.recordMode); got != tt.want {
				t.Errorf("ResolveMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFileTheme tests theme construction from style overrides.
func TestFileTheme(t *testing.T) {
	t.Parallel()

	t.Run("nil file returns default theme", func(t *testing.T) {
		t.Parallel()

		var cf *File
		theme, err := cf.Theme()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := theme.Lookup(style.TagSectionHeading).Color; got != style.ColorPrimary {
			t.Errorf("expected default heading color, got %q", got)
		}
	})

	t.Run("applies overrides", func(t *testing.T) {
		t.Parallel()

		color := "#123456"
		cf := &File{Styles: map[style.Tag]style.Override{
			style.TagSectionHeading: {Color: &color},
		}}
		theme, err := cf.Theme()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := theme.Lookup(style.TagSectionHeading).Color; got != color {
			t.Errorf("expected %q, got %q", color, got)
		}
	})

	t.Run("rejects unknown tag", func(t *testing.T) {
		t.Parallel()

		cf := &File{Styles: map[style.Tag]style.Override{
			style.Tag("banner"): {},
		}}
		if _, err := cf.Theme(); !errors.Is(err, ErrUnknownStyleTag) {
			t.Errorf("expected ErrUnknownStyleTag, got %v", err)
		}
	})

	t.Run("rejects invalid color", func(t *testing.T) {
		t.Parallel()

		color := "blue"
		cf := &File{Styles: map[style.Tag]style.Override{
			style.TagBody: {Color: &color},
		}}
		if _, err := cf.Theme(); !errors.Is(err, style.ErrInvalidColor) {
			t.Errorf("expected style.ErrInvalidColor, got %v", err)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.spdoc")
		if err == nil {
			t.Fatal("expected error for non-existent file")
		}
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".spdoc")

		content := `defaults:
  formats: [markdown, html]
  outputDir: docs
procedures:
  qa.usp_Check_Orders:
    mode: qa
styles:
  section-heading:
    color: "#1F4E79"
    size: 16
  code-block:
    border:
      side: left
      width: 24
      color: "#1F4E79"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Defaults.Formats) != 2 {
			t.Errorf("expected 2 default formats, got %v", cfg.Defaults.Formats)
		}
		if cfg.Defaults.OutputDir != "docs" {
			t.Errorf("expected docs, got %q", cfg.Defaults.OutputDir)
		}
		if cfg.Procedures["qa.usp_Check_Orders"].Mode != "qa" {
			t.Error("expected qa mode for qa.usp_Check_Orders")
		}

		theme, err := cfg.Theme()
		if err != nil {
			t.Fatalf("unexpected theme error: %v", err)
		}
		heading := theme.Lookup(style.TagSectionHeading)
		if heading.Color != "#1F4E79" || heading.SizePt != 16 {
			t.Errorf("unexpected heading style: %+v", heading)
		}
		if !heading.Bold {
			t.Error("expected bold to be kept from the default theme")
		}
		if b := theme.Lookup(style.TagCodeBlock).Border; b.WidthEighthPt != 24 {
			t.Errorf("expected border width 24, got %d", b.WidthEighthPt)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".spdoc")

		content := `invalid: yaml: content: [}`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid mode", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".spdoc")

		content := `procedures:
  dbo.usp_X:
    mode: staging
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "dbo.usp_X") {
			t.Errorf("expected error naming the procedure, got %v", err)
		}
	})

	t.Run("returns error for unknown format", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".spdoc")

		content := `defaults:
  formats: [markdown, docx]
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("returns error for unknown key", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".spdoc")

		content := `defaults:
  outputdir: docs
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "outputdir") {
			t.Errorf("expected error naming the unknown key, got %v", err)
		}
	})

	t.Run("accepts empty file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".spdoc")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Defaults.Formats) != 0 {
			t.Errorf("expected no default formats, got %v", cfg.Defaults.Formats)
		}
	})

	t.Run("initializes nil Procedures map", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, ".spdoc")

		content := `defaults:
  outputDir: out
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Procedures == nil {
			t.Error("expected Procedures map to be initialized")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "custom.yaml")

		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		result := FindConfigFile(configPath)
		if result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("ignores a directory", func(t *testing.T) {
		if result := FindConfigFile(t.TempDir()); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		result := FindConfigFile("/nonexistent/path/config.yaml")
		if result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("finds config in current directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(tmpDir, DefaultConfigFile), []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		t.Chdir(tmpDir)

		result := FindConfigFile("")
		if filepath.Base(result) != DefaultConfigFile {
			t.Errorf("expected %s in current directory, got %q", DefaultConfigFile, result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with app name", func(t *testing.T) {
		t.Parallel()

		dir := XDGDataDir()
		if filepath.Base(dir) != AppName {
			t.Errorf("expected XDG data dir to end with %s, got %q", AppName, dir)
		}
	})

	t.Run("XDGConfigDir ends with app name", func(t *testing.T) {
		t.Parallel()

		dir := XDGConfigDir()
		if filepath.Base(dir) != AppName {
			t.Errorf("expected XDG config dir to end with %s, got %q", AppName, dir)
		}
	})
}
