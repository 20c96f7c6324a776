package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/nao1215/spdoc/internal/assembler"
	"github.com/nao1215/spdoc/internal/config"
	"github.com/nao1215/spdoc/internal/database"
	"github.com/nao1215/spdoc/internal/model"
	"github.com/nao1215/spdoc/internal/report"
	"github.com/nao1215/spdoc/internal/style"
)

// ErrNoRecord is returned by steps that run before a record was loaded.
var ErrNoRecord = errors.New("no record loaded")

// ErrNoDocument is returned by steps that run before the record was assembled.
var ErrNoDocument = errors.New("no document assembled")

// ErrDuplicateOutput is returned when a second record file of the same batch
// would write to an output file already claimed by another record file.
var ErrDuplicateOutput = errors.New("output file already written by another record")

// LoadStep reads the record file named by Result.Path.
type LoadStep struct {
	logger *slog.Logger
}

// NewLoadStep creates a new record loading step.
func NewLoadStep(logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{logger: logger}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, result *Result) error {
	rec, err := model.LoadRecordFile(result.Path)
	if err != nil {
		return err
	}
	result.Record = rec

	s.logger.Debug("record loaded",
		"path", result.Path,
		"procedure", rec.QualifiedName(),
		"version", rec.Version,
		"purpose", rec.Purpose,
	)
	return nil
}

// ModeStep applies the configured mode to the loaded record.
//
// Design decision: the record is owned by the Result (it was decoded for
// this run), so the step changes its Mode field in place instead of
// passing a mode override to the assembler. The stored history then holds
// the record exactly as it was rendered.
type ModeStep struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewModeStep creates a new mode resolution step.
func NewModeStep(cfg *config.Config, logger *slog.Logger) *ModeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModeStep{cfg: cfg, logger: logger}
}

// Name returns the step name.
func (s *ModeStep) Name() string {
	return "mode"
}

// Do executes the mode step.
func (s *ModeStep) Do(_ context.Context, result *Result) error {
	if result.Record == nil {
		return ErrNoRecord
	}

	name := result.Record.QualifiedName()
	mode := s.cfg.ResolveMode(name, result.Record.Mode)
	if mode != result.Record.Mode {
		s.logger.Debug("mode overridden",
			"procedure", name,
			"from", result.Record.Mode.String(),
			"to", mode.String(),
		)
		result.Record.Mode = mode
	}
	return nil
}

// AssembleStep turns the record into render instructions.
type AssembleStep struct {
	logger *slog.Logger
}

// NewAssembleStep creates a new assembly step.
func NewAssembleStep(logger *slog.Logger) *AssembleStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssembleStep{logger: logger}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the assembly step.
func (s *AssembleStep) Do(_ context.Context, result *Result) error {
	if result.Record == nil {
		return ErrNoRecord
	}

	doc, err := assembler.Assemble(result.Record)
	if err != nil {
		return fmt.Errorf("%s: %w", result.Path, err)
	}
	result.Document = doc

	s.logger.Debug("document assembled",
		"procedure", result.Record.QualifiedName(),
		"instructions", len(doc),
		"sections", doc.SectionCount(),
	)
	return nil
}

// RenderStep writes the assembled document in every configured format.
// One RenderStep is shared by all pipelines of a batch; writes to the
// shared stdout are serialized so documents do not interleave.
type RenderStep struct {
	cfg    *config.Config
	styles style.Provider
	stdout io.Writer
	logger *slog.Logger

	// mu guards stdout.
	mu sync.Mutex

	// claimMu guards claimed, which maps output paths to the record file
	// that owns them in this batch.
	claimMu sync.Mutex
	claimed map[string]string
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderStyles sets the style provider handed to the sinks.
func WithRenderStyles(provider style.Provider) RenderStepOption {
	return func(s *RenderStep) {
		if provider != nil {
			s.styles = provider
		}
	}
}

// WithRenderStdout sets the writer used when cfg.Stdout is set.
func WithRenderStdout(w io.Writer) RenderStepOption {
	return func(s *RenderStep) {
		s.stdout = w
	}
}

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a new render step.
func NewRenderStep(cfg *config.Config, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		cfg:     cfg,
		styles:  style.DefaultTheme(),
		stdout:  os.Stdout,
		logger:  slog.Default(),
		claimed: make(map[string]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(_ context.Context, result *Result) error {
	if result.Record == nil {
		return ErrNoRecord
	}
	if result.Document == nil {
		return ErrNoDocument
	}

	name := result.Record.QualifiedName()
	pc := s.cfg.ForProcedure(name)
	formats, err := pc.OutputFormats()
	if err != nil {
		return err
	}

	if s.cfg.Stdout {
		return s.renderStdout(result, formats)
	}

	paths := make([]string, len(formats))
	for i, format := range formats {
		paths[i] = pc.OutputPath(name, format)
	}
	if err := s.claim(result.Path, paths); err != nil {
		return err
	}

	for i, format := range formats {
		path := paths[i]
		if err := s.renderFile(result, format, path); err != nil {
			return err
		}
		result.Outputs = append(result.Outputs, path)

		s.logger.Info("document written",
			"procedure", name,
			"format", string(format),
			"path", path,
		)
	}
	return nil
}

// claim reserves paths for the record file at owner. Two record files that
// document the same procedure in one batch would otherwise truncate and
// rewrite the same files concurrently. Either all paths are claimed or none.
func (s *RenderStep) claim(owner string, paths []string) error {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	for _, path := range paths {
		if other, ok := s.claimed[filepath.Clean(path)]; ok && other != owner {
			return fmt.Errorf("%w: %s is written from %s", ErrDuplicateOutput, path, other)
		}
	}
	for _, path := range paths {
		s.claimed[filepath.Clean(path)] = owner
	}
	return nil
}

// renderStdout writes every format of one record in a single locked pass,
// so documents of concurrently processed records never interleave.
func (s *RenderStep) renderStdout(result *Result, formats []report.Format) error {
	writers := make([]report.Writer, 0, len(formats))
	for _, format := range formats {
		w, err := s.newWriter(format, s.stdout)
		if err != nil {
			return err
		}
		writers = append(writers, w)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := report.NewMultiWriter(writers...).Write(result.Document); err != nil {
		return fmt.Errorf("failed to write document to standard output: %w", err)
	}
	return nil
}

func (s *RenderStep) renderFile(result *Result, format report.Format, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Output path is built from the configured directory
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w, err := s.newWriter(format, f)
	if err != nil {
		_ = f.Close()
		return err
	}
	if _, err := w.Write(result.Document); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// newWriter creates the sink for format. The text sink also takes the
// configured line width.
func (s *RenderStep) newWriter(format report.Format, w io.Writer) (report.Writer, error) {
	if format == report.FormatText {
		return report.NewTextWriter(w, report.WithWidth(s.cfg.TextWidth), report.WithStyles(s.styles)), nil
	}
	return report.NewWriter(format, w, s.styles)
}

// HistoryStep records the generation in the history database.
//
// Design decision: when the digest equals the latest stored generation of
// the procedure, nothing is written. Re-running generate over an unchanged
// tree then leaves the history untouched, and the history only lists
// renderings that differ from their predecessor.
type HistoryStep struct {
	db     *database.HistoryDB
	logger *slog.Logger
}

// NewHistoryStep creates a new history step.
func NewHistoryStep(db *database.HistoryDB, logger *slog.Logger) *HistoryStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do executes the history step.
func (s *HistoryStep) Do(ctx context.Context, result *Result) error {
	if result.Record == nil {
		return ErrNoRecord
	}
	if result.Document == nil {
		return ErrNoDocument
	}

	g, err := database.NewGeneration(result.RunID, result.Path, result.Record, result.Document)
	if err != nil {
		return err
	}

	latest, err := s.db.GetLatestGeneration(ctx, g.Procedure)
	if err != nil {
		return err
	}
	if latest != nil && latest.Digest == g.Digest {
		result.Unchanged = true
		result.GenerationID = latest.ID
		s.logger.Info("document unchanged since last generation",
			"procedure", g.Procedure,
			"generation", latest.ID,
			"version", latest.Version,
		)
		return nil
	}

	id, err := s.db.SaveGeneration(ctx, g)
	if err != nil {
		return err
	}
	result.GenerationID = id

	s.logger.Debug("generation saved",
		"procedure", g.Procedure,
		"generation", id,
		"digest", g.Digest,
	)
	return nil
}
