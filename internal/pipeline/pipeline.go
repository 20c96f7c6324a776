package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/model"
)

// Result accumulates the outcome of one record file as it passes through
// the pipeline steps.
type Result struct {
	// Path is the record file being processed.
	Path string

	// RunID groups the results of one batch.
	RunID string

	// Record is set by LoadStep.
	Record *model.DocumentationRecord

	// Document is set by AssembleStep.
	Document document.Document

	// Outputs lists the files written by RenderStep, in format order.
	// It stays empty when rendering to standard output.
	Outputs []string

	// Unchanged reports that HistoryStep found the same digest in the
	// latest stored generation of the procedure.
	Unchanged bool

	// GenerationID is the history row written by HistoryStep.
	GenerationID int64

	// PerformedSteps lists the names of the steps that completed.
	PerformedSteps []string

	// Err is the first step error, or the context error when the batch
	// was cancelled.
	Err error
}

// NewResult creates a Result for the record file at path.
func NewResult(path, runID string) *Result {
	return &Result{Path: path, RunID: runID}
}

// QualifiedName returns the procedure name of the loaded record, or the
// empty string before LoadStep has run.
func (r *Result) QualifiedName() string {
	if r.Record == nil {
		return ""
	}
	return r.Record.QualifiedName()
}

// Step is one stage of record processing. A step reads what earlier steps
// left in the Result and adds its own part.
//
// Design decision: Steps are values with a Name rather than bare functions
// so that a step can hold its dependencies (configuration, database, writer)
// and so that failures and logs can say which stage they came from.
type Step interface {
	Do(ctx context.Context, result *Result) error
	Name() string
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, result *Result) error
}

// Do calls f.Fn.
func (f StepFunc) Do(ctx context.Context, result *Result) error {
	return f.Fn(ctx, result)
}

// Name returns f.StepName.
func (f StepFunc) Name() string {
	return f.StepName
}

// StepError records which step failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline runs its steps in order for one Result.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running the remaining steps after a failure.
// The first error is still the one kept in the result.
//
// Design decision: The default is to stop. Every step after LoadStep needs
// the record and every step after AssembleStep needs the document, so
// continuing only makes sense for steps that accept a partial result.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps for result and returns result.Err.
// The context is checked before every step; a cancelled context ends the
// run with ctx.Err() even when continueOnError is set. Step failures are
// wrapped in a *StepError.
func (p *Pipeline) Execute(ctx context.Context, result *Result) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "path", result.Path, "reason", err)
			if result.Err == nil {
				result.Err = err
			}
			return err
		}

		started := time.Now()
		err := step.Do(ctx, result)
		if err == nil {
			p.logger.Debug("step done", "step", step.Name(), "path", result.Path, "elapsed", time.Since(started))
			result.PerformedSteps = append(result.PerformedSteps, step.Name())
			continue
		}

		p.logger.Error("step failed", "step", step.Name(), "path", result.Path, "error", err)
		if result.Err == nil {
			result.Err = &StepError{Step: step.Name(), Err: err}
		}
		if !p.continueOnError {
			break
		}
	}
	return result.Err
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
