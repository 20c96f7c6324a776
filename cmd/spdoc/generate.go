package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/spdoc/internal/config"
	"github.com/nao1215/spdoc/internal/database"
	"github.com/nao1215/spdoc/internal/pipeline"
)

// errGenerationFailed is returned when at least one record file failed.
var errGenerationFailed = errors.New("generation failed")

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [record-file...]",
		Short: "Generate documentation from record files",
		Long: `Generate reads documentation records (YAML or JSON) and writes one document
per record and format, named "<schema>.<procedure>.<ext>".

Every generation is stored in the history database unless --no-history is
given. When a document is identical to the latest stored generation of the
procedure, it is reported as unchanged and no new history entry is written.

Examples:
  # Generate Markdown documentation into the current directory
  spdoc generate usp_Customer_Update.yaml

  # Generate HTML and plain text into docs/
  spdoc generate -f html -f text -o docs records/*.yaml

  # Print a QA rendering to the terminal
  spdoc generate --qa --stdout -f text usp_Check_Orders.yaml

  # Use a custom configuration file
  spdoc generate -c team.yaml records/*.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runGenerateCmd,
	}

	// Output flags
	cmd.Flags().StringSliceP("format", "f", config.DefaultFormats(),
		"Output format: text, markdown, html, json (repeatable)")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory generated documents are written to")
	cmd.Flags().Bool("stdout", false,
		"Write documents to standard output instead of files")
	cmd.Flags().IntP("width", "w", config.DefaultTextWidth,
		"Line width of the text format")

	// Rendering flags
	cmd.Flags().Bool("qa", false,
		"Render every record in QA mode")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of records generated concurrently")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .spdoc in current or home directory)")

	// History
	cmd.Flags().Bool("no-history", false,
		"Do not record generations in the history database")

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Summary lines go to stderr when documents go to stdout.
	summary := cmd.OutOrStdout()
	if cfg.Stdout {
		summary = cmd.ErrOrStderr()
	}

	return runGenerate(ctx, cfg, logger, cmd.OutOrStdout(), summary)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Formats, err = cmd.Flags().GetStringSlice("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.Stdout, err = cmd.Flags().GetBool("stdout")
	if err != nil {
		return nil, err
	}

	cfg.TextWidth, err = cmd.Flags().GetInt("width")
	if err != nil {
		return nil, err
	}

	cfg.ForceQA, err = cmd.Flags().GetBool("qa")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	cfg.DBDir = getDBDir(cmd)
	cfg.Verbose = getVerboseFlag(cmd)

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently run without one.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.ApplyFileDefaults(cmd.Flags().Changed("format"), cmd.Flags().Changed("output-dir"))

	cfg.Targets = args

	return cfg, nil
}

// newFactory returns the pipeline factory for one generate run.
// The render step is shared so that writes to stdout are serialized.
func newFactory(cfg *config.Config, logger *slog.Logger, stdout io.Writer, db *database.HistoryDB) (func() *pipeline.Pipeline, error) {
	theme, err := cfg.File.Theme()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	load := pipeline.NewLoadStep(logger)
	mode := pipeline.NewModeStep(cfg, logger)
	assemble := pipeline.NewAssembleStep(logger)
	render := pipeline.NewRenderStep(cfg,
		pipeline.WithRenderStyles(theme),
		pipeline.WithRenderStdout(stdout),
		pipeline.WithRenderLogger(logger),
	)

	var history *pipeline.HistoryStep
	if db != nil {
		history = pipeline.NewHistoryStep(db, logger)
	}

	return func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(load, mode, assemble, render)
		if history != nil {
			p.AddStep(history)
		}
		return p
	}, nil
}

// runGenerate runs the batch and prints one summary line per record file.
func runGenerate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, summary io.Writer) error {
	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
	}

	factory, err := newFactory(cfg, logger, stdout, db)
	if err != nil {
		return err
	}

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Summary lines are printed as records complete.
	var (
		mu     sync.Mutex
		failed int
	)
	batchErr := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(r *pipeline.Result, _ int) {
		mu.Lock()
		defer mu.Unlock()
		printResult(summary, r)
		if r.Err != nil {
			failed++
		}
	})

	if batchErr != nil {
		return fmt.Errorf("generation cancelled: %w", batchErr)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d record files", errGenerationFailed, failed, len(cfg.Targets))
	}
	return nil
}

// printResult writes the summary line of one record file.
func printResult(w io.Writer, r *pipeline.Result) {
	if r.Err != nil {
		fmt.Fprintf(w, "✗ %s: %v\n", r.Path, r.Err)
		return
	}

	line := fmt.Sprintf("✓ %s (%d sections)", r.QualifiedName(), r.Document.SectionCount())
	if len(r.Outputs) > 0 {
		line += " -> " + strings.Join(r.Outputs, ", ")
	}
	if r.Unchanged {
		line += " [unchanged]"
	}
	fmt.Fprintln(w, line)
}
