package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/spdoc/internal/document"
	"github.com/nao1215/spdoc/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "spdoc.db"

// HistoryDB provides SQLite-based storage for generation history.
//
// Design decision: We store the full record as JSON next to a few
// indexed columns rather than normalizing parameters, changes and
// examples into their own tables. History is only ever read back as
// whole records, and the record shape can grow without a migration.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite takes the open mode and pragmas as query parameters.
	// mode=rw refuses to create a missing file; mode=rwc creates it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per rendered record
	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		procedure_name TEXT NOT NULL,
		version TEXT NOT NULL,
		mode TEXT NOT NULL,
		digest TEXT NOT NULL,
		section_count INTEGER NOT NULL,
		outline_json TEXT NOT NULL,
		record_json TEXT NOT NULL,
		source_path TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_generations_procedure ON generations(procedure_name);
	CREATE INDEX IF NOT EXISTS idx_generations_run ON generations(run_id);
	CREATE INDEX IF NOT EXISTS idx_generations_digest ON generations(procedure_name, digest);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// Generation is one stored rendering of a record.
type Generation struct {
	// ID is the unique identifier of the generation in the database.
	ID int64

	// RunID groups the generations of one CLI invocation.
	RunID string

	// Procedure is the qualified procedure name ("schema.procedure").
	Procedure string

	// Version is the record version at generation time.
	Version string

	// Mode is the mode the record was rendered in.
	Mode model.Mode

	// Digest is document.Document.Digest of the rendered document.
	Digest string

	// SectionCount is the number of numbered sections.
	SectionCount int

	// Outline is the list of headings of the rendered document.
	Outline []document.Heading

	// Record is the record as rendered.
	Record *model.DocumentationRecord

	// SourcePath is the record file the generation was read from.
	SourcePath string

	// Timestamp is when the generation was saved.
	Timestamp time.Time
}

// NewGeneration builds a Generation for rec and its rendered document.
// The mode is taken from rec, so callers that force a mode must apply it
// to rec before assembling.
func NewGeneration(runID, sourcePath string, rec *model.DocumentationRecord, doc document.Document) (*Generation, error) {
	digest, err := doc.Digest()
	if err != nil {
		return nil, err
	}
	return &Generation{
		RunID:        runID,
		Procedure:    rec.QualifiedName(),
		Version:      rec.Version,
		Mode:         rec.Mode,
		Digest:       digest,
		SectionCount: doc.SectionCount(),
		Outline:      doc.Outline(),
		Record:       rec,
		SourcePath:   sourcePath,
	}, nil
}

// SaveGeneration stores g and returns its database ID.
// A new run ID is assigned when g.RunID is empty.
func (hdb *HistoryDB) SaveGeneration(ctx context.Context, g *Generation) (int64, error) {
	if g.Record == nil {
		return 0, errors.New("generation has no record")
	}
	if g.RunID == "" {
		g.RunID = uuid.NewString()
	}

	recordJSON, err := json.Marshal(g.Record)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize record: %w", err)
	}
	outline := g.Outline
	if outline == nil {
		outline = []document.Heading{}
	}
	outlineJSON, err := json.Marshal(outline)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize outline: %w", err)
	}

	query := `
	INSERT INTO generations (run_id, procedure_name, version, mode, digest, section_count, outline_json, record_json, source_path)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		g.RunID,
		g.Procedure,
		g.Version,
		g.Mode.String(),
		g.Digest,
		g.SectionCount,
		string(outlineJSON),
		string(recordJSON),
		g.SourcePath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save generation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get generation id: %w", err)
	}
	g.ID = id
	return id, nil
}

// generationColumns is the column list scanned by scanGeneration.
const generationColumns = `id, run_id, procedure_name, version, mode, digest, section_count, outline_json, record_json, source_path, timestamp`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanGeneration reads one generation row.
func scanGeneration(row rowScanner) (*Generation, error) {
	var (
		g           Generation
		mode        string
		outlineJSON string
		recordJSON  string
		sourcePath  sql.NullString
		timestamp   string
	)
	err := row.Scan(
		&g.ID,
		&g.RunID,
		&g.Procedure,
		&g.Version,
		&mode,
		&g.Digest,
		&g.SectionCount,
		&outlineJSON,
		&recordJSON,
		&sourcePath,
		&timestamp,
	)
	if err != nil {
		return nil, err
	}

	if g.Mode, err = model.ParseMode(mode); err != nil {
		return nil, fmt.Errorf("generation %d: %w", g.ID, err)
	}
	if err := json.Unmarshal([]byte(outlineJSON), &g.Outline); err != nil {
		return nil, fmt.Errorf("failed to parse outline of generation %d: %w", g.ID, err)
	}
	var rec model.DocumentationRecord
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record of generation %d: %w", g.ID, err)
	}
	g.Record = &rec
	g.SourcePath = sourcePath.String
	g.Timestamp = parseTimestamp(timestamp)

	return &g, nil
}

// GetGenerationByID retrieves a generation by its database ID.
// It returns nil, nil when no generation has that ID.
func (hdb *HistoryDB) GetGenerationByID(ctx context.Context, id int64) (*Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE id = ?`

	g, err := scanGeneration(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return g, nil
}

// GetLatestGeneration retrieves the most recent generation of a procedure.
// It returns nil, nil when the procedure has never been generated.
func (hdb *HistoryDB) GetLatestGeneration(ctx context.Context, procedure string) (*Generation, error) {
	gens, err := hdb.GetRecentGenerations(ctx, procedure, 1)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, nil
	}
	return gens[0], nil
}

// GetRecentGenerations retrieves up to limit generations of a procedure,
// newest first.
func (hdb *HistoryDB) GetRecentGenerations(ctx context.Context, procedure string, limit int) ([]*Generation, error) {
	// id is monotonic; timestamps only have second resolution.
	query := `SELECT ` + generationColumns + `
	FROM generations
	WHERE procedure_name = ?
	ORDER BY id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, procedure, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get generations: %w", err)
	}
	defer rows.Close()

	var gens []*Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		gens = append(gens, g)
	}

	return gens, rows.Err()
}

// ListProcedures returns the qualified names of all generated procedures.
func (hdb *HistoryDB) ListProcedures(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT procedure_name FROM generations
	ORDER BY procedure_name
	`

	rows, err := hdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list procedures: %w", err)
	}
	defer rows.Close()

	var procedures []string
	for rows.Next() {
		var procedure string
		if err := rows.Scan(&procedure); err != nil {
			return nil, fmt.Errorf("failed to scan procedure: %w", err)
		}
		procedures = append(procedures, procedure)
	}

	return procedures, rows.Err()
}

// GenerationMetadata contains summary information about a generation.
// This is used for displaying history without loading the full record.
type GenerationMetadata struct {
	ID           int64
	RunID        string
	Procedure    string
	Version      string
	Mode         string
	Digest       string
	SectionCount int
	Timestamp    time.Time
}

// GetHistory retrieves generation metadata for a procedure, newest first.
func (hdb *HistoryDB) GetHistory(ctx context.Context, procedure string) ([]GenerationMetadata, error) {
	query := `
	SELECT id, run_id, procedure_name, version, mode, digest, section_count, timestamp
	FROM generations
	WHERE procedure_name = ?
	ORDER BY id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, procedure)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var results []GenerationMetadata
	for rows.Next() {
		var meta GenerationMetadata
		var timestamp string
		if err := rows.Scan(
			&meta.ID,
			&meta.RunID,
			&meta.Procedure,
			&meta.Version,
			&meta.Mode,
			&meta.Digest,
			&meta.SectionCount,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
