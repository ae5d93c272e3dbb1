// Package storage provides the SQLite run journal.
// Every recorded run keeps its seed, configuration and input timeline so it
// can be re-simulated and checked later.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrAmbiguousRun is returned when a run ID prefix matches several runs.
var ErrAmbiguousRun = errors.New("storage: ambiguous run id")

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// Run is one recorded simulation.
type Run struct {
	ID        int64
	RunID     string // UUID, assigned by SaveRun when empty
	GameID    string
	Seed      int64
	TickRate  int
	Config    string // YAML game configuration
	Inputs    string // YAML input script
	Ticks     int64
	Score     int
	Lines     int
	Level     int
	Pieces    int
	GameOver  bool
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			config TEXT NOT NULL,
			inputs TEXT NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			lines INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			pieces INTEGER NOT NULL DEFAULT 0,
			game_over INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(game_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun records a run and returns it with RunID and ID filled in.
func (s *Store) SaveRun(run Run) (Run, error) {
	if run.RunID == "" {
		run.RunID = NewRunID()
	} else if _, err := uuid.Parse(run.RunID); err != nil {
		return Run{}, fmt.Errorf("storage: invalid run id %q: %w", run.RunID, err)
	}

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, game_id, seed, tick_rate, config, inputs, ticks, score, lines, level, pieces, game_over)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.GameID,
		run.Seed,
		run.TickRate,
		run.Config,
		run.Inputs,
		run.Ticks,
		run.Score,
		run.Lines,
		run.Level,
		run.Pieces,
		run.GameOver,
	)
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot save run: %w", err)
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return run, nil
}

const runColumns = `id, run_id, game_id, seed, tick_rate, config, inputs,
	ticks, score, lines, level, pieces, game_over, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var createdAt any
	err := sc.Scan(
		&r.ID,
		&r.RunID,
		&r.GameID,
		&r.Seed,
		&r.TickRate,
		&r.Config,
		&r.Inputs,
		&r.Ticks,
		&r.Score,
		&r.Lines,
		&r.Level,
		&r.Pieces,
		&r.GameOver,
		&createdAt,
	)
	if err != nil {
		return Run{}, err
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RunByID retrieves a run by its run ID.
// Returns nil without error if it does not exist.
func (s *Store) RunByID(runID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`,
		runID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// FindRun resolves a full run ID or a unique prefix of one.
// Returns nil without error if nothing matches.
func (s *Store) FindRun(prefix string) (*Run, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, nil
	}
	if r, err := s.RunByID(prefix); r != nil || err != nil {
		return r, err
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM runs WHERE substr(run_id, 1, ?) = ? LIMIT 2`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRun, prefix)
	}
}

// RecentRuns retrieves the most recent runs, newest first.
// An empty gameID lists every game.
func (s *Store) RecentRuns(gameID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// TopRuns retrieves the best N runs for the given game by score.
func (s *Store) TopRuns(gameID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY score DESC, lines DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run. Deleting a missing run is not an error.
func (s *Store) DeleteRun(runID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	RunsCount  int
	HighScore  int
	MostLines  int
	AvgScore   float64
	TotalTicks int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(lines), 0),
		        COALESCE(AVG(score), 0), COALESCE(SUM(ticks), 0), MAX(created_at)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&stats.RunsCount, &stats.HighScore, &stats.MostLines, &stats.AvgScore, &stats.TotalTicks, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all games that have runs.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), MAX(score), MAX(lines), AVG(score), SUM(ticks), MAX(created_at)
		 FROM runs
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var st GameStats
		var lastPlayed any
		if err := rows.Scan(&st.GameID, &st.RunsCount, &st.HighScore, &st.MostLines, &st.AvgScore, &st.TotalTicks, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.GameID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
