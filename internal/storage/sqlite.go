// Package storage provides the SQLite replay journal.
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

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// Lookup errors.
var (
	ErrReplayNotFound = errors.New("storage: replay not found")
	ErrAmbiguousID    = errors.New("storage: replay id prefix is ambiguous")
)

// DefaultPath is the journal location used when no --db flag is given.
const DefaultPath = "~/.tetris/tetris.db"

// sqliteTime is the layout of CURRENT_TIMESTAMP values.
const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the replay journal.
type Store struct {
	db *sql.DB
}

// Replay is one recorded game: its seed, tick rate, final outcome and,
// when loaded with GetReplay, every tick that carried input.
type Replay struct {
	ID        string
	GameID    string
	Seed      int64
	TickRate  int
	Ticks     uint64 // Ticks simulated, including empty ones
	Score     int
	Level     int
	Lines     int
	Outcome   string // "game_over", "restart" or "quit"
	CreatedAt time.Time
	Frames    []Frame
}

// Frame is the input applied on one tick.
type Frame struct {
	Tick  uint64
	Input core.InputFrame
}

// Stats summarizes the journal for one game.
type Stats struct {
	GameID     string
	Games      int
	TotalLines int
	TotalTicks uint64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS replays (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			lines INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_replays_game_id ON replays(game_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS replay_frames (
			replay_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			actions TEXT NOT NULL,
			PRIMARY KEY (replay_id, tick)
		);
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

// SaveReplay writes a replay and its frames in one transaction.
func (s *Store) SaveReplay(r Replay) error {
	if r.ID == "" {
		return errors.New("storage: replay has no id")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	_, err = tx.Exec(
		`INSERT INTO replays (id, game_id, seed, tick_rate, ticks, score, level, lines, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.GameID, r.Seed, r.TickRate, int64(r.Ticks), r.Score, r.Level, r.Lines, r.Outcome,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save replay: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO replay_frames (replay_id, tick, actions) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare frame insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range r.Frames {
		if f.Input.Empty() {
			continue
		}
		if _, err := stmt.Exec(r.ID, int64(f.Tick), encodeActions(f.Input)); err != nil {
			return fmt.Errorf("storage: cannot save frame %d: %w", f.Tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit replay: %w", err)
	}
	return nil
}

// GetReplay loads a replay with all its frames, ordered by tick.
func (s *Store) GetReplay(id string) (Replay, error) {
	r, err := scanReplay(s.db.QueryRow(
		`SELECT id, game_id, seed, tick_rate, ticks, score, level, lines, outcome, created_at
		 FROM replays WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Replay{}, fmt.Errorf("%w: %s", ErrReplayNotFound, id)
	}
	if err != nil {
		return Replay{}, fmt.Errorf("storage: cannot query replay: %w", err)
	}

	rows, err := s.db.Query(
		"SELECT tick, actions FROM replay_frames WHERE replay_id = ? ORDER BY tick",
		id,
	)
	if err != nil {
		return Replay{}, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tick int64
		var actions string
		if err := rows.Scan(&tick, &actions); err != nil {
			return Replay{}, fmt.Errorf("storage: cannot scan frame: %w", err)
		}
		r.Frames = append(r.Frames, Frame{Tick: uint64(tick), Input: decodeActions(actions)})
	}
	if err := rows.Err(); err != nil {
		return Replay{}, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return r, nil
}

// ResolveID expands a unique id prefix to the full replay id.
func (s *Store) ResolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrReplayNotFound)
	}
	rows, err := s.db.Query(
		"SELECT id FROM replays WHERE substr(id, 1, ?) = ? LIMIT 2",
		len(prefix), prefix,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("storage: cannot scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrReplayNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// ListReplays returns the most recent replays for a game, without frames.
func (s *Store) ListReplays(gameID string, limit int) ([]Replay, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, seed, tick_rate, ticks, score, level, lines, outcome, created_at
		 FROM replays
		 WHERE game_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query replays: %w", err)
	}
	defer rows.Close()

	var replays []Replay
	for rows.Next() {
		r, err := scanReplay(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		replays = append(replays, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return replays, nil
}

// DeleteReplay removes a replay and its frames.
func (s *Store) DeleteReplay(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after Commit

	res, err := tx.Exec("DELETE FROM replays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete replay: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrReplayNotFound, id)
	}
	if _, err := tx.Exec("DELETE FROM replay_frames WHERE replay_id = ?", id); err != nil {
		return fmt.Errorf("storage: cannot delete frames: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// GetStats returns aggregated journal statistics for a game.
func (s *Store) GetStats(gameID string) (Stats, error) {
	stats := Stats{GameID: gameID}

	var ticks int64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(lines), 0), COALESCE(SUM(ticks), 0), MAX(created_at)
		 FROM replays WHERE game_id = ?`,
		gameID,
	).Scan(&stats.Games, &stats.TotalLines, &ticks, &lastPlayed)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.TotalTicks = uint64(ticks)
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReplay(row scanner) (Replay, error) {
	var r Replay
	var ticks int64
	var createdAt any
	err := row.Scan(&r.ID, &r.GameID, &r.Seed, &r.TickRate, &ticks,
		&r.Score, &r.Level, &r.Lines, &r.Outcome, &createdAt)
	if err != nil {
		return Replay{}, err
	}
	r.Ticks = uint64(ticks)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse(sqliteTime, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// encodeActions stores a frame as comma-separated action names.
func encodeActions(in core.InputFrame) string {
	names := make([]string, len(in.Actions))
	for i, a := range in.Actions {
		names[i] = a.String()
	}
	return strings.Join(names, ",")
}

func decodeActions(s string) core.InputFrame {
	var in core.InputFrame
	for name := range strings.SplitSeq(s, ",") {
		in.Set(core.ParseAction(name))
	}
	return in
}
