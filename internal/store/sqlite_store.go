package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS teams (
	id TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS lineups (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	team_id TEXT NOT NULL REFERENCES teams(id),
	source TEXT NOT NULL,
	created_at TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS lineups_team_seq ON lineups(team_id, seq);
`

// SQLiteStore persists teams and lineups as JSON payloads in SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps writes serialized and ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// ListTeams returns every team ordered by id.
func (s *SQLiteStore) ListTeams(ctx context.Context) ([]lineup.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]lineup.Team, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		var t lineup.Team
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// GetTeam retrieves a team by id.
func (s *SQLiteStore) GetTeam(ctx context.Context, id string) (lineup.Team, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM teams WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return lineup.Team{}, ErrNotFound
	}
	if err != nil {
		return lineup.Team{}, fmt.Errorf("get team %s: %w", id, err)
	}
	var t lineup.Team
	if err := json.Unmarshal([]byte(payload), &t); err != nil {
		return lineup.Team{}, fmt.Errorf("decode team %s: %w", id, err)
	}
	return t, nil
}

// PutTeam inserts or replaces a team.
func (s *SQLiteStore) PutTeam(ctx context.Context, team lineup.Team) error {
	payload, err := json.Marshal(team)
	if err != nil {
		return fmt.Errorf("encode team %s: %w", team.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO teams (id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		team.ID, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put team %s: %w", team.ID, err)
	}
	return nil
}

// SaveLineup appends a lineup to its team's history.
func (s *SQLiteStore) SaveLineup(ctx context.Context, l lineup.Lineup) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM teams WHERE id = ?`, l.TeamID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check team %s: %w", l.TeamID, err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lineup %s: %w", l.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lineups (id, team_id, source, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.TeamID, l.Source, l.CreatedAt.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("save lineup %s: %w", l.ID, err)
	}
	return nil
}

// LatestLineup returns the most recently saved lineup for a team.
func (s *SQLiteStore) LatestLineup(ctx context.Context, teamID string) (lineup.Lineup, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM lineups WHERE team_id = ? ORDER BY seq DESC LIMIT 1`, teamID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return lineup.Lineup{}, ErrNotFound
	}
	if err != nil {
		return lineup.Lineup{}, fmt.Errorf("latest lineup for %s: %w", teamID, err)
	}
	var l lineup.Lineup
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		return lineup.Lineup{}, fmt.Errorf("decode lineup: %w", err)
	}
	return l, nil
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
