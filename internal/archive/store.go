// Package archive keeps finished games in a SQLite database.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"jump61/internal/board"
	"jump61/internal/game"
)

var ErrNotFound = errors.New("game not found")

const createTableSQL = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	started_at INTEGER,
	ended_at INTEGER,
	size INTEGER,
	red_name TEXT,
	blue_name TEXT,
	result TEXT,
	termination TEXT,
	pgn_content TEXT
);
`

// Store is a SQLite-backed game archive. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path, creating parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows one writer; self-play saves from several goroutines.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save inserts a finished game. Saving the same game twice fails.
func (s *Store) Save(ctx context.Context, res game.Result) error {
	pgn, err := encodePGN(res.Moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, started_at, ended_at, size, red_name, blue_name, result, termination, pgn_content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.GameID.String(),
		res.StartedAt.UnixMilli(),
		res.EndedAt.UnixMilli(),
		res.Size,
		res.RedName,
		res.BlueName,
		res.Winner.String(),
		res.Termination,
		pgn,
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", res.GameID, err)
	}
	return nil
}

const selectColumns = `SELECT id, started_at, ended_at, size, red_name, blue_name, result, termination, pgn_content FROM games`

// List returns all games, newest first.
func (s *Store) List(ctx context.Context) ([]game.Result, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var out []game.Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Get returns one game or ErrNotFound.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (game.Result, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id.String())
	res, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return res, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (game.Result, error) {
	var (
		id, red, blue, winner, termination, pgn sql.NullString
		started, ended                          int64
		size                                    int
	)
	if err := sc.Scan(&id, &started, &ended, &size, &red, &blue, &winner, &termination, &pgn); err != nil {
		return game.Result{}, err
	}
	gameID, err := uuid.Parse(id.String)
	if err != nil {
		return game.Result{}, fmt.Errorf("bad game id %q: %w", id.String, err)
	}
	w, err := board.ParseColor(winner.String)
	if err != nil {
		return game.Result{}, fmt.Errorf("game %s: %w", gameID, err)
	}
	moves, err := decodePGN(pgn.String)
	if err != nil {
		return game.Result{}, fmt.Errorf("game %s: decode moves: %w", gameID, err)
	}
	return game.Result{
		GameID:      gameID,
		StartedAt:   time.UnixMilli(started),
		EndedAt:     time.UnixMilli(ended),
		Size:        size,
		RedName:     red.String,
		BlueName:    blue.String,
		Winner:      w,
		Termination: termination.String,
		Moves:       moves,
	}, nil
}
