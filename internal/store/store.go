// Package store is the durable side of the engine: completed-game results
// and per-player statistics. Rooms never touch it inside their critical
// sections; the engine hands it a finished-game snapshot after the fact.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

// PlayerResult is one row of a finished game's standings.
type PlayerResult struct {
	SessionID string
	Name      string
	Score     int
	Placement int
}

// PlayerStats aggregates a player's record across finished games.
type PlayerStats struct {
	Name        string
	GamesPlayed int
	Wins        int
	TotalScore  int64
	BestScore   int
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_results (
			id           BIGSERIAL PRIMARY KEY,
			room_code    TEXT        NOT NULL,
			session_id   TEXT        NOT NULL,
			player_name  TEXT        NOT NULL,
			score        INTEGER     NOT NULL,
			placement    INTEGER     NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS game_results_player_name_idx
			ON game_results (player_name);
	`)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}

// RecordGame persists the final standings of one room.
func (s *Store) RecordGame(ctx context.Context, roomCode string, results []PlayerResult) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	completedAt := time.Now().UTC()
	for _, r := range results {
		_, err := tx.Exec(ctx, `
			INSERT INTO game_results (room_code, session_id, player_name, score, placement, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			roomCode, r.SessionID, r.Name, r.Score, r.Placement, completedAt)
		if err != nil {
			return fmt.Errorf("inserting result for %s: %w", r.SessionID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing results: %w", err)
	}
	return nil
}

// Stats returns the aggregate record for a display name.
func (s *Store) Stats(ctx context.Context, playerName string) (*PlayerStats, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE placement = 1),
		       COALESCE(SUM(score), 0),
		       COALESCE(MAX(score), 0)
		FROM game_results
		WHERE player_name = $1`, playerName)

	stats := &PlayerStats{Name: playerName}
	if err := row.Scan(&stats.GamesPlayed, &stats.Wins, &stats.TotalScore, &stats.BestScore); err != nil {
		return nil, fmt.Errorf("querying stats for %s: %w", playerName, err)
	}
	return stats, nil
}
