package store

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestStore spins up a throwaway postgres container. Environments
// without docker skip instead of failing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed store test in short mode")
	}
	// Provider detection panics on hosts with no docker at all; check it
	// up front so those environments skip cleanly.
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("quizdb"),
		postgres.WithUsername("quiz"),
		postgres.WithPassword("quiz"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	s, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestRecordGameAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results := []PlayerResult{
		{SessionID: "s1", Name: "alice", Score: 2400, Placement: 1},
		{SessionID: "s2", Name: "bob", Score: 800, Placement: 2},
		{SessionID: "s3", Name: "carol", Score: -200, Placement: 3},
	}
	if err := s.RecordGame(ctx, "ABCDEF", results); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}

	// Second game: alice plays again and loses.
	if err := s.RecordGame(ctx, "GHJKMN", []PlayerResult{
		{SessionID: "s2", Name: "bob", Score: 1200, Placement: 1},
		{SessionID: "s1", Name: "alice", Score: 600, Placement: 2},
	}); err != nil {
		t.Fatalf("RecordGame: %v", err)
	}

	stats, err := s.Stats(ctx, "alice")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.GamesPlayed != 2 {
		t.Errorf("games = %d, want 2", stats.GamesPlayed)
	}
	if stats.Wins != 1 {
		t.Errorf("wins = %d, want 1", stats.Wins)
	}
	if stats.TotalScore != 3000 {
		t.Errorf("total = %d, want 3000", stats.TotalScore)
	}
	if stats.BestScore != 2400 {
		t.Errorf("best = %d, want 2400", stats.BestScore)
	}
}

func TestStatsUnknownPlayer(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.GamesPlayed != 0 || stats.TotalScore != 0 {
		t.Errorf("unknown player stats = %+v, want zeroes", stats)
	}
}
