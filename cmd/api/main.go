package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/config"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/content"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/game"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/server"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Local development keeps settings in a .env file; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[run] loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var provider content.Provider
	if cfg.GameFile != "" {
		fp, err := content.NewFileProvider(cfg.GameFile)
		if err != nil {
			return fmt.Errorf("loading game file: %w", err)
		}
		provider = fp
		log.Printf("[run] using game file %s", cfg.GameFile)
	} else {
		provider = content.NewStaticProvider()
		log.Printf("[run] using built-in board")
	}

	var recorder game.Recorder
	var db *store.Store
	if cfg.DatabaseURL != "" {
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer db.Close()
		recorder = db
		log.Printf("[run] result persistence enabled")
	}

	registry := game.NewRegistry(provider, recorder)
	registry.SetMatchSize(cfg.MatchSize)

	srv := server.New(cfg.HTTPAddr, registry, db)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		registry.StartSweeper(gctx, cfg.SweepInterval)
		return nil
	})

	g.Go(func() error {
		registry.StartMatchmaker(gctx, cfg.MatchInterval)
		return nil
	})

	g.Go(func() error {
		log.Printf("[run] listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("[run] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
