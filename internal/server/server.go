package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/game"
	"github.com/cruz-andr/JeoparodyMk2-sub000/internal/store"
)

type Server struct {
	registry *game.Registry
	store    *store.Store // nil when persistence is not configured
	httpSrv  *http.Server
}

func New(addr string, registry *game.Registry, st *store.Store) *Server {
	s := &Server{registry: registry, store: st}
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // websocket connections are long-lived
		IdleTimeout:  time.Minute,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
