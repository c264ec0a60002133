package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HealthHandler)

	r.HandleFunc("/rooms-available", s.GetRoomsAvailable)

	r.HandleFunc("/stats/{name}", s.GetPlayerStats)

	r.HandleFunc("/ws", s.registry.HandleWebSocket)

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		// If it's a websocket upgrade, skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"rooms":  s.registry.RoomCount(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[HealthHandler] encoding response: %v", err)
	}
}

// GetPlayerStats serves a display name's aggregate record. Returns 404
// when the server runs without persistence.
func (s *Server) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "statistics are not enabled", http.StatusNotFound)
		return
	}
	name := mux.Vars(r)["name"]

	stats, err := s.store.Stats(r.Context(), name)
	if err != nil {
		log.Printf("[GetPlayerStats] name=%q: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"name":         stats.Name,
		"games_played": stats.GamesPlayed,
		"wins":         stats.Wins,
		"total_score":  stats.TotalScore,
		"best_score":   stats.BestScore,
	}); err != nil {
		log.Printf("[GetPlayerStats] encoding response: %v", err)
	}
}

// GetRoomsAvailable lists casual rooms still accepting players, for clients
// that want to browse instead of queueing.
func (s *Server) GetRoomsAvailable(w http.ResponseWriter, r *http.Request) {
	codes := s.registry.WaitingRooms()

	w.Header().Set("Content-Type", "application/json")
	if len(codes) == 0 {
		w.WriteHeader(http.StatusNotFound)
	}
	if err := json.NewEncoder(w).Encode(map[string]any{"rooms": codes}); err != nil {
		log.Printf("[GetRoomsAvailable] encoding response: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
