package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tk905-svr/internal/store"
)

// Server is the read-only HTTP view over the device state store. It never
// writes state; every handler is a pure read of the store at request time.
type Server struct {
	server *http.Server
	store  *store.DeviceStore
	logger *slog.Logger
}

func NewServer(addr string, st *store.DeviceStore, logger *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		store:  st,
		logger: logger.With("component", "api"),
	}

	router.Use(s.loggingMiddleware)

	router.HandleFunc("/health", s.health).Methods("GET")
	router.HandleFunc("/api/v1/devices", s.listDevices).Methods("GET")
	router.HandleFunc("/api/v1/devices/{id}", s.getDevice).Methods("GET")

	return s
}

func (s *Server) Start() error {
	s.logger.Info("HTTP API listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start).String(),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"devices": s.store.Count(),
	})
}

func (s *Server) listDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, ok := s.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "device not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
