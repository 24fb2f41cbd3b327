// Package api exposes habits, entries, streaks and analytics over HTTP.
// Authentication happens upstream; the caller's id arrives in X-User-ID.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/progress"
)

type ownerKey struct{}

type Server struct {
	engine *progress.Engine
	habits *habits.Service
	mux    *http.ServeMux
}

func NewServer(engine *progress.Engine, svc *habits.Service) *Server {
	s := &Server{engine: engine, habits: svc, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /habits", s.listHabits)
	s.mux.HandleFunc("POST /habits", s.createHabit)
	s.mux.HandleFunc("GET /habits/{id}", s.getHabit)
	s.mux.HandleFunc("PUT /habits/{id}", s.updateHabit)
	s.mux.HandleFunc("DELETE /habits/{id}", s.deleteHabit)
	s.mux.HandleFunc("POST /habits/{id}/restore", s.restoreHabit)
	s.mux.HandleFunc("POST /habits/{id}/entries", s.logEntry)
	s.mux.HandleFunc("GET /habits/{id}/entries", s.listEntries)
	s.mux.HandleFunc("GET /habits/{id}/streak", s.getStreak)
	s.mux.HandleFunc("GET /analytics", s.getAnalytics)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.withLogging(s.withOwner(s.mux)).ServeHTTP(w, r)
}

// withOwner rejects requests without a caller id, except the health check
func (s *Server) withOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		owner := r.Header.Get(constants.UserIDHeader)
		if owner == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing " + constants.UserIDHeader + " header"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status,
			"duration", time.Since(start))
	})
}

func ownerFrom(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey{}).(string)
	return owner
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight requests
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
