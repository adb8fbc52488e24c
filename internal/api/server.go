// Package api serves the habit store as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/julianstephens/habitcontrol/internal/habits"
	"github.com/julianstephens/habitcontrol/internal/logger"
)

type Server struct {
	router *chi.Mux
	store  *habits.Store
}

func New(store *habits.Store) *Server {
	s := &Server{
		router: chi.NewRouter(),
		store:  store,
	}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(requestLogger)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/api/habits", s.listHabits)
		r.Post("/api/habits", s.createHabit)
		r.Get("/api/habits/{id}", s.getHabit)
		r.Put("/api/habits/{id}", s.updateHabit)
		r.Delete("/api/habits/{id}", s.deleteHabit)
		r.Put("/api/habits/{id}/completions/{date}", s.setCompletion)
		r.Get("/api/habits/{id}/stats", s.habitStats)
		r.Get("/api/history", s.history)
		r.Get("/calendar.ics", s.calendarFeed)
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then drains open
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.store.Session(); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "sign in with 'habitcontrol login' first"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
