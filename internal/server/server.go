// Package server is the vassistd HTTP API: auth, task CRUD with date
// and range queries, chat, and reminder scheduling for dated tasks.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FanchonSora/V-Assistant/internal/config"
	applog "github.com/FanchonSora/V-Assistant/internal/log"
	"github.com/FanchonSora/V-Assistant/internal/scheduler"
	"github.com/FanchonSora/V-Assistant/internal/storage"
)

type Server struct {
	cfg    config.ServerConfig
	repo   storage.Repository
	engine *scheduler.Engine
	cron   *cron.Cron
	mux    *http.ServeMux
	now    func() time.Time
}

func New(cfg config.ServerConfig, repo storage.Repository, engine *scheduler.Engine) *Server {
	s := &Server{
		cfg:    cfg,
		repo:   repo,
		engine: engine,
		mux:    http.NewServeMux(),
		now:    time.Now,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /auth/token", s.handleLogin)
	s.mux.Handle("GET /users/me", s.requireUser(s.handleMe))
	s.mux.Handle("POST /tasks/", s.requireUser(s.handleCreateTask))
	s.mux.Handle("GET /tasks/", s.requireUser(s.handleListTasks))
	s.mux.Handle("GET /tasks/range", s.requireUser(s.handleListTasksRange))
	s.mux.Handle("PATCH /tasks/{id}", s.requireUser(s.handleUpdateTask))
	s.mux.Handle("PUT /tasks/{id}", s.requireUser(s.handleUpdateTask))
	s.mux.Handle("DELETE /tasks/{id}", s.requireUser(s.handleDeleteTask))
	s.mux.Handle("POST /chat", s.requireUser(s.handleChat))
}

// Handler wraps the mux with request logging.
func (s *Server) Handler() http.Handler {
	return s.loggingMiddleware(s.mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		applog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Start launches the reminder engine, the cron sweep that feeds it, and
// begins listening. It blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.engine != nil {
		s.engine.Start()
		go s.consumeReminders()

		s.cron = cron.New()
		if _, err := s.cron.AddFunc(s.cfg.ReminderCron, func() { s.sweepReminders(context.Background()) }); err != nil {
			return err
		}
		s.cron.Start()
		s.sweepReminders(ctx)
	}

	httpServer := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		if s.cron != nil {
			s.cron.Stop()
		}
		if s.engine != nil {
			s.engine.Stop()
		}
	}()

	applog.Info("vassistd listening", "addr", s.cfg.Listen)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// errorBody matches the backend's {"detail": ...} error shape.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
