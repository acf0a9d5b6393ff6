package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"innospark/internal/domain"
	"innospark/internal/infra"
	"innospark/internal/middleware"
	"innospark/internal/providers/suggest"
	"innospark/internal/session"
)

const maxBodyBytes = 64 << 10

type App struct {
	Config    *infra.Config
	Logger    zerolog.Logger
	Sessions  *session.Manager
	Projects  domain.ProjectRepository
	Assistant suggest.Assistant
	Now       func() time.Time
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, sessions *session.Manager, projects domain.ProjectRepository, assistant suggest.Assistant) *App {
	if assistant == nil {
		assistant = suggest.NewStaticAssistant()
	}
	return &App{
		Config:    cfg,
		Logger:    logger,
		Sessions:  sessions,
		Projects:  projects,
		Assistant: assistant,
		Now:       time.Now,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": msg},
	})
}

// decode reads a bounded JSON body into v.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

func (a *App) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", "payload too large")
			return nil, false
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return nil, false
	}
	return body, true
}

// currentSession resolves the session named by the verified token. A
// session swept for inactivity answers 404 so the client can start over.
func (a *App) currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sid := middleware.SessionIDFromContext(r.Context())
	if sid == "" {
		a.error(w, http.StatusUnauthorized, "missing_token", "missing session token")
		return nil, false
	}
	s, ok := a.Sessions.Get(sid)
	if !ok {
		a.error(w, http.StatusNotFound, "session_not_found", "session expired")
		return nil, false
	}
	return s, true
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
