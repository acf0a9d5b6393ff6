package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"innospark/internal/domain"
	"innospark/internal/middleware"
	"innospark/internal/session"
)

const maxDemoProjects = 50

type createSessionResponse struct {
	Token     string          `json:"token"`
	SessionID string          `json:"session_id"`
	ExpiresAt time.Time       `json:"expires_at"`
	Outcome   session.Outcome `json:"outcome"`
}

// CreateSession opens a fresh app session and returns its token with the
// first screen.
func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := a.Sessions.Create(middleware.LocaleFromContext(r.Context()))
	now := a.now()
	token, err := middleware.SignSessionToken(a.Config.JWTSecret, s.ID(), a.Config.SessionTTL, now)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("sign session token")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}
	a.json(w, http.StatusCreated, createSessionResponse{
		Token:     token,
		SessionID: s.ID(),
		ExpiresAt: now.Add(a.Config.SessionTTL),
		Outcome:   session.Outcome{Screen: s.Screen(), ScrollTop: true},
	})
}

func (a *App) Screen(w http.ResponseWriter, r *http.Request) {
	s, ok := a.currentSession(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, session.Outcome{Screen: s.Screen()})
}

// PostIntent applies one intent. Domain failures still answer 200; the
// outcome's notice carries them.
func (a *App) PostIntent(w http.ResponseWriter, r *http.Request) {
	s, ok := a.currentSession(w, r)
	if !ok {
		return
	}
	body, ok := a.readBody(w, r)
	if !ok {
		return
	}
	in, err := session.DecodeIntent(body)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, domain.ErrInvalidInput) {
			code = "invalid_intent"
		}
		a.error(w, http.StatusBadRequest, code, err.Error())
		return
	}
	ctx := session.WithLocale(r.Context(), middleware.LocaleFromContext(r.Context()))
	a.json(w, http.StatusOK, s.Dispatch(ctx, in))
}

type demoProjectsResponse struct {
	Added   int             `json:"added"`
	Outcome session.Outcome `json:"outcome"`
}

// DemoProjects seeds generated projects into the caller's session. It is
// only routed in development.
func (a *App) DemoProjects(w http.ResponseWriter, r *http.Request) {
	s, ok := a.currentSession(w, r)
	if !ok {
		return
	}
	count := 5
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxDemoProjects {
			a.error(w, http.StatusBadRequest, "bad_request", "count must be between 1 and 50")
			return
		}
		count = n
	}
	seed := a.now().UnixNano()
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "seed must be an integer")
			return
		}
		seed = n
	}
	ctx := session.WithLocale(r.Context(), middleware.LocaleFromContext(r.Context()))
	added, out := s.AddDemoProjects(ctx, count, seed)
	a.json(w, http.StatusOK, demoProjectsResponse{Added: added, Outcome: out})
}
