package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"innospark/internal/catalog"
	"innospark/internal/metrics"
)

// DefaultSweepSchedule runs the idle sweep once a minute.
const DefaultSweepSchedule = "@every 1m"

// Manager is the registry of live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	seed  *catalog.Catalog
	opts  Options
	idle  time.Duration
	log   zerolog.Logger
	newID func() string

	cron *cron.Cron
}

// NewManager creates sessions from seed. Sessions idle for longer than idle
// are dropped by Sweep; idle <= 0 keeps them forever.
func NewManager(seed *catalog.Catalog, opts Options, idle time.Duration) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		sessions: make(map[string]*Session),
		seed:     seed,
		opts:     opts,
		idle:     idle,
		log:      opts.Logger,
		newID:    uuid.NewString,
	}
}

// Create starts a fresh session. locale overrides the default notice locale
// when set.
func (m *Manager) Create(locale string) *Session {
	opts := m.opts
	if locale != "" {
		opts.Locale = locale
	}
	s := New(m.newID(), m.seed, opts)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.SetActiveSessions(n)
	m.log.Info().Str("session_id", s.ID()).Str("locale", opts.Locale).Msg("session created")
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the configured limit and
// returns how many were dropped.
func (m *Manager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.opts.Now().Add(-m.idle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	metrics.SetActiveSessions(n)
	metrics.AddSweptSessions(len(stale))
	if len(stale) > 0 {
		m.log.Info().Int("swept", len(stale)).Int("active", n).Msg("idle sessions swept")
	}
	return len(stale)
}

// Start schedules Sweep with a cron spec such as "@every 1m".
func (m *Manager) Start(spec string) error {
	if spec == "" {
		spec = DefaultSweepSchedule
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { m.Sweep() }); err != nil {
		return err
	}
	m.mu.Lock()
	m.cron = c
	m.mu.Unlock()
	c.Start()
	return nil
}

// Stop halts the sweeper and waits for a running sweep, or for ctx.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}
