// Package session composes one application session: the routing controller,
// the ledger and the member state a browser tab works against. Every user
// gesture enters through Dispatch.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"innospark/internal/catalog"
	"innospark/internal/domain"
	"innospark/internal/ledger"
	"innospark/internal/view"
)

const defaultStoreTimeout = 10 * time.Second

var (
	errEmailTaken      = fmt.Errorf("email taken: %w", domain.ErrInvalidInput)
	errAuthFailed      = fmt.Errorf("credentials rejected: %w", domain.ErrUnauthorized)
	errUnknownCategory = fmt.Errorf("unknown category: %w", domain.ErrInvalidInput)
)

// Options configures sessions created by a Manager or by New.
type Options struct {
	// Store receives submitted projects. Nil disables submissions.
	Store        domain.ProjectRepository
	StoreTimeout time.Duration
	// Locale is used when a request carries none.
	Locale     string
	Logger     zerolog.Logger
	Now        func() time.Time
	NewID      func() string
	BcryptCost int
}

func (o Options) withDefaults() Options {
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = defaultStoreTimeout
	}
	if o.Locale == "" {
		o.Locale = "en"
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	return o
}

// Session is safe for concurrent use; intents are applied one at a time in
// arrival order.
type Session struct {
	id string

	mu       sync.Mutex
	ctrl     *view.Controller
	ledger   *ledger.Ledger
	content  *catalog.Catalog
	users    []domain.User
	accounts map[string]account
	user     *domain.User
	settings domain.SiteSettings
	subs     map[uint64]chan view.Screen
	nextSub  uint64
	closed   bool

	store        domain.ProjectRepository
	storeTimeout time.Duration
	locale       string
	log          zerolog.Logger
	now          func() time.Time
	newID        func() string
	bcryptCost   int

	lastSeen atomic.Int64
}

// New starts a session over a private copy of seed.
func New(id string, seed *catalog.Catalog, opts Options) *Session {
	opts = opts.withDefaults()
	data := seed.Clone()
	s := &Session{
		id:           id,
		ctrl:         view.NewController(),
		content:      data,
		users:        append([]domain.User(nil), data.Users...),
		accounts:     make(map[string]account),
		settings:     domain.DefaultSiteSettings(),
		subs:         make(map[uint64]chan view.Screen),
		store:        opts.Store,
		storeTimeout: opts.StoreTimeout,
		locale:       opts.Locale,
		log:          opts.Logger.With().Str("session_id", id).Logger(),
		now:          opts.Now,
		newID:        opts.NewID,
		bcryptCost:   opts.BcryptCost,
	}
	s.ledger = ledger.New(data.Projects, ledger.WithClock(opts.Now), ledger.WithIDs(opts.NewID))
	s.touch()
	return s
}

func (s *Session) ID() string { return s.id }

// LastSeen is the time of the last intent or screen read.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

// Screen renders the current state without changing it.
func (s *Session) Screen() view.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.render()
}

// render must be called with s.mu held.
func (s *Session) render() view.Screen {
	return view.Render(s.ctrl.State(), source{s})
}

// Subscribe returns a channel that receives every screen rendered after an
// intent. Slow readers only ever see the latest screen. The returned func
// unsubscribes; the channel is closed on unsubscribe or when the session is
// closed.
func (s *Session) Subscribe() (<-chan view.Screen, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan view.Screen, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// broadcast must be called with s.mu held.
func (s *Session) broadcast(screen view.Screen) {
	for _, ch := range s.subs {
		select {
		case ch <- screen:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- screen:
		default:
		}
	}
}

// Close drops every subscriber. Later intents still work but are not
// broadcast.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// AddDemoProjects appends generated projects owned by the current member,
// or by the first seeded innovator when nobody is signed in. Projects whose
// ids already exist are skipped.
func (s *Session) AddDemoProjects(ctx context.Context, count int, seed int64) (int, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	owner := catalog.DemoOwner(s.users)
	if s.user != nil {
		owner = s.user.ID
	}
	added := 0
	for _, p := range catalog.DemoProjects(count, seed, owner, s.now()) {
		if err := s.ledger.AddProject(p); err != nil {
			s.log.Debug().Err(err).Str("project_id", p.ID).Msg("skip demo project")
			continue
		}
		added++
	}
	p := printerFor(localeFrom(ctx, s.locale))
	out := Outcome{Screen: s.render(), Notice: notice(p, LevelInfo, msgDemoAdded, added)}
	s.broadcast(out.Screen)
	return added, out
}

// source exposes session state to view.Render. It is only used while s.mu
// is held.
type source struct{ s *Session }

func (src source) Project(id string) (domain.Project, bool) { return src.s.ledger.Project(id) }
func (src source) Projects() []domain.Project                { return src.s.ledger.Projects() }

func (src source) Announcement(id string) (domain.Announcement, bool) {
	return src.s.content.Announcement(id)
}

func (src source) ActiveAnnouncements() []domain.Announcement {
	return src.s.content.ActiveAnnouncements()
}

func (src source) Challenges() []domain.Challenge {
	return append([]domain.Challenge(nil), src.s.content.Challenges...)
}

func (src source) CurrentUser() (domain.User, bool) {
	if src.s.user == nil {
		return domain.User{}, false
	}
	return *src.s.user, true
}

func (src source) Settings() domain.SiteSettings { return src.s.settings }

func (src source) Dashboard(user domain.User) domain.Dashboard {
	return src.s.ledger.Dashboard(user)
}

func (src source) AdminOverview() domain.AdminOverview {
	return src.s.ledger.AdminOverview(src.s.users, src.s.settings)
}
