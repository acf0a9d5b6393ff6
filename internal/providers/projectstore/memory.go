package projectstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"innospark/internal/domain"
)

// Memory keeps projects in process. It is the default store and the one
// used in tests.
type Memory struct {
	mu    sync.RWMutex
	rows  []domain.Project
	now   func() time.Time
	newID func() string
}

func NewMemory() *Memory {
	return &Memory{now: time.Now, newID: uuid.NewString}
}

func (m *Memory) Create(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("create", err)
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	p := created(m.newID(), in, m.now().UTC())
	m.mu.Lock()
	m.rows = append(m.rows, p.Clone())
	m.mu.Unlock()
	return p, nil
}

// List returns rows newest first; rows created at the same instant keep
// reverse insertion order.
func (m *Memory) List(ctx context.Context) ([]domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Project, 0, len(m.rows))
	for i := len(m.rows) - 1; i >= 0 && len(out) < listLimit; i-- {
		out = append(out, m.rows[i].Clone())
	}
	return out, nil
}

var _ domain.ProjectRepository = (*Memory)(nil)
