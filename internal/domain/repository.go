package domain

import "context"

// ProjectRepository is the remote persistence collaborator used by the
// submission screen. Create assigns the identity, status Active, zeroed
// counters and the creation time. List returns rows newest first.
type ProjectRepository interface {
	Create(ctx context.Context, in NewProject) (*Project, error)
	List(ctx context.Context) ([]Project, error)
}
