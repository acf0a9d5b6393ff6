package projectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"innospark/internal/domain"
	"innospark/internal/infra"
	"innospark/internal/sqlinline"
)

// Postgres stores projects in a snake_case projects table through the
// marker-checked SQL runner.
type Postgres struct {
	db infra.SQLExecutor
}

func NewPostgres(db infra.SQLExecutor) (*Postgres, error) {
	if db == nil {
		return nil, errors.New("sql executor is required")
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) Create(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx, sqlinline.QInsertProject,
		in.Title, in.Tagline, in.Description, string(in.Category), in.Goal, in.ImageURL, in.AuthorID)
	p, err := scanProject(row)
	if err != nil {
		return nil, unavailable("create", err)
	}
	return &p, nil
}

func (s *Postgres) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.db.Query(ctx, sqlinline.QListProjects, listLimit)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()
	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, unavailable("list", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	return out, nil
}

// Ping checks that the projects table is reachable.
func (s *Postgres) Ping(ctx context.Context) error {
	var n int64
	if err := s.db.QueryRow(ctx, sqlinline.QPingProjects).Scan(&n); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func scanProject(row pgx.Row) (domain.Project, error) {
	var (
		p                 domain.Project
		category, status  string
		tagline, imageURL *string
		createdAt         time.Time
	)
	if err := row.Scan(&p.ID, &p.Title, &tagline, &p.Description, &category, &status,
		&p.TargetFunding, &p.CurrentFunding, &p.DonorsCount, &p.VolunteersCount,
		&imageURL, &p.InnovatorID, &createdAt); err != nil {
		return domain.Project{}, fmt.Errorf("scan project: %w", err)
	}
	if tagline != nil {
		p.Tagline = *tagline
	}
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	p.Category = domain.ProjectCategory(category)
	if c, err := domain.ParseCategory(category); err == nil {
		p.Category = c
	}
	p.Status = domain.ProjectStatusPending
	if st, err := domain.ParseProjectStatus(status); err == nil {
		p.Status = st
	}
	p.CreatedAt = createdAt.UTC()
	p.Requirements = []domain.SkillRequirement{}
	return p, nil
}

var _ domain.ProjectRepository = (*Postgres)(nil)
