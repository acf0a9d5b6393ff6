// Package projectstore implements the remote project persistence used by the
// submission screen and the CMS listing.
package projectstore

import (
	"fmt"
	"strings"
	"time"

	"innospark/internal/domain"
)

const (
	KindMemory   = "memory"
	KindSupabase = "supabase"
	KindPostgres = "postgres"
)

// listLimit bounds listings; the CMS never pages further than this.
const listLimit = 200

// normalize validates a submission and trims its text fields.
func normalize(in domain.NewProject) (domain.NewProject, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Tagline = strings.TrimSpace(in.Tagline)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := in.Validate(); err != nil {
		return in, err
	}
	cat, _ := domain.ParseCategory(string(in.Category))
	in.Category = cat
	return in, nil
}

// created fills the server-assigned fields of a fresh row.
func created(id string, in domain.NewProject, at time.Time) *domain.Project {
	return &domain.Project{
		ID:            id,
		Title:         in.Title,
		Tagline:       in.Tagline,
		Description:   in.Description,
		InnovatorID:   in.AuthorID,
		Category:      in.Category,
		Status:        domain.ProjectStatusActive,
		TargetFunding: in.Goal,
		ImageURL:      in.ImageURL,
		CreatedAt:     at,
		Requirements:  []domain.SkillRequirement{},
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("projectstore: %s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
