package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ProjectCategory enumerates the catalog categories.
type ProjectCategory string

const (
	CategoryTechnology  ProjectCategory = "Technology"
	CategorySocial      ProjectCategory = "Social"
	CategoryEnvironment ProjectCategory = "Environment"
	CategoryEducation   ProjectCategory = "Education"
	CategoryHealth      ProjectCategory = "Health"
)

// Categories lists every category in display order.
var Categories = []ProjectCategory{
	CategoryTechnology,
	CategorySocial,
	CategoryEnvironment,
	CategoryEducation,
	CategoryHealth,
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (ProjectCategory, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q: %w", s, ErrInvalidInput)
}

// ProjectStatus enumerates the curation lifecycle.
type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "Pending"
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusRejected  ProjectStatus = "Rejected"
)

// ParseProjectStatus matches a status name case-insensitively.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range []ProjectStatus{ProjectStatusPending, ProjectStatusActive, ProjectStatusCompleted, ProjectStatusRejected} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown project status %q: %w", s, ErrInvalidInput)
}

// SkillRequirement is a volunteer slot group attached to a project.
type SkillRequirement struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	TotalSlots  int    `json:"total_slots" yaml:"total_slots"`
	FilledSlots int    `json:"filled_slots" yaml:"filled_slots"`
}

// Open reports whether the requirement still accepts volunteers.
func (s SkillRequirement) Open() bool {
	return s.FilledSlots < s.TotalSlots
}

// Project is a social-innovation initiative seeking funding and volunteers.
type Project struct {
	ID              string             `json:"id" yaml:"id"`
	Title           string             `json:"title" yaml:"title"`
	Tagline         string             `json:"tagline" yaml:"tagline"`
	Description     string             `json:"description" yaml:"description"`
	InnovatorID     string             `json:"innovator_id" yaml:"innovator_id"`
	Category        ProjectCategory    `json:"category" yaml:"category"`
	Status          ProjectStatus      `json:"status" yaml:"status"`
	TargetFunding   int64              `json:"target_funding" yaml:"target_funding"`
	CurrentFunding  int64              `json:"current_funding" yaml:"current_funding"`
	DonorsCount     int                `json:"donors_count" yaml:"donors_count"`
	VolunteersCount int                `json:"volunteers_count" yaml:"volunteers_count"`
	ImageURL        string             `json:"image_url" yaml:"image_url"`
	CreatedAt       time.Time          `json:"created_at" yaml:"created_at"`
	Requirements    []SkillRequirement `json:"requirements" yaml:"requirements"`
}

// FundingPercent returns the rounded share of the target raised so far,
// capped at 100. Over-funding is allowed; only the display is capped.
func (p Project) FundingPercent() int {
	if p.TargetFunding <= 0 {
		return 0
	}
	pct := int(math.Round(float64(p.CurrentFunding) / float64(p.TargetFunding) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// Requirement returns the skill requirement with the given id.
func (p Project) Requirement(skillID string) (SkillRequirement, bool) {
	for _, r := range p.Requirements {
		if r.ID == skillID {
			return r, true
		}
	}
	return SkillRequirement{}, false
}

// Clone returns a deep copy so callers can hand projects out without
// sharing the requirements backing array.
func (p Project) Clone() Project {
	out := p
	if p.Requirements != nil {
		out.Requirements = append([]SkillRequirement(nil), p.Requirements...)
	}
	return out
}

// NewProject carries the fields an innovator submits from the innovate screen.
type NewProject struct {
	Title       string          `json:"title"`
	Tagline     string          `json:"tagline"`
	Description string          `json:"description"`
	Category    ProjectCategory `json:"category"`
	Goal        int64           `json:"goal"`
	ImageURL    string          `json:"image_url"`
	AuthorID    string          `json:"author_id"`
}

// Validate enforces the required-field constraints of the submission form.
func (n NewProject) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("title required: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(n.Description) == "" {
		return fmt.Errorf("description required: %w", ErrInvalidInput)
	}
	if n.Goal <= 0 {
		return fmt.Errorf("goal must be positive: %w", ErrInvalidInput)
	}
	if _, err := ParseCategory(string(n.Category)); err != nil {
		return err
	}
	return nil
}
