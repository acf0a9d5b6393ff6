// Package catalog loads the seed dataset every app session starts from.
package catalog

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"innospark/internal/domain"
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is the read-only dataset handed to a new session.
type Catalog struct {
	Users         []domain.User         `yaml:"users"`
	Projects      []domain.Project      `yaml:"projects"`
	Announcements []domain.Announcement `yaml:"announcements"`
	Challenges    []domain.Challenge    `yaml:"challenges"`
}

// Load parses the embedded seed file. Projects without a creation time are
// stamped with now.
func Load(now time.Time) (*Catalog, error) {
	return Parse(seedYAML, now)
}

// Parse decodes a catalog document and validates its enumerations.
func Parse(data []byte, now time.Time) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode seed: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Projects))
	for i := range c.Projects {
		p := &c.Projects[i]
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate project id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if _, err := domain.ParseCategory(string(p.Category)); err != nil {
			return nil, fmt.Errorf("catalog: project %s: %w", p.ID, err)
		}
		if _, err := domain.ParseProjectStatus(string(p.Status)); err != nil {
			return nil, fmt.Errorf("catalog: project %s: %w", p.ID, err)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
	}
	for _, u := range c.Users {
		if _, err := domain.ParseUserRole(string(u.Role)); err != nil {
			return nil, fmt.Errorf("catalog: user %s: %w", u.ID, err)
		}
	}
	return &c, nil
}

// Clone returns a deep copy so sessions never share mutable slices.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return &Catalog{}
	}
	out := &Catalog{
		Users:         make([]domain.User, len(c.Users)),
		Projects:      make([]domain.Project, len(c.Projects)),
		Announcements: append([]domain.Announcement(nil), c.Announcements...),
		Challenges:    make([]domain.Challenge, len(c.Challenges)),
	}
	for i, u := range c.Users {
		u.Skills = append([]string(nil), u.Skills...)
		out.Users[i] = u
	}
	for i, p := range c.Projects {
		out.Projects[i] = p.Clone()
	}
	for i, ch := range c.Challenges {
		ch.SkillsNeeded = append([]string(nil), ch.SkillsNeeded...)
		out.Challenges[i] = ch
	}
	return out
}

// Announcement looks up a news item by id.
func (c *Catalog) Announcement(id string) (domain.Announcement, bool) {
	for _, a := range c.Announcements {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Announcement{}, false
}

// ActiveAnnouncements returns the items flagged for the carousel.
func (c *Catalog) ActiveAnnouncements() []domain.Announcement {
	var out []domain.Announcement
	for _, a := range c.Announcements {
		if a.Active {
			out = append(out, a)
		}
	}
	return out
}

// Challenge looks up a corporate challenge by id.
func (c *Catalog) Challenge(id string) (domain.Challenge, bool) {
	for _, ch := range c.Challenges {
		if ch.ID == id {
			return ch, true
		}
	}
	return domain.Challenge{}, false
}

// UserByEmail finds a seeded member by email.
func (c *Catalog) UserByEmail(email string) (domain.User, bool) {
	for _, u := range c.Users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}
