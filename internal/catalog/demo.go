package catalog

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"innospark/internal/domain"
)

// DemoOwner returns the first innovator among users, or "" when there is
// none. Generated projects are attributed to it when nobody is signed in.
func DemoOwner(users []domain.User) string {
	for _, u := range users {
		if u.Role == domain.UserRoleInnovator {
			return u.ID
		}
	}
	return ""
}

// DemoProjects fabricates active projects for local development. The same
// seed always yields the same projects; ids are drawn from the seeded
// generator so different seeds do not collide.
func DemoProjects(count int, seed int64, innovatorID string, now time.Time) []domain.Project {
	if count <= 0 {
		return nil
	}
	faker := gofakeit.New(seed)
	projects := make([]domain.Project, 0, count)
	for i := 0; i < count; i++ {
		id := "demo-" + faker.UUID()
		target := int64(faker.IntRange(3, 50)) * 10_000_000
		current := target * int64(faker.IntRange(0, 110)) / 100
		slots := faker.IntRange(1, 3)
		reqs := make([]domain.SkillRequirement, 0, slots)
		for j := 0; j < slots; j++ {
			total := faker.IntRange(1, 4)
			reqs = append(reqs, domain.SkillRequirement{
				ID:          fmt.Sprintf("%s-s%d", id, j+1),
				Name:        faker.JobTitle(),
				TotalSlots:  total,
				FilledSlots: faker.IntRange(0, total),
			})
		}
		projects = append(projects, domain.Project{
			ID:              id,
			Title:           fmt.Sprintf("%s %s", faker.AppName(), faker.BuzzWord()),
			Tagline:         faker.HackerPhrase(),
			Description:     faker.Paragraph(1, 3, 12, " "),
			InnovatorID:     innovatorID,
			Category:        domain.Categories[faker.IntRange(0, len(domain.Categories)-1)],
			Status:          domain.ProjectStatusActive,
			TargetFunding:   target,
			CurrentFunding:  current,
			DonorsCount:     faker.IntRange(0, 400),
			VolunteersCount: faker.IntRange(0, 12),
			ImageURL:        faker.ImageURL(800, 600),
			CreatedAt:       now,
			Requirements:    reqs,
		})
	}
	return projects
}
