package view

import (
	"strings"

	"innospark/internal/domain"
)

// Filter keeps the projects in the given category (CategoryAll or empty
// matches every category) whose title or description contains term,
// ignoring case. Input order is preserved and the input is not modified.
func Filter(projects []domain.Project, category, term string) []domain.Project {
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if matchesCategory(p, category) && matchesTerm(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func matchesCategory(p domain.Project, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return true
	}
	return strings.EqualFold(string(p.Category), category)
}

func matchesTerm(p domain.Project, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}
