// Package view holds the routing and selection state of one app session and
// resolves it into the screen a client should draw.
package view

import (
	"strings"

	"innospark/internal/domain"
)

// View names a top-level screen reachable from the navigation bar.
type View string

const (
	ViewHome      View = "home"
	ViewNews      View = "news"
	ViewDashboard View = "dashboard"
	ViewAdmin     View = "admin"
	ViewInnovate  View = "innovate"
	ViewCorporate View = "corporate"
	ViewLogin     View = "login"
	ViewRegister  View = "register"
)

// DefaultView is where a fresh session starts and where goBack ends up.
const DefaultView = ViewHome

var views = []View{ViewHome, ViewNews, ViewDashboard, ViewAdmin, ViewInnovate, ViewCorporate, ViewLogin, ViewRegister}

// ParseView matches a view name case-insensitively. "catalog" is accepted as
// an alias of home.
func ParseView(s string) (View, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "catalog" {
		return ViewHome, true
	}
	for _, v := range views {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// CategoryAll disables the category filter.
const CategoryAll = "All"

// State is the routing and selection state. The zero value is not usable;
// start from NewState.
type State struct {
	CurrentView       View   `json:"current_view"`
	SelectedProjectID string `json:"selected_project_id,omitempty"`
	SelectedStoryID   string `json:"selected_story_id,omitempty"`
	SearchTerm        string `json:"search_term"`
	SelectedCategory  string `json:"selected_category"`
}

// NewState returns the state of a freshly opened session.
func NewState() State {
	return State{CurrentView: DefaultView, SelectedCategory: CategoryAll}
}

// HasSelection reports whether a detail view overrides the current view.
func (s State) HasSelection() bool {
	return s.SelectedProjectID != "" || s.SelectedStoryID != ""
}

// normalizeCategory maps user input onto a category name or CategoryAll.
func normalizeCategory(s string) (string, bool) {
	if strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), CategoryAll) {
		return CategoryAll, true
	}
	c, err := domain.ParseCategory(s)
	if err != nil {
		return "", false
	}
	return string(c), true
}
