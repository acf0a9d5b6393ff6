package view

import "innospark/internal/domain"

// ScreenKind identifies the screen component a client should draw.
type ScreenKind string

const (
	ScreenNone          ScreenKind = "none"
	ScreenHome          ScreenKind = "home"
	ScreenProjectDetail ScreenKind = "project_detail"
	ScreenStory         ScreenKind = "story"
	ScreenDashboard     ScreenKind = "dashboard"
	ScreenAdmin         ScreenKind = "admin"
	ScreenInnovate      ScreenKind = "innovate"
	ScreenCorporate     ScreenKind = "corporate"
	ScreenLogin         ScreenKind = "login"
	ScreenRegister      ScreenKind = "register"
)

// Source is the read side of an app session that screens are built from.
type Source interface {
	Project(id string) (domain.Project, bool)
	Projects() []domain.Project
	Announcement(id string) (domain.Announcement, bool)
	ActiveAnnouncements() []domain.Announcement
	Challenges() []domain.Challenge
	CurrentUser() (domain.User, bool)
	Settings() domain.SiteSettings
	Dashboard(user domain.User) domain.Dashboard
	AdminOverview() domain.AdminOverview
}

// Screen is the serialisable result of Render. Exactly one of the payload
// pointers is set, matching Kind; ScreenNone carries none.
type Screen struct {
	Kind     ScreenKind          `json:"kind"`
	State    State               `json:"state"`
	Settings domain.SiteSettings `json:"settings"`
	User     *domain.User        `json:"user,omitempty"`

	Home      *HomeScreen       `json:"home,omitempty"`
	Project   *ProjectScreen    `json:"project,omitempty"`
	Story     *StoryScreen      `json:"story,omitempty"`
	Dashboard *domain.Dashboard `json:"dashboard,omitempty"`
	Admin     *AdminScreen      `json:"admin,omitempty"`
	Innovate  *InnovateScreen   `json:"innovate,omitempty"`
	Corporate *CorporateScreen  `json:"corporate,omitempty"`
	Auth      *AuthScreen       `json:"auth,omitempty"`
}

// ProjectCard is a project with its display percentage.
type ProjectCard struct {
	domain.Project
	FundingPercent int `json:"funding_percent"`
}

func newCard(p domain.Project) ProjectCard {
	return ProjectCard{Project: p, FundingPercent: p.FundingPercent()}
}

// HomeScreen is the catalog browse view.
type HomeScreen struct {
	Announcements    []domain.Announcement    `json:"announcements"`
	Projects         []ProjectCard            `json:"projects"`
	SearchTerm       string                   `json:"search_term"`
	SelectedCategory string                   `json:"selected_category"`
	Categories       []domain.ProjectCategory `json:"categories"`
}

// ProjectScreen is the project detail view with its donate and volunteer forms.
type ProjectScreen struct {
	Project          ProjectCard               `json:"project"`
	OpenRequirements []domain.SkillRequirement `json:"open_requirements"`
	CanVolunteer     bool                      `json:"can_volunteer"`
}

// StoryScreen is the news portal. Story is nil when no item is selected or
// the selected id no longer resolves.
type StoryScreen struct {
	Story         *domain.Announcement  `json:"story"`
	Announcements []domain.Announcement `json:"announcements"`
}

// AdminScreen is the CMS. Overview is withheld from non-admins.
type AdminScreen struct {
	Restricted bool                  `json:"restricted"`
	Overview   *domain.AdminOverview `json:"overview,omitempty"`
}

// InnovateScreen is the project submission form.
type InnovateScreen struct {
	RequiresLogin bool                     `json:"requires_login"`
	Categories    []domain.ProjectCategory `json:"categories"`
}

// CorporateScreen is the collaboration hub.
type CorporateScreen struct {
	Challenges    []domain.Challenge `json:"challenges"`
	RequiresLogin bool               `json:"requires_login"`
	CanPost       bool               `json:"can_post"`
}

// AuthScreen is shared by the login and register views.
type AuthScreen struct {
	Mode View `json:"mode"`
}

// Render resolves state against src. A selected project wins over
// everything, then a selected story or the news view, then the current view.
// A project selection that no longer resolves renders ScreenNone.
func Render(st State, src Source) Screen {
	s := Screen{State: st, Settings: src.Settings()}
	user, loggedIn := src.CurrentUser()
	if loggedIn {
		s.User = &user
	}

	if st.SelectedProjectID != "" {
		p, ok := src.Project(st.SelectedProjectID)
		if !ok {
			s.Kind = ScreenNone
			return s
		}
		s.Kind = ScreenProjectDetail
		s.Project = projectScreen(p, loggedIn)
		return s
	}

	if st.SelectedStoryID != "" || st.CurrentView == ViewNews {
		s.Kind = ScreenStory
		s.Story = storyScreen(st.SelectedStoryID, src)
		return s
	}

	switch st.CurrentView {
	case ViewDashboard:
		if !loggedIn {
			s.Kind = ScreenStory
			s.Story = storyScreen("", src)
			return s
		}
		d := src.Dashboard(user)
		s.Kind = ScreenDashboard
		s.Dashboard = &d
	case ViewAdmin:
		s.Kind = ScreenAdmin
		s.Admin = &AdminScreen{Restricted: true}
		if loggedIn && user.IsAdmin() {
			o := src.AdminOverview()
			s.Admin = &AdminScreen{Overview: &o}
		}
	case ViewInnovate:
		s.Kind = ScreenInnovate
		s.Innovate = &InnovateScreen{RequiresLogin: !loggedIn, Categories: domain.Categories}
	case ViewCorporate:
		s.Kind = ScreenCorporate
		s.Corporate = &CorporateScreen{
			Challenges:    src.Challenges(),
			RequiresLogin: !loggedIn,
			CanPost:       loggedIn && user.IsCollaborator(),
		}
	case ViewLogin:
		s.Kind = ScreenLogin
		s.Auth = &AuthScreen{Mode: ViewLogin}
	case ViewRegister:
		s.Kind = ScreenRegister
		s.Auth = &AuthScreen{Mode: ViewRegister}
	default:
		s.Kind = ScreenHome
		s.Home = homeScreen(st, src)
	}
	return s
}

func homeScreen(st State, src Source) *HomeScreen {
	filtered := Filter(src.Projects(), st.SelectedCategory, st.SearchTerm)
	cards := make([]ProjectCard, len(filtered))
	for i, p := range filtered {
		cards[i] = newCard(p)
	}
	category := st.SelectedCategory
	if category == "" {
		category = CategoryAll
	}
	return &HomeScreen{
		Announcements:    src.ActiveAnnouncements(),
		Projects:         cards,
		SearchTerm:       st.SearchTerm,
		SelectedCategory: category,
		Categories:       domain.Categories,
	}
}

func projectScreen(p domain.Project, loggedIn bool) *ProjectScreen {
	open := []domain.SkillRequirement{}
	for _, r := range p.Requirements {
		if r.Open() {
			open = append(open, r)
		}
	}
	return &ProjectScreen{
		Project:          newCard(p),
		OpenRequirements: open,
		CanVolunteer:     loggedIn && len(open) > 0,
	}
}

func storyScreen(id string, src Source) *StoryScreen {
	out := &StoryScreen{Announcements: src.ActiveAnnouncements()}
	if id == "" {
		return out
	}
	if a, ok := src.Announcement(id); ok {
		out.Story = &a
	}
	return out
}
