package view

import (
	"testing"

	"github.com/stretchr/testify/require"

	"innospark/internal/domain"
)

type fakeSource struct {
	projects      []domain.Project
	announcements []domain.Announcement
	challenges    []domain.Challenge
	user          *domain.User
	settings      domain.SiteSettings
}

func (f *fakeSource) Project(id string) (domain.Project, bool) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

func (f *fakeSource) Projects() []domain.Project { return f.projects }

func (f *fakeSource) Announcement(id string) (domain.Announcement, bool) {
	for _, a := range f.announcements {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Announcement{}, false
}

func (f *fakeSource) ActiveAnnouncements() []domain.Announcement { return f.announcements }
func (f *fakeSource) Challenges() []domain.Challenge             { return f.challenges }
func (f *fakeSource) Settings() domain.SiteSettings              { return f.settings }

func (f *fakeSource) CurrentUser() (domain.User, bool) {
	if f.user == nil {
		return domain.User{}, false
	}
	return *f.user, true
}

func (f *fakeSource) Dashboard(u domain.User) domain.Dashboard {
	return domain.Dashboard{User: u}
}

func (f *fakeSource) AdminOverview() domain.AdminOverview {
	return domain.AdminOverview{TotalDonations: 3}
}

func newFakeSource(t *testing.T) *fakeSource {
	return &fakeSource{
		projects:      sampleProjects(t),
		announcements: []domain.Announcement{{ID: "n1", Title: "Summit", Active: true}},
		challenges:    []domain.Challenge{{ID: "c1", Title: "EV"}},
		settings:      domain.DefaultSiteSettings(),
	}
}

func TestRenderHomeAppliesFilter(t *testing.T) {
	src := newFakeSource(t)
	c := NewController()
	c.SelectCategory("Environment")
	c.SetSearch("bot")

	s := Render(c.State(), src)
	require.Equal(t, ScreenHome, s.Kind)
	require.Len(t, s.Home.Projects, 1)
	require.Equal(t, "p1", s.Home.Projects[0].ID)
	require.Equal(t, 30, s.Home.Projects[0].FundingPercent)
	require.Equal(t, "Environment", s.Home.SelectedCategory)
	require.Len(t, s.Home.Announcements, 1)
	require.Equal(t, "InnoSpark", s.Settings.PlatformName)
}

func TestRenderProjectDetailWins(t *testing.T) {
	src := newFakeSource(t)
	c := NewController()
	c.Navigate(ViewCorporate)
	c.OpenStory("n1")
	c.OpenProject("p1")

	s := Render(c.State(), src)
	require.Equal(t, ScreenProjectDetail, s.Kind)
	require.Equal(t, "p1", s.Project.Project.ID)
	require.Len(t, s.Project.OpenRequirements, 2)
	require.False(t, s.Project.CanVolunteer, "anonymous visitors cannot volunteer")
}

func TestRenderStaleProjectRendersNothing(t *testing.T) {
	src := newFakeSource(t)
	c := NewController()
	c.Navigate(ViewCorporate)
	c.OpenProject("gone")

	s := Render(c.State(), src)
	require.Equal(t, ScreenNone, s.Kind)
	require.Nil(t, s.Project)
	require.Equal(t, ViewCorporate, s.State.CurrentView)

	c.GoBack()
	require.Equal(t, ScreenCorporate, Render(c.State(), src).Kind)
}

func TestRenderStory(t *testing.T) {
	src := newFakeSource(t)
	c := NewController()
	c.OpenStory("n1")
	s := Render(c.State(), src)
	require.Equal(t, ScreenStory, s.Kind)
	require.Equal(t, "Summit", s.Story.Story.Title)

	c.OpenStory("gone")
	s = Render(c.State(), src)
	require.Equal(t, ScreenStory, s.Kind)
	require.Nil(t, s.Story.Story)

	c.Navigate(ViewNews)
	require.Equal(t, ScreenStory, Render(c.State(), src).Kind)
}

func TestRenderDashboardNeedsUser(t *testing.T) {
	src := newFakeSource(t)
	c := NewController()
	c.Navigate(ViewDashboard)

	require.Equal(t, ScreenStory, Render(c.State(), src).Kind)

	src.user = &domain.User{ID: "u1", Role: domain.UserRoleInnovator}
	s := Render(c.State(), src)
	require.Equal(t, ScreenDashboard, s.Kind)
	require.Equal(t, "u1", s.Dashboard.User.ID)
	require.Equal(t, "u1", s.User.ID)
}

func TestRenderAdminIsRestricted(t *testing.T) {
	src := newFakeSource(t)
	c := NewController()
	c.Navigate(ViewAdmin)

	s := Render(c.State(), src)
	require.Equal(t, ScreenAdmin, s.Kind)
	require.True(t, s.Admin.Restricted)
	require.Nil(t, s.Admin.Overview)

	src.user = &domain.User{ID: "u2", Role: domain.UserRoleAdmin}
	s = Render(c.State(), src)
	require.False(t, s.Admin.Restricted)
	require.Equal(t, 3, s.Admin.Overview.TotalDonations)
}

func TestRenderRemainingViews(t *testing.T) {
	src := newFakeSource(t)
	src.user = &domain.User{ID: "u3", Role: domain.UserRoleCollaborator}

	cases := map[View]ScreenKind{
		ViewInnovate:  ScreenInnovate,
		ViewCorporate: ScreenCorporate,
		ViewLogin:     ScreenLogin,
		ViewRegister:  ScreenRegister,
		ViewHome:      ScreenHome,
	}
	for v, want := range cases {
		c := NewController()
		c.Navigate(v)
		s := Render(c.State(), src)
		require.Equal(t, want, s.Kind, "view %s", v)
	}

	c := NewController()
	c.Navigate(ViewCorporate)
	s := Render(c.State(), src)
	require.True(t, s.Corporate.CanPost)
	require.False(t, s.Corporate.RequiresLogin)
}
