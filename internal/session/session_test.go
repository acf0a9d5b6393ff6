package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"innospark/internal/catalog"
	"innospark/internal/domain"
	"innospark/internal/providers/projectstore"
	"innospark/internal/view"
)

type failingStore struct{ calls int }

func (f *failingStore) Create(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	f.calls++
	return nil, fmt.Errorf("projectstore: create: %w", domain.ErrStoreUnavailable)
}

func (f *failingStore) List(ctx context.Context) ([]domain.Project, error) {
	return nil, domain.ErrStoreUnavailable
}

// blockingStore holds Create until its context ends.
type blockingStore struct{ entered chan struct{} }

func (b *blockingStore) Create(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	close(b.entered)
	<-ctx.Done()
	return nil, fmt.Errorf("projectstore: create: %w", domain.ErrStoreUnavailable)
}

func (b *blockingStore) List(ctx context.Context) ([]domain.Project, error) {
	return nil, domain.ErrStoreUnavailable
}

func testSeed(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return c
}

func testOptions(store domain.ProjectRepository) Options {
	seq := 0
	clock := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	return Options{
		Store:      store,
		Logger:     zerolog.Nop(),
		BcryptCost: bcrypt.MinCost,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}
}

func newTestSession(t *testing.T, store domain.ProjectRepository) *Session {
	t.Helper()
	return New("s-1", testSeed(t), testOptions(store))
}

func loginAsAdmin(t *testing.T, s *Session) {
	t.Helper()
	out := s.Dispatch(context.Background(), Login{Email: "1", Password: "1"})
	require.NotNil(t, out.Notice)
	require.Equal(t, LevelSuccess, out.Notice.Level)
}

func TestFreshSessionRendersHome(t *testing.T) {
	s := newTestSession(t, nil)
	screen := s.Screen()
	require.Equal(t, view.ScreenHome, screen.Kind)
	require.Len(t, screen.Home.Projects, 15)
	require.Nil(t, screen.User)
	require.Equal(t, "InnoSpark", screen.Settings.PlatformName)
}

func TestNavigationIntents(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	out := s.Dispatch(ctx, OpenProject{ProjectID: "p1"})
	require.True(t, out.ScrollTop)
	require.Equal(t, view.ScreenProjectDetail, out.Screen.Kind)

	out = s.Dispatch(ctx, GoBack{})
	require.True(t, out.ScrollTop)
	require.Equal(t, view.ScreenHome, out.Screen.Kind)

	out = s.Dispatch(ctx, Navigate{View: "corporate"})
	require.True(t, out.ScrollTop)
	require.Equal(t, view.ScreenCorporate, out.Screen.Kind)
	require.True(t, out.Screen.Corporate.RequiresLogin)

	out = s.Dispatch(ctx, OpenStory{StoryID: "n2"})
	require.True(t, out.ScrollTop)
	require.Equal(t, view.ScreenStory, out.Screen.Kind)
	require.Equal(t, "n2", out.Screen.Story.Story.ID)

	out = s.Dispatch(ctx, Search{Term: "bot"})
	require.False(t, out.ScrollTop)
	require.Nil(t, out.Notice)

	out = s.Dispatch(ctx, Donate{ProjectID: "p1", Amount: 1000})
	require.False(t, out.ScrollTop)

	out = s.Dispatch(ctx, SelectCategory{Category: "Space"})
	require.False(t, out.ScrollTop)
	require.Equal(t, LevelError, out.Notice.Level)
	require.Equal(t, "Unknown category.", out.Notice.Message)
}

func TestDonationNoticeIsLocalised(t *testing.T) {
	s := newTestSession(t, nil)

	out := s.Dispatch(WithLocale(context.Background(), "id"), Donate{ProjectID: "p1", Amount: 100000})
	require.Equal(t, LevelSuccess, out.Notice.Level)
	require.Contains(t, out.Notice.Message, "Rp 100.000")
	require.Contains(t, out.Notice.Message, "Terima kasih")

	out = s.Dispatch(WithLocale(context.Background(), "en-US"), Donate{ProjectID: "p1", Amount: 100000})
	require.Contains(t, out.Notice.Message, "Rp 100,000")

	p, ok := s.ledger.Project("p1")
	require.True(t, ok)
	require.EqualValues(t, 45200000, p.CurrentFunding)
	require.Equal(t, 90, p.DonorsCount)
	require.Equal(t, domain.DefaultDonorName, s.ledger.Donations()[0].DonorName)
}

func TestDonationFailureLeavesLedgerUntouched(t *testing.T) {
	s := newTestSession(t, nil)
	out := s.Dispatch(context.Background(), Donate{ProjectID: "p1", Amount: -5})
	require.Equal(t, LevelError, out.Notice.Level)
	require.Empty(t, s.ledger.Donations())

	out = s.Dispatch(context.Background(), Donate{ProjectID: "ghost", Amount: 5})
	require.Equal(t, "That item is no longer available.", out.Notice.Message)

	before, _ := s.ledger.Project("p1")
	out = s.Dispatch(context.Background(), Donate{ProjectID: "p1", Amount: math.MaxInt64})
	require.Equal(t, "Donations are limited to Rp 1,000,000,000,000 at a time.", out.Notice.Message)
	after, _ := s.ledger.Project("p1")
	require.Equal(t, before.CurrentFunding, after.CurrentFunding)
	require.Empty(t, s.ledger.Donations())
}

func TestSignedInDonorNameIsRecorded(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()
	out := s.Dispatch(ctx, Login{Email: "budi@donor.com", Password: "anything"})
	require.Equal(t, view.ScreenDashboard, out.Screen.Kind)
	require.True(t, out.ScrollTop)

	s.Dispatch(ctx, Donate{ProjectID: "p2", Amount: 5000, Recurring: true})
	d := s.ledger.Donations()[0]
	require.Equal(t, "Budi Santoso", d.DonorName)
	require.Equal(t, "u4", d.DonorID)
	require.True(t, d.IsRecurring)
}

func TestLoginRules(t *testing.T) {
	ctx := context.Background()

	s := newTestSession(t, nil)
	out := s.Dispatch(ctx, Login{Email: "1", Password: "1"})
	require.Equal(t, "super-admin-01", out.Screen.User.ID)
	require.Equal(t, domain.UserRoleAdmin, out.Screen.User.Role)

	s = newTestSession(t, nil)
	out = s.Dispatch(ctx, Login{Email: "New@Example.com", Password: "pw"})
	require.Equal(t, "Member User", out.Screen.User.Name)
	require.Equal(t, "new@example.com", out.Screen.User.Email)
	require.Equal(t, domain.UserRoleDonor, out.Screen.User.Role)
	require.False(t, out.Screen.User.IsVerified)

	s = newTestSession(t, nil)
	out = s.Dispatch(ctx, Login{Email: "", Password: ""})
	require.Equal(t, LevelError, out.Notice.Level)
	require.Nil(t, out.Screen.User)
}

func TestRegisterAndPasswordCheck(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	out := s.Dispatch(ctx, Register{Name: "Rina", Email: "rina@example.com", Password: "s3cret", Role: "Innovator"})
	require.Equal(t, LevelSuccess, out.Notice.Level)
	require.Equal(t, "Welcome to InnoSpark, Rina!", out.Notice.Message)
	require.Equal(t, domain.UserRoleInnovator, out.Screen.User.Role)
	require.Equal(t, domain.VerificationPending, out.Screen.User.KYCStatus)

	s.Dispatch(ctx, Logout{})
	out = s.Dispatch(ctx, Login{Email: "rina@example.com", Password: "wrong"})
	require.Equal(t, "Incorrect email or password.", out.Notice.Message)
	require.Nil(t, out.Screen.User)

	out = s.Dispatch(ctx, Login{Email: "rina@example.com", Password: "s3cret"})
	require.Equal(t, "Rina", out.Screen.User.Name)

	out = s.Dispatch(ctx, Register{Name: "Again", Email: "RINA@example.com", Password: "x"})
	require.Equal(t, "That email is already registered.", out.Notice.Message)

	out = s.Dispatch(ctx, Register{Name: "Sneaky", Email: "sneaky@example.com", Password: "x", Role: "Admin"})
	require.Equal(t, LevelError, out.Notice.Level)
}

func TestLogoutReturnsHome(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()
	loginAsAdmin(t, s)
	out := s.Dispatch(ctx, Logout{})
	require.Equal(t, view.ScreenHome, out.Screen.Kind)
	require.Nil(t, out.Screen.User)
	require.Equal(t, LevelInfo, out.Notice.Level)
}

func TestVolunteerRequiresLogin(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	out := s.Dispatch(ctx, Volunteer{ProjectID: "p1", SkillID: "s1", Pitch: "hi"})
	require.Equal(t, "Please sign in to volunteer!", out.Notice.Message)
	require.Empty(t, s.ledger.Applications())

	s.Dispatch(ctx, Login{Email: "siti@volunteer.com", Password: "x"})
	out = s.Dispatch(ctx, Volunteer{ProjectID: "p1", SkillID: "s1", Pitch: "vision models"})
	require.Equal(t, "Application Sent!", out.Notice.Message)
	apps := s.ledger.Applications()
	require.Len(t, apps, 1)
	require.Equal(t, "u5", apps[0].UserID)
	require.Equal(t, "Siti Aminah", apps[0].UserName)
}

func TestAdminGating(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	out := s.Dispatch(ctx, Navigate{View: "admin"})
	require.Equal(t, view.ScreenAdmin, out.Screen.Kind)
	require.True(t, out.Screen.Admin.Restricted)

	out = s.Dispatch(ctx, SetProjectStatus{ProjectID: "p1", Status: "Completed"})
	require.Equal(t, "Please sign in to continue.", out.Notice.Message)

	s.Dispatch(ctx, Login{Email: "budi@donor.com", Password: "x"})
	out = s.Dispatch(ctx, SaveBranding{PlatformName: "Hacked", PrimaryColor: "#000000"})
	require.Equal(t, "You do not have access to this action.", out.Notice.Message)
	require.Equal(t, "InnoSpark", out.Screen.Settings.PlatformName)

	out = s.Dispatch(ctx, UpdateRole{Role: "Admin"})
	require.Equal(t, LevelError, out.Notice.Level)
	require.Equal(t, domain.UserRoleDonor, out.Screen.User.Role)
}

func TestCurationFlow(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	s.Dispatch(ctx, Login{Email: "siti@volunteer.com", Password: "x"})
	s.Dispatch(ctx, Volunteer{ProjectID: "p1", SkillID: "s2", Pitch: "I solder"})
	appID := s.ledger.Applications()[0].ID
	s.Dispatch(ctx, Logout{})

	loginAsAdmin(t, s)
	out := s.Dispatch(ctx, Navigate{View: "admin"})
	require.False(t, out.Screen.Admin.Restricted)
	require.Len(t, out.Screen.Admin.Overview.PendingApplications, 1)

	out = s.Dispatch(ctx, DecideVolunteer{ApplicationID: appID, Status: "approved"})
	require.Equal(t, "Volunteer application Approved.", out.Notice.Message)
	p, _ := s.ledger.Project("p1")
	require.Equal(t, 1, p.Requirements[1].FilledSlots)

	out = s.Dispatch(ctx, DecideVolunteer{ApplicationID: appID, Status: "rejected"})
	require.Equal(t, "This application has already been reviewed.", out.Notice.Message)

	out = s.Dispatch(ctx, SetProjectStatus{ProjectID: "p1", Status: "completed"})
	require.Equal(t, "Project OceanPlastic Bot is now Completed.", out.Notice.Message)
}

func TestSaveBrandingCarriesIntoLaterScreens(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()
	loginAsAdmin(t, s)

	out := s.Dispatch(ctx, SaveBranding{PlatformName: "InovasiKita", PrimaryColor: "#2563eb", LogoURL: " https://cdn/logo.png "})
	require.Equal(t, LevelSuccess, out.Notice.Level)

	for _, in := range []Intent{Navigate{View: "home"}, OpenProject{ProjectID: "p2"}, Navigate{View: "news"}} {
		out = s.Dispatch(ctx, in)
		require.Equal(t, "InovasiKita", out.Screen.Settings.PlatformName, in.Kind())
		require.Equal(t, "#2563eb", out.Screen.Settings.PrimaryColor)
		require.Equal(t, "https://cdn/logo.png", out.Screen.Settings.LogoURL)
	}

	out = s.Dispatch(ctx, SaveBranding{PlatformName: "X", PrimaryColor: "blue"})
	require.Equal(t, LevelError, out.Notice.Level)
	require.Equal(t, "InovasiKita", out.Screen.Settings.PlatformName)
}

func TestUpdateRole(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()
	s.Dispatch(ctx, Login{Email: "budi@donor.com", Password: "x"})

	out := s.Dispatch(ctx, UpdateRole{Role: "collaborator"})
	require.Equal(t, "Account Updated: You are now a Collaborator. Enjoy full access!", out.Notice.Message)
	require.Equal(t, domain.UserRoleCollaborator, out.Screen.User.Role)

	out = s.Dispatch(ctx, Navigate{View: "corporate"})
	require.True(t, out.Screen.Corporate.CanPost)
}

func TestJoinChallenge(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()

	out := s.Dispatch(ctx, JoinChallenge{ChallengeID: "c1", Proposal: "battery pack"})
	require.Equal(t, LevelError, out.Notice.Level)

	s.Dispatch(ctx, Login{Email: "sarah@innovate.com", Password: "x"})
	out = s.Dispatch(WithLocale(ctx, "id"), JoinChallenge{ChallengeID: "c1", Proposal: "battery pack"})
	require.Contains(t, out.Notice.Message, "AutoParts Global")
	require.Len(t, s.ledger.Proposals(), 1)

	out = s.Dispatch(ctx, JoinChallenge{ChallengeID: "c9", Proposal: "x"})
	require.Equal(t, "That item is no longer available.", out.Notice.Message)
}

func TestSubmitProjectSuccess(t *testing.T) {
	s := newTestSession(t, projectstore.NewMemory())
	ctx := context.Background()
	s.Dispatch(ctx, Login{Email: "sarah@innovate.com", Password: "x"})

	out := s.Dispatch(ctx, SubmitProject{Title: "Mangrove Sensor", Description: "Tracks coastal erosion", Category: "Environment", Goal: 5000000})
	require.Equal(t, "Hooray! Your project has been registered.", out.Notice.Message)
	require.Equal(t, view.ScreenDashboard, out.Screen.Kind)

	projects := s.ledger.Projects()
	require.Len(t, projects, 16)
	added := projects[15]
	require.Equal(t, "Mangrove Sensor", added.Title)
	require.Equal(t, domain.ProjectStatusActive, added.Status)
	require.Equal(t, "u1", added.InnovatorID)
	require.Zero(t, added.CurrentFunding)
}

func TestSubmitProjectFailureLeavesCatalogUnchanged(t *testing.T) {
	store := &failingStore{}
	s := newTestSession(t, store)
	ctx := context.Background()
	s.Dispatch(ctx, Login{Email: "sarah@innovate.com", Password: "x"})
	s.Dispatch(ctx, Navigate{View: "innovate"})

	out := s.Dispatch(ctx, SubmitProject{Title: "Mangrove Sensor", Description: "Tracks erosion", Category: "Environment", Goal: 5000000})
	require.Equal(t, 1, store.calls)
	require.Equal(t, LevelError, out.Notice.Level)
	require.Equal(t, "Failed to submit the project. Please try again later.", out.Notice.Message)
	require.Equal(t, view.ScreenInnovate, out.Screen.Kind)
	require.Len(t, s.ledger.Projects(), 15)

	out = s.Dispatch(ctx, SubmitProject{Title: "", Description: "x", Category: "Environment", Goal: 1})
	require.Equal(t, 1, store.calls, "invalid forms never reach the store")
	require.Equal(t, LevelError, out.Notice.Level)
}

func TestSlowStoreDoesNotBlockSession(t *testing.T) {
	store := &blockingStore{entered: make(chan struct{})}
	opts := testOptions(store)
	opts.StoreTimeout = 2 * time.Second
	s := New("s-1", testSeed(t), opts)
	ctx := context.Background()
	s.Dispatch(ctx, Login{Email: "sarah@innovate.com", Password: "x"})

	submitted := make(chan Outcome, 1)
	go func() {
		submitted <- s.Dispatch(ctx, SubmitProject{Title: "Mangrove Sensor", Description: "Tracks erosion", Category: "Environment", Goal: 5000000})
	}()
	<-store.entered

	start := time.Now()
	require.Equal(t, view.ScreenDashboard, s.Screen().Kind)
	out := s.Dispatch(ctx, Navigate{View: "news"})
	require.Equal(t, view.ScreenStory, out.Screen.Kind)
	require.Less(t, time.Since(start), 500*time.Millisecond)

	res := <-submitted
	require.Equal(t, LevelError, res.Notice.Level)
	require.Equal(t, view.ScreenStory, res.Screen.Kind, "a failed submission keeps the current view")
	require.Len(t, s.ledger.Projects(), 15)
}

func TestSubmitProjectRedirectsAnonymousToLogin(t *testing.T) {
	s := newTestSession(t, projectstore.NewMemory())
	out := s.Dispatch(context.Background(), SubmitProject{Title: "T", Description: "D", Category: "Social", Goal: 1})
	require.Equal(t, view.ScreenLogin, out.Screen.Kind)
	require.Equal(t, LevelError, out.Notice.Level)
}

func TestSubmitProjectWithoutStore(t *testing.T) {
	s := newTestSession(t, nil)
	ctx := context.Background()
	s.Dispatch(ctx, Login{Email: "sarah@innovate.com", Password: "x"})
	out := s.Dispatch(ctx, SubmitProject{Title: "T", Description: "D", Category: "Social", Goal: 1})
	require.Equal(t, "Failed to submit the project. Please try again later.", out.Notice.Message)
}

func TestSubscribersReceiveScreens(t *testing.T) {
	s := newTestSession(t, nil)
	ch, cancel := s.Subscribe()

	s.Dispatch(context.Background(), OpenProject{ProjectID: "p3"})
	s.Dispatch(context.Background(), OpenProject{ProjectID: "p4"})
	screen := <-ch
	require.Equal(t, "p4", screen.Project.Project.ID, "slow readers see the latest screen")

	cancel()
	cancel()
	_, open := <-ch
	require.False(t, open)

	ch2, _ := s.Subscribe()
	s.Close()
	_, open = <-ch2
	require.False(t, open)
}

func TestAddDemoProjects(t *testing.T) {
	s := newTestSession(t, nil)
	n, out := s.AddDemoProjects(context.Background(), 3, 42)
	require.Equal(t, 3, n)
	require.Len(t, out.Screen.Home.Projects, 18)
	require.Equal(t, "3 demo projects added.", out.Notice.Message)
	for _, p := range s.ledger.Projects()[15:] {
		require.Equal(t, "u1", p.InnovatorID)
	}

	n, out = s.AddDemoProjects(WithLocale(context.Background(), "id"), 3, 42)
	require.Zero(t, n, "same seed yields the same ids")
	require.Equal(t, "0 proyek demo ditambahkan.", out.Notice.Message)
}

func TestConcurrentDispatchKeepsCountersConsistent(t *testing.T) {
	s := newTestSession(t, nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(context.Background(), Donate{ProjectID: "p5", Amount: 1000})
			s.Screen()
		}()
	}
	wg.Wait()
	p, _ := s.ledger.Project("p5")
	require.EqualValues(t, 15000000+20*1000, p.CurrentFunding)
	require.Equal(t, 22+20, p.DonorsCount)
}

func TestErrorNoticeFallsBackToInvalidInput(t *testing.T) {
	p := printerFor("en")
	n := errorNotice(p, errors.New("boom"))
	require.Equal(t, "Please check the form and try again.", n.Message)

	n = errorNotice(printerFor("fr"), domain.ErrNotFound)
	require.Equal(t, "That item is no longer available.", n.Message)
}
