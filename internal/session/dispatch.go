package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/message"

	"innospark/internal/domain"
	"innospark/internal/ledger"
	"innospark/internal/metrics"
	"innospark/internal/view"
)

// Outcome is what a client draws after an intent.
type Outcome struct {
	Screen    view.Screen `json:"screen"`
	Notice    *Notice     `json:"notice,omitempty"`
	ScrollTop bool        `json:"scroll_top"`
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Dispatch applies one intent and renders the resulting screen. Domain
// failures never escape as errors: they come back as an error notice and
// leave the session untouched.
func (s *Session) Dispatch(ctx context.Context, in Intent) Outcome {
	if sub, ok := in.(SubmitProject); ok {
		return s.dispatchSubmit(ctx, sub)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	p := printerFor(localeFrom(ctx, s.locale))
	scroll, n := s.apply(p, in)
	return s.finish(in, scroll, n)
}

// finish renders, records and broadcasts an applied intent. It must be
// called with s.mu held.
func (s *Session) finish(in Intent, scroll bool, n *Notice) Outcome {
	out := Outcome{Screen: s.render(), Notice: n, ScrollTop: scroll}

	level := ""
	if n != nil {
		level = n.Level
	}
	metrics.RecordIntent(in.Kind(), level)
	s.log.Debug().
		Str("intent", in.Kind()).
		Str("screen", string(out.Screen.Kind)).
		Str("notice", level).
		Msg("intent applied")

	s.broadcast(out.Screen)
	return out
}

// apply reports whether the client should scroll to the top along with the
// notice to show. Catalog inputs and in-place forms keep the scroll position.
func (s *Session) apply(p *message.Printer, in Intent) (bool, *Notice) {
	switch in := in.(type) {
	case Navigate:
		s.ctrl.Navigate(view.View(in.View))
		return true, nil
	case OpenProject:
		s.ctrl.OpenProject(strings.TrimSpace(in.ProjectID))
		return true, nil
	case OpenStory:
		s.ctrl.OpenStory(strings.TrimSpace(in.StoryID))
		return true, nil
	case GoBack:
		s.ctrl.GoBack()
		return true, nil
	case Search:
		s.ctrl.SetSearch(in.Term)
		return false, nil
	case SelectCategory:
		if !s.ctrl.SelectCategory(in.Category) {
			return false, errorNotice(p, errUnknownCategory)
		}
		return false, nil
	case Donate:
		return false, s.donate(p, in)
	case Volunteer:
		return false, s.volunteer(p, in)
	case DecideVolunteer:
		return false, s.decideVolunteer(p, in)
	case SetProjectStatus:
		return false, s.setProjectStatus(p, in)
	case Login:
		u, err := s.login(in.Email, in.Password)
		if err != nil {
			return false, errorNotice(p, err)
		}
		s.signIn(u)
		return true, notice(p, LevelSuccess, msgWelcomeBack, u.Name)
	case Register:
		u, err := s.register(in)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidInput) && !errors.Is(err, domain.ErrForbidden) {
				s.log.Error().Err(err).Msg("register failed")
			}
			return false, errorNotice(p, err)
		}
		s.signIn(u)
		return true, notice(p, LevelSuccess, msgWelcomeNew, s.settings.PlatformName, u.Name)
	case Logout:
		s.user = nil
		s.ctrl.Navigate(view.DefaultView)
		return true, notice(p, LevelInfo, msgLoggedOut)
	case UpdateRole:
		return false, s.updateRole(p, in)
	case SaveBranding:
		return false, s.saveBranding(p, in)
	case JoinChallenge:
		return false, s.joinChallenge(p, in)
	}
	return false, errorNotice(p, fmt.Errorf("unhandled intent %T: %w", in, domain.ErrInvalidInput))
}

// signIn makes u the current member and opens the dashboard.
func (s *Session) signIn(u domain.User) {
	s.user = &u
	s.ctrl.Navigate(view.ViewDashboard)
}

func (s *Session) requireUser() (domain.User, error) {
	if s.user == nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	return *s.user, nil
}

func (s *Session) requireAdmin() (domain.User, error) {
	u, err := s.requireUser()
	if err != nil {
		return u, err
	}
	if !u.IsAdmin() {
		return u, fmt.Errorf("%s is %s: %w", u.ID, u.Role, domain.ErrForbidden)
	}
	return u, nil
}

func (s *Session) donate(p *message.Printer, in Donate) *Notice {
	req := ledger.DonationRequest{ProjectID: in.ProjectID, Amount: in.Amount, Recurring: in.Recurring}
	if s.user != nil {
		req.DonorName = s.user.Name
		req.DonorID = s.user.ID
	}
	d, _, err := s.ledger.RecordDonation(req)
	if err != nil {
		return errorNotice(p, err)
	}
	metrics.RecordDonation(d.Amount)
	s.log.Info().
		Str("project_id", d.ProjectID).
		Int64("amount", d.Amount).
		Bool("recurring", d.IsRecurring).
		Msg("donation recorded")
	return notice(p, LevelSuccess, msgDonationThanks, d.Amount)
}

func (s *Session) volunteer(p *message.Printer, in Volunteer) *Notice {
	u, err := s.requireUser()
	if err != nil {
		return notice(p, LevelError, msgLoginVolunteer)
	}
	if _, err := s.ledger.RecordVolunteerApplication(ledger.VolunteerRequest{
		ProjectID: in.ProjectID,
		UserID:    u.ID,
		UserName:  u.Name,
		SkillID:   in.SkillID,
		Pitch:     in.Pitch,
	}); err != nil {
		return errorNotice(p, err)
	}
	return notice(p, LevelSuccess, msgApplicationSent)
}

func parseDecision(s string) (domain.ApplicationStatus, error) {
	for _, st := range []domain.ApplicationStatus{domain.ApplicationApproved, domain.ApplicationRejected} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("decision %q: %w", s, domain.ErrInvalidInput)
}

func (s *Session) decideVolunteer(p *message.Printer, in DecideVolunteer) *Notice {
	if _, err := s.requireAdmin(); err != nil {
		return errorNotice(p, err)
	}
	status, err := parseDecision(in.Status)
	if err != nil {
		return errorNotice(p, err)
	}
	app, err := s.ledger.DecideVolunteerApplication(in.ApplicationID, status)
	if err != nil {
		return errorNotice(p, err)
	}
	return notice(p, LevelSuccess, msgApplicationDone, app.Status)
}

func (s *Session) setProjectStatus(p *message.Printer, in SetProjectStatus) *Notice {
	if _, err := s.requireAdmin(); err != nil {
		return errorNotice(p, err)
	}
	status, err := domain.ParseProjectStatus(in.Status)
	if err != nil {
		return errorNotice(p, err)
	}
	proj, err := s.ledger.SetProjectStatus(in.ProjectID, status)
	if err != nil {
		return errorNotice(p, err)
	}
	return notice(p, LevelSuccess, msgProjectStatus, proj.Title, proj.Status)
}

// updateRole switches the member's role. Only an admin may keep or grant
// the admin role.
func (s *Session) updateRole(p *message.Printer, in UpdateRole) *Notice {
	u, err := s.requireUser()
	if err != nil {
		return errorNotice(p, err)
	}
	role, err := domain.ParseUserRole(in.Role)
	if err != nil {
		return errorNotice(p, err)
	}
	if role == domain.UserRoleAdmin && !u.IsAdmin() {
		return errorNotice(p, domain.ErrForbidden)
	}
	u.Role = role
	s.user = &u
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i].Role = role
		}
	}
	if acc, ok := s.accounts[normalizeEmail(u.Email)]; ok && acc.user.ID == u.ID {
		acc.user.Role = role
		s.accounts[normalizeEmail(u.Email)] = acc
	}
	return notice(p, LevelSuccess, msgRoleUpdated, role)
}

func (s *Session) saveBranding(p *message.Printer, in SaveBranding) *Notice {
	if _, err := s.requireAdmin(); err != nil {
		return errorNotice(p, err)
	}
	next := domain.SiteSettings{
		PlatformName: strings.TrimSpace(in.PlatformName),
		PrimaryColor: strings.TrimSpace(in.PrimaryColor),
		LogoURL:      strings.TrimSpace(in.LogoURL),
	}
	if next.PlatformName == "" || !hexColor.MatchString(next.PrimaryColor) {
		return errorNotice(p, domain.ErrInvalidInput)
	}
	s.settings = next
	return notice(p, LevelSuccess, msgBrandingSaved)
}

func (s *Session) joinChallenge(p *message.Printer, in JoinChallenge) *Notice {
	u, err := s.requireUser()
	if err != nil {
		return errorNotice(p, err)
	}
	ch, ok := s.content.Challenge(in.ChallengeID)
	if !ok {
		return errorNotice(p, domain.ErrNotFound)
	}
	if _, err := s.ledger.RecordChallengeProposal(ch.ID, u.ID, in.Proposal); err != nil {
		return errorNotice(p, err)
	}
	return notice(p, LevelSuccess, msgProposalSent, ch.CompanyName)
}

// dispatchSubmit sends the innovate form to the remote store. The session
// lock is released for the store call so screens and other intents keep
// flowing; the stored row is added to the catalog once the lock is retaken.
func (s *Session) dispatchSubmit(ctx context.Context, in SubmitProject) Outcome {
	s.mu.Lock()
	s.touch()
	p := printerFor(localeFrom(ctx, s.locale))
	np, scroll, n := s.prepareSubmission(p, in)
	if n != nil {
		defer s.mu.Unlock()
		return s.finish(in, scroll, n)
	}
	store, timeout := s.store, s.storeTimeout
	s.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, timeout)
	created, err := store.Create(cctx, np)
	cancel()
	metrics.RecordStoreCall("create", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	scroll, n = s.completeSubmission(p, np, created, err)
	return s.finish(in, scroll, n)
}

// prepareSubmission validates the form. A non-nil notice means the store
// must not be called. Anonymous members are sent to the login screen.
func (s *Session) prepareSubmission(p *message.Printer, in SubmitProject) (domain.NewProject, bool, *Notice) {
	u, err := s.requireUser()
	if err != nil {
		s.ctrl.Navigate(view.ViewLogin)
		return domain.NewProject{}, true, errorNotice(p, err)
	}
	np := domain.NewProject{
		Title:       in.Title,
		Tagline:     in.Tagline,
		Description: in.Description,
		Category:    domain.ProjectCategory(in.Category),
		Goal:        in.Goal,
		ImageURL:    in.ImageURL,
		AuthorID:    u.ID,
	}
	if err := np.Validate(); err != nil {
		return np, false, errorNotice(p, err)
	}
	if s.store == nil {
		return np, false, errorNotice(p, domain.ErrStoreUnavailable)
	}
	return np, false, nil
}

// completeSubmission adds the stored row to the catalog and opens the
// dashboard. It must be called with s.mu held.
func (s *Session) completeSubmission(p *message.Printer, np domain.NewProject, created *domain.Project, err error) (bool, *Notice) {
	if err != nil {
		s.log.Warn().Err(err).Str("title", np.Title).Msg("project submission failed")
		if errors.Is(err, domain.ErrInvalidInput) {
			return false, errorNotice(p, err)
		}
		return false, notice(p, LevelError, msgSubmitFailed)
	}
	if created == nil {
		return false, notice(p, LevelError, msgSubmitFailed)
	}
	if err := s.ledger.AddProject(*created); err != nil {
		s.log.Warn().Err(err).Str("project_id", created.ID).Msg("stored project not added")
		return false, notice(p, LevelError, msgSubmitFailed)
	}
	s.log.Info().Str("project_id", created.ID).Str("title", created.Title).Msg("project submitted")
	s.ctrl.Navigate(view.ViewDashboard)
	return true, notice(p, LevelSuccess, msgProjectSubmitted)
}
