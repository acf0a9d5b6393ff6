// Package ledger owns the mutable side of an app session: the project list
// with its funding counters and the append-only donation, volunteer and
// proposal records.
package ledger

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"innospark/internal/domain"
)

// Ledger is safe for concurrent use. Every mutation happens under one write
// lock, so readers never see a donation without its funding update.
type Ledger struct {
	mu           sync.RWMutex
	projects     []domain.Project
	donations    []domain.Donation
	applications []domain.VolunteerApplication
	proposals    []domain.ChallengeProposal

	now   func() time.Time
	newID func() string
}

// Option customises a Ledger.
type Option func(*Ledger)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDs overrides the identity generator.
func WithIDs(newID func() string) Option {
	return func(l *Ledger) {
		if newID != nil {
			l.newID = newID
		}
	}
}

// New builds a ledger over a private copy of projects.
func New(projects []domain.Project, opts ...Option) *Ledger {
	l := &Ledger{
		projects: make([]domain.Project, len(projects)),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for i, p := range projects {
		l.projects[i] = p.Clone()
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxDonationAmount is the largest single donation accepted, in Rupiah.
const MaxDonationAmount int64 = 1_000_000_000_000

// ErrAmountTooLarge rejects a donation above MaxDonationAmount or one that
// would overflow the project's funding counter.
var ErrAmountTooLarge = fmt.Errorf("amount too large: %w", domain.ErrInvalidAmount)

// DonationRequest describes a donation submitted from the project detail screen.
type DonationRequest struct {
	ProjectID string
	Amount    int64
	Recurring bool
	DonorName string
	DonorID   string
}

// VolunteerRequest describes an application for one skill requirement.
type VolunteerRequest struct {
	ProjectID string
	UserID    string
	UserName  string
	SkillID   string
	Pitch     string
}

// Projects returns a snapshot in insertion order.
func (l *Ledger) Projects() []domain.Project {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Project, len(l.projects))
	for i, p := range l.projects {
		out[i] = p.Clone()
	}
	return out
}

// Project returns a snapshot of one project.
func (l *Ledger) Project(id string) (domain.Project, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Project{}, false
	}
	return l.projects[idx].Clone(), true
}

// AddProject appends a project, typically one echoed back by the remote store.
func (l *Ledger) AddProject(p domain.Project) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("ledger: project id required: %w", domain.ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(p.ID) >= 0 {
		return fmt.Errorf("ledger: project %s already exists: %w", p.ID, domain.ErrInvalidInput)
	}
	l.projects = append(l.projects, p.Clone())
	return nil
}

// SetProjectStatus moves a project through curation.
func (l *Ledger) SetProjectStatus(id string, status domain.ProjectStatus) (domain.Project, error) {
	if _, err := domain.ParseProjectStatus(string(status)); err != nil {
		return domain.Project{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(id)
	if idx < 0 {
		return domain.Project{}, fmt.Errorf("ledger: project %s: %w", id, domain.ErrNotFound)
	}
	l.projects[idx].Status = status
	return l.projects[idx].Clone(), nil
}

// RecordDonation appends a donation and bumps the project's funding and
// backer counters in the same critical section.
func (l *Ledger) RecordDonation(req DonationRequest) (domain.Donation, domain.Project, error) {
	if req.Amount <= 0 {
		return domain.Donation{}, domain.Project{}, fmt.Errorf("ledger: amount %d: %w", req.Amount, domain.ErrInvalidAmount)
	}
	if req.Amount > MaxDonationAmount {
		return domain.Donation{}, domain.Project{}, fmt.Errorf("ledger: amount %d: %w", req.Amount, ErrAmountTooLarge)
	}
	donor := strings.TrimSpace(req.DonorName)
	if donor == "" {
		donor = domain.DefaultDonorName
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(req.ProjectID)
	if idx < 0 {
		return domain.Donation{}, domain.Project{}, fmt.Errorf("ledger: project %s: %w", req.ProjectID, domain.ErrNotFound)
	}
	if l.projects[idx].CurrentFunding > math.MaxInt64-req.Amount {
		return domain.Donation{}, domain.Project{}, fmt.Errorf("ledger: funding of %s would overflow: %w", req.ProjectID, ErrAmountTooLarge)
	}
	d := domain.Donation{
		ID:          l.newID(),
		ProjectID:   req.ProjectID,
		DonorID:     req.DonorID,
		DonorName:   donor,
		Amount:      req.Amount,
		IsRecurring: req.Recurring,
		Timestamp:   l.now(),
	}
	l.donations = append(l.donations, d)
	l.projects[idx].CurrentFunding += req.Amount
	l.projects[idx].DonorsCount++
	return d, l.projects[idx].Clone(), nil
}

// RecordVolunteerApplication appends a pending application. Slots are only
// filled on approval.
func (l *Ledger) RecordVolunteerApplication(req VolunteerRequest) (domain.VolunteerApplication, error) {
	projectID, skillID := req.ProjectID, req.SkillID
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexOf(projectID)
	if idx < 0 {
		return domain.VolunteerApplication{}, fmt.Errorf("ledger: project %s: %w", projectID, domain.ErrNotFound)
	}
	skill, ok := l.projects[idx].Requirement(skillID)
	if !ok {
		return domain.VolunteerApplication{}, fmt.Errorf("ledger: skill %s: %w", skillID, domain.ErrNotFound)
	}
	if !skill.Open() {
		return domain.VolunteerApplication{}, fmt.Errorf("ledger: skill %s: %w", skillID, domain.ErrSlotsFilled)
	}
	app := domain.VolunteerApplication{
		ID:        l.newID(),
		ProjectID: projectID,
		UserID:    req.UserID,
		UserName:  strings.TrimSpace(req.UserName),
		SkillID:   skillID,
		Pitch:     strings.TrimSpace(req.Pitch),
		Status:    domain.ApplicationPending,
		CreatedAt: l.now(),
	}
	l.applications = append(l.applications, app)
	return app, nil
}

// DecideVolunteerApplication approves or rejects a pending application.
// Approval fills one slot of the requested skill and counts the volunteer on
// the project; it fails when the skill has no open slot left.
func (l *Ledger) DecideVolunteerApplication(appID string, status domain.ApplicationStatus) (domain.VolunteerApplication, error) {
	if status != domain.ApplicationApproved && status != domain.ApplicationRejected {
		return domain.VolunteerApplication{}, fmt.Errorf("ledger: decision %q: %w", status, domain.ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ai := -1
	for i := range l.applications {
		if l.applications[i].ID == appID {
			ai = i
			break
		}
	}
	if ai < 0 {
		return domain.VolunteerApplication{}, fmt.Errorf("ledger: application %s: %w", appID, domain.ErrNotFound)
	}
	app := &l.applications[ai]
	if app.Status != domain.ApplicationPending {
		return domain.VolunteerApplication{}, fmt.Errorf("ledger: application %s is %s: %w", appID, app.Status, domain.ErrAlreadyDecided)
	}
	if status == domain.ApplicationApproved {
		pi := l.indexOf(app.ProjectID)
		if pi < 0 {
			return domain.VolunteerApplication{}, fmt.Errorf("ledger: project %s: %w", app.ProjectID, domain.ErrNotFound)
		}
		p := &l.projects[pi]
		si := -1
		for i := range p.Requirements {
			if p.Requirements[i].ID == app.SkillID {
				si = i
				break
			}
		}
		if si < 0 {
			return domain.VolunteerApplication{}, fmt.Errorf("ledger: skill %s: %w", app.SkillID, domain.ErrNotFound)
		}
		if !p.Requirements[si].Open() {
			return domain.VolunteerApplication{}, fmt.Errorf("ledger: skill %s: %w", app.SkillID, domain.ErrSlotsFilled)
		}
		p.Requirements[si].FilledSlots++
		p.VolunteersCount++
	}
	app.Status = status
	return *app, nil
}

// Application returns one volunteer application.
func (l *Ledger) Application(id string) (domain.VolunteerApplication, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, a := range l.applications {
		if a.ID == id {
			return a, true
		}
	}
	return domain.VolunteerApplication{}, false
}

// RecordChallengeProposal appends an answer to a corporate challenge.
func (l *Ledger) RecordChallengeProposal(challengeID, userID, proposal string) (domain.ChallengeProposal, error) {
	if strings.TrimSpace(proposal) == "" {
		return domain.ChallengeProposal{}, fmt.Errorf("ledger: proposal text required: %w", domain.ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	p := domain.ChallengeProposal{
		ID:          l.newID(),
		ChallengeID: challengeID,
		UserID:      userID,
		Proposal:    strings.TrimSpace(proposal),
		CreatedAt:   l.now(),
	}
	l.proposals = append(l.proposals, p)
	return p, nil
}

// Donations returns all donations in submission order.
func (l *Ledger) Donations() []domain.Donation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Donation(nil), l.donations...)
}

// Applications returns all volunteer applications in submission order.
func (l *Ledger) Applications() []domain.VolunteerApplication {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.VolunteerApplication(nil), l.applications...)
}

// Proposals returns all challenge proposals in submission order.
func (l *Ledger) Proposals() []domain.ChallengeProposal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.ChallengeProposal(nil), l.proposals...)
}

// indexOf must be called with l.mu held.
// addFunds sums non-negative amounts, saturating at math.MaxInt64.
func addFunds(total, amount int64) int64 {
	if amount > 0 && total > math.MaxInt64-amount {
		return math.MaxInt64
	}
	return total + amount
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.projects {
		if l.projects[i].ID == id {
			return i
		}
	}
	return -1
}
