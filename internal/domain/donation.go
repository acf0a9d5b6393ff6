package domain

import "time"

// Donation represents a supporter contribution record. Amounts are whole Rupiah.
type Donation struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	DonorID     string    `json:"donor_id,omitempty"`
	DonorName   string    `json:"donor_name"`
	Amount      int64     `json:"amount"`
	IsRecurring bool      `json:"is_recurring"`
	Timestamp   time.Time `json:"timestamp"`
}

// DefaultDonorName is recorded when nobody is logged in.
const DefaultDonorName = "Public Donor"

// ApplicationStatus enumerates the review states of a volunteer application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationApproved ApplicationStatus = "Approved"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// VolunteerApplication is a pitch to fill one skill slot of a project.
type VolunteerApplication struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"project_id"`
	UserID    string            `json:"user_id"`
	UserName  string            `json:"user_name"`
	SkillID   string            `json:"skill_id"`
	Pitch     string            `json:"pitch"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// ChallengeProposal is an innovator's answer to a corporate challenge.
type ChallengeProposal struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challenge_id"`
	UserID      string    `json:"user_id"`
	Proposal    string    `json:"proposal"`
	CreatedAt   time.Time `json:"created_at"`
}
