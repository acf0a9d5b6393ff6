package domain

import "time"

// Activity is one line of the dashboard feed.
type Activity struct {
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	Target    string    `json:"target"`
	Amount    int64     `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Dashboard aggregates what a logged-in member owns and receives.
type Dashboard struct {
	User            User                   `json:"user"`
	Projects        []Project              `json:"projects"`
	TotalRaised     int64                  `json:"total_raised"`
	ActiveTeams     int                    `json:"active_teams"`
	Donations       []Donation             `json:"donations"`
	Applications    []VolunteerApplication `json:"applications"`
	MyContributions int64                  `json:"my_contributions"`
	Activities      []Activity             `json:"activities"`
}

// CategoryStat summarises funding per category.
type CategoryStat struct {
	Category       ProjectCategory `json:"category"`
	Projects       int             `json:"projects"`
	TargetFunding  int64           `json:"target_funding"`
	CurrentFunding int64           `json:"current_funding"`
	Donors         int             `json:"donors"`
	Volunteers     int             `json:"volunteers"`
}

// AdminOverview is the CMS landing payload.
type AdminOverview struct {
	TotalFunds          int64                  `json:"total_funds"`
	TotalDonations      int                    `json:"total_donations"`
	PendingProjects     []Project              `json:"pending_projects"`
	PendingApplications []VolunteerApplication `json:"pending_applications"`
	Projects            []Project              `json:"projects"`
	Users               []User                 `json:"users"`
	Donations           []Donation             `json:"donations"`
	Proposals           []ChallengeProposal    `json:"proposals"`
	Categories          []CategoryStat         `json:"categories"`
	Settings            SiteSettings           `json:"settings"`
}
