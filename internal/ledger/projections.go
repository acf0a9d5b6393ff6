package ledger

import (
	"sort"

	"innospark/internal/domain"
)

const (
	ActivityDonation  = "donation"
	ActivityVolunteer = "volunteer"
)

// Dashboard projects what the member owns and what flowed into it. It is
// recomputed on every call and keeps no state of its own.
func (l *Ledger) Dashboard(user domain.User) domain.Dashboard {
	l.mu.RLock()
	defer l.mu.RUnlock()

	d := domain.Dashboard{
		User:         user,
		Projects:     []domain.Project{},
		Donations:    []domain.Donation{},
		Applications: []domain.VolunteerApplication{},
		Activities:   []domain.Activity{},
	}
	titles := make(map[string]string)
	for _, p := range l.projects {
		if p.InnovatorID != user.ID {
			continue
		}
		titles[p.ID] = p.Title
		d.Projects = append(d.Projects, p.Clone())
		d.TotalRaised = addFunds(d.TotalRaised, p.CurrentFunding)
		d.ActiveTeams += p.VolunteersCount
	}
	for _, don := range l.donations {
		if user.ID != "" && don.DonorID == user.ID {
			d.MyContributions = addFunds(d.MyContributions, don.Amount)
		}
		title, mine := titles[don.ProjectID]
		if !mine {
			continue
		}
		d.Donations = append(d.Donations, don)
		d.Activities = append(d.Activities, domain.Activity{
			Kind:      ActivityDonation,
			Actor:     don.DonorName,
			Target:    title,
			Amount:    don.Amount,
			Timestamp: don.Timestamp,
		})
	}
	for _, app := range l.applications {
		title, mine := titles[app.ProjectID]
		if !mine {
			continue
		}
		actor := app.UserName
		if actor == "" {
			actor = app.UserID
		}
		d.Applications = append(d.Applications, app)
		d.Activities = append(d.Activities, domain.Activity{
			Kind:      ActivityVolunteer,
			Actor:     actor,
			Target:    title,
			Timestamp: app.CreatedAt,
		})
	}
	sort.SliceStable(d.Activities, func(i, j int) bool {
		return d.Activities[i].Timestamp.After(d.Activities[j].Timestamp)
	})
	return d
}

// CategoryStats aggregates the catalog per category in display order.
func (l *Ledger) CategoryStats() []domain.CategoryStat {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.categoryStats()
}

func (l *Ledger) categoryStats() []domain.CategoryStat {
	idx := make(map[domain.ProjectCategory]int, len(domain.Categories))
	stats := make([]domain.CategoryStat, len(domain.Categories))
	for i, c := range domain.Categories {
		idx[c] = i
		stats[i].Category = c
	}
	for _, p := range l.projects {
		i, ok := idx[p.Category]
		if !ok {
			continue
		}
		stats[i].Projects++
		stats[i].TargetFunding = addFunds(stats[i].TargetFunding, p.TargetFunding)
		stats[i].CurrentFunding = addFunds(stats[i].CurrentFunding, p.CurrentFunding)
		stats[i].Donors += p.DonorsCount
		stats[i].Volunteers += p.VolunteersCount
	}
	return stats
}

// AdminOverview builds the CMS payload. Users and settings live outside the
// ledger and are passed through.
func (l *Ledger) AdminOverview(users []domain.User, settings domain.SiteSettings) domain.AdminOverview {
	l.mu.RLock()
	defer l.mu.RUnlock()

	o := domain.AdminOverview{
		PendingProjects:     []domain.Project{},
		PendingApplications: []domain.VolunteerApplication{},
		Projects:            make([]domain.Project, 0, len(l.projects)),
		Users:               append([]domain.User{}, users...),
		Donations:           append([]domain.Donation{}, l.donations...),
		Proposals:           append([]domain.ChallengeProposal{}, l.proposals...),
		Categories:          l.categoryStats(),
		Settings:            settings,
		TotalDonations:      len(l.donations),
	}
	for _, d := range l.donations {
		o.TotalFunds = addFunds(o.TotalFunds, d.Amount)
	}
	for _, p := range l.projects {
		o.Projects = append(o.Projects, p.Clone())
		if p.Status == domain.ProjectStatusPending {
			o.PendingProjects = append(o.PendingProjects, p.Clone())
		}
	}
	for _, a := range l.applications {
		if a.Status == domain.ApplicationPending {
			o.PendingApplications = append(o.PendingApplications, a)
		}
	}
	return o
}
