// Package suggest provides the best-effort AI helper used by the submission
// and volunteer screens. Callers never see an error: a missing suggestion is
// reported as nil or as UnavailableMatch.
package suggest

import "context"

// UnavailableMatch is returned by MatchVolunteer when no ranking can be produced.
const UnavailableMatch = "Match analysis currently unavailable."

// Analysis is the assistant's reading of a project idea.
type Analysis struct {
	Tagline          string   `json:"tagline"`
	RequiredSkills   []string `json:"required_skills"`
	FeasibilityScore int      `json:"feasibility_score"`
	Provider         string   `json:"provider"`
}

type Assistant interface {
	AnalyzeInnovation(ctx context.Context, title, description string) *Analysis
	MatchVolunteer(ctx context.Context, skills, projectDescriptions []string) string
}

// StaticAssistant is used when no model is configured.
type StaticAssistant struct{}

func NewStaticAssistant() *StaticAssistant {
	return &StaticAssistant{}
}

func (s *StaticAssistant) AnalyzeInnovation(ctx context.Context, title, description string) *Analysis {
	return nil
}

func (s *StaticAssistant) MatchVolunteer(ctx context.Context, skills, projectDescriptions []string) string {
	return UnavailableMatch
}

var _ Assistant = (*StaticAssistant)(nil)
