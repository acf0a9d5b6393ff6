package handlers

import (
	"net/http"
	"strings"

	"innospark/internal/providers/suggest"
)

type analyzeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type analyzeResponse struct {
	Analysis *suggest.Analysis `json:"analysis"`
}

// AnalyzeInnovation drafts a tagline, skill list and feasibility score for
// the innovate form. A null analysis means the assistant had nothing to say.
func (a *App) AnalyzeInnovation(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title and description are required")
		return
	}
	a.json(w, http.StatusOK, analyzeResponse{Analysis: a.Assistant.AnalyzeInnovation(r.Context(), req.Title, req.Description)})
}

type matchRequest struct {
	Skills       []string `json:"skills"`
	Descriptions []string `json:"descriptions"`
}

// MatchVolunteer explains which projects suit a volunteer's skills.
func (a *App) MatchVolunteer(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !a.decode(w, r, &req) {
		return
	}
	skills := compact(req.Skills)
	descriptions := compact(req.Descriptions)
	if len(skills) == 0 || len(descriptions) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "skills and descriptions are required")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"match": a.Assistant.MatchVolunteer(r.Context(), skills, descriptions)})
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
