package projectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"innospark/internal/domain"
)

const (
	supabaseTable          = "projects"
	supabaseDefaultTimeout = 10 * time.Second
	maxSupabaseBody        = 4 << 20
)

type SupabaseOptions struct {
	ProjectURL string
	APIKey     string
	HTTPClient *http.Client
}

// Supabase talks to the PostgREST endpoint of a Supabase project. Column
// names follow the camelCase schema of the hosted projects table.
type Supabase struct {
	prefix string
	apiKey string
	client *http.Client
	now    func() time.Time
	newID  func() string
}

// supabaseRow is the wire shape of one projects row.
type supabaseRow struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Tagline        string `json:"tagline,omitempty"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Goal           int64  `json:"goal"`
	ImageURL       string `json:"imageUrl,omitempty"`
	AuthorID       string `json:"authorId"`
	Status         string `json:"status"`
	CurrentFunding int64  `json:"currentFunding"`
	DonorsCount    int    `json:"donorsCount"`
	CreatedAt      string `json:"createdAt"`
}

// timestamp columns come back with or without a zone depending on the
// column type.
var supabaseTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999-07"}

func parseTimestamp(s string) time.Time {
	for _, layout := range supabaseTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func NewSupabase(opts SupabaseOptions) (*Supabase, error) {
	if strings.TrimSpace(opts.ProjectURL) == "" {
		return nil, errors.New("supabase project url is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("supabase api key is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: supabaseDefaultTimeout}
	}
	return &Supabase{
		prefix: strings.TrimRight(opts.ProjectURL, "/") + "/rest/v1",
		apiKey: opts.APIKey,
		client: client,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

func (s *Supabase) Create(ctx context.Context, in domain.NewProject) (*domain.Project, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}
	row := supabaseRow{
		ID:          s.newID(),
		Title:       in.Title,
		Tagline:     in.Tagline,
		Description: in.Description,
		Category:    string(in.Category),
		Goal:        in.Goal,
		ImageURL:    in.ImageURL,
		AuthorID:    in.AuthorID,
		Status:      strings.ToLower(string(domain.ProjectStatusActive)),
		CreatedAt:   s.now().UTC().Format(time.RFC3339Nano),
	}
	body, err := json.Marshal([]supabaseRow{row})
	if err != nil {
		return nil, fmt.Errorf("projectstore: encode row: %w", err)
	}
	req, err := s.newRequest(ctx, http.MethodPost, "", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	rows, err := s.do(req, "create")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, unavailable("create", errors.New("insert returned no rows"))
	}
	p := rows[0].toProject()
	return &p, nil
}

func (s *Supabase) List(ctx context.Context) ([]domain.Project, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "createdAt.desc")
	q.Set("limit", fmt.Sprint(listLimit))
	req, err := s.newRequest(ctx, http.MethodGet, q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	rows, err := s.do(req, "list")
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toProject())
	}
	return out, nil
}

func (s *Supabase) newRequest(ctx context.Context, method, query string, body io.Reader) (*http.Request, error) {
	endpoint := s.prefix + "/" + url.PathEscape(supabaseTable)
	if query != "" {
		endpoint += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("projectstore: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	return req, nil
}

func (s *Supabase) do(req *http.Request, op string) ([]supabaseRow, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSupabaseBody))
	if err != nil {
		return nil, unavailable(op, err)
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, unavailable(op, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	var rows []supabaseRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, unavailable(op, fmt.Errorf("decode rows: %w", err))
	}
	return rows, nil
}

func (r supabaseRow) toProject() domain.Project {
	status, err := domain.ParseProjectStatus(r.Status)
	if err != nil {
		status = domain.ProjectStatusPending
	}
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		category = domain.ProjectCategory(r.Category)
	}
	return domain.Project{
		ID:             r.ID,
		Title:          r.Title,
		Tagline:        r.Tagline,
		Description:    r.Description,
		InnovatorID:    r.AuthorID,
		Category:       category,
		Status:         status,
		TargetFunding:  r.Goal,
		CurrentFunding: r.CurrentFunding,
		DonorsCount:    r.DonorsCount,
		ImageURL:       r.ImageURL,
		CreatedAt:      parseTimestamp(r.CreatedAt),
		Requirements:   []domain.SkillRequirement{},
	}
}

var _ domain.ProjectRepository = (*Supabase)(nil)
