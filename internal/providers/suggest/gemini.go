package suggest

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

	"github.com/tidwall/gjson"
)

type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Fallback   Assistant
	// OnFallback is called with a short reason whenever the fallback answers.
	OnFallback func(reason string, err error)
}

type GeminiAssistant struct {
	apiKey     string
	model      string
	baseURL    string
	client     *http.Client
	fallback   Assistant
	onFallback func(reason string, err error)
}

const (
	geminiDefaultTimeout = 15 * time.Second
	geminiDefaultModel   = "gemini-1.5-flash"
	geminiProviderName   = "gemini"
	maxResponseBytes     = 1 << 20
)

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

func NewGeminiAssistant(opts GeminiOptions) (*GeminiAssistant, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = geminiDefaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geminiDefaultTimeout}
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewStaticAssistant()
	}
	return &GeminiAssistant{
		apiKey:     opts.APIKey,
		model:      model,
		baseURL:    baseURL,
		client:     client,
		fallback:   fallback,
		onFallback: opts.OnFallback,
	}, nil
}

func (g *GeminiAssistant) AnalyzeInnovation(ctx context.Context, title, description string) *Analysis {
	text, reason, err := g.generate(ctx, buildAnalyzePrompt(title, description), true)
	if err != nil {
		g.notifyFallback(reason, err)
		return g.fallback.AnalyzeInnovation(ctx, title, description)
	}
	raw := extractJSONFragment(text)
	if raw == "" || !gjson.Valid(raw) {
		g.notifyFallback("decode_payload", errors.New("model returned no json object"))
		return g.fallback.AnalyzeInnovation(ctx, title, description)
	}
	parsed := gjson.Parse(raw)
	out := &Analysis{
		Tagline:          strings.TrimSpace(parsed.Get("tagline").String()),
		FeasibilityScore: clampScore(parsed.Get("feasibilityScore").Float()),
		Provider:         geminiProviderName,
	}
	var skills []string
	for _, s := range parsed.Get("requiredSkills").Array() {
		skills = append(skills, s.String())
	}
	out.RequiredSkills = normalizeSkills(skills)
	if out.Tagline == "" && len(out.RequiredSkills) == 0 {
		g.notifyFallback("empty_payload", errors.New("analysis has no tagline or skills"))
		return g.fallback.AnalyzeInnovation(ctx, title, description)
	}
	return out
}

func (g *GeminiAssistant) MatchVolunteer(ctx context.Context, skills, projectDescriptions []string) string {
	text, reason, err := g.generate(ctx, buildMatchPrompt(skills, projectDescriptions), false)
	if err != nil {
		g.notifyFallback(reason, err)
		return g.fallback.MatchVolunteer(ctx, skills, projectDescriptions)
	}
	return strings.TrimSpace(text)
}

// generate posts one prompt and returns the first non-empty candidate text.
// On failure reason names the stage that failed.
func (g *GeminiAssistant) generate(ctx context.Context, prompt string, wantJSON bool) (string, string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:    0.4,
			CandidateCount: 1,
		},
	}
	if wantJSON {
		payload.GenerationConfig.ResponseMimeType = "application/json"
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", "encode_request", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), &buf)
	if err != nil {
		return "", "build_request", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", "http_request", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", "read_response", err
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		return "", "http_status", fmt.Errorf("gemini status %d: %s", resp.StatusCode, msg)
	}
	text := extractText(body)
	if text == "" {
		return "", "empty_response", errors.New("gemini returned no candidate text")
	}
	return text, "", nil
}

func (g *GeminiAssistant) endpoint() string {
	base := strings.TrimRight(g.baseURL, "/")
	model := url.PathEscape(g.model)
	return fmt.Sprintf("%s/models/%s:generateContent", base, model)
}

func (g *GeminiAssistant) notifyFallback(reason string, err error) {
	if g.onFallback != nil {
		g.onFallback(reason, err)
	}
}

func extractText(body []byte) string {
	for _, part := range gjson.GetBytes(body, "candidates.#.content.parts|@flatten").Array() {
		if text := part.Get("text").String(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

func buildAnalyzePrompt(title, description string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Analyze this innovation project:\nTitle: %s\nDescription: %s\n\n", title, description)
	sb.WriteString("Provide a concise professional tagline, a list of 3-5 technical skills required for volunteers, and a brief feasibility score (0-100). ")
	sb.WriteString(`Respond strictly with JSON matching this schema: {"tagline":string,"requiredSkills":string[],"feasibilityScore":number}`)
	return sb.String()
}

func buildMatchPrompt(skills, projectDescriptions []string) string {
	return fmt.Sprintf("Given these user skills: %s,\nAnd these project descriptions: %s,\nRank the projects by matching relevance and explain why briefly.",
		strings.Join(skills, ", "), strings.Join(projectDescriptions, " || "))
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v + 0.5)
}

func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, s)
	}
	return result
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

var _ Assistant = (*GeminiAssistant)(nil)
