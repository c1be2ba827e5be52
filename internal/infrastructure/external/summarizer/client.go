package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anujdevsingh/gram-panchayat/pkg/config"
)

// Client talks to the external agenda-summarization service
type Client interface {
	GenerateAgenda(ctx context.Context, language string, issues []IssueInput) (*SubmitResponse, error)
	UpdateAgenda(ctx context.Context, language string, issues []IssueInput, currentAgenda []AgendaContext) (*SubmitResponse, error)
	CheckStatus(ctx context.Context, statusURL string) (*StatusResponse, error)
	FetchResult(ctx context.Context, resultURL string) (*Result, error)
}

// IssueInput is one issue transcript sent for summarization
type IssueInput struct {
	ID                string `json:"id"`
	TranscriptionText string `json:"transcription_text"`
	Category          string `json:"category"`
	Subcategory       string `json:"subcategory"`
}

// AgendaContext is an existing system agenda item sent along with UPDATE
// requests so the service extends it instead of starting over. The service
// takes plain English strings here, not language maps.
type AgendaContext struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	LinkedIssues []string `json:"linked_issues"`
}

type generateRequest struct {
	Issues []IssueInput `json:"issues"`
}

type updateRequest struct {
	NewIssues     []IssueInput    `json:"new_issues"`
	CurrentAgenda []AgendaContext `json:"current_agenda"`
}

// SubmitResponse correlates an accepted request with its polling endpoints
type SubmitResponse struct {
	RequestID string `json:"request_id"`
	StatusURL string `json:"status_url"`
	ResultURL string `json:"result_url"`
}

// StatusResponse is the poll answer for an outstanding request
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"

	LLMStatusSuccess = "success"
)

// Result is the completed summarization payload. The per-language agenda
// lists arrive as JSON-encoded strings under keys like "english_agenda",
// "hindi_agenda" or "<language>_agenda".
type Result struct {
	LLMStatus       string
	PrimaryLanguage string
	Agendas         map[string]string
}

// UnmarshalJSON captures every "*_agenda" key alongside the fixed fields
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Agendas = make(map[string]string)
	for key, value := range raw {
		switch key {
		case "llm_status":
			if err := json.Unmarshal(value, &r.LLMStatus); err != nil {
				return err
			}
		case "primary_language":
			if err := json.Unmarshal(value, &r.PrimaryLanguage); err != nil {
				return err
			}
		default:
			if lang, ok := strings.CutSuffix(key, "_agenda"); ok {
				var payload string
				if err := json.Unmarshal(value, &payload); err != nil {
					// Some deployments send the array inline instead of
					// string-encoded; keep the raw bytes in that case.
					payload = string(value)
				}
				r.Agendas[lang] = payload
			}
		}
	}
	return nil
}

// Agenda returns the JSON payload for a language key ("english", "hindi", ...)
func (r *Result) Agenda(language string) (string, bool) {
	payload, ok := r.Agendas[strings.ToLower(language)]
	return payload, ok
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a summarizer client from config
func NewClient(cfg *config.SummarizerConfig) Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	return &client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *client) GenerateAgenda(ctx context.Context, language string, issues []IssueInput) (*SubmitResponse, error) {
	endpoint := fmt.Sprintf("%s/agenda/generate/%s", c.baseURL, language)
	return c.submit(ctx, endpoint, generateRequest{Issues: issues})
}

func (c *client) UpdateAgenda(ctx context.Context, language string, issues []IssueInput, currentAgenda []AgendaContext) (*SubmitResponse, error) {
	endpoint := fmt.Sprintf("%s/agenda/update/%s", c.baseURL, language)
	return c.submit(ctx, endpoint, updateRequest{NewIssues: issues, CurrentAgenda: currentAgenda})
}

// resolveURL makes the status/result URLs the service hands back usable: it
// returns relative paths, which resolve against the configured base URL.
func (c *client) resolveURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.baseURL + raw
}

func (c *client) submit(ctx context.Context, endpoint string, payload interface{}) (*SubmitResponse, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("summarizer returned status %d: %s", resp.StatusCode, string(body))
	}

	var out SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.RequestID == "" {
		return nil, fmt.Errorf("summarizer response missing request_id")
	}
	return &out, nil
}

func (c *client) CheckStatus(ctx context.Context, statusURL string) (*StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolveURL(statusURL), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("summarizer status check returned %d", resp.StatusCode)
	}

	var out StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) FetchResult(ctx context.Context, resultURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolveURL(resultURL), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("summarizer result fetch returned %d", resp.StatusCode)
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
