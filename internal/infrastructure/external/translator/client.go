package translator

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

// Client talks to the external text-translation service
type Client interface {
	// Translate submits a translation and polls the returned result URL
	// until the translated text is available or ctx is done.
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type translateResponse struct {
	ResultURL string `json:"result_url"`
}

type resultResponse struct {
	Status         string `json:"status,omitempty"`
	TranslatedText string `json:"translated_text,omitempty"`
	Error          string `json:"error,omitempty"`
}

type client struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	maxPolls     int
	httpClient   *http.Client
}

// NewClient creates a translator client from config
func NewClient(cfg *config.TranslatorConfig) Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	maxPolls := cfg.MaxPolls
	if maxPolls <= 0 {
		maxPolls = 15
	}
	return &client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (c *client) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	resultURL, err := c.submit(ctx, text, sourceLanguage, targetLanguage)
	if err != nil {
		return "", err
	}
	return c.poll(ctx, resultURL)
}

func (c *client) submit(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	b, err := json.Marshal(translateRequest{
		Text:           text,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("translator returned status %d: %s", resp.StatusCode, string(body))
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ResultURL == "" {
		return "", fmt.Errorf("translator response missing result_url")
	}
	return out.ResultURL, nil
}

func (c *client) poll(ctx context.Context, resultURL string) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for attempt := 0; attempt < c.maxPolls; attempt++ {
		result, err := c.fetchResult(ctx, resultURL)
		if err != nil {
			return "", err
		}
		if result.Error != "" {
			return "", fmt.Errorf("translation failed: %s", result.Error)
		}
		if result.TranslatedText != "" {
			return result.TranslatedText, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
	return "", fmt.Errorf("translation result not ready after %d polls", c.maxPolls)
}

// resolveURL makes the result URL the service hands back usable: it returns
// a relative path, which resolves against the configured base URL.
func (c *client) resolveURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.baseURL + raw
}

func (c *client) fetchResult(ctx context.Context, resultURL string) (*resultResponse, error) {
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
		return nil, fmt.Errorf("translator result fetch returned %d", resp.StatusCode)
	}

	var out resultResponse
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
