// Package client is the Go client for the grindlist API. It mirrors the
// dashboard's behavior: an optimistic local copy of the daily, starred and
// completed lists, and a debounced batch queue that coalesces star/complete
// toggles into a single reconciling write.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// DefaultRequestTimeout bounds every API call. A fetch that exceeds it is a
// failure requiring a user-visible retry, not a silent hang.
const DefaultRequestTimeout = 30 * time.Second

// Question is the wire shape of a question with the caller's progress flags.
type Question struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId,omitempty"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	Difficulty string `json:"difficulty"`
	Starred    bool   `json:"starred"`
	Completed  bool   `json:"completed"`
}

// API is the server surface the batch queue depends on.
type API interface {
	DailyQuestions(ctx context.Context, forceRefresh bool) ([]Question, int64, error)
	UserProgress(ctx context.Context) (completed, starred []Question, err error)
	SubmitBatch(ctx context.Context, operations []PendingOperation) error
}

// Client is an HTTP implementation of API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a client for the API at baseURL authenticating with the
// given access token.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: DefaultRequestTimeout},
	}
}

type dailyQuestionsPayload struct {
	Success        bool       `json:"success"`
	DailyQuestions []Question `json:"dailyQuestions"`
	RefreshedAt    int64      `json:"refreshedAt"`
}

// DailyQuestions fetches today's questions, optionally forcing regeneration.
func (c *Client) DailyQuestions(ctx context.Context, forceRefresh bool) ([]Question, int64, error) {
	url := c.baseURL + "/api/v1/daily-questions"
	if forceRefresh {
		url += "?refresh=true"
	}
	payload := &dailyQuestionsPayload{}
	if err := c.doJSON(ctx, http.MethodGet, url, nil, payload); err != nil {
		return nil, 0, err
	}
	return payload.DailyQuestions, payload.RefreshedAt, nil
}

type userProgressPayload struct {
	Success            bool       `json:"success"`
	CompletedQuestions []Question `json:"completedQuestions"`
	StarredQuestions   []Question `json:"starredQuestions"`
}

// UserProgress fetches the caller's completed and starred question lists.
func (c *Client) UserProgress(ctx context.Context) ([]Question, []Question, error) {
	payload := &userProgressPayload{}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/v1/user-progress", nil, payload); err != nil {
		return nil, nil, err
	}
	return payload.CompletedQuestions, payload.StarredQuestions, nil
}

type batchPayload struct {
	Operations []batchOperation `json:"operations"`
}

type batchOperation struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value bool   `json:"value"`
}

// SubmitBatch sends coalesced toggle operations as one write.
func (c *Client) SubmitBatch(ctx context.Context, operations []PendingOperation) error {
	body := &batchPayload{}
	for _, op := range operations {
		body.Operations = append(body.Operations, batchOperation{
			ID:    op.QuestionID,
			Type:  string(op.Kind),
			Value: op.Value,
		})
	}
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/v1/questions/batch-operations", body, &struct{}{})
}

// Preferences holds the per-tier question counts.
type Preferences struct {
	EasyCount   int `json:"easyCount"`
	MediumCount int `json:"mediumCount"`
	HardCount   int `json:"hardCount"`
}

// GetPreferences fetches the caller's per-tier question counts.
func (c *Client) GetPreferences(ctx context.Context) (*Preferences, error) {
	prefs := &Preferences{}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/v1/user-preferences", nil, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// UpdatePreferences writes the caller's per-tier question counts.
func (c *Client) UpdatePreferences(ctx context.Context, prefs *Preferences) error {
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/v1/user-preferences", prefs, &struct{}{})
}

func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response body")
	}
	return nil
}

var _ API = (*Client)(nil)
