// Package tickets integrates with the external ticketing service. Failures
// never abort a job: creation degrades to a simulated ticket key so the
// pipeline's output stays complete.
package tickets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// Config carries ticketing service settings.
type Config struct {
	Enabled    bool   `toml:"enabled"`
	BaseURL    string `toml:"base_url"`
	Token      string `toml:"token"`
	ProjectKey string `toml:"project_key"`
}

// Client creates tickets for finalized action items.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
	simSeq atomic.Int64
}

// New creates a Client. When cfg.Enabled is false every creation is
// simulated, which is also the behavior for transcript replay runs.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger.With("system", "tickets"),
	}
}

type createRequest struct {
	Project     string `json:"project"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Priority    string `json:"priority,omitempty"`
	IssueType   string `json:"issue_type,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

type createResponse struct {
	Key string `json:"key"`
}

// CreateAll creates one ticket per action item and returns the refs. Each
// failed or disabled creation yields a simulated ref instead of an error.
func (c *Client) CreateAll(ctx context.Context, t *transcript.Transcript, items []transcript.ActionItem) []transcript.TicketRef {
	refs := make([]transcript.TicketRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, c.create(ctx, t, item))
	}
	return refs
}

func (c *Client) create(ctx context.Context, t *transcript.Transcript, item transcript.ActionItem) transcript.TicketRef {
	if !c.cfg.Enabled {
		return c.simulated(item)
	}

	key, err := c.createIssue(ctx, t, item)
	if err != nil {
		c.logger.Warn(
			"ticket creation failed, simulating key",
			"title", item.Title,
			"error", err,
		)
		return c.simulated(item)
	}

	return transcript.TicketRef{Key: key, ItemTitle: item.Title}
}

func (c *Client) createIssue(ctx context.Context, t *transcript.Transcript, item transcript.ActionItem) (string, error) {
	project := t.ProjectKey
	if project == "" {
		project = c.cfg.ProjectKey
	}

	req := createRequest{
		Project:     project,
		Summary:     item.Title,
		Description: item.Description,
		Assignee:    item.Assignee,
		Priority:    string(item.Priority),
		IssueType:   string(item.Type),
	}
	if item.DueDate != nil {
		req.DueDate = item.DueDate.Format("2006-01-02")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal issue: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/issues"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("issue request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("issue request returned %d: %s", resp.StatusCode, data)
	}

	var parsed createResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode issue response: %w", err)
	}
	if parsed.Key == "" {
		return "", fmt.Errorf("issue response missing key")
	}
	return parsed.Key, nil
}

// Comment appends a comment to an existing ticket. Failures are logged and
// swallowed; comments are best-effort context, never pipeline state.
func (c *Client) Comment(ctx context.Context, key, body string) {
	if !c.cfg.Enabled || key == "" || strings.HasPrefix(key, "SIM-") {
		return
	}

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return
	}

	url := fmt.Sprintf("%s/issues/%s/comments", strings.TrimSuffix(c.cfg.BaseURL, "/"), key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("ticket comment failed", "key", key, "error", err)
		return
	}
	resp.Body.Close()
}

func (c *Client) simulated(item transcript.ActionItem) transcript.TicketRef {
	return transcript.TicketRef{
		Key:       fmt.Sprintf("SIM-%d", c.simSeq.Add(1)),
		ItemTitle: item.Title,
		Simulated: true,
	}
}
