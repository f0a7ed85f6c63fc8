// Package podlove pushes WebVTT transcripts to a Podlove Publisher instance
// through its WordPress REST API.
package podlove

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrIncompleteCredentials = errors.New("podlove credentials incomplete")

// Credentials identify an episode on a publisher instance. Password is a
// WordPress application password.
type Credentials struct {
	BaseURL   string
	User      string
	Password  string
	EpisodeID int
}

func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "base URL")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "application password")
	}
	if c.EpisodeID <= 0 {
		missing = append(missing, "episode id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteCredentials, strings.Join(missing, ", "))
	}
	return nil
}

func (c Credentials) transcriptURL() string {
	return fmt.Sprintf(
		"%s/wp-json/podlove/v2/transcripts/%d",
		strings.TrimRight(c.BaseURL, "/"),
		c.EpisodeID,
	)
}

type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Check reports whether the episode's transcript endpoint is reachable with
// the given credentials. Transport errors are returned; a non-2xx answer is
// simply false.
func (c *Client) Check(ctx context.Context, creds Credentials) (bool, error) {
	if err := creds.Validate(); err != nil {
		return false, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, creds, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("podlove check failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	c.logger.Debug("podlove check",
		zap.Int("episode_id", creds.EpisodeID),
		zap.Int("status", resp.StatusCode),
		zap.Bool("ok", ok))
	return ok, nil
}

type transcriptPayload struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Push uploads vtt as the episode's transcript.
func (c *Client) Push(ctx context.Context, creds Credentials, vtt string) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(transcriptPayload{Type: "vtt", Content: vtt})
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, creds, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("podlove upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf(
			"podlove upload failed: %s: %s",
			resp.Status,
			strings.TrimSpace(string(msg)),
		)
	}

	c.logger.Info("pushed transcript to podlove",
		zap.Int("episode_id", creds.EpisodeID),
		zap.Int("bytes", len(vtt)))
	return nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	creds Credentials,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, creds.transcriptURL(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build podlove request: %w", err)
	}
	req.SetBasicAuth(creds.User, creds.Password)
	req.Header.Set("Accept", "application/json")
	return req, nil
}
