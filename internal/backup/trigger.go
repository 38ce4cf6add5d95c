// Package backup forwards cue-live events to a backup playback system over
// HTTP.
//
// When enabled, every cue that goes live is POSTed as a small JSON document
// to a configured URL, optionally with a bearer token. Failures are
// reported to the caller and never stop the show.
package backup

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

	"github.com/nerrad567/showcue-core/internal/cue"
)

// MinTimeout is the floor applied to the configured request timeout.
const MinTimeout = 300 * time.Millisecond

var (
	// ErrInvalidURL is returned by New for a URL that is not absolute http(s).
	ErrInvalidURL = errors.New("backup: trigger URL is invalid")

	// ErrUnexpectedStatus wraps non-2xx responses.
	ErrUnexpectedStatus = errors.New("backup: unexpected response status")
)

// Payload is the JSON body sent for each cue.
type Payload struct {
	CueID        string `json:"cueId"`
	CueName      string `json:"cueName"`
	TargetScreen int    `json:"targetScreen"`
	TargetSetID  string `json:"targetSetId"`
	Layer        int    `json:"layer"`
	TimestampUTC string `json:"timestampUtc"`
}

// Config configures a Trigger.
type Config struct {
	URL       string
	Token     string
	TimeoutMs int
}

// Trigger posts cue-live payloads to the backup endpoint.
//
// Thread Safety: Send is safe for concurrent use.
type Trigger struct {
	url     string
	token   string
	timeout time.Duration
	client  *http.Client
	now     func() time.Time
}

// New validates cfg and returns a ready trigger.
func New(cfg Config) (*Trigger, error) {
	raw := strings.TrimSpace(cfg.URL)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, cfg.URL)
	}

	timeout := max(MinTimeout, time.Duration(cfg.TimeoutMs)*time.Millisecond)
	return &Trigger{
		url:     raw,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}, nil
}

// Timeout returns the effective request timeout.
func (t *Trigger) Timeout() time.Duration { return t.timeout }

// NewPayload builds the body for c stamped with the current UTC time.
func (t *Trigger) NewPayload(c cue.Cue) Payload {
	return Payload{
		CueID:        c.ID,
		CueName:      c.Name,
		TargetScreen: c.TargetScreen,
		TargetSetID:  c.TargetSetID,
		Layer:        c.Layer,
		TimestampUTC: t.now().UTC().Format(time.RFC3339),
	}
}

// Send posts c to the backup endpoint and waits for the response.
func (t *Trigger) Send(ctx context.Context, c cue.Cue) error {
	body, err := json.Marshal(t.NewPayload(c))
	if err != nil {
		return fmt.Errorf("backup: encoding payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("backup: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("backup: posting cue %q: %w", c.Name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return nil
}
