// Package source retrieves raw event records from the spreadsheet-backed
// script endpoint.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appLog "eaccal/internal/log"
	"eaccal/internal/model"
)

// ActionGetEvents is the script action that lists every public event.
const ActionGetEvents = "GET_EVENTS"

const defaultTimeout = 15 * time.Second

// maxBodyBytes bounds the response read; a month of events is far below it.
const maxBodyBytes = 8 << 20

var (
	// ErrTransport is the parent of every fetch failure.
	ErrTransport = errors.New("event source unavailable")

	ErrHTTPStatus       = fmt.Errorf("%w: unexpected HTTP status", ErrTransport)
	ErrMalformedPayload = fmt.Errorf("%w: malformed payload", ErrTransport)
	ErrRemote           = fmt.Errorf("%w: endpoint reported an error", ErrTransport)
)

// Transport returns the full raw event collection. It does no month
// filtering.
type Transport interface {
	FetchRaw(ctx context.Context) ([]model.RawEvent, error)
}

type request struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload"`
}

type response struct {
	OK     *bool            `json:"ok"`
	Events []model.RawEvent `json:"events"`
	Error  string           `json:"error"`
}

// Client talks to the script endpoint over HTTP.
type Client struct {
	client   *http.Client
	endpoint string
}

// NewClient creates a Client for endpoint. A non-positive timeout selects the
// default of 15 seconds.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

// FetchRaw posts a GET_EVENTS action and decodes the event list. A non-2xx
// status, an undecodable body and ok:false all fail the whole call.
func (c *Client) FetchRaw(ctx context.Context) ([]model.RawEvent, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is empty", ErrTransport)
	}

	body, err := json.Marshal(request{Action: ActionGetEvents, Payload: map[string]any{}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	// Apps Script web apps read the action envelope from a plain text body.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	req.Header.Set("Accept", "application/json")

	appLog.Debug("event fetch start", "endpoint", redactURL(c.endpoint))
	started := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	events, err := decode(data)
	if err != nil {
		return nil, err
	}

	appLog.Info("event fetch success",
		"endpoint", redactURL(c.endpoint),
		"status", resp.StatusCode,
		"records", len(events),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return events, nil
}

func decode(data []byte) ([]model.RawEvent, error) {
	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if out.OK == nil {
		return nil, fmt.Errorf("%w: missing ok flag", ErrMalformedPayload)
	}
	if !*out.OK {
		msg := out.Error
		if msg == "" {
			msg = "no error message"
		}
		return nil, fmt.Errorf("%w: %s", ErrRemote, msg)
	}
	if out.Events == nil {
		return []model.RawEvent{}, nil
	}
	return out.Events, nil
}

// redactURL keeps scheme and host only. Script URLs carry the deployment id
// in the path, and credentials can sit in the userinfo or the query.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "[redacted]"
	}
	return u.Scheme + "://" + u.Host + "/[redacted]"
}
