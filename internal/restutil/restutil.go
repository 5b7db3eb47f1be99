package restutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"callpal-go/internal/metrics"
)

// Client sends requests to one upstream provider and records metrics for each.
type Client struct {
	HTTP     *http.Client
	Provider string
	APIKey   string
	Metrics  *metrics.Metrics
	Log      *logrus.Entry
}

func New(provider, apiKey string, timeout time.Duration, m *metrics.Metrics, log *logrus.Entry) *Client {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		Provider: provider,
		APIKey:   apiKey,
		Metrics:  m,
		Log:      log.WithField("provider", provider),
	}
}

// Response is a fully read upstream response.
type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the body into dest.
func (r *Response) Decode(dest any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty body")
	}
	if err := json.Unmarshal(r.Body, dest); err != nil {
		return fmt.Errorf("json decode error: %v body=%s", err, string(r.Body))
	}
	return nil
}

// NewJSONRequest builds an authorized request with a JSON body (nil for none).
func (c *Client) NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Authorize(req)
	return req, nil
}

// Authorize sets the bearer token header when the client has a key.
func (c *Client) Authorize(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
}

// Do sends req and buffers the response. Only transport failures return an
// error; callers classify non-2xx statuses themselves.
func (c *Client) Do(op string, req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Metrics.RecordUpstream(c.Provider, op, err, time.Since(start).Seconds())
		c.Log.WithField("op", op).WithError(err).Warn("upstream request failed")
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Metrics.RecordUpstream(c.Provider, op, err, time.Since(start).Seconds())
		return nil, fmt.Errorf("read body: %w", err)
	}

	out := &Response{Status: resp.StatusCode, Body: body}
	var statusErr error
	if !out.OK() {
		statusErr = fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	c.Metrics.RecordUpstream(c.Provider, op, statusErr, time.Since(start).Seconds())
	c.Log.WithFields(logrus.Fields{
		"op":          op,
		"http_status": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("upstream response")
	return out, nil
}
