// Package voice talks to the voice-calling platform: it creates outbound
// calls and looks up their recordings.
package voice

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"callpal-go/internal/apperr"
	"callpal-go/internal/config"
	"callpal-go/internal/metrics"
	"callpal-go/internal/restutil"
)

const provider = "vapi"

type Client struct {
	rest          *restutil.Client
	baseURL       string
	phoneNumberID string
	log           *logrus.Entry
}

func New(cfg config.VapiConfig, timeout time.Duration, m *metrics.Metrics, log *logrus.Entry) *Client {
	log = log.WithField("component", "voice")
	return &Client{
		rest:          restutil.New(provider, cfg.APIKey, timeout, m, log),
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		phoneNumberID: cfg.PhoneNumberID,
		log:           log,
	}
}

type callRecord struct {
	ID                 string `json:"id"`
	Status             string `json:"status"`
	RecordingURL       string `json:"recordingUrl"`
	StereoRecordingURL string `json:"stereoRecordingUrl"`
}

// RecordingURL returns the recording of a call. A call that exists but has
// no recording yet fails with apperr.NoRecordingYet.
func (c *Client) RecordingURL(ctx context.Context, callID string) (string, error) {
	const op = "voice.RecordingURL"
	req, err := c.rest.NewJSONRequest(ctx, http.MethodGet, c.baseURL+"/call/"+url.PathEscape(callID), nil)
	if err != nil {
		return "", apperr.Wrap(apperr.UpstreamFailed, op, err, "build call lookup")
	}
	resp, err := c.rest.Do("get_call", req)
	if err != nil {
		return "", apperr.Wrap(apperr.UpstreamFailed, op, err, "fetch call")
	}
	if !resp.OK() {
		return "", apperr.New(apperr.LookupFailed, op, "failed to fetch call: %d", resp.Status)
	}
	var call callRecord
	if err := resp.Decode(&call); err != nil {
		return "", apperr.Wrap(apperr.MalformedResponse, op, err, "decode call")
	}
	u := call.RecordingURL
	if u == "" {
		u = call.StereoRecordingURL
	}
	if u == "" {
		return "", apperr.New(apperr.NoRecordingYet, op,
			"no recording available yet for call %s, call may still be in progress", callID)
	}
	return u, nil
}

// Assistant is the inline assistant definition sent with a call.
type Assistant struct {
	FirstMessage string         `json:"firstMessage"`
	Model        AssistantModel `json:"model"`
	Voice        AssistantVoice `json:"voice"`
}

type AssistantModel struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantVoice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

type Customer struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

type createCallRequest struct {
	PhoneNumberID string    `json:"phoneNumberId"`
	Customer      Customer  `json:"customer"`
	Assistant     Assistant `json:"assistant"`
}

// CreateCall places an outbound call and returns the platform's call id.
func (c *Client) CreateCall(ctx context.Context, customer Customer, assistant Assistant) (string, error) {
	const op = "voice.CreateCall"
	body := createCallRequest{
		PhoneNumberID: c.phoneNumberID,
		Customer:      customer,
		Assistant:     assistant,
	}
	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/call", body)
	if err != nil {
		return "", apperr.Wrap(apperr.CallPlacementFailed, op, err, "build call request")
	}
	resp, err := c.rest.Do("create_call", req)
	if err != nil {
		return "", apperr.Wrap(apperr.CallPlacementFailed, op, err, "call request failed")
	}
	if !resp.OK() {
		return "", apperr.New(apperr.CallPlacementFailed, op, "voice API error: %d %s", resp.Status, string(resp.Body))
	}
	var data map[string]any
	if err := resp.Decode(&data); err != nil {
		return "", apperr.Wrap(apperr.MalformedResponse, op, err, "decode call response")
	}
	for _, key := range []string{"id", "callId", "call_id"} {
		if id := idString(data[key]); id != "" {
			return id, nil
		}
	}
	return "", apperr.New(apperr.MissingCallID, op, "voice API did not return a call id: %s", string(resp.Body))
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
