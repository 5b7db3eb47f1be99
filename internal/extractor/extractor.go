// Package extractor turns a free-form request ("book me in with my doctor
// on Thursday") into a structured call intent using a chat-completion model.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"callpal-go/internal/apperr"
	"callpal-go/internal/config"
	"callpal-go/internal/metrics"
	"callpal-go/internal/restutil"
	"callpal-go/internal/types"
)

const provider = "minimax"

type Client struct {
	rest    *restutil.Client
	baseURL string
	model   string
	demo    bool
	log     *logrus.Entry
}

// New builds an extractor. With demo set no request is ever sent.
func New(cfg config.MiniMaxConfig, demo bool, timeout time.Duration, m *metrics.Metrics, log *logrus.Entry) *Client {
	log = log.WithField("component", "extractor")
	return &Client{
		rest:    restutil.New(provider, cfg.APIKey, timeout, m, log),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.ChatModel,
		demo:    demo,
		log:     log,
	}
}

// DemoIntent is the canned booking returned when no model is configured.
func DemoIntent(profile types.UserProfile, mode types.Mode) types.Intent {
	return types.Intent{
		Intent:         "book_appointment",
		Door:           types.DoorDoctor,
		ProviderName:   profile.DoctorName,
		ProviderPhone:  profile.DoctorPhone,
		Reason:         "stomach pain",
		TimePreference: "Thursday morning",
		UserName:       profile.Name,
		Mode:           mode,
	}
}

// BuildPrompt renders the system prompt listing the user's saved contacts.
func BuildPrompt(profile types.UserProfile, mode types.Mode) string {
	prompt := `You are CallPal, an assistant that makes phone calls for people who find it difficult.
Extract the user's intent from their message and return ONLY a JSON object with these fields:
- intent: one of "book_appointment", "dispute_charge", "refill_prescription", "insurance_query", "utility_service"
- door: one of "doctor", "bank", "pharmacy", "insurance", "utility"
- provider_name: match to user's saved contacts if mentioned, otherwise use what they say
- provider_phone: match from user profile contacts
- reason: a short description of why they need the call
- time_preference: when they want the appointment (if applicable, else null)
- prescription_number: if mentioned (else null)
- user_name: always "%s"
- mode: "%s"

User profile contacts:
- Doctor: %s (%s)
- Bank: %s (%s)
- Pharmacy: %s (%s)
- Insurance: %s (%s)
- Utility: %s (%s)

Return ONLY valid JSON. No explanation, no markdown, just the JSON object.`

	return fmt.Sprintf(prompt,
		profile.Name, mode,
		profile.DoctorName, profile.DoctorPhone,
		profile.BankName, profile.BankPhone,
		profile.PharmacyName, profile.PharmacyPhone,
		profile.InsuranceName, profile.InsurancePhone,
		profile.UtilityName, profile.UtilityPhone,
	)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// Extract asks the model for the intent behind message.
func (c *Client) Extract(ctx context.Context, message string, profile types.UserProfile, mode types.Mode) (types.Intent, error) {
	const op = "extractor.Extract"
	if mode == "" {
		mode = types.ModeCalm
	}
	if c.demo {
		c.log.Debug("demo mode, returning canned intent")
		return DemoIntent(profile, mode), nil
	}

	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/chat/completions", chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: BuildPrompt(profile, mode)},
			{Role: "user", Content: message},
		},
		Temperature: 0.1,
		MaxTokens:   512,
	})
	if err != nil {
		return types.Intent{}, apperr.Wrap(apperr.UpstreamFailed, op, err, "build chat request")
	}

	resp, err := c.rest.Do("chat_completion", req)
	if err != nil {
		return types.Intent{}, apperr.Wrap(apperr.UpstreamFailed, op, err, "chat request failed")
	}
	if !resp.OK() {
		return types.Intent{}, apperr.New(apperr.UpstreamFailed, op, "chat API error: %d %s", resp.Status, string(resp.Body))
	}

	raw := extractContentFromChoices(resp.Body)
	var intent types.Intent
	if raw == "" || json.Unmarshal([]byte(raw), &intent) != nil {
		c.log.WithField("content_len", len(resp.Body)).Warn("model returned no parsable intent")
		return types.Intent{}, apperr.New(apperr.MalformedResponse, op, "model returned invalid JSON: %s", truncate(string(resp.Body), 200))
	}
	if intent.Mode == "" {
		intent.Mode = mode
	}

	c.log.WithFields(logrus.Fields{
		"intent": intent.Intent,
		"door":   intent.Door,
	}).Info("intent extracted")
	return intent, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
