package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callpal-go/internal/apperr"
	"callpal-go/internal/config"
	"callpal-go/internal/logger"
	"callpal-go/internal/metrics"
	"callpal-go/internal/types"
)

var alex = types.UserProfile{
	Name:        "Alex",
	DoctorName:  "Dr. Patel",
	DoctorPhone: "+15551234567",
	BankName:    "First Bank",
	BankPhone:   "+15559876543",
}

func newClient(t *testing.T, demo bool, h http.HandlerFunc) *Client {
	t.Helper()
	base := "http://unused.invalid"
	if h != nil {
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)
		base = srv.URL
	}
	cfg := config.MiniMaxConfig{APIKey: "mk", BaseURL: base, ChatModel: "MiniMax-M2.5"}
	return New(cfg, demo, 5*time.Second, metrics.NewMetrics(prometheus.NewRegistry()), logger.Discard().Entry)
}

func chatReply(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
	return b
}

func TestExtract_Demo(t *testing.T) {
	c := newClient(t, true, nil)
	got, err := c.Extract(context.Background(), "anything", alex, types.ModePower)
	require.NoError(t, err)
	assert.Equal(t, types.Intent{
		Intent:         "book_appointment",
		Door:           types.DoorDoctor,
		ProviderName:   "Dr. Patel",
		ProviderPhone:  "+15551234567",
		Reason:         "stomach pain",
		TimePreference: "Thursday morning",
		UserName:       "Alex",
		Mode:           types.ModePower,
	}, got)
}

func TestExtract_LiveStripsThinkingAndFences(t *testing.T) {
	c := newClient(t, false, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer mk", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MiniMax-M2.5", req.Model)
		assert.Equal(t, 0.1, req.Temperature)
		assert.Equal(t, 512, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[0].Content, "Bank: First Bank (+15559876543)")
		assert.Equal(t, "dispute a charge", req.Messages[1].Content)

		w.Write(chatReply("<think>the user means {bank}</think>\n```json\n{\"intent\":\"dispute_charge\",\"door\":\"bank\",\"provider_name\":\"First Bank\",\"provider_phone\":\"+15559876543\",\"reason\":\"unknown charge\",\"time_preference\":null,\"user_name\":\"Alex\"}\n```"))
	})

	got, err := c.Extract(context.Background(), "dispute a charge", alex, types.ModeCalm)
	require.NoError(t, err)
	assert.Equal(t, "dispute_charge", got.Intent)
	assert.Equal(t, types.DoorBank, got.Door)
	assert.Equal(t, "First Bank", got.ProviderName)
	assert.Empty(t, got.TimePreference)
	assert.Equal(t, types.ModeCalm, got.Mode)
}

func TestExtract_Errors(t *testing.T) {
	t.Run("upstream status", func(t *testing.T) {
		c := newClient(t, false, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := c.Extract(context.Background(), "hi", alex, types.ModeCalm)
		assert.True(t, apperr.IsKind(err, apperr.UpstreamFailed))
	})
	t.Run("prose answer", func(t *testing.T) {
		c := newClient(t, false, func(w http.ResponseWriter, r *http.Request) {
			w.Write(chatReply("I'm not sure what you mean."))
		})
		_, err := c.Extract(context.Background(), "hi", alex, types.ModeCalm)
		assert.True(t, apperr.IsKind(err, apperr.MalformedResponse))
	})
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"surrounded", "Sure! {\"a\":{\"b\":2}} hope that helps", `{"a":{"b":2}}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"brace in string", `{"reason":"pain }"} trailing {}`, `{"reason":"pain }"}`},
		{"escaped quote", `{"r":"say \"}\""}`, `{"r":"say \"}\""}`},
		{"unbalanced", `{"a":1`, ""},
		{"none", "no json here", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}

func TestStripThinking(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripThinking("<think>\nline one\nline two\n</think>\n{\"a\":1}"))
}
