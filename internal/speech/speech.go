// Package speech voices short assistant lines through a text-to-speech API.
package speech

import (
	"context"
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

// DemoAudio is returned in place of real audio when no API key is configured.
const DemoAudio = "mock_audio_base64"

// Result is base64 mp3 audio and the text it speaks.
type Result struct {
	Audio string `json:"audio"`
	Text  string `json:"text"`
}

type Client struct {
	rest    *restutil.Client
	baseURL string
	model   string
	demo    bool
	log     *logrus.Entry
}

func New(cfg config.MiniMaxConfig, demo bool, timeout time.Duration, m *metrics.Metrics, log *logrus.Entry) *Client {
	log = log.WithField("component", "speech")
	return &Client{
		rest:    restutil.New("minimax", cfg.APIKey, timeout, m, log),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.TTSModel,
		demo:    demo,
		log:     log,
	}
}

type voiceSetting struct {
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Vol     float64 `json:"vol"`
	Pitch   int     `json:"pitch"`
}

type audioSetting struct {
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
}

type ttsRequest struct {
	Model        string       `json:"model"`
	Text         string       `json:"text"`
	VoiceSetting voiceSetting `json:"voice_setting"`
	AudioSetting audioSetting `json:"audio_setting"`
}

type ttsResponse struct {
	Data struct {
		Audio string `json:"audio"`
	} `json:"data"`
	BaseResp struct {
		StatusCode int    `json:"status_code"`
		StatusMsg  string `json:"status_msg"`
	} `json:"base_resp"`
}

// Voice returns the voice id and speed used for mode.
func Voice(mode types.Mode) (string, float64) {
	if mode == types.ModePower {
		return "Friendly_Person", 1.0
	}
	return "Calm_Woman", 0.85
}

// Generate synthesizes text in the voice for mode.
func (c *Client) Generate(ctx context.Context, text string, mode types.Mode) (Result, error) {
	const op = "speech.Generate"
	if c.demo {
		return Result{Audio: DemoAudio, Text: text}, nil
	}

	voiceID, speed := Voice(mode)
	req, err := c.rest.NewJSONRequest(ctx, http.MethodPost, c.baseURL+"/t2a_v2", ttsRequest{
		Model:        c.model,
		Text:         text,
		VoiceSetting: voiceSetting{VoiceID: voiceID, Speed: speed, Vol: 1.0},
		AudioSetting: audioSetting{Format: "mp3", SampleRate: 32000},
	})
	if err != nil {
		return Result{}, apperr.Wrap(apperr.UpstreamFailed, op, err, "build tts request")
	}
	resp, err := c.rest.Do("tts", req)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.UpstreamFailed, op, err, "tts request failed")
	}
	if !resp.OK() {
		return Result{}, apperr.New(apperr.UpstreamFailed, op, "TTS API error: %d %s", resp.Status, string(resp.Body))
	}

	var out ttsResponse
	if err := resp.Decode(&out); err != nil {
		return Result{}, apperr.Wrap(apperr.MalformedResponse, op, err, "decode tts response")
	}
	if out.BaseResp.StatusCode != 0 {
		return Result{}, apperr.New(apperr.UpstreamFailed, op, "TTS API error: %d %s", out.BaseResp.StatusCode, out.BaseResp.StatusMsg)
	}

	c.log.WithFields(logrus.Fields{"mode": mode, "chars": len(text)}).Debug("speech generated")
	return Result{Audio: out.Data.Audio, Text: text}, nil
}
