package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	// DemoMode forces canned responses from every integration.
	DemoMode bool

	Vapi         VapiConfig
	MiniMax      MiniMaxConfig
	Speechmatics SpeechmaticsConfig
	Poll         PollConfig
	Kafka        KafkaConfig

	HTTPTimeout   time.Duration
	ScenariosPath string
	ProfilePath   string
}

type VapiConfig struct {
	APIKey        string
	PhoneNumberID string
	// CallToNumber overrides the intent's provider phone for every outbound call.
	CallToNumber string
	BaseURL      string
}

type MiniMaxConfig struct {
	APIKey    string
	BaseURL   string
	ChatModel string
	TTSModel  string
}

type SpeechmaticsConfig struct {
	APIKey   string
	BaseURL  string
	Language string
}

type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:        envOr("PORT", "8080"),
		Environment: envOr("ENVIRONMENT", "local"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		DemoMode:    envBool("DEMO_MODE", false),
		Vapi: VapiConfig{
			APIKey:        os.Getenv("VAPI_API_KEY"),
			PhoneNumberID: os.Getenv("VAPI_PHONE_NUMBER_ID"),
			CallToNumber:  os.Getenv("VAPI_CALL_TO_NUMBER"),
			BaseURL:       envOr("VAPI_BASE_URL", "https://api.vapi.ai"),
		},
		MiniMax: MiniMaxConfig{
			APIKey:    os.Getenv("MINIMAX_API_KEY"),
			BaseURL:   envOr("MINIMAX_BASE_URL", "https://api.minimax.io/v1"),
			ChatModel: envOr("MINIMAX_CHAT_MODEL", "MiniMax-M2.5"),
			TTSModel:  envOr("MINIMAX_TTS_MODEL", "speech-2.6-turbo"),
		},
		Speechmatics: SpeechmaticsConfig{
			APIKey:   os.Getenv("SPEECHMATICS_API_KEY"),
			BaseURL:  envOr("SPEECHMATICS_BASE_URL", "https://asr.api.speechmatics.com/v2"),
			Language: envOr("TRANSCRIPT_LANGUAGE", "en"),
		},
		Poll: PollConfig{
			Interval:    envDuration("POLL_INTERVAL", 3*time.Second),
			MaxAttempts: envInt("POLL_MAX_ATTEMPTS", 20),
		},
		Kafka: KafkaConfig{
			Enabled: envBool("KAFKA_ENABLED", false),
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envOr("KAFKA_TOPIC", "callpal.call-events"),
		},
		HTTPTimeout:   envDuration("HTTP_TIMEOUT", 30*time.Second),
		ScenariosPath: os.Getenv("SCENARIOS_PATH"),
		ProfilePath:   os.Getenv("PROFILE_PATH"),
	}
}

// LLMDemo reports whether intent extraction and speech run on canned data.
func (c *Config) LLMDemo() bool {
	return c.DemoMode || c.MiniMax.APIKey == ""
}

// CallsDemo reports whether outbound calls are simulated.
func (c *Config) CallsDemo() bool {
	return c.DemoMode || c.Vapi.APIKey == "" || c.Vapi.PhoneNumberID == ""
}

// TranscriptsDemo reports whether transcripts come from the canned demo call.
func (c *Config) TranscriptsDemo() bool {
	return c.DemoMode || c.Speechmatics.APIKey == "" || c.Vapi.APIKey == ""
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func envList(k string) []string {
	v := os.Getenv(k)
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
