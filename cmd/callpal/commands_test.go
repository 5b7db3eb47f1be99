package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callpal-go/internal/dataset"
	"callpal-go/internal/types"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("SCENARIOS_PATH", "")
	t.Setenv("PROFILE_PATH", "")
	t.Setenv("KAFKA_ENABLED", "false")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.Bytes()
}

func TestPhoneCmd(t *testing.T) {
	var got phoneResult
	require.NoError(t, json.Unmarshal(run(t, "phone", "(555)", "123-4567"), &got))
	assert.Equal(t, phoneResult{Input: "(555) 123-4567", Normalized: "+15551234567", Valid: true}, got)
}

func TestThemeCmd(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal(run(t, "theme", "I", "love", "my", "cat"), &got))
	assert.Equal(t, "cats", got["id"])

	require.NoError(t, json.Unmarshal(run(t, "theme"), &got))
	assert.Equal(t, "default", got["id"])
}

func TestScenariosCmd(t *testing.T) {
	var got []dataset.Shaped
	require.NoError(t, json.Unmarshal(run(t, "scenarios", "--mode", "power", "--door", "bank"), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "bank-dispute", got[0].ID)
}

func TestTranscriptCmd_Demo(t *testing.T) {
	var got struct {
		Lines []types.TranscriptLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(run(t, "transcript", "demo-123"), &got))
	assert.Len(t, got.Lines, 7)
}

func TestIntentCmd_Demo(t *testing.T) {
	var got types.Intent
	require.NoError(t, json.Unmarshal(run(t, "intent", "--mode", "power", "book", "my", "doctor"), &got))
	assert.Equal(t, "book_appointment", got.Intent)
	assert.Equal(t, types.ModePower, got.Mode)
}

func TestTranscriptCmd_RequiresArg(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"transcript"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
