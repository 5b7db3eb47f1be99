package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Environment: "production", Level: "debug", Output: &buf})

	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())
	log.WithField("call_id", "c-1").Info("placed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "placed", line["msg"])
	assert.Equal(t, "c-1", line["call_id"])
}

func TestNew_LevelDefaultsToInfo(t *testing.T) {
	log := New(Options{Level: "verbose", Output: &bytes.Buffer{}})
	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
}

func TestWithRequest_UsesHeaderID(t *testing.T) {
	log := Discard()
	r := httptest.NewRequest("POST", "/api/transcript", nil)
	r.Header.Set(RequestIDHeader, "req-42")

	entry := log.WithRequest(r)
	assert.Equal(t, "req-42", entry.Data["req_id"])
	assert.Equal(t, "POST", entry.Data["method"])
	assert.Equal(t, "/api/transcript", entry.Data["path"])
}

func TestRequestID_Generated(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	id := RequestID(r)
	assert.Len(t, id, 36)
	assert.NotEqual(t, id, RequestID(r))
}

func TestWithError(t *testing.T) {
	log := Discard()
	assert.Equal(t, "boom", log.WithError(errors.New("boom")).Data["error"])
	assert.NotContains(t, log.WithError(nil).Data, "error")
}
