package restutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callpal-go/internal/logger"
	"callpal-go/internal/metrics"
)

func newTestClient(t *testing.T) (*Client, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return New("test", "secret", 5*time.Second, m, logger.Discard().Entry), m
}

func TestDo_SendsJSONWithBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		var in map[string]string
		require.NoError(t, json.Unmarshal(b, &in))
		assert.Equal(t, "hello", in["greeting"])
		w.Write([]byte(`{"id":"x1"}`))
	}))
	defer srv.Close()

	c, m := newTestClient(t)
	req, err := c.NewJSONRequest(context.Background(), http.MethodPost, srv.URL, map[string]string{"greeting": "hello"})
	require.NoError(t, err)

	resp, err := c.Do("create", req)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var out struct{ ID string }
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "x1", out.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("test", "create", "ok")))
}

func TestDo_NonSuccessIsNotTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))
	defer srv.Close()

	c, m := newTestClient(t)
	req, err := c.NewJSONRequest(context.Background(), http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("Content-Type"))

	resp, err := c.Do("lookup", req)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "missing", string(resp.Body))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("test", "lookup", "error")))
}

func TestDecode_Errors(t *testing.T) {
	var v map[string]any
	assert.Error(t, (&Response{Status: 200}).Decode(&v))
	assert.Error(t, (&Response{Status: 200, Body: []byte("not json")}).Decode(&v))
}

func TestAuthorize_NoKey(t *testing.T) {
	c := New("test", "", time.Second, metrics.NewMetrics(prometheus.NewRegistry()), logger.Discard().Entry)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c.Authorize(req)
	assert.Empty(t, req.Header.Get("Authorization"))
}
