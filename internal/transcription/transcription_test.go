package transcription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callpal-go/internal/apperr"
	"callpal-go/internal/config"
	"callpal-go/internal/logger"
	"callpal-go/internal/metrics"
	"callpal-go/internal/types"
)

type instantTimer struct {
	starts int
	c      chan time.Time
}

func (f *instantTimer) Start(time.Duration) {
	f.starts++
	f.c = make(chan time.Time, 1)
	f.c <- time.Time{}
}

func (f *instantTimer) Stop() {}

func (f *instantTimer) C() <-chan time.Time { return f.c }

type staticRecording struct {
	url string
	err error
}

func (s staticRecording) RecordingURL(context.Context, string) (string, error) {
	return s.url, s.err
}

// fakeRecognizer serves the job API; statuses are returned in order, the last repeating.
type fakeRecognizer struct {
	statuses   []string
	errMessage string
	statusCode int
	fetchCode  int
	transcript string
	checks     atomic.Int32
	submitted  jobConfig
}

func (f *fakeRecognizer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /jobs/{$}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("config")), &f.submitted))
		w.Write([]byte(`{"id":"job-9"}`))
	})
	mux.HandleFunc("GET /jobs/job-9/{$}", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.checks.Add(1))
		if f.statusCode != 0 {
			w.WriteHeader(f.statusCode)
			return
		}
		s := f.statuses[min(n, len(f.statuses))-1]
		body := map[string]any{"job": map[string]any{"id": "job-9", "status": s}}
		if f.errMessage != "" {
			body["job"].(map[string]any)["errors"] = []map[string]string{{"message": f.errMessage}}
		}
		json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("GET /jobs/job-9/transcript", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json-v2", r.URL.Query().Get("format"))
		if f.fetchCode != 0 {
			w.WriteHeader(f.fetchCode)
			return
		}
		w.Write([]byte(f.transcript))
	})
	return mux
}

const sampleTranscript = `{"results":[
 {"type":"word","start_time":0.5,"alternatives":[{"content":"Hello","speaker":"S2"}]},
 {"type":"word","start_time":0.9,"alternatives":[{"content":"there","speaker":"S2"}]},
 {"type":"punctuation","alternatives":[{"content":".","speaker":"S2"}]},
 {"type":"word","start_time":62.1,"alternatives":[{"content":"Hi","speaker":"S1"}]}
]}`

func newDriver(t *testing.T, f *fakeRecognizer, rec RecordingSource) (*Driver, *instantTimer, *metrics.Metrics) {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := logger.Discard().Entry
	client := NewClient(config.SpeechmaticsConfig{APIKey: "sk", BaseURL: srv.URL + "/", Language: "en"}, 5*time.Second, m, log)
	timer := &instantTimer{}
	d := NewDriver(rec, client, config.PollConfig{Interval: 3 * time.Second, MaxAttempts: 20}, m, log).WithTimer(timer)
	return d, timer, m
}

func TestTranscript_DoneAfterRunning(t *testing.T) {
	f := &fakeRecognizer{statuses: []string{"running", "running", "done"}, transcript: sampleTranscript}
	d, timer, m := newDriver(t, f, staticRecording{url: "https://rec/1.wav"})

	lines, err := d.Transcript(context.Background(), "call-1")
	require.NoError(t, err)

	assert.Equal(t, []types.TranscriptLine{
		{Speaker: types.SpeakerRepresentative, Text: "Hello there", Timestamp: "0:00"},
		{Speaker: types.SpeakerAgent, Text: "Hi", Timestamp: "1:02"},
	}, lines)
	assert.Equal(t, int32(3), f.checks.Load())
	assert.Equal(t, 2, timer.starts)
	assert.Equal(t, "https://rec/1.wav", f.submitted.FetchData.URL)
	assert.Equal(t, "speaker", f.submitted.TranscriptionConfig.Diarization)
	assert.Equal(t, "transcription", f.submitted.Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobOutcomes.WithLabelValues("done")))
}

func TestTranscript_Rejected(t *testing.T) {
	f := &fakeRecognizer{statuses: []string{"running", "rejected"}, errMessage: "unsupported audio"}
	d, _, _ := newDriver(t, f, staticRecording{url: "https://rec/1.wav"})

	_, err := d.Transcript(context.Background(), "call-1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.JobFailed))
	assert.Contains(t, err.Error(), "unsupported audio")
	assert.Equal(t, int32(2), f.checks.Load())
}

func TestTranscript_DeletedWithoutMessage(t *testing.T) {
	f := &fakeRecognizer{statuses: []string{"deleted"}}
	d, _, _ := newDriver(t, f, staticRecording{url: "https://rec/1.wav"})

	_, err := d.Transcript(context.Background(), "call-1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.JobFailed))
	assert.Contains(t, err.Error(), "unknown error")
}

func TestTranscript_TimesOutAfterTwentyChecks(t *testing.T) {
	f := &fakeRecognizer{statuses: []string{"running"}}
	d, timer, m := newDriver(t, f, staticRecording{url: "https://rec/1.wav"})

	_, err := d.Transcript(context.Background(), "call-1")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.JobTimeout))
	assert.Contains(t, err.Error(), "60 seconds")
	assert.Equal(t, int32(20), f.checks.Load())
	assert.Equal(t, 19, timer.starts)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobOutcomes.WithLabelValues("timeout")))
}

func TestTranscript_StatusCheckFails(t *testing.T) {
	f := &fakeRecognizer{statusCode: http.StatusBadGateway}
	d, _, _ := newDriver(t, f, staticRecording{url: "https://rec/1.wav"})

	_, err := d.Transcript(context.Background(), "call-1")
	assert.True(t, apperr.IsKind(err, apperr.StatusCheckFailed))
	assert.Equal(t, int32(1), f.checks.Load())
}

func TestTranscript_FetchFails(t *testing.T) {
	f := &fakeRecognizer{statuses: []string{"done"}, fetchCode: http.StatusNotFound}
	d, _, _ := newDriver(t, f, staticRecording{url: "https://rec/1.wav"})

	_, err := d.Transcript(context.Background(), "call-1")
	assert.True(t, apperr.IsKind(err, apperr.TranscriptFetchFailed))
}

func TestTranscript_RecordingErrorStopsBeforeSubmit(t *testing.T) {
	f := &fakeRecognizer{statuses: []string{"done"}}
	missing := apperr.New(apperr.NoRecordingYet, "voice.RecordingURL", "no recording yet")
	d, _, _ := newDriver(t, f, staticRecording{err: missing})

	_, err := d.Transcript(context.Background(), "call-1")
	assert.True(t, apperr.IsKind(err, apperr.NoRecordingYet))
	assert.Empty(t, f.submitted.Type)
}

func TestSubmit_NonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	c := NewClient(config.SpeechmaticsConfig{APIKey: "sk", BaseURL: srv.URL, Language: "en"}, time.Second,
		metrics.NewMetrics(prometheus.NewRegistry()), logger.Discard().Entry)
	_, err := c.Submit(context.Background(), "https://rec/1.wav")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.JobSubmissionFailed))
	assert.True(t, strings.Contains(err.Error(), "401"))
}

func TestWords_MissingAlternatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"type":"word"}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.SpeechmaticsConfig{BaseURL: srv.URL}, time.Second,
		metrics.NewMetrics(prometheus.NewRegistry()), logger.Discard().Entry)
	words, err := c.Words(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "", words[0].Speaker)
	assert.Equal(t, "", words[0].Content)
}
