package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"callpal-go/internal/aggregator"
	"callpal-go/internal/apperr"
	"callpal-go/internal/config"
	"callpal-go/internal/metrics"
	"callpal-go/internal/restutil"
)

const provider = "speechmatics"

// Job statuses reported by the recognizer.
const (
	StatusRunning  = "running"
	StatusDone     = "done"
	StatusRejected = "rejected"
	StatusDeleted  = "deleted"
)

// Client submits and inspects asynchronous transcription jobs.
type Client struct {
	rest     *restutil.Client
	baseURL  string
	language string
	log      *logrus.Entry
}

func NewClient(cfg config.SpeechmaticsConfig, timeout time.Duration, m *metrics.Metrics, log *logrus.Entry) *Client {
	log = log.WithField("module", "transcription")
	return &Client{
		rest:     restutil.New(provider, cfg.APIKey, timeout, m, log),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		log:      log,
	}
}

type jobConfig struct {
	Type                string              `json:"type"`
	FetchData           fetchData           `json:"fetch_data"`
	TranscriptionConfig transcriptionConfig `json:"transcription_config"`
}

type fetchData struct {
	URL string `json:"url"`
}

type transcriptionConfig struct {
	Language    string `json:"language"`
	Diarization string `json:"diarization"`
}

// Submit starts a job that fetches and transcribes audioURL.
func (c *Client) Submit(ctx context.Context, audioURL string) (string, error) {
	const op = "transcription.Submit"
	cfg, err := json.Marshal(jobConfig{
		Type:                "transcription",
		FetchData:           fetchData{URL: audioURL},
		TranscriptionConfig: transcriptionConfig{Language: c.language, Diarization: "speaker"},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.JobSubmissionFailed, op, err, "encode job config")
	}

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	if err := w.WriteField("config", string(cfg)); err != nil {
		return "", apperr.Wrap(apperr.JobSubmissionFailed, op, err, "write job config")
	}
	_ = w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs/", &b)
	if err != nil {
		return "", apperr.Wrap(apperr.JobSubmissionFailed, op, err, "build job request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.rest.Authorize(req)

	resp, err := c.rest.Do("submit_job", req)
	if err != nil {
		return "", apperr.Wrap(apperr.JobSubmissionFailed, op, err, "job submission failed")
	}
	if !resp.OK() {
		return "", apperr.New(apperr.JobSubmissionFailed, op, "job submission failed: %d %s", resp.Status, string(resp.Body))
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", apperr.Wrap(apperr.JobSubmissionFailed, op, err, "decode job submission")
	}
	if out.ID == "" {
		return "", apperr.New(apperr.JobSubmissionFailed, op, "job submission returned no id")
	}
	c.log.WithField("job_id", out.ID).Info("transcription job submitted")
	return out.ID, nil
}

// JobStatus is one status check result.
type JobStatus struct {
	Status string
	// Message is the first error the service reported, if any.
	Message string
}

type statusResponse struct {
	Job struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"job"`
}

// Status checks a job once.
func (c *Client) Status(ctx context.Context, jobID string) (JobStatus, error) {
	const op = "transcription.Status"
	req, err := c.rest.NewJSONRequest(ctx, http.MethodGet, c.baseURL+"/jobs/"+url.PathEscape(jobID)+"/", nil)
	if err != nil {
		return JobStatus{}, apperr.Wrap(apperr.StatusCheckFailed, op, err, "build status request")
	}
	resp, err := c.rest.Do("job_status", req)
	if err != nil {
		return JobStatus{}, apperr.Wrap(apperr.StatusCheckFailed, op, err, "status check failed")
	}
	if !resp.OK() {
		return JobStatus{}, apperr.New(apperr.StatusCheckFailed, op, "status check failed: %d", resp.Status)
	}
	var s statusResponse
	if err := resp.Decode(&s); err != nil {
		return JobStatus{}, apperr.Wrap(apperr.StatusCheckFailed, op, err, "decode status")
	}
	out := JobStatus{Status: s.Job.Status}
	if len(s.Job.Errors) > 0 {
		out.Message = s.Job.Errors[0].Message
	}
	return out, nil
}

type transcriptResponse struct {
	Results []struct {
		Type         string   `json:"type"`
		StartTime    *float64 `json:"start_time"`
		Alternatives []struct {
			Content string `json:"content"`
			Speaker string `json:"speaker"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Words fetches the finished job's tokens in spoken order.
func (c *Client) Words(ctx context.Context, jobID string) ([]aggregator.Word, error) {
	const op = "transcription.Words"
	u := c.baseURL + "/jobs/" + url.PathEscape(jobID) + "/transcript?format=json-v2"
	req, err := c.rest.NewJSONRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.TranscriptFetchFailed, op, err, "build transcript request")
	}
	resp, err := c.rest.Do("fetch_transcript", req)
	if err != nil {
		return nil, apperr.Wrap(apperr.TranscriptFetchFailed, op, err, "failed to fetch transcript")
	}
	if !resp.OK() {
		return nil, apperr.New(apperr.TranscriptFetchFailed, op, "failed to fetch transcript: %d", resp.Status)
	}
	var tr transcriptResponse
	if err := resp.Decode(&tr); err != nil {
		return nil, apperr.Wrap(apperr.MalformedResponse, op, err, "decode transcript")
	}

	words := make([]aggregator.Word, 0, len(tr.Results))
	for _, r := range tr.Results {
		w := aggregator.Word{Type: r.Type, Start: r.StartTime}
		if len(r.Alternatives) > 0 {
			w.Speaker = r.Alternatives[0].Speaker
			w.Content = r.Alternatives[0].Content
		}
		words = append(words, w)
	}
	return words, nil
}
