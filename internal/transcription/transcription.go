// Package transcription drives asynchronous speech-to-text jobs for call
// recordings: submit, poll until terminal, fetch and group into turns.
package transcription

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"callpal-go/internal/aggregator"
	"callpal-go/internal/apperr"
	"callpal-go/internal/config"
	"callpal-go/internal/metrics"
	"callpal-go/internal/poll"
	"callpal-go/internal/types"
)

// RecordingSource resolves a call to its recording URL.
type RecordingSource interface {
	RecordingURL(ctx context.Context, callID string) (string, error)
}

// Jobs is the recognizer API the driver needs.
type Jobs interface {
	Submit(ctx context.Context, audioURL string) (string, error)
	Status(ctx context.Context, jobID string) (JobStatus, error)
	Words(ctx context.Context, jobID string) ([]aggregator.Word, error)
}

type Driver struct {
	recordings RecordingSource
	jobs       Jobs
	interval   time.Duration
	attempts   int
	timer      backoff.Timer
	metrics    *metrics.Metrics
	log        *logrus.Entry
}

func NewDriver(recordings RecordingSource, jobs Jobs, cfg config.PollConfig, m *metrics.Metrics, log *logrus.Entry) *Driver {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Driver{
		recordings: recordings,
		jobs:       jobs,
		interval:   cfg.Interval,
		attempts:   cfg.MaxAttempts,
		metrics:    m,
		log:        log.WithField("module", "transcription"),
	}
}

// WithTimer replaces the wait between status checks; used by tests.
func (d *Driver) WithTimer(t backoff.Timer) *Driver {
	d.timer = t
	return d
}

// Transcript returns the speaker turns of a finished call.
func (d *Driver) Transcript(ctx context.Context, callID string) ([]types.TranscriptLine, error) {
	log := d.log.WithField("call_id", callID)

	recordingURL, err := d.recordings.RecordingURL(ctx, callID)
	if err != nil {
		return nil, err
	}
	log = log.WithField("recording_url", recordingURL)

	jobID, err := d.jobs.Submit(ctx, recordingURL)
	if err != nil {
		return nil, err
	}
	log = log.WithField("job_id", jobID)

	if err := d.wait(ctx, jobID, log); err != nil {
		return nil, err
	}

	words, err := d.jobs.Words(ctx, jobID)
	if err != nil {
		return nil, err
	}
	lines := aggregator.Lines(words)
	d.metrics.RecordTranscript(len(lines))
	log.WithField("lines", len(lines)).Info("transcript ready")
	return lines, nil
}

func (d *Driver) wait(ctx context.Context, jobID string, log *logrus.Entry) error {
	const op = "transcription.wait"
	opts := poll.Options{
		Interval:    d.interval,
		MaxAttempts: d.attempts,
		Timer:       d.timer,
		OnAttempt: func(attempt int, done bool, err error) {
			log.WithFields(logrus.Fields{"attempt": attempt, "done": done}).Debug("polling transcription")
		},
	}

	_, attempts, err := poll.Until(ctx, opts, func(ctx context.Context, attempt int) (struct{}, bool, error) {
		s, err := d.jobs.Status(ctx, jobID)
		if err != nil {
			return struct{}{}, false, err
		}
		switch s.Status {
		case StatusDone:
			return struct{}{}, true, nil
		case StatusRejected, StatusDeleted:
			msg := s.Message
			if msg == "" {
				msg = "unknown error"
			}
			return struct{}{}, false, apperr.New(apperr.JobFailed, op, "transcription job %s: %s", s.Status, msg)
		}
		return struct{}{}, false, nil
	})

	switch {
	case err == nil:
		d.metrics.RecordJob("done", attempts)
		return nil
	case errors.Is(err, poll.ErrTimeout):
		d.metrics.RecordJob("timeout", attempts)
		total := d.interval * time.Duration(attempts)
		log.WithField("attempts", attempts).Warn("transcription timed out")
		return apperr.New(apperr.JobTimeout, op, "transcription timed out after %d seconds", int(total.Seconds()))
	default:
		d.metrics.RecordJob("failed", attempts)
		log.WithError(err).Warn("transcription job failed")
		return err
	}
}
