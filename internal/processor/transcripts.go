package processor

import (
	"context"

	"github.com/sirupsen/logrus"

	"callpal-go/internal/apperr"
	"callpal-go/internal/events"
	"callpal-go/internal/types"
)

// DemoTranscript is the fixed conversation served in demo mode.
func DemoTranscript() []types.TranscriptLine {
	return []types.TranscriptLine{
		{Speaker: types.SpeakerRepresentative, Text: "Thank you for calling, how can I help you?"},
		{Speaker: types.SpeakerAgent, Text: "Hi, I'm calling on behalf of Alex regarding their appointment."},
		{Speaker: types.SpeakerRepresentative, Text: "Of course, let me pull that up."},
		{Speaker: types.SpeakerRepresentative, Text: "I have Thursday at 9am available."},
		{Speaker: types.SpeakerAgent, Text: "Thursday at 9am is perfect, thank you."},
		{Speaker: types.SpeakerRepresentative, Text: "All booked. Have a great day!"},
		{Speaker: types.SpeakerAgent, Text: "Thank you so much. Goodbye."},
	}
}

type Transcripts struct {
	driver Transcriber
	demo   bool
	events EventPublisher
	log    *logrus.Entry
}

// NewTranscripts builds the transcript service. driver may be nil when demo is set.
func NewTranscripts(driver Transcriber, demo bool, pub EventPublisher, log *logrus.Entry) *Transcripts {
	return &Transcripts{
		driver: driver,
		demo:   demo || driver == nil,
		events: pub,
		log:    log.WithField("component", "transcripts"),
	}
}

// Get returns the transcript of callID. A call without a recording yet, or
// one the voice platform cannot find, yields an empty transcript.
func (t *Transcripts) Get(ctx context.Context, callID string) ([]types.TranscriptLine, error) {
	log := t.log.WithField("call_id", callID)
	if t.demo || callID == DemoCallID {
		log.Debug("serving demo transcript")
		return DemoTranscript(), nil
	}

	lines, err := t.driver.Transcript(ctx, callID)
	if err != nil {
		if apperr.IsKind(err, apperr.NoRecordingYet, apperr.LookupFailed) {
			log.WithError(err).Info("no transcript available yet")
			return []types.TranscriptLine{}, nil
		}
		return nil, err
	}

	if len(lines) > 0 {
		publish(ctx, t.events, events.NewEvent(events.TranscriptReady, callID, "", map[string]int{"lines": len(lines)}), log)
	}
	return lines, nil
}
