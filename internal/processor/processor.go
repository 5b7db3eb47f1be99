// Package processor composes the upstream clients into the two call flows:
// placing an outbound call and fetching its transcript afterwards. Both fall
// back to canned demo data when their integrations are not configured.
package processor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"callpal-go/internal/events"
	"callpal-go/internal/types"
	"callpal-go/internal/voice"
)

// DemoCallID is the call id handed out in demo mode. Asking for its
// transcript always returns the demo conversation.
const DemoCallID = "demo-123"

type Transcriber interface {
	Transcript(ctx context.Context, callID string) ([]types.TranscriptLine, error)
}

type CallCreator interface {
	CreateCall(ctx context.Context, customer voice.Customer, assistant voice.Assistant) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// publishTimeout caps how long an event publish can hold up a response.
var publishTimeout = 2 * time.Second

// publish sends e and only logs failures; events never fail a request.
func publish(ctx context.Context, pub EventPublisher, e events.Event, log *logrus.Entry) {
	if pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, e); err != nil {
		log.WithError(err).WithField("event_type", e.Type).Warn("event publish failed")
	}
}
