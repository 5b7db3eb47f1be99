package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"callpal-go/internal/apperr"
	"callpal-go/internal/events"
	"callpal-go/internal/metrics"
	"callpal-go/internal/phone"
	"callpal-go/internal/types"
	"callpal-go/internal/voice"
)

type Calls struct {
	creator  CallCreator
	demo     bool
	override string
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *logrus.Entry
	now      func() time.Time
}

// NewCalls builds the call placer. override, when set, replaces every
// intent's provider phone as the destination.
func NewCalls(creator CallCreator, override string, demo bool, pub EventPublisher, m *metrics.Metrics, log *logrus.Entry) *Calls {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Calls{
		creator:  creator,
		demo:     demo || creator == nil,
		override: override,
		events:   pub,
		metrics:  m,
		log:      log.WithField("component", "calls"),
		now:      time.Now,
	}
}

// WithClock sets the clock used to pick the greeting's time of day.
func (c *Calls) WithClock(now func() time.Time) *Calls {
	c.now = now
	return c
}

// Place starts an outbound call that carries out intent for profile.
func (c *Calls) Place(ctx context.Context, intent types.Intent, profile types.UserProfile) (types.CallResult, error) {
	const op = "processor.Place"
	mode := types.ParseMode(string(intent.Mode), types.ModeCalm)
	log := c.log.WithFields(logrus.Fields{
		"mode":     mode,
		"door":     intent.Door,
		"provider": intent.ProviderName,
	})

	if c.demo {
		c.metrics.RecordCall(string(mode), true)
		log.Info("demo mode, call simulated")
		return types.CallResult{
			CallID:  DemoCallID,
			Status:  types.CallInProgress,
			Message: demoMessage(mode, intent.ProviderName),
			Mode:    mode,
		}, nil
	}

	raw := c.override
	if raw == "" {
		raw = intent.ProviderPhone
	}
	dest := phone.Normalize(raw)
	if dest == "" {
		return types.CallResult{}, apperr.New(apperr.InvalidDestination, op,
			"no valid destination phone number: set provider_phone in the intent or VAPI_CALL_TO_NUMBER")
	}

	name := intent.ProviderName
	if name == "" {
		name = "Customer"
	}
	assistant := voice.BuildAssistant(intent, profile, mode, c.now())

	callID, err := c.creator.CreateCall(ctx, voice.Customer{Number: dest, Name: name}, assistant)
	if err != nil {
		log.WithError(err).Error("call placement failed")
		return types.CallResult{}, err
	}

	c.metrics.RecordCall(string(mode), false)
	log = log.WithField("call_id", callID)
	log.Info("call placed")
	publish(ctx, c.events, events.NewEvent(events.CallPlaced, callID, string(mode), map[string]string{
		"door":     string(intent.Door),
		"intent":   intent.Intent,
		"provider": intent.ProviderName,
	}), log)

	return types.CallResult{
		CallID:  callID,
		Status:  types.CallInProgress,
		Message: liveMessage(mode, intent.ProviderName),
		Mode:    mode,
	}, nil
}

func demoMessage(mode types.Mode, provider string) string {
	if mode == types.ModePower {
		return fmt.Sprintf("Calling %s now.", provider)
	}
	return fmt.Sprintf("CallPal is gently speaking with %s on your behalf. Sit tight.", provider)
}

func liveMessage(mode types.Mode, provider string) string {
	if mode == types.ModePower {
		return fmt.Sprintf("Calling %s.", provider)
	}
	return fmt.Sprintf("CallPal is speaking with %s on your behalf.", provider)
}
