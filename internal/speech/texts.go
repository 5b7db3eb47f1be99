package speech

import "callpal-go/internal/types"

// Triggers name the moments in a call flow that have a canned line.
const (
	TriggerDefault = "default"
	TriggerConfirm = "confirm"
	TriggerSuccess = "success"
	TriggerWaiting = "waiting"
)

var calmTexts = map[string]string{
	TriggerDefault: "Of course. Take your time. I'm here and ready whenever you are.",
	TriggerConfirm: "Got it. Just to make sure I understand, you'd like me to make this call for you. Is that right?",
	TriggerSuccess: "All done. Everything went smoothly. You don't need to do anything else.",
	TriggerWaiting: "Still on the call and everything is going well. I'll let you know as soon as it's finished.",
}

var powerTexts = map[string]string{
	TriggerDefault: "On it.",
	TriggerConfirm: "Making the call now.",
	TriggerSuccess: "Done.",
	TriggerWaiting: "Still on hold.",
}

// TextFor picks custom when non-empty, else the line for trigger, else the
// mode's default line.
func TextFor(mode types.Mode, trigger, custom string) string {
	if custom != "" {
		return custom
	}
	texts := calmTexts
	if mode == types.ModePower {
		texts = powerTexts
	}
	if t, ok := texts[trigger]; ok {
		return t
	}
	return texts[TriggerDefault]
}

// Pacing is the speaking pace hint returned to the client.
func Pacing(mode types.Mode) string {
	if mode == types.ModeCalm {
		return "slow"
	}
	return "normal"
}
