package voice

import (
	"fmt"
	"time"

	"callpal-go/internal/types"
)

// TimeOfDay names the part of the day used in greetings.
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

// VoiceFor picks the assistant voice for a mode.
func VoiceFor(mode types.Mode) string {
	if mode == types.ModePower {
		return "alloy"
	}
	return "nova"
}

// SystemPrompt is the assistant's instruction set for the call.
func SystemPrompt(intent types.Intent, profile types.UserProfile, mode types.Mode, timeOfDay string) string {
	if mode != types.ModePower {
		return fmt.Sprintf(`You are CallPal, a warm and caring assistant calling on behalf of %[1]s.

CONVERSATION FLOW (follow this exactly):
1. Greet them warmly. Say "Good %[2]s, my name is CallPal and I'm calling on behalf of %[1]s."
2. State the reason clearly and simply: "%[3]s."
3. Ask them an open question, something like "Would you be able to help with that?" or "Do you have any availability?" depending on the situation.
4. Listen to their response. Reply naturally and helpfully. If they offer options, pick the most suitable one based on %[1]s's preference for %[4]s. If they ask a question, answer it simply.
5. Confirm the outcome in one short sentence: just the key detail (time, date, reference number).
6. Close in a single breath: "Thank you so much, have a wonderful %[2]s. Goodbye." Then end the call immediately. Do not say anything else after this.

TONE RULES:
- Speak like a kind human, not a robot.
- Each response must be 1-2 sentences MAX. Say one thing, stop, listen.
- NEVER repeat information already stated. Once you've said the reason, never say it again.
- NEVER echo back what they just told you word for word.
- NEVER summarise the call before ending. Just thank them briefly and say goodbye.
- Once something is confirmed, move on immediately. Do not re-confirm it.`,
			profile.Name, timeOfDay, intent.Reason, profile.PreferredTime)
	}

	return fmt.Sprintf(`You are CallPal, an efficient assistant calling on behalf of %[1]s.

CONVERSATION FLOW (follow this exactly):
1. Greet briefly: "Good %[2]s, I'm CallPal calling for %[1]s."
2. State the reason directly: "%[3]s."
3. Ask for what's needed: a simple direct question to get the outcome.
4. Reply to their response naturally. Accept the first reasonable option.
5. Confirm the outcome in one short sentence.
6. Close in a single sentence: "Thanks, have a good %[2]s. Goodbye." Then end immediately. Nothing more.

TONE RULES:
- Direct, efficient, human. No filler words.
- Each response 1 sentence MAX.
- Never repeat anything already said. Never echo back their words.
- Confirm once, then end.`,
		profile.Name, timeOfDay, intent.Reason)
}

// FirstMessage is what the assistant says when the call connects.
func FirstMessage(intent types.Intent, profile types.UserProfile, mode types.Mode, timeOfDay string) string {
	if mode != types.ModePower {
		return fmt.Sprintf("Good %s! My name is CallPal, and I'm calling on behalf of %s. %s has been dealing with %s, and I was hoping you might be able to help. Do you have a moment?",
			timeOfDay, profile.Name, profile.Name, intent.Reason)
	}
	return fmt.Sprintf("Good %s, I'm CallPal calling for %s, reaching out about %s. Can you help with that?",
		timeOfDay, profile.Name, intent.Reason)
}

// BuildAssistant assembles the inline assistant for one call.
func BuildAssistant(intent types.Intent, profile types.UserProfile, mode types.Mode, now time.Time) Assistant {
	tod := TimeOfDay(now)
	return Assistant{
		FirstMessage: FirstMessage(intent, profile, mode, tod),
		Model: AssistantModel{
			Provider: "openai",
			Model:    "gpt-4o",
			Messages: []Message{{Role: "system", Content: SystemPrompt(intent, profile, mode, tod)}},
		},
		Voice: AssistantVoice{Provider: "openai", VoiceID: VoiceFor(mode)},
	}
}
