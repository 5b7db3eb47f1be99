// Package aggregator folds diarized ASR word tokens into speaker turns.
package aggregator

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"callpal-go/internal/types"
)

// AgentLabel is the diarization label of the party that placed the call.
// Every other label is the representative.
const AgentLabel = "S1"

const wordType = "word"

// Word is one recognized token.
type Word struct {
	Type    string
	Speaker string
	Content string
	// Start is the token's offset in seconds, nil when the recognizer gave none.
	Start *float64
}

// Aggregate groups consecutive words sharing a speaker label into lines.
// Non-word tokens are skipped; a missing label counts as AgentLabel.
func Aggregate(words iter.Seq[Word]) []types.TranscriptLine {
	lines := []types.TranscriptLine{}
	var (
		current string
		started bool
		buf     []string
		start   *float64
	)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		lines = append(lines, types.TranscriptLine{
			Speaker:   speakerFor(current),
			Text:      strings.Join(buf, " "),
			Timestamp: timestamp(start),
		})
	}

	for w := range words {
		if w.Type != wordType {
			continue
		}
		label := w.Speaker
		if label == "" {
			label = AgentLabel
		}
		if !started || label != current {
			flush()
			current, started = label, true
			buf = []string{w.Content}
			start = w.Start
			continue
		}
		buf = append(buf, w.Content)
	}
	flush()
	return lines
}

// Lines is Aggregate over a materialized slice.
func Lines(words []Word) []types.TranscriptLine {
	return Aggregate(slices.Values(words))
}

func speakerFor(label string) types.Speaker {
	if label == AgentLabel {
		return types.SpeakerAgent
	}
	return types.SpeakerRepresentative
}

// timestamp renders seconds as m:ss.
func timestamp(sec *float64) string {
	if sec == nil || *sec < 0 {
		return ""
	}
	total := int(*sec)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
