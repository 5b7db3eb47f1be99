package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// extractContentFromChoices reads choices[0].message.content and returns the
// JSON object inside it, or "" when there is none.
func extractContentFromChoices(body []byte) string {
	var obj struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &obj); err != nil || len(obj.Choices) == 0 {
		return ""
	}
	return extractJSON(stripThinking(obj.Choices[0].Message.Content))
}

// stripThinking drops reasoning blocks some models prepend to their answer.
func stripThinking(s string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
}

// extractJSON finds the first balanced JSON object in a string and returns it.
// Markdown fences are stripped first; braces inside string literals are ignored.
func extractJSON(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, r := range []string{"```json", "```", "`"} {
		s = strings.ReplaceAll(s, r, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}
	return ""
}
