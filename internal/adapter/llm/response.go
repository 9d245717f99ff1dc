package llm

import (
	"fmt"
	"strings"
)

// StripThinking removes a leading <think>...</think> block some local models emit.
func StripThinking(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if start := strings.Index(cleaned, "<think>"); start != -1 {
		if end := strings.Index(cleaned, "</think>"); end > start {
			cleaned = strings.TrimSpace(cleaned[:start] + cleaned[end+len("</think>"):])
		}
	}
	return cleaned
}

// ExtractJSONArray returns the outermost [...] span of the response.
func ExtractJSONArray(raw string) (string, error) {
	return extract(raw, "[", "]")
}

// ExtractJSONObject returns the outermost {...} span of the response.
func ExtractJSONObject(raw string) (string, error) {
	return extract(raw, "{", "}")
}

func extract(raw, open, close string) (string, error) {
	cleaned := StripThinking(raw)
	start := strings.Index(cleaned, open)
	end := strings.LastIndex(cleaned, close)
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON %s...%s found in LLM response", open, close)
	}
	return cleaned[start : end+1], nil
}
