package repair

import (
	"encoding/json"
	"strings"
)

// ExtractPayload finds an embedded structured-order payload in a free-text
// model reply. It prefers a fenced code block and falls back to the first
// balanced JSON object in the text. Returns false when no valid JSON object
// is present.
func ExtractPayload(text string) ([]byte, bool) {
	if body, ok := fencedBlock(text); ok {
		if candidate, ok := firstObject(body); ok {
			return candidate, true
		}
	}
	return firstObject(text)
}

func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	// Skip a language tag like "json" on the fence line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// firstObject scans for the first balanced top-level {...}, tracking string
// literals so braces inside quoted values don't end the object early.
func firstObject(text string) ([]byte, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := []byte(text[start : i+1])
				if json.Valid(candidate) {
					return candidate, true
				}
				return nil, false
			}
		}
	}
	return nil, false
}
