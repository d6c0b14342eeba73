package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a model response holds no JSON object
var ErrNoJSON = errors.New("no JSON object in model response")

// StripFences removes a surrounding markdown code fence such as ```json ... ```
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // drop the language tag line
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// ExtractJSON returns the first balanced top-level JSON object in s
func ExtractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", ErrNoJSON
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
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
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSON
}

// Decode turns raw model text into a normalized Result
func Decode(text string) (*Result, error) {
	r, err := decodeRaw(text)
	if err != nil {
		return nil, err
	}
	r.Normalize()
	return r, nil
}

// decodeRaw reads the Result exactly as the model wrote it
func decodeRaw(text string) (*Result, error) {
	raw, err := ExtractJSON(StripFences(text))
	if err != nil {
		return nil, err
	}
	var r Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	r.Intent = Intent(strings.ToUpper(strings.TrimSpace(string(r.Intent))))
	return &r, nil
}
