package compiler

import (
	"errors"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNoJSON is returned when model output contains no JSON object.
var ErrNoJSON = errors.New("no JSON object found in input")

var (
	jsonFence = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFence  = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
)

// ExtractJSON pulls the scene object out of free-form model output.
//
// Tried in order: a ```json fence, any ``` fence, then the window between the
// first '{' and the last '}'. A candidate is accepted only if it is valid
// JSON; when none is, the widest candidate is returned with ErrNoJSON so the
// caller can report the fragment.
func ExtractJSON(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoJSON
	}

	var fallback string
	for _, re := range []*regexp.Regexp{jsonFence, anyFence} {
		if m := re.FindStringSubmatch(raw); len(m) > 1 {
			candidate := strings.TrimSpace(m[1])
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
			if fallback == "" {
				fallback = candidate
			}
		}
	}

	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		candidate := raw[first : last+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
		fallback = candidate
	}

	if fallback == "" {
		fallback = raw
	}
	return fallback, ErrNoJSON
}
