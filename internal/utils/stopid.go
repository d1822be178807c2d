package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// Stop IDs are short numeric/alphanumeric tokens printed on stop signage.
var bareStopIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,32}$`)

// ExtractStopID pulls a stop id out of a scanned QR payload. The printed
// codes have carried three formats over the years: a bare id, a URL with a
// stop=<id> query parameter, and a URL with a /stop/<id> path segment. All
// three must resolve. Returns "" when no id can be extracted.
func ExtractStopID(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return ""
	}

	if u, err := url.Parse(trimmed); err == nil {
		if id := u.Query().Get("stop"); id != "" {
			return id
		}

		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, segment := range segments {
			if segment == "stop" && i+1 < len(segments) && segments[i+1] != "" {
				return segments[i+1]
			}
		}
	}

	if bareStopIDPattern.MatchString(trimmed) {
		return trimmed
	}
	return ""
}

// ValidateStopID checks an extracted id against the set of known stop ids;
// a scanned code must match a real stop before it is accepted.
func ValidateStopID(id string, known map[string]bool) bool {
	return id != "" && known[id]
}
