package httpmetrics

import (
	"regexp"
	"strings"
)

var (
	uuidRegex     = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

// NormalizePath collapses note and user ids so that metric label cardinality stays bounded.
// Anything under /api that is not a known segment is treated as a parameter too, which keeps
// malformed ids out of the label set.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}

	normalized := uuidRegex.ReplaceAllString(path, "{id}")

	parts := strings.Split(normalized, "/")
	api := len(parts) > 1 && parts[1] == "api"
	for i, part := range parts {
		if part == "" {
			continue
		}
		switch {
		case strings.HasPrefix(part, "{"), isNumeric(part), objectIDRegex.MatchString(part):
			parts[i] = "{param}"
		case api && i >= 3 && !knownSegments[part]:
			parts[i] = "{param}"
		}
	}

	result := strings.Join(parts, "/")
	if result == "" {
		return "/"
	}

	return result
}

var knownSegments = map[string]bool{
	"share":    true,
	"login":    true,
	"register": true,
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
