package rewrite

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares model output for insertion: line endings become LF,
// text is NFC-normalized, and a markdown code fence wrapping the whole
// answer is removed.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = norm.NFC.String(s)
	return StripFence(s)
}

// StripFence removes a ``` fence that wraps the entire text, including an
// optional language tag. Text without a complete wrapping fence is returned
// unchanged.
func StripFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return s
	}
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return s
	}
	if strings.Contains(trimmed[3:nl], "`") {
		return s
	}
	body := trimmed[nl+1 : len(trimmed)-3]
	if strings.Contains(body, "\n```") || strings.HasPrefix(body, "```") {
		return s
	}
	return strings.TrimSuffix(body, "\n")
}
