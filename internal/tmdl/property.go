package tmdl

import (
	"regexp"
	"strings"
)

var propertyRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\s*(:|=)\s*(.*)$`)
var flagRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ParseProperty splits "name: value" or "name = value". A bare identifier
// is a flag property with an empty value.
func ParseProperty(line string) (name, value string, ok bool) {
	s := strings.TrimSpace(line)
	if m := propertyRe.FindStringSubmatch(s); m != nil {
		return m[1], strings.TrimSpace(m[3]), true
	}
	if flagRe.MatchString(s) {
		return s, "", true
	}
	return "", "", false
}

// StripFences removes markdown code fence lines from generated text.
func StripFences(text string) string {
	lines := SplitLines(text)
	out := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
