package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Calculator is an interface for computing file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum that ignores layout.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
// Normalization:
//  1. Remove // and /* */ comments while preserving "..." string literals
//  2. Drop "{", "}" and trailing ":" block punctuation outside literals
//  3. Collapse whitespace to single spaces
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256([]byte(c.normalize(string(content))))
	return hex.EncodeToString(hash[:])
}

// normalize applies the normalization rules to content.
func (c SHA256) normalize(content string) string {
	cleaned := c.removeComments(content)

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		s := strings.TrimSpace(line)
		s = strings.TrimSpace(strings.TrimSuffix(s, "{"))
		if s == "" || s == "}" {
			continue
		}
		lines = append(lines, strings.TrimSuffix(s, ":"))
	}
	joined := strings.Join(lines, " ")

	var b strings.Builder
	b.Grow(len(joined))
	lastWasSpace := false
	for _, r := range joined {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}

	return strings.TrimSpace(b.String())
}

type commentState int

const (
	csNormal commentState = iota
	csLineComment
	csBlockComment
	csDoubleQuote
)

// removeComments removes // and /* */ comments while preserving string
// literals. A doubled quote inside a literal is an escaped quote.
func (c SHA256) removeComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	state := csNormal
	i := 0

	for i < len(content) {
		ch := content[i]
		var next byte
		if i+1 < len(content) {
			next = content[i+1]
		}

		switch state {
		case csNormal:
			switch {
			case ch == '/' && next == '/':
				state = csLineComment
				i += 2
			case ch == '/' && next == '*':
				state = csBlockComment
				b.WriteByte(' ')
				i += 2
			case ch == '"':
				state = csDoubleQuote
				b.WriteByte(ch)
				i++
			default:
				b.WriteByte(ch)
				i++
			}

		case csLineComment:
			if ch == '\n' {
				b.WriteByte(ch)
				state = csNormal
			}
			i++

		case csBlockComment:
			if ch == '*' && next == '/' {
				state = csNormal
				i += 2
			} else {
				if ch == '\n' {
					b.WriteByte(ch)
				}
				i++
			}

		case csDoubleQuote:
			b.WriteByte(ch)
			if ch == '"' {
				if next == '"' {
					b.WriteByte(next)
					i += 2
				} else {
					state = csNormal
					i++
				}
			} else {
				i++
			}
		}
	}

	return b.String()
}
