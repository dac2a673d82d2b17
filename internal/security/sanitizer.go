// Package security provides output sanitization for text the gateway did not
// author: backend error messages are surfaced to users verbatim, and user
// names and images come from signup forms, so both pass through a strict
// allow-nothing HTML policy before leaving this service.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxMessageLen = 256

// MessageSanitizer strips all markup from untrusted display strings.
// It is safe for concurrent use.
type MessageSanitizer struct {
	policy *bluemonday.Policy
}

// NewMessageSanitizer builds a sanitizer with bluemonday's strict policy:
// every tag and attribute is removed, leaving plain text only.
func NewMessageSanitizer() *MessageSanitizer {
	return &MessageSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns msg with all markup removed, entities decoded back to
// plain text, whitespace collapsed, and length capped. Idempotent in effect:
// sanitized output passes through unchanged except for entity decoding.
func (s *MessageSanitizer) Sanitize(msg string) string {
	clean := s.policy.Sanitize(msg)
	clean = html.UnescapeString(clean)
	clean = strings.Join(strings.Fields(clean), " ")
	if len(clean) > maxMessageLen {
		clean = clean[:maxMessageLen]
	}
	return clean
}
