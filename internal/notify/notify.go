// Package notify implements single-shot message dispatch over email
// (SMTP), SMS (Azure Communication Services), and push (Pushover).
//
// Each dispatch operation resolves its credentials, makes exactly one
// call to its transport, and returns. There is no retry, queueing, or
// shared state between calls; callers wanting backoff must build it on
// top. Transports are capability interfaces so tests can substitute
// fakes without touching the network.
package notify

import "strings"

// Message is one outbound message. Subject applies to email only.
type Message struct {
	Body    string
	Subject string
}

// ParseRecipients splits a comma-separated recipient list into a slice,
// dropping empty entries.
func ParseRecipients(recipients string) []string {
	if recipients == "" {
		return nil
	}
	parts := strings.Split(recipients, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
