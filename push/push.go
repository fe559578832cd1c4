// Package push delivers notifications to registered device tokens.
package push

import "context"

// Notification is the payload delivered to every target device. FCM only
// carries string data values.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Result reports how a multicast send went per token
type Result struct {
	SuccessCount int
	FailureCount int
}

// Sender delivers one notification to many device tokens in a single send
type Sender interface {
	SendMulticast(ctx context.Context, tokens []string, n Notification) (*Result, error)
}
