// Package mailer sends transactional email: login codes and order
// notifications.
package mailer

import "context"

// Provider is the adapter interface for outbound mail. Implement this to add
// new mail backends.
type Provider interface {
	// Send delivers a plain-text message to the recipient address.
	Send(ctx context.Context, toEmail, subject, body string) error
}
