// Package notifier abstracts delivery of verification messages to an identity's
// channel (email here). The credential core only requests delivery; retries and
// delivery confirmation belong to the gateway.
package notifier

import "context"

// Notifier delivers a message to an identity. A non-nil error means delivery could
// not even be handed to the transport; callers treat that as fatal for the
// enclosing operation and must not report the challenge as issued.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
