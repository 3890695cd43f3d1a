package notifier

import (
	"context"
	"log"
)

// LogNotifier is a development fallback that records that a delivery was requested.
// It logs recipient and subject only; the body carries the verification code and is
// never written anywhere.
type LogNotifier struct{}

// Send logs the delivery request and reports success.
func (LogNotifier) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("notifier: delivery requested to=%s subject=%q", to, subject)
	return nil
}
