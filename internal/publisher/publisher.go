// Package publisher abstracts run summary notifications. After a crawl
// run completes, a summary is published so downstream consumers can
// react to fresh sanctions data.
package publisher

import "context"

// Publisher delivers a payload to a named topic and returns the
// message ID assigned by the transport.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}
