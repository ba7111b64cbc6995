package entity

import "time"

// DeliveryLog records one attempt to deliver a code, after retries.
type DeliveryLog struct {
	ID               int64
	DeliveryID       string
	Channel          Channel
	Recipient        string
	TemplateID       string
	Status           DeliveryStatus
	Attempts         int
	ProviderResponse map[string]any
	CreatedAt        time.Time
}
