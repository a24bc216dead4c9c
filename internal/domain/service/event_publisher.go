package service

import (
	"context"
	"time"
)

// EssenceConfirmedEvent is emitted when a demand pushes an essence's pooled
// total to or past its confirmation threshold.
type EssenceConfirmedEvent struct {
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	EssenceID    string    `json:"essence_id"`
	EssenceName  string    `json:"essence_name"`
	EssenceCode  string    `json:"essence_code"`
	TotalDemand  int64     `json:"total_demand"`
	TargetAmount int64     `json:"target_amount"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishEssenceConfirmed publishes a confirmation event for async processing
	// (purchase-order preparation, buyer notifications).
	PublishEssenceConfirmed(ctx context.Context, event *EssenceConfirmedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
