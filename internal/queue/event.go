// Package queue defines the events emitted by board mutations and the
// transports that carry them: RabbitMQ for the durable activity feed and
// an in-process bus for live board streams.
package queue

import "time"

// ActivityQueue is the default RabbitMQ queue for activity events.
const ActivityQueue = "card.activity"

// ActivityEvent is published whenever a card activity is logged. It
// carries enough for consumers to log or notify without reading the
// document.
type ActivityEvent struct {
	ActivityID  int64     `json:"activity_id"`
	CardID      int64     `json:"card_id"`
	BoardID     int64     `json:"board_id"`
	UserID      int64     `json:"user_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Event is what board stream subscribers receive.
type Event struct {
	Type    string `json:"type"`
	Entity  string `json:"entity,omitempty"`
	BoardID int64  `json:"board_id"`
	Payload any    `json:"payload,omitempty"`
}
