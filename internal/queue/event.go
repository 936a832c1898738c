// Package queue defines message payloads published to the broker and a
// best-effort RabbitMQ publisher for them.
package queue

// BookingConfirmedEvent is published after a booking commits. It carries
// enough for downstream consumers (notifications, analytics) to act
// without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID      string `json:"booking_id"`
	EventID        int64  `json:"event_id"`
	EventName      string `json:"event_name"`
	TicketCategory string `json:"ticket_category"`
	Quantity       int    `json:"quantity"`
	UserID         string `json:"user_id"`
	BookedAt       string `json:"booked_at"`
}
