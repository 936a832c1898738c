package domain

import "time"

// Event is a published show that owns one or more ticket categories.
// Date is normalized to UTC, set once at creation, and never mutated.
type Event struct {
	ID               int64
	Name             string
	Venue            string
	Date             time.Time
	Details          string
	TicketCategories []TicketCategory
}
