package domain

import "time"

// Booking is a durable seat reservation. Reference is the public opaque
// identifier handed back to the caller; ID is internal. A booking is
// created exactly once and never mutated.
type Booking struct {
	ID               int64
	Reference        string
	EventID          int64
	TicketCategoryID int64
	UserID           string
	Quantity         int
	BookedAt         time.Time
}
