package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrCategoryNotFound = errors.New("ticket category not found")
	ErrEventInPast      = errors.New("cannot book tickets for past events")
	ErrDuplicateBooking = errors.New("user has already booked tickets for this event and category")
)

// CapacityError reports a reservation that would overdraw a category's
// seat pool. Available is the remaining count at decision time.
type CapacityError struct {
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("only %d seats available", e.Available)
}
