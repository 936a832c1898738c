package domain

// TicketCategory is a named seat pool within an event. SeatsLimit is
// immutable after creation; SeatsSold only grows and must never exceed
// SeatsLimit.
type TicketCategory struct {
	ID         int64
	EventID    int64
	Name       string
	Price      float64
	SeatsLimit int
	SeatsSold  int
}

// SeatsAvailable reports how many seats remain in the pool.
func (c TicketCategory) SeatsAvailable() int {
	return c.SeatsLimit - c.SeatsSold
}
