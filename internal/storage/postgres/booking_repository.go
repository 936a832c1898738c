package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sivavinoth/event-mange-api/internal/domain"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *BookingRepository) GetEvent(ctx context.Context, eventID int64) (domain.Event, error) {
	const query = `SELECT id, name, venue, date, details FROM events WHERE id = $1`

	var e domain.Event
	err := r.queryRow(ctx, query, eventID).Scan(&e.ID, &e.Name, &e.Venue, &e.Date, &e.Details)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// GetCategoryForUpdate resolves a category by name within an event and
// locks its row for the duration of the ambient transaction. Duplicate
// names resolve to the lowest id, keeping "first match" deterministic.
func (r *BookingRepository) GetCategoryForUpdate(ctx context.Context, eventID int64, name string) (domain.TicketCategory, error) {
	const query = `
SELECT id, event_id, name, price, seats_limit, seats_sold
FROM ticket_categories
WHERE event_id = $1 AND name = $2
ORDER BY id ASC
LIMIT 1
FOR UPDATE`

	var c domain.TicketCategory
	err := r.queryRow(ctx, query, eventID, name).
		Scan(&c.ID, &c.EventID, &c.Name, &c.Price, &c.SeatsLimit, &c.SeatsSold)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.TicketCategory{}, domain.ErrCategoryNotFound
		}
		return domain.TicketCategory{}, fmt.Errorf("get ticket category: %w", err)
	}
	return c, nil
}

func (r *BookingRepository) FindBooking(ctx context.Context, eventID, categoryID int64, userID string) (*domain.Booking, error) {
	const query = `
SELECT id, booking_id, event_id, ticket_category_id, user_id, quantity, booked_at
FROM bookings
WHERE event_id = $1 AND ticket_category_id = $2 AND user_id = $3`

	var b domain.Booking
	err := r.queryRow(ctx, query, eventID, categoryID, userID).
		Scan(&b.ID, &b.Reference, &b.EventID, &b.TicketCategoryID, &b.UserID, &b.Quantity, &b.BookedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

// ReserveSeats increments seats_sold only when the pool still covers the
// quantity. Zero rows affected means another path drained the pool; the
// remaining count is re-read under the same row lock for the error.
func (r *BookingRepository) ReserveSeats(ctx context.Context, categoryID int64, quantity int) error {
	const stmt = `
UPDATE ticket_categories
SET seats_sold = seats_sold + $2
WHERE id = $1 AND seats_sold + $2 <= seats_limit`

	tag, err := r.exec(ctx, stmt, categoryID, quantity)
	if err != nil {
		return fmt.Errorf("reserve seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		const availQuery = `SELECT seats_limit - seats_sold FROM ticket_categories WHERE id = $1`
		var available int
		if err := r.queryRow(ctx, availQuery, categoryID).Scan(&available); err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrCategoryNotFound
			}
			return fmt.Errorf("read availability: %w", err)
		}
		return &domain.CapacityError{Available: available}
	}
	return nil
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking domain.Booking) (int64, error) {
	const stmt = `
INSERT INTO bookings (booking_id, event_id, ticket_category_id, user_id, quantity, booked_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	var id int64
	err := r.queryRow(ctx, stmt,
		booking.Reference,
		booking.EventID,
		booking.TicketCategoryID,
		booking.UserID,
		booking.Quantity,
		booking.BookedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateBooking
		}
		if isForeignKeyViolation(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("create booking: %w", err)
	}
	return id, nil
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
