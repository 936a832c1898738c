package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sivavinoth/event-mange-api/internal/domain"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *CatalogRepository) CreateEvent(ctx context.Context, event domain.Event) (int64, error) {
	const stmt = `
INSERT INTO events (name, venue, date, details)
VALUES ($1, $2, $3, $4)
RETURNING id`

	var id int64
	err := r.queryRow(ctx, stmt, event.Name, event.Venue, event.Date, event.Details).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category domain.TicketCategory) (int64, error) {
	const stmt = `
INSERT INTO ticket_categories (event_id, name, price, seats_limit, seats_sold)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	var id int64
	err := r.queryRow(ctx, stmt,
		category.EventID,
		category.Name,
		category.Price,
		category.SeatsLimit,
		category.SeatsSold,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.ErrEventNotFound
		}
		return 0, fmt.Errorf("create ticket category: %w", err)
	}
	return id, nil
}

// ListEventsAfter returns events dated strictly after cutoff, oldest
// first, each with its categories in creation order.
func (r *CatalogRepository) ListEventsAfter(ctx context.Context, cutoff time.Time) ([]domain.Event, error) {
	const eventsQuery = `
SELECT id, name, venue, date, details
FROM events
WHERE date > $1
ORDER BY date ASC, id ASC`

	rows, err := r.query(ctx, eventsQuery, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(&event.ID, &event.Name, &event.Venue, &event.Date, &event.Details); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		index[event.ID] = len(events)
		ids = append(ids, event.ID)
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	if len(events) == 0 {
		return events, nil
	}

	const categoriesQuery = `
SELECT id, event_id, name, price, seats_limit, seats_sold
FROM ticket_categories
WHERE event_id = ANY($1)
ORDER BY id ASC`

	catRows, err := r.query(ctx, categoriesQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list ticket categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var c domain.TicketCategory
		if err := catRows.Scan(&c.ID, &c.EventID, &c.Name, &c.Price, &c.SeatsLimit, &c.SeatsSold); err != nil {
			return nil, fmt.Errorf("scan ticket category: %w", err)
		}
		i := index[c.EventID]
		events[i].TicketCategories = append(events[i].TicketCategories, c)
	}
	if catRows.Err() != nil {
		return nil, fmt.Errorf("iterate ticket categories: %w", catRows.Err())
	}
	return events, nil
}

func (r *CatalogRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *CatalogRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
