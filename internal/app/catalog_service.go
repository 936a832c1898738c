package app

import (
	"context"
	"time"

	"github.com/sivavinoth/event-mange-api/internal/clock"
	"github.com/sivavinoth/event-mange-api/internal/domain"
	"github.com/sivavinoth/event-mange-api/internal/validation"
)

type CatalogRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateEvent(ctx context.Context, event domain.Event) (int64, error)
	CreateCategory(ctx context.Context, category domain.TicketCategory) (int64, error)
	ListEventsAfter(ctx context.Context, cutoff time.Time) ([]domain.Event, error)
}

// CatalogService creates events and lists upcoming ones. Creation is the
// only write and happens in a single transaction; listing is read-only.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

// CreateEvent validates the payload, then persists the event and all of
// its categories atomically. Categories start with zero seats sold.
func (s *CatalogService) CreateEvent(ctx context.Context, payload validation.EventPayload) (domain.Event, error) {
	now := s.clock.Now()

	date, err := validation.ValidateEvent(payload, now)
	if err != nil {
		return domain.Event{}, err
	}

	event := domain.Event{
		Name:    payload.Name,
		Venue:   payload.Venue,
		Date:    date,
		Details: payload.Details,
	}
	for _, cat := range payload.TicketCategories {
		event.TicketCategories = append(event.TicketCategories, domain.TicketCategory{
			Name:       cat.Name,
			Price:      *cat.Price,
			SeatsLimit: *cat.SeatsLimit,
			SeatsSold:  0,
		})
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		eventID, err := s.repo.CreateEvent(txCtx, event)
		if err != nil {
			return err
		}
		event.ID = eventID

		for i := range event.TicketCategories {
			event.TicketCategories[i].EventID = eventID
			categoryID, err := s.repo.CreateCategory(txCtx, event.TicketCategories[i])
			if err != nil {
				return err
			}
			event.TicketCategories[i].ID = categoryID
		}
		return nil
	})
	if err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// ListUpcomingEvents returns events dated strictly after now, oldest
// first, with their categories and live availability.
func (s *CatalogService) ListUpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.ListEventsAfter(ctx, s.clock.Now())
}
