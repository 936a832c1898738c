package app

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sivavinoth/event-mange-api/internal/clock"
	"github.com/sivavinoth/event-mange-api/internal/domain"
	"github.com/sivavinoth/event-mange-api/internal/queue"
	"github.com/sivavinoth/event-mange-api/internal/validation"
)

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, eventID int64) (domain.Event, error)
	GetCategoryForUpdate(ctx context.Context, eventID int64, name string) (domain.TicketCategory, error)
	FindBooking(ctx context.Context, eventID, categoryID int64, userID string) (*domain.Booking, error)
	ReserveSeats(ctx context.Context, categoryID int64, quantity int) error
	CreateBooking(ctx context.Context, booking domain.Booking) (int64, error)
}

// BookingPublisher notifies downstream consumers of committed bookings.
type BookingPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error
}

// BookingService runs the reservation transaction: every check and the
// seat increment happen inside one storage transaction so a failure at
// any step leaves the ledger untouched.
type BookingService struct {
	repo      BookingRepository
	clock     clock.Clock
	publisher BookingPublisher
}

func NewBookingService(repo BookingRepository, clk clock.Clock, opts ...BookingServiceOption) *BookingService {
	svc := &BookingService{
		repo:  repo,
		clock: clk,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type BookingServiceOption func(*BookingService)

// WithPublisher enables best-effort booking-confirmed notifications.
func WithPublisher(p BookingPublisher) BookingServiceOption {
	return func(s *BookingService) {
		s.publisher = p
	}
}

// BookTicketsResult is a committed reservation plus the aggregate it was
// booked against, for response building.
type BookTicketsResult struct {
	Booking  domain.Booking
	Event    domain.Event
	Category domain.TicketCategory
}

// BookTickets reserves payload.Quantity seats in the named category of
// the given event for payload.UserID. Checks run in order: event exists,
// event not in the past, category exists, capacity, no duplicate booking
// by the same user. The category row is locked for the duration of the
// transaction, so concurrent requests against the same pool serialize.
func (s *BookingService) BookTickets(ctx context.Context, eventID int64, payload validation.BookingPayload) (BookTicketsResult, error) {
	if err := validation.ValidateBooking(payload); err != nil {
		return BookTicketsResult{}, err
	}
	quantity := *payload.Quantity

	now := s.clock.Now()
	var result BookTicketsResult

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, eventID)
		if err != nil {
			return err
		}
		if event.Date.Before(now) {
			return domain.ErrEventInPast
		}

		category, err := s.repo.GetCategoryForUpdate(txCtx, eventID, payload.TicketCategory)
		if err != nil {
			return err
		}

		if available := category.SeatsAvailable(); quantity > available {
			return &domain.CapacityError{Available: available}
		}

		existing, err := s.repo.FindBooking(txCtx, eventID, category.ID, payload.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBooking
		}

		if err := s.repo.ReserveSeats(txCtx, category.ID, quantity); err != nil {
			return err
		}

		booking := domain.Booking{
			Reference:        uuid.NewString(),
			EventID:          eventID,
			TicketCategoryID: category.ID,
			UserID:           payload.UserID,
			Quantity:         quantity,
			BookedAt:         now,
		}
		bookingID, err := s.repo.CreateBooking(txCtx, booking)
		if err != nil {
			return err
		}
		booking.ID = bookingID

		category.SeatsSold += quantity
		result = BookTicketsResult{Booking: booking, Event: event, Category: category}
		return nil
	})
	if err != nil {
		return BookTicketsResult{}, err
	}

	s.notifyConfirmed(ctx, result)
	return result, nil
}

// notifyConfirmed publishes after commit; the booking is already durable,
// so a publish failure is logged by the publisher and dropped here.
func (s *BookingService) notifyConfirmed(ctx context.Context, r BookTicketsResult) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:      r.Booking.Reference,
		EventID:        r.Event.ID,
		EventName:      r.Event.Name,
		TicketCategory: r.Category.Name,
		Quantity:       r.Booking.Quantity,
		UserID:         r.Booking.UserID,
		BookedAt:       r.Booking.BookedAt.Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("booking %s: confirmed event not published: %v", r.Booking.Reference, err)
	}
}
