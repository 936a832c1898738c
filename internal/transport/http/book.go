package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sivavinoth/event-mange-api/internal/app"
	"github.com/sivavinoth/event-mange-api/internal/domain"
	"github.com/sivavinoth/event-mange-api/internal/validation"
)

// BookingService is the minimal interface needed to book tickets.
type BookingService interface {
	BookTickets(ctx context.Context, eventID int64, payload validation.BookingPayload) (app.BookTicketsResult, error)
}

// HandleBookTickets returns an HTTP handler for POST /events/{id}/book.
func HandleBookTickets(svc BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ok := parseBookPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var payload validation.BookingPayload
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		result, err := svc.BookTickets(r.Context(), eventID, payload)
		if err != nil {
			var verrs validation.Errors
			var capErr *domain.CapacityError
			switch {
			case errors.As(err, &verrs):
				writeValidationError(w, verrs)
			case errors.Is(err, domain.ErrEventNotFound):
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case errors.Is(err, domain.ErrCategoryNotFound):
				writeError(w, http.StatusNotFound, codeCategoryNotFound, err.Error())
			case errors.Is(err, domain.ErrEventInPast):
				writeError(w, http.StatusBadRequest, codeEventInPast, err.Error())
			case errors.As(err, &capErr):
				writeError(w, http.StatusBadRequest, codeCapacityExceeded, capErr.Error())
			case errors.Is(err, domain.ErrDuplicateBooking):
				writeError(w, http.StatusBadRequest, codeDuplicateBooking, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "failed to book tickets")
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(bookTicketsResponse{
			Message:        "Tickets booked successfully",
			BookingID:      result.Booking.Reference,
			EventID:        result.Event.ID,
			TicketCategory: result.Category.Name,
			Quantity:       result.Booking.Quantity,
		})
	}
}

type bookTicketsResponse struct {
	Message        string `json:"message"`
	BookingID      string `json:"booking_id"`
	EventID        int64  `json:"event_id"`
	TicketCategory string `json:"ticket_category"`
	Quantity       int    `json:"quantity"`
}

func parseBookPath(path string) (int64, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return 0, false
	}
	if parts[0] != "events" || parts[2] != "book" {
		return 0, false
	}
	eventID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || eventID <= 0 {
		return 0, false
	}
	return eventID, true
}
