package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sivavinoth/event-mange-api/internal/domain"
	"github.com/sivavinoth/event-mange-api/internal/validation"
)

// CatalogService is the minimal interface needed for the events endpoints.
type CatalogService interface {
	CreateEvent(ctx context.Context, payload validation.EventPayload) (domain.Event, error)
	ListUpcomingEvents(ctx context.Context) ([]domain.Event, error)
}

// HandleEvents returns an HTTP handler for event creation and listing.
func HandleEvents(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			events, err := svc.ListUpcomingEvents(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, codeInternalError, "failed to list events")
				return
			}
			resp := make([]eventResponse, 0, len(events))
			for _, event := range events {
				resp = append(resp, toEventResponse(event))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			var payload validation.EventPayload
			dec := json.NewDecoder(r.Body)
			if err := dec.Decode(&payload); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			event, err := svc.CreateEvent(r.Context(), payload)
			if err != nil {
				var verrs validation.Errors
				if errors.As(err, &verrs) {
					writeValidationError(w, verrs)
					return
				}
				writeError(w, http.StatusInternalServerError, codeInternalError, "failed to create event")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(createEventResponse{
				Message: "Event created successfully",
				EventID: event.ID,
			})
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

type createEventResponse struct {
	Message string `json:"message"`
	EventID int64  `json:"event_id"`
}

type eventResponse struct {
	ID               int64              `json:"id"`
	Name             string             `json:"name"`
	Venue            string             `json:"venue"`
	Date             string             `json:"date"`
	Details          string             `json:"details"`
	TicketCategories []categoryResponse `json:"ticket_categories"`
}

type categoryResponse struct {
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	SeatsLimit     int     `json:"seats_limit"`
	SeatsSold      int     `json:"seats_sold"`
	SeatsAvailable int     `json:"seats_available"`
}

func toEventResponse(event domain.Event) eventResponse {
	categories := make([]categoryResponse, 0, len(event.TicketCategories))
	for _, c := range event.TicketCategories {
		categories = append(categories, categoryResponse{
			Name:           c.Name,
			Price:          c.Price,
			SeatsLimit:     c.SeatsLimit,
			SeatsSold:      c.SeatsSold,
			SeatsAvailable: c.SeatsAvailable(),
		})
	}
	return eventResponse{
		ID:               event.ID,
		Name:             event.Name,
		Venue:            event.Venue,
		Date:             event.Date.Format(time.RFC3339),
		Details:          event.Details,
		TicketCategories: categories,
	}
}
