package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sivavinoth/event-mange-api/internal/app"
	"github.com/sivavinoth/event-mange-api/internal/clock"
	"github.com/sivavinoth/event-mange-api/internal/domain"
	"github.com/sivavinoth/event-mange-api/internal/storage/postgres"
	"github.com/sivavinoth/event-mange-api/internal/testutil"
)

func newIntegrationMux(t *testing.T, now time.Time) (*http.ServeMux, *pgxpool.Pool) {
	t.Helper()
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	testutil.TruncateAll(t, context.Background(), pool)

	catalogSvc := app.NewCatalogService(postgres.NewCatalogRepository(pool), clock.NewFixed(now))
	bookingSvc := app.NewBookingService(postgres.NewBookingRepository(pool), clock.NewFixed(now))

	mux := http.NewServeMux()
	mux.Handle("/events", HandleEvents(catalogSvc))
	mux.Handle("/events/", HandleBookTickets(bookingSvc))
	return mux, pool
}

func dbCategory(name string, price float64, limit int) domain.TicketCategory {
	return domain.TicketCategory{Name: name, Price: price, SeatsLimit: limit}
}

func TestBookingFlow_HTTPIntegration(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	mux, _ := newIntegrationMux(t, now)

	createBody := `{"name":"Concert","venue":"Main Hall","date":"2025-01-31T20:00:00Z","ticket_categories":[{"name":"GA","price":20,"seats_limit":2}],"details":"doors at 7"}`
	rec := doRequest(mux, http.MethodPost, "/events", createBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created createEventResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.EventID == 0 {
		t.Fatalf("expected event id to be set")
	}
	bookPath := fmt.Sprintf("/events/%d/book", created.EventID)

	// Fresh event lists with full availability.
	rec = doRequest(mux, http.MethodGet, "/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"seats_available":2`) {
		t.Fatalf("expected full availability, got %s", body)
	}

	// u1 drains the pool.
	rec = doRequest(mux, http.MethodPost, bookPath, `{"ticket_category":"GA","quantity":2,"user_id":"u1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var booked bookTicketsResponse
	if err := json.NewDecoder(rec.Body).Decode(&booked); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if booked.BookingID == "" || booked.Quantity != 2 || booked.TicketCategory != "GA" {
		t.Fatalf("unexpected booking response: %+v", booked)
	}

	rec = doRequest(mux, http.MethodGet, "/events", "")
	if body := rec.Body.String(); !strings.Contains(body, `"seats_available":0`) {
		t.Fatalf("expected drained availability, got %s", body)
	}

	// u2 finds the category sold out, with the remaining count cited.
	rec = doRequest(mux, http.MethodPost, bookPath, `{"ticket_category":"GA","quantity":1,"user_id":"u2"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "only 0 seats available") {
		t.Fatalf("expected remaining count in error, got %s", body)
	}

	// u1 cannot book the same category twice.
	rec = doRequest(mux, http.MethodPost, bookPath, `{"ticket_category":"GA","quantity":1,"user_id":"u1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, codeDuplicateBooking) {
		t.Fatalf("expected duplicate booking error, got %s", body)
	}

	// Unknown category is a 404.
	rec = doRequest(mux, http.MethodPost, bookPath, `{"ticket_category":"VIP","quantity":1,"user_id":"u3"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestBookingPastEvent_HTTPIntegration(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	testutil.TruncateAll(t, context.Background(), pool)

	eventID, _ := testutil.InsertEventWithCategory(t, context.Background(), pool, now.Add(-time.Hour),
		dbCategory("GA", 20, 10))

	bookingSvc := app.NewBookingService(postgres.NewBookingRepository(pool), clock.NewFixed(now))
	mux := http.NewServeMux()
	mux.Handle("/events/", HandleBookTickets(bookingSvc))

	rec := doRequest(mux, http.MethodPost, fmt.Sprintf("/events/%d/book", eventID),
		`{"ticket_category":"GA","quantity":1,"user_id":"u1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, codeEventInPast) {
		t.Fatalf("expected past-event error, got %s", body)
	}
}

// TestConcurrentBooking_NoOversell floods one category with parallel
// single-seat requests from distinct users; the winners must sum to
// exactly the capacity.
func TestConcurrentBooking_NoOversell(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	pool := testutil.NewTestPool(t)
	testutil.ApplyMigrations(t, context.Background(), pool)
	testutil.TruncateAll(t, context.Background(), pool)

	const capacity = 10
	const attempts = 30

	eventID, categoryID := testutil.InsertEventWithCategory(t, context.Background(), pool, now.Add(48*time.Hour),
		dbCategory("GA", 20, capacity))

	bookingSvc := app.NewBookingService(postgres.NewBookingRepository(pool), clock.NewFixed(now))
	mux := http.NewServeMux()
	mux.Handle("/events/", HandleBookTickets(bookingSvc))
	path := fmt.Sprintf("/events/%d/book", eventID)

	var wg sync.WaitGroup
	statuses := make([]int, attempts)
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := fmt.Sprintf(`{"ticket_category":"GA","quantity":1,"user_id":"user-%d"}`, i)
			rec := doRequest(mux, http.MethodPost, path, body)
			statuses[i] = rec.Code
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, status := range statuses {
		if status == http.StatusOK {
			succeeded++
		}
	}
	if succeeded != capacity {
		t.Fatalf("expected exactly %d successful bookings, got %d", capacity, succeeded)
	}

	var sold, bookings int
	if err := pool.QueryRow(context.Background(),
		`SELECT seats_sold FROM ticket_categories WHERE id = $1`, categoryID).Scan(&sold); err != nil {
		t.Fatalf("query seats_sold: %v", err)
	}
	if err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM bookings WHERE event_id = $1`, eventID).Scan(&bookings); err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if sold != capacity || bookings != capacity {
		t.Fatalf("expected %d sold and %d bookings, got %d/%d", capacity, capacity, sold, bookings)
	}
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}
