// Package validation holds the pure input checks that run before any
// storage access: field presence, domain ranges, and the event date
// window. It never touches the database.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindMalformed Kind = "malformed_input"
	KindDomain    Kind = "invalid_domain_value"
	KindTemporal  Kind = "invalid_temporal_range"
)

// Error is a single failed check on a named field.
type Error struct {
	Kind    Kind   `json:"-"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors aggregates every failed check of one payload.
type Errors []Error

func (v Errors) Error() string {
	if len(v) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Kind reports the dominant failure kind: any malformed field makes the
// whole payload malformed, otherwise the first error's kind wins.
func (v Errors) Kind() Kind {
	for _, err := range v {
		if err.Kind == KindMalformed {
			return KindMalformed
		}
	}
	if len(v) > 0 {
		return v[0].Kind
	}
	return KindMalformed
}

// Events further out than this are rejected as absurd.
const maxEventHorizonYears = 2

// EventPayload is the wire shape of an event-creation request. Numeric
// category fields are pointers so an explicit zero is distinguishable
// from an absent field.
type EventPayload struct {
	Name             string            `json:"name" validate:"required"`
	Venue            string            `json:"venue" validate:"required"`
	Date             string            `json:"date" validate:"required"`
	TicketCategories []CategoryPayload `json:"ticket_categories" validate:"required,dive"`
	Details          string            `json:"details" validate:"required"`
}

// CategoryPayload is one ticket category entry inside an event payload.
type CategoryPayload struct {
	Name       string   `json:"name" validate:"required"`
	Price      *float64 `json:"price" validate:"required,gte=0"`
	SeatsLimit *int     `json:"seats_limit" validate:"required,gte=0"`
}

// BookingPayload is the wire shape of a booking request.
type BookingPayload struct {
	TicketCategory string `json:"ticket_category" validate:"required"`
	Quantity       *int   `json:"quantity" validate:"required,gt=0"`
	UserID         string `json:"user_id" validate:"required"`
}

var validate = validator.New()

// ValidateEvent checks an event payload against field presence, domain
// ranges and the temporal window, and returns the parsed event date on
// success. The date must be strictly after now and at most two years out.
func ValidateEvent(payload EventPayload, now time.Time) (time.Time, error) {
	if err := validate.Struct(payload); err != nil {
		return time.Time{}, translate(err)
	}

	date, err := time.Parse(time.RFC3339, payload.Date)
	if err != nil {
		return time.Time{}, Errors{{
			Kind:    KindMalformed,
			Field:   "date",
			Message: "invalid date format",
		}}
	}
	date = date.UTC()

	if !date.After(now) {
		return time.Time{}, Errors{{
			Kind:    KindTemporal,
			Field:   "date",
			Message: "event date must be in the future",
		}}
	}
	if date.After(now.AddDate(maxEventHorizonYears, 0, 0)) {
		return time.Time{}, Errors{{
			Kind:    KindTemporal,
			Field:   "date",
			Message: "event date too far in future",
		}}
	}
	return date, nil
}

// ValidateBooking checks a booking payload: all fields present and a
// strictly positive quantity.
func ValidateBooking(payload BookingPayload) error {
	if err := validate.Struct(payload); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		e := Error{Field: jsonField(fe)}
		switch fe.Tag() {
		case "required":
			e.Kind = KindMalformed
			e.Message = "missing required field"
		case "gte":
			e.Kind = KindDomain
			e.Message = fmt.Sprintf("must be at least %s", fe.Param())
		case "gt":
			e.Kind = KindDomain
			e.Message = fmt.Sprintf("must be greater than %s", fe.Param())
		default:
			e.Kind = KindMalformed
			e.Message = fe.Error()
		}
		out = append(out, e)
	}
	return out
}

var fieldNames = map[string]string{
	"Name":             "name",
	"Venue":            "venue",
	"Date":             "date",
	"Details":          "details",
	"TicketCategories": "ticket_categories",
	"Price":            "price",
	"SeatsLimit":       "seats_limit",
	"TicketCategory":   "ticket_category",
	"Quantity":         "quantity",
	"UserID":           "user_id",
}

func jsonField(fe validator.FieldError) string {
	if name, ok := fieldNames[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}
