// Package wizard implements the flight booking flow: a server-side session
// stepping FlightDetails -> TravelerInfo -> Confirmation. Transitions are
// guarded; the only backward edge is TravelerInfo -> FlightDetails, and
// Confirmation is reachable solely through a captured payment.
package wizard

import (
	"strconv"
	"strings"
	"time"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
	"tripgate/internal/pricing"
)

type Step string

const (
	StepFlightDetails Step = "flight_details"
	StepTravelerInfo  Step = "traveler_info"
	StepConfirmation  Step = "confirmation"
)

type Session struct {
	ID    string       `json:"id"`
	Step  Step         `json:"step"`
	Offer models.Offer `json:"offer"`

	Travelers []models.Traveler     `json:"travelers"`
	Payment   *models.PaymentResult `json:"payment,omitempty"`

	// Generated once per session; resent with every booking attempt so the
	// backend books at most once no matter how often we retry.
	IdempotencyKey string `json:"-"`

	Reference    string `json:"reference,omitempty"`
	TicketNumber string `json:"ticket_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// newSession validates the selected offer. An absent offer is a hard error:
// there is nothing a wizard without an offer could ever do.
func newSession(id, idempotencyKey string, offer models.Offer) (*Session, error) {
	if strings.TrimSpace(offer.ID) == "" {
		return nil, domain.ValidationError{Field: "offer", Msg: "a selected flight offer is required"}
	}
	if offer.Price <= 0 {
		return nil, domain.ValidationError{Field: "offer.price", Msg: "must be positive"}
	}

	offer.DisplayPrice = pricing.DisplayPrice(offer.Price)
	now := time.Now().UTC()
	return &Session{
		ID:             id,
		Step:           StepFlightDetails,
		Offer:          offer,
		Travelers:      nil,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Continue moves from the offer summary to the traveler form, seeding the
// first blank traveler so the list never starts empty.
func (s *Session) Continue() error {
	if s.Step != StepFlightDetails {
		return stepError(s.Step, StepFlightDetails)
	}
	if len(s.Travelers) == 0 {
		s.Travelers = []models.Traveler{{}}
	}
	s.Step = StepTravelerInfo
	return nil
}

// Back returns to the offer summary. No other backward edge exists.
func (s *Session) Back() error {
	if s.Step != StepTravelerInfo {
		return stepError(s.Step, StepTravelerInfo)
	}
	s.Step = StepFlightDetails
	return nil
}

func (s *Session) AddTraveler() error {
	if s.Step != StepTravelerInfo {
		return stepError(s.Step, StepTravelerInfo)
	}
	s.Travelers = append(s.Travelers, models.Traveler{})
	return nil
}

func (s *Session) UpdateTraveler(index int, t models.Traveler) error {
	if s.Step != StepTravelerInfo {
		return stepError(s.Step, StepTravelerInfo)
	}
	if index < 0 || index >= len(s.Travelers) {
		return domain.NotFoundError{Resource: "traveler"}
	}
	// Calling code is resolved at booking time, never accepted from input.
	t.CallingCode = ""
	s.Travelers[index] = t
	return nil
}

// RemoveTraveler drops the traveler at index. The list never shrinks below
// one entry; removing the last remaining traveler is a no-op.
func (s *Session) RemoveTraveler(index int) error {
	if s.Step != StepTravelerInfo {
		return stepError(s.Step, StepTravelerInfo)
	}
	if index < 0 || index >= len(s.Travelers) {
		return domain.NotFoundError{Resource: "traveler"}
	}
	if len(s.Travelers) <= 1 {
		return nil
	}
	s.Travelers = append(s.Travelers[:index], s.Travelers[index+1:]...)
	return nil
}

// attachPayment records the captured payment on the session. Kept across
// failed booking attempts so a retry never re-charges.
func (s *Session) attachPayment(p models.PaymentResult) error {
	if s.Step != StepTravelerInfo {
		return stepError(s.Step, StepTravelerInfo)
	}
	if !p.Succeeded() {
		return domain.ValidationError{Field: "payment", Msg: "payment not captured"}
	}
	s.Payment = &p
	return nil
}

// completeBooking transitions to Confirmation. Guarded on the captured
// payment: this is the invariant the whole flow hangs on.
func (s *Session) completeBooking(reference, ticketNumber string) error {
	if s.Step != StepTravelerInfo {
		return stepError(s.Step, StepTravelerInfo)
	}
	if s.Payment == nil || !s.Payment.Succeeded() {
		return domain.ConflictError{Resource: "wizard", Msg: "booking requires a captured payment"}
	}
	s.Reference = reference
	s.TicketNumber = ticketNumber
	s.Step = StepConfirmation
	return nil
}

// validateTravelers enforces the per-field requirements plus the one
// cross-field rule the form cannot express: passports must outlive the trip.
func (s *Session) validateTravelers(travelDate time.Time) error {
	if len(s.Travelers) == 0 {
		return domain.ValidationError{Field: "travelers", Msg: "at least one traveler is required"}
	}
	for i, t := range s.Travelers {
		if err := validateTraveler(i, t, travelDate); err != nil {
			return err
		}
	}
	return nil
}

func validateTraveler(index int, t models.Traveler, travelDate time.Time) error {
	required := []struct {
		field string
		value string
	}{
		{"first_name", t.FirstName},
		{"last_name", t.LastName},
		{"date_of_birth", t.DateOfBirth},
		{"nationality", t.Nationality},
		{"email", t.Email},
		{"phone", t.Phone},
		{"passport_number", t.PassportNumber},
		{"passport_expiry", t.PassportExpiry},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return domain.ValidationError{
				Field: travelerField(index, r.field),
				Msg:   "required",
			}
		}
	}

	expiry, err := time.Parse("2006-01-02", strings.TrimSpace(t.PassportExpiry))
	if err != nil {
		return domain.ValidationError{Field: travelerField(index, "passport_expiry"), Msg: "expected YYYY-MM-DD", Err: err}
	}
	if !travelDate.IsZero() && !expiry.After(travelDate) {
		return domain.ValidationError{Field: travelerField(index, "passport_expiry"), Msg: "passport expires before the travel date"}
	}
	return nil
}

func travelerField(index int, field string) string {
	return "travelers[" + strconv.Itoa(index) + "]." + field
}

func stepError(current, expected Step) error {
	return domain.ConflictError{
		Resource: "wizard",
		Msg:      "step is " + string(current) + ", expected " + string(expected),
	}
}
