package wizard

import (
	"testing"
	"time"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
)

func testOffer() models.Offer {
	return models.Offer{
		ID:       "OF-1",
		Price:    200,
		Currency: "USD",
		Segments: []models.Segment{{
			Origin:      "CGK",
			Destination: "SIN",
			DepartureAt: "2026-10-01T08:00:00Z",
			ArrivalAt:   "2026-10-01T10:00:00Z",
		}},
	}
}

func validTraveler() models.Traveler {
	return models.Traveler{
		FirstName:      "Ayu",
		LastName:       "Lestari",
		DateOfBirth:    "1990-05-01",
		Nationality:    "Indonesia",
		Email:          "ayu@example.com",
		Phone:          "81234567",
		PassportNumber: "X1234567",
		PassportExpiry: "2030-01-01",
	}
}

func TestNewSessionRequiresOffer(t *testing.T) {
	if _, err := newSession("s1", "k1", models.Offer{}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for missing offer, got %v", err)
	}
	if _, err := newSession("s1", "k1", models.Offer{ID: "OF-1", Price: 0}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for zero price, got %v", err)
	}
}

func TestNewSessionAppliesMarkup(t *testing.T) {
	s, err := newSession("s1", "k1", testOffer())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if s.Offer.DisplayPrice != 230 {
		t.Errorf("display price = %v, want 230", s.Offer.DisplayPrice)
	}
	if s.Step != StepFlightDetails {
		t.Errorf("initial step = %s, want %s", s.Step, StepFlightDetails)
	}
}

func TestContinueSeedsFirstTraveler(t *testing.T) {
	s, _ := newSession("s1", "k1", testOffer())
	if err := s.Continue(); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if s.Step != StepTravelerInfo {
		t.Fatalf("step = %s, want %s", s.Step, StepTravelerInfo)
	}
	if len(s.Travelers) != 1 {
		t.Fatalf("travelers = %d, want 1", len(s.Travelers))
	}
}

func TestBackOnlyFromTravelerInfo(t *testing.T) {
	s, _ := newSession("s1", "k1", testOffer())
	if err := s.Back(); !domain.IsConflict(err) {
		t.Fatalf("Back from FlightDetails should conflict, got %v", err)
	}

	_ = s.Continue()
	if err := s.Back(); err != nil {
		t.Fatalf("Back from TravelerInfo: %v", err)
	}
	if s.Step != StepFlightDetails {
		t.Fatalf("step = %s, want %s", s.Step, StepFlightDetails)
	}
}

func TestRemoveLastTravelerIsNoOp(t *testing.T) {
	s, _ := newSession("s1", "k1", testOffer())
	_ = s.Continue()

	if err := s.RemoveTraveler(0); err != nil {
		t.Fatalf("RemoveTraveler: %v", err)
	}
	if len(s.Travelers) != 1 {
		t.Fatalf("travelers = %d after removing the only one, want 1", len(s.Travelers))
	}

	_ = s.AddTraveler()
	if err := s.RemoveTraveler(1); err != nil {
		t.Fatalf("RemoveTraveler: %v", err)
	}
	if len(s.Travelers) != 1 {
		t.Fatalf("travelers = %d, want 1", len(s.Travelers))
	}
}

func TestCompleteBookingRequiresCapturedPayment(t *testing.T) {
	s, _ := newSession("s1", "k1", testOffer())
	_ = s.Continue()

	if err := s.completeBooking("BK-1", ""); !domain.IsConflict(err) {
		t.Fatalf("completeBooking without payment should conflict, got %v", err)
	}
	if s.Step == StepConfirmation {
		t.Fatal("reached Confirmation without a captured payment")
	}

	if err := s.attachPayment(models.PaymentResult{Status: "failed"}); !domain.IsValidation(err) {
		t.Fatalf("attaching an uncaptured payment should fail, got %v", err)
	}

	if err := s.attachPayment(models.PaymentResult{PaymentMethodID: "pm_1", Status: "succeeded"}); err != nil {
		t.Fatalf("attachPayment: %v", err)
	}
	if err := s.completeBooking("BK-1", "TK-1"); err != nil {
		t.Fatalf("completeBooking: %v", err)
	}
	if s.Step != StepConfirmation {
		t.Fatalf("step = %s, want %s", s.Step, StepConfirmation)
	}
	if s.Reference != "BK-1" {
		t.Errorf("reference = %q, want BK-1", s.Reference)
	}
}

func TestValidateTravelers(t *testing.T) {
	s, _ := newSession("s1", "k1", testOffer())
	_ = s.Continue()

	if err := s.validateTravelers(time.Time{}); !domain.IsValidation(err) {
		t.Fatalf("blank traveler should fail validation, got %v", err)
	}

	s.Travelers[0] = validTraveler()
	if err := s.validateTravelers(time.Time{}); err != nil {
		t.Fatalf("valid traveler rejected: %v", err)
	}
}

func TestValidateTravelersPassportExpiry(t *testing.T) {
	s, _ := newSession("s1", "k1", testOffer())
	_ = s.Continue()

	traveler := validTraveler()
	traveler.PassportExpiry = "2026-09-01"
	s.Travelers[0] = traveler

	travel := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	if err := s.validateTravelers(travel); !domain.IsValidation(err) {
		t.Fatalf("passport expiring before travel should fail, got %v", err)
	}

	traveler.PassportExpiry = "2026-12-01"
	s.Travelers[0] = traveler
	if err := s.validateTravelers(travel); err != nil {
		t.Fatalf("valid expiry rejected: %v", err)
	}
}
