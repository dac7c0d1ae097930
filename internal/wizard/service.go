package wizard

import (
	"context"
	"strings"
	"time"

	"tripgate/internal/bookingview"
	"tripgate/internal/clients/backendapi"
	"tripgate/internal/clients/payfield"
	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
	"tripgate/internal/utils"
)

type Booker interface {
	BookFlight(ctx context.Context, idempotencyKey string, req backendapi.BookingRequest) (backendapi.BookingResponse, error)
}

type PaymentConfirmer interface {
	Confirm(ctx context.Context, req payfield.ConfirmRequest) (models.PaymentResult, error)
}

type CodeResolver interface {
	CallingCode(ctx context.Context, nationality string) (string, error)
}

// Service drives the submit-payment pipeline: confirm the tokenized
// payment, resolve traveler calling codes, submit the booking, move the
// session to Confirmation.
type Service struct {
	Store     *Store
	Backend   Booker
	Payments  PaymentConfirmer
	Codes     CodeResolver
	RequestID string
}

type SubmitInput struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
	CardholderName  string `json:"cardholder_name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
}

// SubmitPayment runs the whole tail of the wizard. The captured payment is
// held on the session across failures, so re-submitting after a booking
// failure never charges twice; the idempotency key makes the booking call
// itself safe to repeat.
func (s Service) SubmitPayment(ctx context.Context, sessionID string, in SubmitInput) (*Session, error) {
	entry, err := s.Store.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	session := entry.session

	if session.Step != StepTravelerInfo {
		return nil, stepError(session.Step, StepTravelerInfo)
	}
	if err := session.validateTravelers(travelDate(session.Offer)); err != nil {
		return nil, err
	}

	if session.Payment == nil {
		result, err := s.Payments.Confirm(ctx, payfield.ConfirmRequest{
			PaymentMethodID: in.PaymentMethodID,
			Amount:          session.Offer.DisplayPrice,
			Currency:        session.Offer.Currency,
			CustomerEmail:   in.Email,
			CustomerName:    in.CardholderName,
		})
		if err != nil {
			return nil, err
		}
		if err := session.attachPayment(result); err != nil {
			return nil, err
		}
		utils.LogEvent(s.RequestID, "wizard", "payment_captured", "session="+session.ID+" payment="+result.PaymentMethodID)
	} else {
		utils.LogEvent(s.RequestID, "wizard", "payment_reused", "session="+session.ID+" payment="+session.Payment.PaymentMethodID)
	}

	if err := s.resolveCallingCodes(ctx, session); err != nil {
		return nil, domain.PaymentCapturedError{PaymentID: session.Payment.PaymentMethodID, Err: err}
	}

	resp, err := s.Backend.BookFlight(ctx, session.IdempotencyKey, backendapi.BookingRequest{
		Offer:     session.Offer,
		Travelers: session.Travelers,
		Payment:   *session.Payment,
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "wizard", "booking_failed", "session="+session.ID+" err="+err.Error())
		return nil, domain.PaymentCapturedError{PaymentID: session.Payment.PaymentMethodID, Err: err}
	}

	reference := bookingview.FormatReference(resp.Reference)
	if err := session.completeBooking(reference, resp.TicketNumber); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.Now().UTC()
	utils.LogEvent(s.RequestID, "wizard", "booking_confirmed", "session="+session.ID+" reference="+reference)

	return snapshot(session), nil
}

type codeResult struct {
	nationality string
	code        string
	err         error
}

// resolveCallingCodes fans out one lookup per distinct nationality and
// joins before booking. The old flow awaited these one by one.
func (s Service) resolveCallingCodes(ctx context.Context, session *Session) error {
	distinct := map[string]bool{}
	for _, t := range session.Travelers {
		key := strings.ToLower(strings.TrimSpace(t.Nationality))
		if key != "" {
			distinct[key] = true
		}
	}
	if len(distinct) == 0 {
		return nil
	}

	results := make(chan codeResult, len(distinct))
	for nationality := range distinct {
		go func(nationality string) {
			lookupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			code, err := s.Codes.CallingCode(lookupCtx, nationality)
			results <- codeResult{nationality: nationality, code: code, err: err}
		}(nationality)
	}

	codes := make(map[string]string, len(distinct))
	var firstErr error
	for i := 0; i < len(distinct); i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		codes[res.nationality] = res.code
	}
	if firstErr != nil {
		return firstErr
	}

	for i := range session.Travelers {
		key := strings.ToLower(strings.TrimSpace(session.Travelers[i].Nationality))
		session.Travelers[i].CallingCode = codes[key]
	}
	return nil
}

// travelDate extracts the departure day of the first itinerary segment.
func travelDate(offer models.Offer) time.Time {
	if len(offer.Segments) == 0 {
		return time.Time{}
	}
	raw := strings.TrimSpace(offer.Segments[0].DepartureAt)
	if len(raw) >= 10 {
		if d, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return d
		}
	}
	return time.Time{}
}
