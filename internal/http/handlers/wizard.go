package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
	"tripgate/internal/http/middleware"
	"tripgate/internal/wizard"
)

// WizardHandlers exposes the booking wizard session over HTTP. All state
// lives server-side; the frontend only ever sees snapshots.
type WizardHandlers struct {
	Store    *wizard.Store
	Backend  wizard.Booker
	Payments wizard.PaymentConfirmer
	Codes    wizard.CodeResolver
}

func (h WizardHandlers) service(c *gin.Context) wizard.Service {
	return wizard.Service{
		Store:     h.Store,
		Backend:   h.Backend,
		Payments:  h.Payments,
		Codes:     h.Codes,
		RequestID: middleware.GetRequestID(c),
	}
}

type createWizardRequest struct {
	Offer models.Offer `json:"offer"`
}

// POST /api/wizard starts a session from a selected offer. Starting
// without an offer is rejected outright.
func (h WizardHandlers) Create(c *gin.Context) {
	var req createWizardRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	session, err := h.Store.Create(req.Offer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, session)
}

// GET /api/wizard/:id
func (h WizardHandlers) Get(c *gin.Context) {
	session, err := h.Store.Get(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, session)
}

// POST /api/wizard/:id/continue
func (h WizardHandlers) Continue(c *gin.Context) {
	h.transition(c, func(s *wizard.Session) error { return s.Continue() })
}

// POST /api/wizard/:id/back
func (h WizardHandlers) Back(c *gin.Context) {
	h.transition(c, func(s *wizard.Session) error { return s.Back() })
}

// POST /api/wizard/:id/travelers
func (h WizardHandlers) AddTraveler(c *gin.Context) {
	h.transition(c, func(s *wizard.Session) error { return s.AddTraveler() })
}

// PUT /api/wizard/:id/travelers/:index
func (h WizardHandlers) UpdateTraveler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "index", Msg: "must be a number", Err: err})
		return
	}

	var traveler models.Traveler
	if !BindJSONOrError(c, &traveler) {
		return
	}
	h.transition(c, func(s *wizard.Session) error { return s.UpdateTraveler(index, traveler) })
}

// DELETE /api/wizard/:id/travelers/:index. Removing the last remaining
// traveler is a no-op, not an error.
func (h WizardHandlers) RemoveTraveler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "index", Msg: "must be a number", Err: err})
		return
	}
	h.transition(c, func(s *wizard.Session) error { return s.RemoveTraveler(index) })
}

// POST /api/wizard/:id/payment runs the whole tail of the flow: capture,
// calling-code resolution, booking, confirmation.
func (h WizardHandlers) SubmitPayment(c *gin.Context) {
	var in wizard.SubmitInput
	if !BindJSONOrError(c, &in) {
		return
	}

	session, err := h.service(c).SubmitPayment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, session)
}

func (h WizardHandlers) transition(c *gin.Context, fn func(*wizard.Session) error) {
	session, err := h.Store.Update(c.Param("id"), fn)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusOK, session)
}
