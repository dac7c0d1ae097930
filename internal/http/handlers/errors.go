package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripgate/internal/domain"
	"tripgate/internal/http/middleware"
)

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	payload := gin.H{
		"error":   message,
		"code":    code,
		"message": message,
	}
	if details != nil {
		payload["details"] = details
	}
	if reqID := middleware.GetRequestID(c); reqID != "" {
		payload["request_id"] = reqID
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. The
// payment-captured case carries the payment id so support can reconcile a
// charge that has no booking yet.
func RespondDomainError(c *gin.Context, err error) {
	if captured, ok := domain.AsPaymentCaptured(err); ok {
		respondError(c, http.StatusBadGateway, "payment_captured_booking_failed",
			"payment was captured but the booking could not be confirmed; it will not be charged again on retry",
			gin.H{"payment_method_id": captured.PaymentID})
		return
	}

	var up domain.UpstreamError
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.As(err, &up):
		status := http.StatusBadGateway
		if up.Status == http.StatusUnauthorized || up.Status == http.StatusForbidden {
			status = up.Status
		}
		respondError(c, status, "upstream_error", err.Error(), gin.H{"service": up.Service})
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
