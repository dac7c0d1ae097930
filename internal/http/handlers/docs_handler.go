package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripgate/internal/docs"
)

type TicketHandlers struct {
	Docs docs.Service
}

// GET /api/bookings/:reference/e-ticket
func (h TicketHandlers) ETicket(c *gin.Context) {
	pdf, filename, err := h.Docs.GenerateETicket(c.Request.Context(), c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
