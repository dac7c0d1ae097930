// Package docs renders e-ticket PDFs for confirmed bookings.
package docs

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"tripgate/internal/domain"
	"tripgate/internal/domain/models"
	"tripgate/internal/pricing"
)

type TicketData struct {
	Reference    string
	TicketNumber string
	CustomerName string
	Route        string
	Date         string
	Status       models.BookingStatus
	Amount       float64
	Currency     string
}

// Service turns a booking reference into a printable e-ticket. The Loader
// indirection keeps PDF generation testable without a live backend.
type Service struct {
	Loader func(ctx context.Context, reference string) (TicketData, error)
}

func (s Service) GenerateETicket(ctx context.Context, reference string) ([]byte, string, error) {
	if s.Loader == nil {
		return nil, "", domain.InternalError{Msg: "ticket loader not configured"}
	}
	data, err := s.Loader(ctx, reference)
	if err != nil {
		return nil, "", err
	}
	if data.Status != models.BookingConfirmed {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "only confirmed bookings have e-tickets"}
	}
	return buildETicketPDF(data)
}

func buildETicketPDF(d TicketData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking Reference : %s", safe(d.Reference, "-")),
		fmt.Sprintf("Ticket Number     : %s", safe(d.TicketNumber, "-")),
		fmt.Sprintf("Passenger         : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("Route             : %s", safe(d.Route, "-")),
		fmt.Sprintf("Travel Date       : %s", safe(d.Date, "-")),
		fmt.Sprintf("Amount            : %s", pricing.FormatAmount(d.Amount, d.Currency)),
		fmt.Sprintf("Issued            : %s", time.Now().Format("2006-01-02 15:04")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this e-ticket together with the passport used at booking time.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "render e-ticket", Err: err}
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(d.Reference))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "ticket"
	}
	return b.String()
}
