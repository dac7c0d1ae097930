// Package bookingview holds the small derived-display rules the dashboard
// depends on: booking-reference normalization, list pagination, and
// customer status.
package bookingview

import (
	"math"
	"strings"
	"time"

	"tripgate/internal/domain/models"
)

// PageSize is the fixed admin table page size.
const PageSize = 15

// FormatReference normalizes a raw upstream booking reference for display.
// References already carrying the BK- prefix pass through untouched;
// everything else is stripped down to alphanumerics and hyphens and
// prefixed.
func FormatReference(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "BK-") {
		return raw
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return "BK-" + b.String()
}

type Page struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the slice bounds [start, end) for a 1-based page over
// total items, alongside the page metadata. Out-of-range pages clamp to the
// nearest valid page.
func Paginate(total, page, size int) (start, end int, meta Page) {
	if size <= 0 {
		size = PageSize
	}
	totalPages := int(math.Ceil(float64(total) / float64(size)))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start = (page - 1) * size
	end = start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	meta = Page{Page: page, PageSize: size, TotalItems: total, TotalPages: totalPages}
	return start, end, meta
}

// CustomerStatus derives the display status from the account age.
func CustomerStatus(createdAt, now time.Time) string {
	if now.Sub(createdAt) < 30*24*time.Hour {
		return "New"
	}
	return "Active"
}

// StatusCounts tallies bookings per status for the dashboard summary cards.
func StatusCounts(records []models.BookingRecord) map[models.BookingStatus]int {
	counts := map[models.BookingStatus]int{
		models.BookingPending:   0,
		models.BookingConfirmed: 0,
		models.BookingCancelled: 0,
		models.BookingRefunded:  0,
	}
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}
