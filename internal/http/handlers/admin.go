package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tripgate/internal/bookingview"
	"tripgate/internal/clients/backendapi"
	"tripgate/internal/domain/models"
	"tripgate/internal/utils"
)

// AdminHandlers serves the dashboard tables. Lists are re-fetched from the
// backend on every request and paginated here with the fixed page size.
type AdminHandlers struct {
	Backend *backendapi.Client
}

// GET /api/admin/bookings?page=&source=
// source=manual switches to the manually entered bookings feed.
func (h AdminHandlers) Bookings(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		records []models.BookingRecord
		err     error
	)
	if c.Query("source") == "manual" {
		records, err = h.Backend.ManualBookings(ctx)
	} else {
		records, err = h.Backend.BookedFlights(ctx)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	for i := range records {
		records[i].Reference = bookingview.FormatReference(records[i].Reference)
	}

	counts := bookingview.StatusCounts(records)
	start, end, meta := bookingview.Paginate(len(records), pageParam(c), bookingview.PageSize)

	RespondData(c, http.StatusOK, gin.H{
		"bookings":   records[start:end],
		"pagination": meta,
		"counts": gin.H{
			"pending":   counts[models.BookingPending],
			"confirmed": counts[models.BookingConfirmed],
			"cancelled": counts[models.BookingCancelled],
			"refunded":  counts[models.BookingRefunded],
		},
	})
}

// GET /api/admin/customers?page=&q=
func (h AdminHandlers) Customers(c *gin.Context) {
	customers, err := h.Backend.Customers(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	now := utils.NowUTC()
	for i := range customers {
		createdAt, err := utils.ParseDateish(customers[i].CreatedAt)
		if err != nil {
			customers[i].Status = "Active"
			continue
		}
		customers[i].Status = bookingview.CustomerStatus(createdAt, now)
	}

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		filtered := customers[:0]
		for _, cust := range customers {
			if strings.Contains(strings.ToLower(cust.Name), q) || strings.Contains(strings.ToLower(cust.Email), q) {
				filtered = append(filtered, cust)
			}
		}
		customers = filtered
	}

	start, end, meta := bookingview.Paginate(len(customers), pageParam(c), bookingview.PageSize)
	RespondData(c, http.StatusOK, gin.H{
		"customers":  customers[start:end],
		"pagination": meta,
	})
}

// GET /api/admin/payments?page=
func (h AdminHandlers) Payments(c *gin.Context) {
	payments, err := h.Backend.Payments(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	start, end, meta := bookingview.Paginate(len(payments), pageParam(c), bookingview.PageSize)
	RespondData(c, http.StatusOK, gin.H{
		"payments":   payments[start:end],
		"pagination": meta,
	})
}

// POST /api/users proxies customer-facing account creation through.
func (h AdminHandlers) CreateUser(c *gin.Context) {
	var req backendapi.CreateUserRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Backend.CreateUser(c.Request.Context(), req); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondData(c, http.StatusCreated, gin.H{"created": true})
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
