package api

import (
	"context"
	"log"
	stdhttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tripgate/internal/bookingview"
	"tripgate/internal/clients/backendapi"
	"tripgate/internal/clients/busfeed"
	"tripgate/internal/clients/countries"
	"tripgate/internal/clients/geocode"
	"tripgate/internal/clients/payfield"
	intconfig "tripgate/internal/config"
	"tripgate/internal/docs"
	"tripgate/internal/domain"
	h "tripgate/internal/http/handlers"
	"tripgate/internal/http/middleware"
	"tripgate/internal/session"
	"tripgate/internal/wizard"
)

// Deps carries every external collaborator the routes need. Built once in
// main; tests assemble their own with fakes.
type Deps struct {
	Env       intconfig.Env
	Backend   *backendapi.Client
	Countries *countries.Client
	Geocoder  *geocode.Client
	BusFeed   *busfeed.Client
	Payments  *payfield.Client
	Wizard    *wizard.Store
	Sessions  session.Store
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Env.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	search := h.SearchHandlers{
		Backend:   d.Backend,
		Countries: d.Countries,
		Geocoder:  d.Geocoder,
		BusFeed:   d.BusFeed,
	}
	wizardH := h.WizardHandlers{
		Store:    d.Wizard,
		Backend:  d.Backend,
		Payments: d.Payments,
		Codes:    d.Countries,
	}
	admin := h.AdminHandlers{Backend: d.Backend}
	auth := h.AuthHandlers{Backend: d.Backend, Sessions: d.Sessions}
	tickets := h.TicketHandlers{Docs: docs.Service{Loader: ticketLoader(d.Backend)}}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", h.Health)

		reference := apiGroup.Group("/reference")
		reference.GET("/airports", search.Airports)
		reference.GET("/airlines", search.Airlines)
		reference.GET("/nationalities", search.Nationalities)

		searchGroup := apiGroup.Group("/search")
		searchGroup.POST("/flights", search.Flights)
		searchGroup.POST("/hotels", search.Hotels)
		searchGroup.POST("/hotels/rooms", search.HotelRooms)
		searchGroup.POST("/buses", search.Buses)
		searchGroup.POST("/trains", search.Trains)

		wizardGroup := apiGroup.Group("/wizard")
		wizardGroup.POST("", wizardH.Create)
		wizardGroup.GET("/:id", wizardH.Get)
		wizardGroup.POST("/:id/continue", wizardH.Continue)
		wizardGroup.POST("/:id/back", wizardH.Back)
		wizardGroup.POST("/:id/travelers", wizardH.AddTraveler)
		wizardGroup.PUT("/:id/travelers/:index", wizardH.UpdateTraveler)
		wizardGroup.DELETE("/:id/travelers/:index", wizardH.RemoveTraveler)
		wizardGroup.POST("/:id/payment", wizardH.SubmitPayment)

		apiGroup.GET("/bookings/:reference/e-ticket", tickets.ETicket)
		apiGroup.POST("/users", admin.CreateUser)

		adminGroup := apiGroup.Group("/admin")
		adminGroup.POST("/login", auth.Login)

		authed := adminGroup.Group("")
		authed.Use(middleware.RequireSession(d.Sessions))
		authed.POST("/logout", auth.Logout)
		authed.GET("/me", auth.Me)
		authed.PATCH("/password", auth.ChangePassword)
		authed.GET("/bookings", admin.Bookings)
		authed.GET("/customers", admin.Customers)
		authed.GET("/payments", admin.Payments)

		superAdmin := authed.Group("")
		superAdmin.Use(middleware.RequireSuperAdmin())
		superAdmin.POST("/register", auth.Register)
	}

	return r
}

// ticketLoader resolves a booking reference against the booked-flights
// feed. References are compared in their normalized form.
func ticketLoader(backend *backendapi.Client) func(context.Context, string) (docs.TicketData, error) {
	return func(ctx context.Context, reference string) (docs.TicketData, error) {
		want := bookingview.FormatReference(reference)

		records, err := backend.BookedFlights(ctx)
		if err != nil {
			return docs.TicketData{}, err
		}
		for _, record := range records {
			if bookingview.FormatReference(record.Reference) != want {
				continue
			}
			return docs.TicketData{
				Reference:    want,
				CustomerName: record.CustomerName,
				Route:        record.Route,
				Date:         record.Date,
				Status:       record.Status,
				Amount:       record.Amount,
				Currency:     record.Currency,
			}, nil
		}
		return docs.TicketData{}, domain.NotFoundError{Resource: "booking " + want}
	}
}
