package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tripgate/internal/clients/backendapi"
	"tripgate/internal/clients/busfeed"
	"tripgate/internal/clients/countries"
	"tripgate/internal/clients/geocode"
	"tripgate/internal/clients/payfield"
	intconfig "tripgate/internal/config"
	router "tripgate/internal/http"
	"tripgate/internal/session"
	"tripgate/internal/wizard"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env.SessionDSN)
	defer intconfig.CloseDB()

	sessions := session.Store{DB: db, JWTSecret: []byte(env.JWTSecret)}
	wizardStore := wizard.NewStore(0)
	defer wizardStore.Close()

	deps := router.Deps{
		Env:       env,
		Backend:   backendapi.New(env.BackendBaseURL, env.HTTPClientTimeout),
		Countries: countries.New(env.CountryBaseURL, env.HTTPClientTimeout),
		Geocoder:  geocode.New(env.GeocodeBaseURL, env.HTTPClientTimeout),
		BusFeed:   busfeed.New(env.BusFeedBaseURL, env.HTTPClientTimeout),
		Payments:  payfield.New(env.PayfieldBaseURL, env.PayfieldSecretKey, env.HTTPClientTimeout),
		Wizard:    wizardStore,
		Sessions:  sessions,
	}

	r := router.NewRouter(deps)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepDone := make(chan struct{})
	go sweepSessions(sessions, env.SessionDSN, sweepDone)

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	close(sweepDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}

// sweepSessions drops expired admin sessions every few minutes.
func sweepSessions(store session.Store, dsn string, done <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := intconfig.EnsureDB(dsn); err != nil {
				log.Printf("session db unhealthy, skipping sweep: %v", err)
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if n, err := store.SweepExpired(ctx); err != nil {
				log.Printf("session sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("session sweep removed %d expired sessions", n)
			}
			cancel()
		}
	}
}
