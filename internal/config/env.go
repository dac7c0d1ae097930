package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	BackendBaseURL string
	CountryBaseURL string
	GeocodeBaseURL string
	BusFeedBaseURL string

	PayfieldBaseURL   string
	PayfieldSecretKey string

	SessionDSN string
	JWTSecret  string

	CORSAllowedOrigins []string

	HTTPClientTimeout time.Duration
}

func LoadEnv() Env {
	env := Env{
		AppAddr:           getenv("APP_ADDR", ":8080"),
		GinMode:           strings.TrimSpace(os.Getenv("GIN_MODE")),
		BackendBaseURL:    getenv("BACKEND_BASE_URL", "http://localhost:5000/api"),
		CountryBaseURL:    getenv("COUNTRY_API_BASE_URL", "https://restcountries.com/v3.1"),
		GeocodeBaseURL:    getenv("GEOCODER_BASE_URL", "https://geocode.maps.co"),
		BusFeedBaseURL:    getenv("BUS_FEED_BASE_URL", "https://global.api.flixbus.com"),
		PayfieldBaseURL:   getenv("PAYFIELD_BASE_URL", "https://api.payfield.dev/v1"),
		PayfieldSecretKey: strings.TrimSpace(os.Getenv("PAYFIELD_SECRET_KEY")),
		SessionDSN:        getenv("SESSION_DB_DSN", "root:@tcp(127.0.0.1:3306)/tripgate?parseTime=true&charset=utf8mb4"),
		JWTSecret:         getenv("JWT_SECRET", "super-secret-key-change-me"),
		HTTPClientTimeout: getenvDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second),
	}

	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				env.CORSAllowedOrigins = append(env.CORSAllowedOrigins, o)
			}
		}
	} else {
		env.CORSAllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}

	return env
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
