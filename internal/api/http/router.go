package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/logsink"
	"github.com/vadimbarashkov/shortlink/internal/models"
)

// URLService defines the interface for the core short URL business logic.
type URLService interface {
	// ShortenURL validates the input and creates a shortened URL.
	// validityMinutes may be nil to use the default validity; shortCode may be
	// empty to have a code generated.
	ShortenURL(ctx context.Context, originalURL string, validityMinutes *int, shortCode string) (*models.URL, error)

	// GetURLStats retrieves the record for a short code, including its click log.
	// It returns an error when the code is unknown or expired.
	GetURLStats(ctx context.Context, shortCode string) (*models.URL, error)

	// Redirect resolves a short code for redirection and records the click.
	// It returns an error when the code is unknown or expired.
	Redirect(ctx context.Context, shortCode, referrer, remoteAddr string) (*models.URL, error)
}

// getValidate initializes a new validator instance for validating incoming request payloads.
// It customizes tag name extraction from struct fields to match JSON tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and middleware configured.
//
// The health endpoint lives under the two-segment /api/ping path so it can
// never shadow the single-segment redirect route.
func NewRouter(logger *httplog.Logger, urlSvc URLService, sink logsink.Sink, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	validate := getValidate()

	r.Get("/api/ping", handlePing)

	r.Route("/shorturls", func(r chi.Router) {
		r.Post("/", handleCreateShortURL(urlSvc, validate, sink, strings.TrimSuffix(baseURL, "/")))
		r.Get("/{shortCode}", handleGetURLStats(urlSvc, sink))
	})

	r.Get("/{shortCode}", handleRedirect(urlSvc, sink))

	return r
}
