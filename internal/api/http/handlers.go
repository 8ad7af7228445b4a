package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/logsink"
	"github.com/vadimbarashkov/shortlink/internal/models"
	"github.com/vadimbarashkov/shortlink/pkg/response"
)

// handlePing handles health check requests to ensure the server is running.
func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// validationErrorResponse maps a validation failure to the wire payload of
// the first offending field.
func validationErrorResponse(err error) response.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fieldErr := range verrs {
			switch fieldErr.Field() {
			case "url":
				return response.InvalidURLResponse
			case "validity":
				return response.InvalidValidityResponse
			case "shortcode":
				return response.InvalidShortCodeResponse
			}
		}
	}

	return response.InvalidRequestBodyResponse
}

// handleCreateShortURL handles POST requests to create a shortened URL.
//
// The request must contain a valid absolute URL and may carry an explicit
// validity in minutes and a custom short code. The handler validates the
// input, delegates to the service, and returns the short link with its
// expiry timestamp.
func handleCreateShortURL(svc URLService, validate *validator.Validate, sink logsink.Sink, baseURL string) http.HandlerFunc {
	const op = "api.http.handleCreateShortURL"

	return func(w http.ResponseWriter, r *http.Request) {
		sink.Log(r.Context(), logsink.LevelInfo, logsink.PackageHandler, "POST /shorturls called")

		var req createURLRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, "Invalid URL provided")

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidURLResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.InvalidRequestBodyResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			resp := validationErrorResponse(err)
			sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, resp.Message)

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp)
			return
		}

		url, err := svc.ShortenURL(r.Context(), req.URL, req.Validity, req.ShortCode)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidURL):
				sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, "Invalid URL provided")

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidURLResponse)
			case errors.Is(err, models.ErrInvalidValidity):
				sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, "Invalid validity")

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidValidityResponse)
			case errors.Is(err, models.ErrInvalidShortCode):
				sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, "Invalid shortcode format")

				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.InvalidShortCodeResponse)
			case errors.Is(err, models.ErrShortCodeExists):
				sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, "Shortcode collision")

				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ShortCodeExistsResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		sink.Log(r.Context(), logsink.LevelInfo, logsink.PackageRepository, "Short URL created: "+url.ShortCode)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, createURLResponse{
			ShortLink: baseURL + "/" + url.ShortCode,
			Expiry:    url.ExpiresAt,
		})
	}
}

// handleGetURLStats handles GET requests to retrieve usage statistics for a
// shortened URL, including the full click log.
func handleGetURLStats(svc URLService, sink logsink.Sink) http.HandlerFunc {
	const op = "api.http.handleGetURLStats"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")
		sink.Log(r.Context(), logsink.LevelInfo, logsink.PackageHandler, "GET /shorturls/"+shortCode+" called")

		url, err := svc.GetURLStats(r.Context(), shortCode)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrURLNotFound):
				sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, "Shortcode not found")

				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ShortCodeNotFoundResponse)
			case errors.Is(err, models.ErrURLExpired):
				sink.Log(r.Context(), logsink.LevelWarn, logsink.PackageHandler, "Shortcode expired")

				render.Status(r, http.StatusGone)
				render.JSON(w, r, response.ShortCodeExpiredResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toURLStatsResponse(url))
	}
}

// handleRedirect handles GET requests on a short code, recording a click and
// redirecting the visitor to the original URL.
func handleRedirect(svc URLService, sink logsink.Sink) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")
		sink.Log(r.Context(), logsink.LevelInfo, logsink.PackageHandler, "GET /"+shortCode+" called")

		url, err := svc.Redirect(r.Context(), shortCode, r.Referer(), r.RemoteAddr)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrURLNotFound):
				sink.Log(r.Context(), logsink.LevelError, logsink.PackageHandler, "Shortcode not found")

				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ShortCodeNotFoundResponse)
			case errors.Is(err, models.ErrURLExpired):
				sink.Log(r.Context(), logsink.LevelWarn, logsink.PackageHandler, "Shortcode expired")

				render.Status(r, http.StatusGone)
				render.JSON(w, r, response.ShortCodeExpiredResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		sink.Log(r.Context(), logsink.LevelInfo, logsink.PackageRepository, "Shortcode "+shortCode+" clicked")

		http.Redirect(w, r, url.OriginalURL, http.StatusFound)
	}
}
