// Package service implements the business rules of the short URL registry:
// input validation, short code generation, the read-time expiry policy and
// the click recording flow.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"time"

	"github.com/vadimbarashkov/shortlink/internal/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// shortCodeAlphabet is the alphabet used for generated short codes.
const shortCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// shortCodeRegexp constrains caller-supplied short codes.
var shortCodeRegexp = regexp.MustCompile(`^[A-Za-z0-9]{4,16}$`)

// URLRegistry defines the store interface required by the service.
type URLRegistry interface {
	// Create inserts a new URL record atomically.
	// Returns models.ErrShortCodeExists when the code is taken.
	Create(ctx context.Context, url *models.URL) error

	// Get retrieves the record for a short code without mutating it.
	// Returns models.ErrURLNotFound when the code is unknown.
	Get(ctx context.Context, shortCode string) (*models.URL, error)

	// RecordClick appends a click to the record's log and increments its counter.
	// Returns models.ErrURLNotFound when the code is unknown.
	RecordClick(ctx context.Context, shortCode string, click models.Click) error
}

// LocationResolver resolves a client address to a coarse location string.
// Implementations are best-effort; the service treats any failure as "unknown".
type LocationResolver interface {
	Resolve(ctx context.Context, addr string) (string, error)
}

// URLService provides methods to manage URL shortening operations.
type URLService struct {
	registry        URLRegistry
	geo             LocationResolver
	shortCodeLength int
	defaultValidity time.Duration
	now             func() time.Time
}

// NewURLService creates a new URLService over the given registry and location
// resolver. Generated short codes have shortCodeLength characters; URLs
// created without an explicit validity expire after defaultValidity.
func NewURLService(registry URLRegistry, geo LocationResolver, shortCodeLength int, defaultValidity time.Duration) *URLService {
	return &URLService{
		registry:        registry,
		geo:             geo,
		shortCodeLength: shortCodeLength,
		defaultValidity: defaultValidity,
		now:             time.Now,
	}
}

// ShortenURL validates the input and inserts a new URL record.
//
// validityMinutes, when non-nil, must be positive; nil falls back to the
// default validity. shortCode, when non-empty, must be 4-16 alphanumeric
// characters and is used as-is: a taken caller-supplied code fails with
// models.ErrShortCodeExists, it is never renamed. An empty shortCode makes
// the service generate a random code, retrying on the rare collision until
// a free one is inserted.
func (s *URLService) ShortenURL(ctx context.Context, originalURL string, validityMinutes *int, shortCode string) (*models.URL, error) {
	const op = "service.URLService.ShortenURL"

	if !validAbsoluteURL(originalURL) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidURL)
	}

	validity := s.defaultValidity
	if validityMinutes != nil {
		if *validityMinutes <= 0 {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidValidity)
		}
		validity = time.Duration(*validityMinutes) * time.Minute
	}

	if shortCode != "" {
		if !shortCodeRegexp.MatchString(shortCode) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidShortCode)
		}

		url := s.newURL(shortCode, originalURL, validity)

		if err := s.registry.Create(ctx, url); err != nil {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		code, err := gonanoid.Generate(shortCodeAlphabet, s.shortCodeLength)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate short code: %w", op, err)
		}

		url := s.newURL(code, originalURL, validity)

		err = s.registry.Create(ctx, url)
		if err != nil {
			if errors.Is(err, models.ErrShortCodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}
}

// GetURLStats retrieves the record for a short code, including its click log.
// Expired records fail with models.ErrURLExpired, unknown codes with
// models.ErrURLNotFound.
func (s *URLService) GetURLStats(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "service.URLService.GetURLStats"

	url, err := s.registry.Get(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	if url.Expired(s.now()) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrURLExpired)
	}

	return url, nil
}

// Redirect resolves a short code for redirection and records the click.
//
// The visitor's location is resolved before any registry lock is taken;
// lookup failures degrade to "unknown" and never block the redirect beyond
// the resolver's own timeout. Expired records fail with models.ErrURLExpired
// and record nothing.
func (s *URLService) Redirect(ctx context.Context, shortCode, referrer, remoteAddr string) (*models.URL, error) {
	const op = "service.URLService.Redirect"

	url, err := s.registry.Get(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if url.Expired(s.now()) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrURLExpired)
	}

	location := "unknown"
	if loc, err := s.geo.Resolve(ctx, hostOnly(remoteAddr)); err == nil && loc != "" {
		location = loc
	}

	click := models.Click{
		Timestamp: s.now(),
		Referrer:  referrer,
		Location:  location,
	}

	if err := s.registry.RecordClick(ctx, shortCode, click); err != nil {
		return nil, fmt.Errorf("%s: failed to record click: %w", op, err)
	}

	return url, nil
}

// newURL builds a fresh record with a fixed expiry relative to the creation time.
func (s *URLService) newURL(shortCode, originalURL string, validity time.Duration) *models.URL {
	now := s.now()

	return &models.URL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		CreatedAt:   now,
		ExpiresAt:   now.Add(validity),
	}
}

// validAbsoluteURL reports whether raw parses as an absolute URL.
func validAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return u.IsAbs()
}

// hostOnly strips the port from a remote address when one is present.
func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
