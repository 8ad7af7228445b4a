// Package models defines the records managed by the short URL registry,
// along with the sentinel errors shared between the service and transport layers.
package models

import (
	"errors"
	"time"
)

var (
	// ErrShortCodeExists is returned when attempting to create a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExpired is returned when the validity window of a URL has passed.
	ErrURLExpired = errors.New("url expired")
	// ErrInvalidURL is returned when the original URL is not a valid absolute URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidValidity is returned when the requested validity is not a positive number of minutes.
	ErrInvalidValidity = errors.New("invalid validity")
	// ErrInvalidShortCode is returned when a caller-supplied short code has an invalid format.
	ErrInvalidShortCode = errors.New("invalid short code format")
)

// URL represents a shortened URL and its accumulated click statistics.
type URL struct {
	// ShortCode is the unique code associated with the original URL.
	ShortCode string
	// OriginalURL is the original, full-length URL that the short code points to.
	OriginalURL string
	// CreatedAt is the timestamp indicating when the shortened URL was created.
	CreatedAt time.Time
	// ExpiresAt is the timestamp after which the short code stops resolving.
	// Fixed at creation time, never recomputed.
	ExpiresAt time.Time
	// ClickCount tracks the number of times the shortened URL has been accessed.
	ClickCount int64
	// Clicks holds one entry per recorded redirect, in chronological order.
	Clicks []Click
}

// Expired reports whether the URL's validity window has passed at the given time.
func (u *URL) Expired(now time.Time) bool {
	return now.After(u.ExpiresAt)
}

// Click represents one recorded redirect traversal.
type Click struct {
	// Timestamp is the time of the redirect.
	Timestamp time.Time
	// Referrer is the value of the Referer header, empty when absent.
	Referrer string
	// Location is the coarse location of the visitor, "unknown" when the lookup failed.
	Location string
}
