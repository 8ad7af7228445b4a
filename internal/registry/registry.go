// Package registry implements the in-memory store for shortened URLs.
//
// The registry is a dumb, fast store: it knows nothing about validity windows
// or code generation. Policy lives in the service layer.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/shortlink/internal/models"
)

// Registry maps short codes to URL records. All methods are safe for
// concurrent use. Records are never removed; expiry is a read-time concern
// of the caller.
type Registry struct {
	mu   sync.RWMutex
	urls map[string]*models.URL
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		urls: make(map[string]*models.URL),
	}
}

// Create inserts a new URL record. The existence check and the insert happen
// in one critical section, so two concurrent creations can never both succeed
// with the same short code. Returns models.ErrShortCodeExists when the code
// is already taken.
func (r *Registry) Create(ctx context.Context, url *models.URL) error {
	const op = "registry.Registry.Create"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.urls[url.ShortCode]; ok {
		return fmt.Errorf("%s: %w", op, models.ErrShortCodeExists)
	}

	r.urls[url.ShortCode] = snapshot(url)

	return nil
}

// Get retrieves the record for a short code without mutating it. The returned
// record is a snapshot: concurrent click recording never shows through it, and
// callers can hold it without a lock. Returns models.ErrURLNotFound when no
// record exists for the code.
func (r *Registry) Get(ctx context.Context, shortCode string) (*models.URL, error) {
	const op = "registry.Registry.Get"

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, models.ErrURLNotFound)
	}

	return snapshot(url), nil
}

// RecordClick appends a click to the record's log and increments its counter.
// Both mutations happen under the write lock, so concurrent clicks on one code
// are serialized and len(Clicks) == ClickCount holds at all times. Returns
// models.ErrURLNotFound when no record exists for the code.
func (r *Registry) RecordClick(ctx context.Context, shortCode string, click models.Click) error {
	const op = "registry.Registry.RecordClick"

	r.mu.Lock()
	defer r.mu.Unlock()

	url, ok := r.urls[shortCode]
	if !ok {
		return fmt.Errorf("%s: %w", op, models.ErrURLNotFound)
	}

	url.Clicks = append(url.Clicks, click)
	url.ClickCount++

	return nil
}

// snapshot deep-copies a record so stored state and returned state never alias.
func snapshot(url *models.URL) *models.URL {
	cp := *url
	cp.Clicks = make([]models.Click, len(url.Clicks))
	copy(cp.Clicks, url.Clicks)
	return &cp
}
