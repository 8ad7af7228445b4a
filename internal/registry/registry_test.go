package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/shortlink/internal/models"
	"golang.org/x/sync/errgroup"
)

func newTestURL(shortCode string) *models.URL {
	now := time.Now()

	return &models.URL{
		ShortCode:   shortCode,
		OriginalURL: "https://example.com",
		CreatedAt:   now,
		ExpiresAt:   now.Add(30 * time.Minute),
	}
}

func TestRegistry_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := New()

		err := r.Create(context.Background(), newTestURL("abc123"))

		require.NoError(t, err)

		url, err := r.Get(context.Background(), "abc123")

		require.NoError(t, err)
		assert.Equal(t, "abc123", url.ShortCode)
		assert.Equal(t, "https://example.com", url.OriginalURL)
		assert.Zero(t, url.ClickCount)
		assert.Empty(t, url.Clicks)
	})

	t.Run("short code exists", func(t *testing.T) {
		r := New()

		require.NoError(t, r.Create(context.Background(), newTestURL("abc123")))

		err := r.Create(context.Background(), newTestURL("abc123"))

		assert.ErrorIs(t, err, models.ErrShortCodeExists)
	})

	t.Run("concurrent creates on one code: exactly one succeeds", func(t *testing.T) {
		const workers = 50

		r := New()

		var mu sync.Mutex
		var successes, collisions int

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				err := r.Create(context.Background(), newTestURL("abc123"))

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				default:
					assert.ErrorIs(t, err, models.ErrShortCodeExists)
					collisions++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, collisions)
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Run("url not found", func(t *testing.T) {
		r := New()

		url, err := r.Get(context.Background(), "abc123")

		assert.ErrorIs(t, err, models.ErrURLNotFound)
		assert.Nil(t, url)
	})

	t.Run("returns a snapshot", func(t *testing.T) {
		r := New()

		require.NoError(t, r.Create(context.Background(), newTestURL("abc123")))

		url, err := r.Get(context.Background(), "abc123")
		require.NoError(t, err)

		url.OriginalURL = "https://tampered.example.com"
		url.Clicks = append(url.Clicks, models.Click{Location: "unknown"})

		url, err = r.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", url.OriginalURL)
		assert.Empty(t, url.Clicks)
	})
}

func TestRegistry_RecordClick(t *testing.T) {
	t.Run("url not found", func(t *testing.T) {
		r := New()

		err := r.RecordClick(context.Background(), "abc123", models.Click{})

		assert.ErrorIs(t, err, models.ErrURLNotFound)
	})

	t.Run("appends click and increments counter", func(t *testing.T) {
		r := New()

		require.NoError(t, r.Create(context.Background(), newTestURL("abc123")))

		click := models.Click{
			Timestamp: time.Now(),
			Referrer:  "https://referrer.example.com",
			Location:  "Germany",
		}

		require.NoError(t, r.RecordClick(context.Background(), "abc123", click))

		url, err := r.Get(context.Background(), "abc123")

		require.NoError(t, err)
		assert.EqualValues(t, 1, url.ClickCount)
		require.Len(t, url.Clicks, 1)
		assert.Equal(t, click, url.Clicks[0])
	})

	t.Run("no lost updates under concurrent clicks", func(t *testing.T) {
		const clicks = 100

		r := New()

		require.NoError(t, r.Create(context.Background(), newTestURL("abc123")))

		var g errgroup.Group
		for i := 0; i < clicks; i++ {
			g.Go(func() error {
				return r.RecordClick(context.Background(), "abc123", models.Click{
					Timestamp: time.Now(),
					Location:  "unknown",
				})
			})
		}
		require.NoError(t, g.Wait())

		url, err := r.Get(context.Background(), "abc123")

		require.NoError(t, err)
		assert.EqualValues(t, clicks, url.ClickCount)
		assert.Len(t, url.Clicks, clicks)
	})

	t.Run("readers never observe count and log out of sync", func(t *testing.T) {
		const clicks = 50

		r := New()

		require.NoError(t, r.Create(context.Background(), newTestURL("abc123")))

		var g errgroup.Group
		for i := 0; i < clicks; i++ {
			g.Go(func() error {
				return r.RecordClick(context.Background(), "abc123", models.Click{Location: "unknown"})
			})
		}
		g.Go(func() error {
			for i := 0; i < clicks; i++ {
				url, err := r.Get(context.Background(), "abc123")
				if err != nil {
					return err
				}
				assert.EqualValues(t, url.ClickCount, len(url.Clicks))
			}
			return nil
		})
		require.NoError(t, g.Wait())
	})
}
