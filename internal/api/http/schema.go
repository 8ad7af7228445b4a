package http

import (
	"time"

	"github.com/vadimbarashkov/shortlink/internal/models"
)

// createURLRequest represents the request payload for creating a shortened URL.
type createURLRequest struct {
	URL       string `json:"url" validate:"required,url"`
	Validity  *int   `json:"validity" validate:"omitempty,gt=0"`
	ShortCode string `json:"shortcode" validate:"omitempty,alphanum,min=4,max=16"`
}

// createURLResponse represents the response payload for a successful creation.
type createURLResponse struct {
	ShortLink string    `json:"shortLink"`
	Expiry    time.Time `json:"expiry"`
}

// clickDetail represents one recorded click in a statistics response.
type clickDetail struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	Location  string    `json:"location"`
}

// urlStatsResponse represents the response payload for a statistics request.
type urlStatsResponse struct {
	URL          string        `json:"url"`
	ShortCode    string        `json:"shortcode"`
	CreatedAt    time.Time     `json:"createdAt"`
	Expiry       time.Time     `json:"expiry"`
	Clicks       int64         `json:"clicks"`
	ClickDetails []clickDetail `json:"clickDetails"`
}

// toURLStatsResponse converts a URL model into a statistics response payload.
func toURLStatsResponse(url *models.URL) urlStatsResponse {
	details := make([]clickDetail, 0, len(url.Clicks))
	for _, click := range url.Clicks {
		details = append(details, clickDetail{
			Timestamp: click.Timestamp,
			Referrer:  click.Referrer,
			Location:  click.Location,
		})
	}

	return urlStatsResponse{
		URL:          url.OriginalURL,
		ShortCode:    url.ShortCode,
		CreatedAt:    url.CreatedAt,
		Expiry:       url.ExpiresAt,
		Clicks:       url.ClickCount,
		ClickDetails: details,
	}
}
