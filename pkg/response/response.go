// Package response defines the fixed wire shapes for failure responses.
package response

// Error is the payload returned for every failed request.
type Error struct {
	Message string `json:"error"`
}

var (
	InvalidURLResponse         = Error{Message: "Invalid URL"}
	InvalidValidityResponse    = Error{Message: "Invalid validity"}
	InvalidShortCodeResponse   = Error{Message: "Invalid shortcode format"}
	ShortCodeExistsResponse    = Error{Message: "Shortcode already exists"}
	ShortCodeNotFoundResponse  = Error{Message: "Shortcode not found"}
	ShortCodeExpiredResponse   = Error{Message: "Shortcode expired"}
	InvalidRequestBodyResponse = Error{Message: "Invalid request body"}
	ServerErrorResponse        = Error{Message: "Internal server error"}
)
