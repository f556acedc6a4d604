package types

// ErrorResponse is the JSON payload for router-level errors (unknown route,
// wrong method). Handler failures use a bare JSON string instead.
type ErrorResponse struct {
	// Error message.
	// example: route not found
	Error string `json:"error" example:"route not found"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}
