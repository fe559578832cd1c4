package models

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
