// Package api_error holds the error body the server answers with. It sits
// outside internal so clients and test helpers can decode it.
package api_error

type JSONAPIError struct {
	Code         string `json:"code"`
	Msg          string `json:"msg"`
	ErrorDetails string `json:"error_details"`
}
