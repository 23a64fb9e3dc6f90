// Package response writes the JSON bodies returned by the HTTP surface
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Path    string         `json:"path,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// JSON writes v as the response body
func JSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// RenderError writes an error response with a code derived from status
func RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RenderErrorWithDetails(w, r, status, message, nil)
}

// RenderErrorWithDetails writes an error response with additional details
func RenderErrorWithDetails(w http.ResponseWriter, r *http.Request, status int, message string, details map[string]any) {
	resp := ErrorResponse{
		Error:   errorCodeFromStatus(status),
		Message: message,
		Status:  status,
		Details: details,
	}
	if r != nil {
		resp.Path = r.URL.Path
	}
	JSON(w, status, resp)
}

// RenderNotFound renders a 404 Not Found error
func RenderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RenderError(w, r, http.StatusNotFound, message)
}

// RenderBadRequest renders a 400 Bad Request error
func RenderBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	RenderError(w, r, http.StatusBadRequest, message)
}

// RenderInternalError renders a 500 Internal Server Error. The error
// itself is never exposed.
func RenderInternalError(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
}

// RenderServiceUnavailable renders a 503 Service Unavailable error
func RenderServiceUnavailable(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RenderError(w, r, http.StatusServiceUnavailable, message)
}

// errorCodeFromStatus maps HTTP status codes to error codes
func errorCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusInternalServerError:
		return "internal_server_error"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	case http.StatusGatewayTimeout:
		return "gateway_timeout"
	default:
		return "error"
	}
}
