package sheets

import (
	"errors"
	"fmt"
	"strings"
)

// Service error codes surfaced in API error payloads.
const (
	// CodeNotFound is returned when a sheet or row does not exist or is
	// not accessible with the supplied token.
	CodeNotFound = 1006
	// CodeSheetAtCapacity is returned when a write would push a sheet past
	// its row limit.
	CodeSheetAtCapacity = 4004
	// CodeRateLimited is returned when the token is being throttled.
	CodeRateLimited = 4003
)

// APIError is a structured error response from the collaboration service.
type APIError struct {
	// StatusCode is the HTTP status of the failed call.
	StatusCode int
	// Code is the service-specific error code from the response body.
	Code int `json:"errorCode"`
	// Message is the service-supplied description.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (http %d): %s", e.Code, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an API error for a missing sheet or row.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeNotFound
}

// IsCapacity reports whether err means the target sheet is at its row limit.
// Capacity errors trigger overflow-chain handling instead of a retry.
func IsCapacity(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeSheetAtCapacity
}

// IsTransient reports whether err is worth retrying: rate limiting, server
// errors, or transport failures that never produced a structured response.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == CodeRateLimited || apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	// Capacity and schema problems come back as APIError; anything else
	// (timeouts, connection resets) is transport-level.
	return err != nil
}

// MissingColumnsError reports every required column a sheet lacks.
// A sheet with partial schema is never processed.
type MissingColumnsError struct {
	SheetID   int64
	SheetName string
	Missing   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("sheet %q (ID: %d) is missing required columns: %s",
		e.SheetName, e.SheetID, strings.Join(e.Missing, ", "))
}
