package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes
// directly; the map below decides the HTTP status for each.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Input and state problems
	ErrCodeValidation:       http.StatusBadRequest,
	"INVALID_INPUT":         http.StatusBadRequest,
	"INVALID_NAME":          http.StatusBadRequest,
	"INVALID_VALUE":         http.StatusBadRequest,
	"INVALID_SKU":           http.StatusBadRequest,
	"INVALID_PRICE":         http.StatusBadRequest,
	"INVALID_STOCK":         http.StatusBadRequest,
	"INVALID_QUANTITY":      http.StatusBadRequest,
	"INVALID_ATTRIBUTES":    http.StatusBadRequest,
	"INVALID_PARENT":        http.StatusBadRequest,
	"INVALID_PRODUCT":       http.StatusBadRequest,
	"INVALID_VARIANT":       http.StatusBadRequest,
	"INVALID_USER":          http.StatusBadRequest,
	"INVALID_ORDER_NUMBER":  http.StatusBadRequest,
	"INVALID_STATE":         http.StatusBadRequest,
	"MAX_DEPTH_EXCEEDED":    http.StatusBadRequest,
	"EMPTY_CART":            http.StatusBadRequest,
	"EMPTY_ORDER":           http.StatusBadRequest,
	"INSUFFICIENT_STOCK":    http.StatusBadRequest,
	"VARIANT_UNAVAILABLE":   http.StatusBadRequest,
	"VALUE_MISMATCH":        http.StatusBadRequest,
	"DUPLICATE_ATTRIBUTE":   http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Missing resources
	ErrCodeNotFound:  http.StatusNotFound,
	"ITEM_NOT_FOUND": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":        http.StatusConflict,
	"DUPLICATE_COMBINATION": http.StatusConflict,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"ATTRIBUTE_IN_USE":      http.StatusConflict,
	"VALUE_IN_USE":          http.StatusConflict,
	"CATEGORY_NOT_EMPTY":    http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
