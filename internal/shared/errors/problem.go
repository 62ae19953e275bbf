// Package errors provides RFC 7807 Problem Details for the marketplace HTTP API.
package errors

import (
	"fmt"
	"maps"
	"net/http"
)

// ProblemDetail is an RFC 7807 body. It also satisfies error, so application code can
// return one directly and the Responder passes it through unchanged.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := maps.Clone(p.Extensions)
	if ext == nil {
		ext = make(map[string]any, 1)
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type URI references. Relative values are resolved against Responder.BaseURI.
const (
	TypeValidation        = "/problems/validation-error"
	TypeNotFound          = "/problems/not-found"
	TypeConflict          = "/problems/conflict"
	TypeInternal          = "/problems/internal-error"
	TypeUnauthorized      = "/problems/unauthorized"
	TypeForbidden         = "/problems/forbidden"
	TypeBadRequest        = "/problems/bad-request"
	TypeInsufficientStock = "/problems/insufficient-stock"
)

// genericInternalDetail is all a client ever learns about an unexpected failure.
const genericInternalDetail = "an unexpected error occurred"

func template(status int, typ, title string) ProblemDetail {
	return ProblemDetail{Type: typ, Title: title, Status: status}
}

// Templates copied and filled in by the HTTP layer.
var (
	ErrBadRequest        = template(http.StatusBadRequest, TypeBadRequest, "Bad Request")
	ErrValidation        = template(http.StatusBadRequest, TypeValidation, "Validation Error")
	ErrInsufficientStock = template(http.StatusBadRequest, TypeInsufficientStock, "Insufficient Stock")
	ErrUnauthorized      = template(http.StatusUnauthorized, TypeUnauthorized, "Unauthorized")
	ErrForbidden         = template(http.StatusForbidden, TypeForbidden, "Forbidden")
	ErrNotFound          = template(http.StatusNotFound, TypeNotFound, "Resource Not Found")
	ErrConflict          = template(http.StatusConflict, TypeConflict, "Conflict")
	ErrInternal          = template(http.StatusInternalServerError, TypeInternal, "Internal Server Error").
				WithDetail(genericInternalDetail)
)

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}

// NewInsufficientStockProblem names the product whose stock could not cover the request.
func NewInsufficientStockProblem(productID string, requested, available int) ProblemDetail {
	return ErrInsufficientStock.
		WithDetail(fmt.Sprintf("Insufficient stock for product: %s", productID)).
		WithExtension("productId", productID).
		WithExtension("requested", requested).
		WithExtension("available", available)
}
