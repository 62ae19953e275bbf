package orders

import (
	"errors"

	"go.temporal.io/sdk/temporal"

	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
)

// Application error types carried across the workflow boundary.
const (
	ErrTypeInsufficientStock   = "InsufficientStock"
	ErrTypeProductNotFound     = "ProductNotFound"
	ErrTypeForbidden           = "Forbidden"
	ErrTypeInvalidInput        = "InvalidInput"
	ErrTypeIdempotencyConflict = "IdempotencyConflict"
)

// StockShortageDetails travels with an InsufficientStock failure.
type StockShortageDetails struct {
	ProductID string
	Requested int
	Available int
}

// EncodeError marks business rejections non-retryable. Anything else stays retryable.
func EncodeError(err error) error {
	var shortage *storeapp.InsufficientStockError
	var missing *storeapp.ProductNotFoundError
	switch {
	case errors.As(err, &shortage):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInsufficientStock, nil,
			StockShortageDetails{ProductID: shortage.ProductID, Requested: shortage.Requested, Available: shortage.Available})
	case errors.As(err, &missing):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProductNotFound, nil, missing.ProductID)
	case errors.Is(err, storeapp.ErrForbidden):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeForbidden, nil)
	case errors.Is(err, storeapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, nil)
	case errors.Is(err, storeapp.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIdempotencyConflict, nil)
	default:
		return err
	}
}

// DecodeError restores the store errors behind an application failure returned by a workflow run.
func DecodeError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case ErrTypeInsufficientStock:
		var details StockShortageDetails
		if appErr.HasDetails() {
			_ = appErr.Details(&details)
		}
		return &storeapp.InsufficientStockError{ProductID: details.ProductID, Requested: details.Requested, Available: details.Available}
	case ErrTypeProductNotFound:
		var productID string
		if appErr.HasDetails() {
			_ = appErr.Details(&productID)
		}
		return &storeapp.ProductNotFoundError{ProductID: productID}
	case ErrTypeForbidden:
		return &remoteError{kind: storeapp.ErrForbidden, msg: appErr.Message()}
	case ErrTypeInvalidInput:
		return &remoteError{kind: storeapp.ErrInvalidInput, msg: appErr.Message()}
	case ErrTypeIdempotencyConflict:
		return storeapp.ErrIdempotencyConflict
	default:
		return err
	}
}

type remoteError struct {
	kind error
	msg  string
}

func (e *remoteError) Error() string { return e.msg }

func (e *remoteError) Unwrap() error { return e.kind }
