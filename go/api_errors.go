package marketserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/application"
	storeapp "github.com/Apurer/go-gin-marketplace/internal/domains/store/application"
	userapp "github.com/Apurer/go-gin-marketplace/internal/domains/users/application"
	vendorapp "github.com/Apurer/go-gin-marketplace/internal/domains/vendors/application"
	apierrors "github.com/Apurer/go-gin-marketplace/internal/shared/errors"
)

var problems = apierrors.NewResponder("",
	userProblem,
	vendorProblem,
	catalogProblem,
	orderProblem,
)

// respondError maps application errors to RFC 7807 responses. Unmapped errors are logged
// and reported as a generic internal failure.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

// respondBadRequest reports a payload that could not be decoded.
func respondBadRequest(c *gin.Context, err error) {
	problems.BadRequest(c, err.Error())
}

func userProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userapp.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail("No token, authorization denied."), true
	case errors.Is(err, userapp.ErrInvalidCredential):
		return apierrors.ErrUnauthorized.WithDetail("Token is not valid."), true
	case errors.Is(err, userapp.ErrInvalidCredentials):
		return apierrors.ErrBadRequest.WithDetail("Invalid credentials."), true
	case errors.Is(err, userapp.ErrEmailTaken):
		return apierrors.ErrBadRequest.WithDetail("User with this email already exists."), true
	case errors.Is(err, userapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func vendorProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, vendorapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, vendorapp.ErrAlreadyExists):
		return apierrors.ErrBadRequest.WithDetail("Vendor profile already exists for this user."), true
	case errors.Is(err, vendorapp.ErrStoreNameTaken):
		return apierrors.ErrConflict.WithDetail("Store name is already taken."), true
	case errors.Is(err, vendorapp.ErrVendorNotFound):
		return apierrors.ErrNotFound.WithDetail("Vendor not found."), true
	case errors.Is(err, vendorapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func catalogProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, catalogapp.ErrProductNotFound):
		return apierrors.ErrNotFound.WithDetail("Product not found."), true
	case errors.Is(err, catalogapp.ErrVendorNotFound):
		return apierrors.ErrNotFound.WithDetail("Vendor not found."), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	var shortage *storeapp.InsufficientStockError
	if errors.As(err, &shortage) {
		return apierrors.NewInsufficientStockProblem(shortage.ProductID, shortage.Requested, shortage.Available), true
	}
	var missing *storeapp.ProductNotFoundError
	if errors.As(err, &missing) {
		return apierrors.NewNotFoundProblem("product", missing.ProductID), true
	}
	switch {
	case errors.Is(err, storeapp.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, storeapp.ErrProductNotFound):
		return apierrors.ErrNotFound.WithDetail("Product not found."), true
	case errors.Is(err, storeapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, storeapp.ErrOrderNotFound):
		return apierrors.ErrNotFound.WithDetail("Order not found."), true
	case errors.Is(err, storeapp.ErrVendorNotFound):
		return apierrors.ErrNotFound.WithDetail("Vendor not found."), true
	case errors.Is(err, storeapp.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, storeapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
