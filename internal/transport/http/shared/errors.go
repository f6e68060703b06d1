package shared

import (
	"errors"
	"log/slog"
	"net/http"

	"laportal/internal/domain/audits"
	"laportal/internal/domain/auth"
	"laportal/internal/domain/earnings"
	"laportal/internal/domain/employees"
	"laportal/internal/domain/idcards"
	"laportal/internal/domain/parcels"
	"laportal/internal/domain/sellers"
	"laportal/internal/platform/requestctx"
	"laportal/internal/transport/http/api"
)

// WriteError maps a domain error onto the response envelope. Unknown errors
// are logged and reported as code with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error, code string) {
	requestID := requestctx.GetRequestID(r.Context())

	if issue, ok := validationIssue(err); ok {
		FailValidation(w, requestID, []ValidationIssue{issue})
		return
	}

	switch {
	case errors.Is(err, audits.ErrNotFound),
		errors.Is(err, sellers.ErrNotFound),
		errors.Is(err, parcels.ErrNotFound),
		errors.Is(err, employees.ErrNotFound),
		errors.Is(err, idcards.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case errors.Is(err, sellers.ErrDuplicateSeller),
		errors.Is(err, parcels.ErrDuplicateTracking),
		errors.Is(err, employees.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	case errors.Is(err, employees.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, audits.ErrInvalidImport):
		api.Fail(w, http.StatusBadRequest, "invalid_import", err.Error(), requestID)
	default:
		slog.Error("request failed", "code", code, "path", r.URL.Path, "requestId", requestID, "err", err)
		api.Fail(w, http.StatusInternalServerError, code, "internal error", requestID)
	}
}

// validationIssue unwraps the field-level validation error of any domain.
func validationIssue(err error) (ValidationIssue, bool) {
	var (
		engineErr   *earnings.ValidationError
		employeeErr *employees.ValidationError
		sellerErr   *sellers.ValidationError
		parcelErr   *parcels.ValidationError
		cardErr     *idcards.ValidationError
	)
	switch {
	case errors.As(err, &engineErr):
		return ValidationIssue{Field: engineErr.Field, Reason: engineErr.Reason}, true
	case errors.As(err, &employeeErr):
		return ValidationIssue{Field: employeeErr.Field, Reason: employeeErr.Reason}, true
	case errors.As(err, &sellerErr):
		return ValidationIssue{Field: sellerErr.Field, Reason: sellerErr.Reason}, true
	case errors.As(err, &parcelErr):
		return ValidationIssue{Field: parcelErr.Field, Reason: parcelErr.Reason}, true
	case errors.As(err, &cardErr):
		return ValidationIssue{Field: cardErr.Field, Reason: cardErr.Reason}, true
	}
	return ValidationIssue{}, false
}
