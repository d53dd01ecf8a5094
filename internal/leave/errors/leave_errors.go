package errors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"Insufficient leave balance: requested days exceed remaining balance",
		http.StatusBadRequest,
	)

	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD or RFC3339",
		http.StatusBadRequest,
	)

	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"End date must not be before start date",
		http.StatusBadRequest,
	)

	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)

	// Keputusan review bersifat final: pending adalah satu-satunya state yang
	// boleh ditransisikan.
	ErrAlreadyReviewed = apperror.New(
		apperror.CodeInvalidState,
		"Leave request has already been reviewed",
		http.StatusBadRequest,
	)

	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"Decision must be either approved or rejected",
		http.StatusBadRequest,
	)
)
