package leaveerrors

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
)

var (
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be in the past and must not be after end_date",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"category must be one of CASUAL, SICK, PAID",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"not enough leave balance for the requested period",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been processed",
		http.StatusBadRequest,
	)
	ErrManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"only a manager can perform this action",
		http.StatusForbidden,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrDuplicateLeaveID = apperror.New(
		apperror.CodeConflict,
		"leave id was taken by a concurrent request, please retry",
		http.StatusConflict,
	)
)
