package accounterrors

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
)

var (
	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"Account not found",
		http.StatusNotFound,
	)

	ErrInvalidAccountID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid account ID",
		http.StatusBadRequest,
	)

	ErrAccountAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Account with the same username or email already exists",
		http.StatusConflict,
	)

	ErrAccountInactive = apperror.New(
		apperror.CodeForbidden,
		"Account is inactive",
		http.StatusForbidden,
	)
)
