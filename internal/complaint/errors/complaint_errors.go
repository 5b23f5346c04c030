package complainterrors

import (
	"net/http"

	"staffdesk/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidComplaintID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid complaint id",
		http.StatusBadRequest,
	)
	ErrComplaintNotFound = apperror.New(
		apperror.CodeNotFound,
		"complaint not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid complaint status transition",
		http.StatusConflict,
	)
	ErrNotAssignable = apperror.New(
		apperror.CodeInvalidState,
		"complaint can only be assigned while it is open",
		http.StatusConflict,
	)
	ErrResolutionRequired = apperror.New(
		apperror.CodeInvalidInput,
		"resolution is required when resolving a complaint",
		http.StatusBadRequest,
	)
	ErrUpdateNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"only managers and admins may update complaints",
		http.StatusForbidden,
	)
)
