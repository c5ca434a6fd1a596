// Package errors contains domain-specific errors for the filegate domain
package errors

import (
	pkgerrors "github.com/luffex/filegate/pkg/errors"
)

// Domain errors for filegate operations
var (
	ErrNotAdmin        = pkgerrors.NewPermissionError("admin rights required")
	ErrNotOwner        = pkgerrors.NewPermissionError("owner rights required")
	ErrNotUploader     = pkgerrors.NewPermissionError("admin or premium rights required")
	ErrBundleNotFound  = pkgerrors.NewNotFoundError("media expired or not found")
	ErrQuotaExceeded   = pkgerrors.NewQuotaError("daily download quota exceeded")
	ErrAlreadyDecided  = pkgerrors.NewConflictError("join request already decided")
	ErrNoSession       = pkgerrors.NewNotFoundError("no open upload session")
	ErrEmptySession    = pkgerrors.NewValidationError("upload session has no media")
	ErrUnsupportedKind = pkgerrors.NewValidationError("unsupported content kind")
	ErrOwnerImmutable  = pkgerrors.NewValidationError("owner cannot be modified")
)
