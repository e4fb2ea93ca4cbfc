package domain

import "errors"

// Error kinds surfaced by asset operations. Callers match them with
// errors.Is; the wrapped message carries the asset id.
var (
	ErrNotFound       = errors.New("does not exist")
	ErrAlreadyExists  = errors.New("already exists")
	ErrInvalidAsset   = errors.New("invalid asset")
	ErrStorageFailure = errors.New("storage failure")
)
