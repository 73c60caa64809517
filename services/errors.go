package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Domain error kinds. All are recoverable at the caller; handlers map
// them to HTTP statuses. ErrStorage wraps persistence failures — a
// transaction that fails with it rolled back wholesale and may be
// retried at the boundary.
var (
	ErrNotFound       = errors.New("match not found")
	ErrNotInMatch     = errors.New("user holds no seat in this match")
	ErrAlreadyFull    = errors.New("match is no longer accepting players")
	ErrWrongState     = errors.New("match is not in the required state")
	ErrValidation     = errors.New("invalid request")
	ErrNameTaken      = errors.New("username is taken")
	ErrBadCredentials = errors.New("wrong username or password")
	ErrStorage        = errors.New("storage failure")
)

var domainErrs = []error{
	ErrNotFound, ErrNotInMatch, ErrAlreadyFull, ErrWrongState,
	ErrValidation, ErrNameTaken, ErrBadCredentials,
}

// storeErr passes domain errors through, translates a missing row to
// ErrNotFound and wraps anything else as a storage failure.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, de := range domainErrs {
		if errors.Is(err, de) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
