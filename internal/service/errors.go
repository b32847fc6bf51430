package service

import (
	"errors"
	"fmt"

	"hourglass/internal/access"
	"hourglass/internal/repository"
)

// Error kinds surfaced to callers. Every error returned by a service either
// wraps one of these or is an unexpected infrastructure failure.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = access.ErrForbidden
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// notFound translates a repository miss into ErrNotFound labelled with what.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	return err
}
