// Package access decides which rows a caller may see and which mutations it may perform.
package access

import (
	"errors"

	"hourglass/internal/models"
)

var ErrForbidden = errors.New("forbidden")

// Scope narrows a query to one owner. An empty UserID means every owner.
type Scope struct {
	UserID string
}

func (s Scope) All() bool {
	return s.UserID == ""
}

// Narrow is applied before every list, report and export query. Employees are
// pinned to themselves whatever they ask for; admins get the requested user or
// everyone.
func Narrow(caller models.User, requestedUserID string) Scope {
	if caller.IsAdmin() {
		return Scope{UserID: requestedUserID}
	}
	return Scope{UserID: caller.ID}
}

func RequireAdmin(caller models.User) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func CanDeleteEntry(caller models.User, entry models.TimeEntry) bool {
	return caller.IsAdmin() || entry.UserID == caller.ID
}
