package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hourglass/internal/models"
)

var (
	admin    = models.User{ID: "admin-1", Role: models.UserRoleAdmin}
	employee = models.User{ID: "emp-1", Role: models.UserRoleEmployee}
)

func TestNarrow(t *testing.T) {
	cases := []struct {
		name      string
		caller    models.User
		requested string
		want      Scope
	}{
		{name: "employee without filter", caller: employee, requested: "", want: Scope{UserID: "emp-1"}},
		{name: "employee asking for someone else", caller: employee, requested: "emp-2", want: Scope{UserID: "emp-1"}},
		{name: "admin without filter", caller: admin, requested: "", want: Scope{}},
		{name: "admin with filter", caller: admin, requested: "emp-2", want: Scope{UserID: "emp-2"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Narrow(tc.caller, tc.requested))
		})
	}
	assert.True(t, Narrow(admin, "").All())
	assert.False(t, Narrow(employee, "").All())
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(admin))
	assert.ErrorIs(t, RequireAdmin(employee), ErrForbidden)
}

func TestCanDeleteEntry(t *testing.T) {
	own := models.TimeEntry{ID: "e1", UserID: "emp-1"}
	other := models.TimeEntry{ID: "e2", UserID: "emp-2"}

	assert.True(t, CanDeleteEntry(employee, own))
	assert.False(t, CanDeleteEntry(employee, other))
	assert.True(t, CanDeleteEntry(admin, other))
}
