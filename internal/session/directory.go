package session

import (
	"strings"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
)

// MemoryDirectory is a fixed in-memory identity directory keyed by
// upper-cased login id.
type MemoryDirectory struct {
	users map[string]User
}

// NewMemoryDirectory builds a directory from the given users.
func NewMemoryDirectory(users ...User) *MemoryDirectory {
	m := make(map[string]User, len(users))
	for _, u := range users {
		m[strings.ToUpper(u.LoginID)] = u
	}
	return &MemoryDirectory{users: m}
}

// Lookup resolves a login id case-insensitively.
func (d *MemoryDirectory) Lookup(loginID string) (User, bool) {
	u, ok := d.users[strings.ToUpper(loginID)]
	return u, ok
}

// SeedDirectory returns the three stock identities, one per role.
func SeedDirectory() *MemoryDirectory {
	return NewMemoryDirectory(
		User{ID: "1", LoginID: "ADM001", Role: roles.Admin, Name: "Admin User", Email: "admin@dayflow.com"},
		User{ID: "2", LoginID: "HR001", Role: roles.HR, Name: "HR Manager", Email: "hr@dayflow.com"},
		User{ID: "3", LoginID: "EMP001", Role: roles.Employee, Name: "John Doe", Email: "john.doe@dayflow.com"},
	)
}
