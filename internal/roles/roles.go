package roles

import "fmt"

// Role is the closed set of roles a user can hold. A user has exactly one
// role and it does not change for the lifetime of a session.
type Role int

const (
	// Unknown is the zero value; every predicate returns false for it.
	Unknown Role = iota
	Admin
	HR
	Employee
)

var roleNames = map[Role]string{
	Admin:    "ADMIN",
	HR:       "HR",
	Employee: "EMPLOYEE",
}

// All lists the assignable roles.
var All = []Role{Admin, HR, Employee}

// String returns the wire form of the role, or "" for Unknown.
func (r Role) String() string {
	return roleNames[r]
}

// MarshalText encodes the role as its wire form.
func (r Role) MarshalText() ([]byte, error) {
	if r == Unknown {
		return nil, fmt.Errorf("cannot encode unknown role")
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role from its wire form.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Parse maps a wire string onto a Role.
func Parse(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return Unknown, fmt.Errorf("unknown role %q", s)
}

// DisplayName renders a role for humans: "Admin", "Hr", "Employee".
func (r Role) DisplayName() string {
	name := r.String()
	if name == "" {
		return ""
	}
	out := []byte(name)
	for i := 1; i < len(out); i++ {
		if out[i] >= 'A' && out[i] <= 'Z' {
			out[i] += 'a' - 'A'
		}
	}
	return string(out)
}

// IsAdmin reports whether role is Admin.
func IsAdmin(role Role) bool { return role == Admin }

// IsHR reports whether role is HR.
func IsHR(role Role) bool { return role == HR }

// IsEmployee reports whether role is Employee.
func IsEmployee(role Role) bool { return role == Employee }

// HasRole reports whether role is one of allowed. Unknown never matches.
func HasRole(role Role, allowed []Role) bool {
	if role == Unknown {
		return false
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// HasAnyRole is HasRole with a variadic allow list.
func HasAnyRole(role Role, allowed ...Role) bool {
	return HasRole(role, allowed)
}

// CanViewSalary reports whether role may see salary fields. Only Admin may;
// salary must be stripped from payloads before any other role sees them.
func CanViewSalary(role Role) bool { return role == Admin }
