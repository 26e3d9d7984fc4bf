package employee

import (
	"errors"
	"strings"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
)

// ErrNotFound reports an unknown employee id.
var ErrNotFound = errors.New("employee: not found")

// Employee is a directory entry. Salary is nullable so it can be redacted
// before a payload ever reaches a role not permitted to see it.
type Employee struct {
	ID               string   `json:"id"`
	EmployeeID       string   `json:"employee_id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Department       string   `json:"department"`
	Position         string   `json:"position"`
	JoinDate         string   `json:"join_date"`
	Salary           *float64 `json:"salary,omitempty"`
	Status           string   `json:"status"` // ACTIVE or INACTIVE
	AttendanceStatus *string  `json:"attendance_status,omitempty"`
	Manager          *string  `json:"manager,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
}

// Redact strips fields the viewer's role may not see. Only ADMIN keeps
// salary; this runs on the data path, not the rendering path, so the rule
// holds even if a consumer bypasses the UI.
func (e Employee) Redact(viewer roles.Role) Employee {
	if !roles.CanViewSalary(viewer) {
		e.Salary = nil
	}
	return e
}

// RedactAll applies Redact to a slice.
func RedactAll(list []Employee, viewer roles.Role) []Employee {
	out := make([]Employee, len(list))
	for i, e := range list {
		out[i] = e.Redact(viewer)
	}
	return out
}

// WithAttendanceStatus annotates each entry with today's attendance status
// where one is known. AttendanceStatus is a derivation over the attendance
// records, never stored on the employee row.
func WithAttendanceStatus(list []Employee, statusOf func(employeeID string) (string, bool)) []Employee {
	out := make([]Employee, len(list))
	for i, e := range list {
		if status, ok := statusOf(e.EmployeeID); ok {
			s := status
			e.AttendanceStatus = &s
		}
		out[i] = e
	}
	return out
}

// Initials derives up-to-two display initials from a name. Pure projection,
// never stored.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(parts[0][:1])
	default:
		return strings.ToUpper(parts[0][:1] + parts[len(parts)-1][:1])
	}
}
