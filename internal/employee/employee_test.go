package employee

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
)

func sample() Employee {
	salary := 95000.0
	return Employee{
		ID:         "e1",
		EmployeeID: "EMP001",
		Name:       "John Doe",
		Email:      "john.doe@dayflow.com",
		Department: "Engineering",
		Position:   "Developer",
		JoinDate:   "2022-01-15",
		Salary:     &salary,
		Status:     "ACTIVE",
	}
}

func TestRedactByRole(t *testing.T) {
	for _, tt := range []struct {
		viewer roles.Role
		keep   bool
	}{
		{roles.Admin, true},
		{roles.HR, false},
		{roles.Employee, false},
		{roles.Unknown, false},
	} {
		got := sample().Redact(tt.viewer)
		if (got.Salary != nil) != tt.keep {
			t.Errorf("Redact for %v: salary present = %v, want %v", tt.viewer, got.Salary != nil, tt.keep)
		}
	}
}

func TestRedactedPayloadOmitsSalary(t *testing.T) {
	// The rule is field-level: a serialized non-ADMIN payload must not even
	// carry the key.
	b, err := json.Marshal(sample().Redact(roles.HR))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(b), "salary") {
		t.Errorf("redacted payload still mentions salary: %s", b)
	}
}

func TestRedactAll(t *testing.T) {
	list := []Employee{sample(), sample()}
	redacted := RedactAll(list, roles.Employee)
	for i, e := range redacted {
		if e.Salary != nil {
			t.Errorf("RedactAll[%d] kept salary", i)
		}
	}
	// The source slice is untouched.
	if list[0].Salary == nil {
		t.Error("RedactAll mutated its input")
	}
}

func TestWithAttendanceStatus(t *testing.T) {
	other := sample()
	other.EmployeeID = "HR001"
	list := []Employee{sample(), other}

	statuses := map[string]string{"EMP001": "present"}
	annotated := WithAttendanceStatus(list, func(id string) (string, bool) {
		s, ok := statuses[id]
		return s, ok
	})

	if annotated[0].AttendanceStatus == nil || *annotated[0].AttendanceStatus != "present" {
		t.Errorf("EMP001 attendance status = %v, want present", annotated[0].AttendanceStatus)
	}
	if annotated[1].AttendanceStatus != nil {
		t.Errorf("HR001 attendance status = %v, want unset", *annotated[1].AttendanceStatus)
	}
	// The source slice is untouched.
	if list[0].AttendanceStatus != nil {
		t.Error("WithAttendanceStatus mutated its input")
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"John Doe":        "JD",
		"Admin User":      "AU",
		"Cher":            "C",
		"Mary Jane Smith": "MS",
		"":                "",
	}
	for name, want := range tests {
		if got := Initials(name); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}
