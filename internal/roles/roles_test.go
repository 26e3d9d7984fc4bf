package roles

import "testing"

func TestCanViewSalary(t *testing.T) {
	for _, r := range All {
		want := r == Admin
		if got := CanViewSalary(r); got != want {
			t.Errorf("CanViewSalary(%s) = %v, want %v", r, got, want)
		}
	}
	if CanViewSalary(Unknown) {
		t.Error("CanViewSalary(Unknown) = true, want false")
	}
}

func TestPredicatesRejectUnknown(t *testing.T) {
	if IsAdmin(Unknown) || IsHR(Unknown) || IsEmployee(Unknown) {
		t.Error("predicate returned true for Unknown role")
	}
	if HasRole(Unknown, All) {
		t.Error("HasRole(Unknown, All) = true, want false")
	}
	if HasAnyRole(Unknown, Admin, HR, Employee) {
		t.Error("HasAnyRole(Unknown, ...) = true, want false")
	}
}

func TestHasRole(t *testing.T) {
	tests := []struct {
		role    Role
		allowed []Role
		want    bool
	}{
		{Admin, []Role{Admin, HR}, true},
		{HR, []Role{Admin, HR}, true},
		{Employee, []Role{Admin, HR}, false},
		{Employee, []Role{Employee}, true},
		{Admin, nil, false},
	}
	for _, tt := range tests {
		if got := HasRole(tt.role, tt.allowed); got != tt.want {
			t.Errorf("HasRole(%s, %v) = %v, want %v", tt.role, tt.allowed, got, tt.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, r := range All {
		parsed, err := Parse(r.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", r.String(), err)
		}
		if parsed != r {
			t.Errorf("Parse(%q) = %v, want %v", r.String(), parsed, r)
		}
	}
	if _, err := Parse("SUPERUSER"); err == nil {
		t.Error("Parse accepted an unknown role")
	}
	if _, err := Parse(""); err == nil {
		t.Error("Parse accepted the empty string")
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[Role]string{
		Admin:    "Admin",
		HR:       "Hr",
		Employee: "Employee",
		Unknown:  "",
	}
	for role, want := range tests {
		if got := role.DisplayName(); got != want {
			t.Errorf("DisplayName(%v) = %q, want %q", role, got, want)
		}
	}
}
