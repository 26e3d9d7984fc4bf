package timeoff

import (
	"errors"
	"testing"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
	"github.com/Dhru-Will/dayflow-hrms/internal/session"
)

var (
	hrReviewer  = session.User{ID: "2", LoginID: "HR001", Role: roles.HR, Name: "HR Manager"}
	empReviewer = session.User{ID: "3", LoginID: "EMP001", Role: roles.Employee, Name: "John Doe"}
)

func pendingRequest() Request {
	return Submit("EMP001", "John Doe", LeaveVacation, "2025-04-01", "2025-04-03", "family trip", "2025-03-10")
}

func TestSubmit(t *testing.T) {
	req := pendingRequest()
	if req.ID == "" {
		t.Error("Submit did not assign an id")
	}
	if req.Status != StatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if req.Days != 3 {
		t.Errorf("Days = %d, want 3 (inclusive span)", req.Days)
	}
	if req.SubmittedDate != "2025-03-10" {
		t.Errorf("SubmittedDate = %q", req.SubmittedDate)
	}
	if req.ReviewedBy != nil || req.ReviewedDate != nil {
		t.Error("new request carries review fields")
	}
}

func TestDaySpan(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2025-04-01", "2025-04-01", 1},
		{"2025-04-01", "2025-04-07", 7},
		{"2025-04-28", "2025-05-02", 5}, // month boundary
		{"2025-04-07", "2025-04-01", 1}, // inverted span
		{"bogus", "2025-04-01", 1},
	}
	for _, tt := range tests {
		if got := daySpan(tt.start, tt.end); got != tt.want {
			t.Errorf("daySpan(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestApproveByHR(t *testing.T) {
	req := pendingRequest()
	approved, err := Approve(req, hrReviewer, "2025-03-11")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}
	if approved.ReviewedBy == nil || *approved.ReviewedBy != "HR Manager" {
		t.Errorf("ReviewedBy = %v, want HR Manager", approved.ReviewedBy)
	}
	if approved.ReviewedDate == nil || *approved.ReviewedDate != "2025-03-11" {
		t.Errorf("ReviewedDate = %v", approved.ReviewedDate)
	}
}

func TestReviewIsTerminal(t *testing.T) {
	req := pendingRequest()
	approved, err := Approve(req, hrReviewer, "2025-03-11")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	// A second approve and a reject are both no-ops.
	again, err := Approve(approved, hrReviewer, "2025-03-12")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("second Approve err = %v, want ErrAlreadyReviewed", err)
	}
	if again.Status != StatusApproved || *again.ReviewedDate != "2025-03-11" {
		t.Errorf("second Approve changed the request: %+v", again)
	}

	rejected, err := Reject(approved, hrReviewer, "2025-03-12")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("Reject after Approve err = %v, want ErrAlreadyReviewed", err)
	}
	if rejected.Status != StatusApproved {
		t.Errorf("Reject after Approve flipped status to %q", rejected.Status)
	}
}

func TestReject(t *testing.T) {
	req := pendingRequest()
	rejected, err := Reject(req, hrReviewer, "2025-03-11")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}
}

func TestEmployeeCannotReview(t *testing.T) {
	req := pendingRequest()
	out, err := Approve(req, empReviewer, "2025-03-11")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Approve by employee err = %v, want ErrForbidden", err)
	}
	if out.Status != StatusPending {
		t.Errorf("forbidden review changed status to %q", out.Status)
	}
}
