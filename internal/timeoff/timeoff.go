package timeoff

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Dhru-Will/dayflow-hrms/internal/roles"
	"github.com/Dhru-Will/dayflow-hrms/internal/session"
)

// ErrAlreadyReviewed reports a review attempt on a request that already left
// pending. The request is unchanged; this is a no-op, not a failure.
var ErrAlreadyReviewed = errors.New("timeoff: request already reviewed")

// ErrForbidden reports a reviewer without the ADMIN or HR role.
var ErrForbidden = errors.New("timeoff: reviewer role not permitted")

// ErrNotFound reports an unknown request id.
var ErrNotFound = errors.New("timeoff: request not found")

// LeaveStatus is the review lifecycle of a request. Pending transitions once
// to approved or rejected and is then terminal.
type LeaveStatus string

const (
	StatusPending  LeaveStatus = "pending"
	StatusApproved LeaveStatus = "approved"
	StatusRejected LeaveStatus = "rejected"
)

// LeaveType classifies a request.
type LeaveType string

const (
	LeaveVacation LeaveType = "vacation"
	LeaveSick     LeaveType = "sick"
	LeavePersonal LeaveType = "personal"
	LeaveOther    LeaveType = "other"
)

// Request is an employee-submitted leave application.
type Request struct {
	ID            string      `json:"id"`
	EmployeeID    string      `json:"employee_id"`
	EmployeeName  string      `json:"employee_name"`
	LeaveType     LeaveType   `json:"leave_type"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	Days          int         `json:"days"`
	Reason        string      `json:"reason"`
	Status        LeaveStatus `json:"status"`
	SubmittedDate string      `json:"submitted_date"`
	ReviewedBy    *string     `json:"reviewed_by,omitempty"`
	ReviewedDate  *string     `json:"reviewed_date,omitempty"`
}

// Submit builds a pending request. Days is computed here, once, as the
// inclusive calendar-day span, and never recomputed.
func Submit(employeeID, employeeName string, leaveType LeaveType, startDate, endDate, reason, today string) Request {
	return Request{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		EmployeeName:  employeeName,
		LeaveType:     leaveType,
		StartDate:     startDate,
		EndDate:       endDate,
		Days:          daySpan(startDate, endDate),
		Reason:        reason,
		Status:        StatusPending,
		SubmittedDate: today,
	}
}

// Approve transitions a pending request to approved, attributing the
// reviewer. Non-pending requests come back unchanged with ErrAlreadyReviewed.
func Approve(req Request, reviewer session.User, today string) (Request, error) {
	return review(req, reviewer, StatusApproved, today)
}

// Reject transitions a pending request to rejected.
func Reject(req Request, reviewer session.User, today string) (Request, error) {
	return review(req, reviewer, StatusRejected, today)
}

func review(req Request, reviewer session.User, to LeaveStatus, today string) (Request, error) {
	if !roles.HasAnyRole(reviewer.Role, roles.Admin, roles.HR) {
		return req, ErrForbidden
	}
	if req.Status != StatusPending {
		return req, ErrAlreadyReviewed
	}
	req.Status = to
	req.ReviewedBy = &reviewer.Name
	req.ReviewedDate = &today
	return req, nil
}

// daySpan is the inclusive number of calendar days between two ISO dates.
// Malformed dates count as a single day.
func daySpan(start, end string) int {
	s, err1 := time.Parse("2006-01-02", start)
	e, err2 := time.Parse("2006-01-02", end)
	if err1 != nil || err2 != nil || e.Before(s) {
		return 1
	}
	return int(e.Sub(s).Hours()/24) + 1
}
