// Package model contains domain models passed between layers.
package model

// Column names of the CSV input and of the JSON output.
const (
	ColEmployeeName    = "employee_name"
	ColEmployeeID      = "employee_id"
	ColDepartment      = "department"
	ColMonth           = "month"
	ColTasksCompleted  = "tasks_completed"
	ColGoalsMet        = "goals_met"
	ColPeerFeedback    = "peer_feedback"
	ColManagerComments = "manager_comments"
)

// RequiredColumns lists the header columns every upload must carry, in
// the order they are reported when missing.
var RequiredColumns = []string{
	ColEmployeeName,
	ColEmployeeID,
	ColDepartment,
	ColMonth,
	ColTasksCompleted,
	ColGoalsMet,
}

// OptionalColumns are read when present.
var OptionalColumns = []string{
	ColPeerFeedback,
	ColManagerComments,
}

// EmployeeRecord is one row of employee performance data.
// Optional text fields are nil when the source cell was empty.
type EmployeeRecord struct {
	EmployeeName    string  `json:"employee_name" validate:"required"`
	EmployeeID      string  `json:"employee_id" validate:"required"`
	Department      string  `json:"department" validate:"required"`
	Month           string  `json:"month" validate:"required"`
	TasksCompleted  string  `json:"tasks_completed" validate:"required"`
	GoalsMet        float64 `json:"goals_met"`
	PeerFeedback    *string `json:"peer_feedback,omitempty"`
	ManagerComments *string `json:"manager_comments,omitempty"`
}

// SummaryRecord is one output row: the echoed input plus the generated summary.
type SummaryRecord struct {
	EmployeeRecord
	Summary string `json:"summary"`
}

// NewSummaryRecord pairs a record with its summary text.
func NewSummaryRecord(rec EmployeeRecord, summary string) SummaryRecord {
	return SummaryRecord{EmployeeRecord: rec, Summary: summary}
}

// HasPeerFeedback reports whether the optional peer feedback is present.
func (r EmployeeRecord) HasPeerFeedback() bool { return r.PeerFeedback != nil }

// HasManagerComments reports whether the optional manager comments are present.
func (r EmployeeRecord) HasManagerComments() bool { return r.ManagerComments != nil }

// StringPtr returns a pointer to s. Handy for building optional fields.
func StringPtr(s string) *string { return &s }
