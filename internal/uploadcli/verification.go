package uploadcli

import (
	"fmt"
	"strings"

	"github.com/okian/perfsum/internal/domain/summary"
)

// Verify compares a response against the rows that were uploaded. It returns
// one message per contract violation and the number of error summaries.
func Verify(rows []Row, records []SummaryRecord) (mismatches []string, summaryErrors int) {
	if len(records) != len(rows) {
		return []string{fmt.Sprintf("expected %d records, got %d", len(rows), len(records))}, 0
	}

	for i, row := range rows {
		rec := records[i]
		at := func(format string, args ...any) {
			mismatches = append(mismatches, fmt.Sprintf("row %d: ", i+1)+fmt.Sprintf(format, args...))
		}

		if rec.EmployeeID != row.EmployeeID {
			at("out of order: employee_id %q, want %q", rec.EmployeeID, row.EmployeeID)
			continue
		}
		if rec.EmployeeName != row.EmployeeName {
			at("employee_name %q, want %q", rec.EmployeeName, row.EmployeeName)
		}
		if rec.GoalsMet != row.ExpectedGoals {
			at("goals_met %v from cell %q, want %v", rec.GoalsMet, row.GoalsCell, row.ExpectedGoals)
		}
		checkOptional(at, "peer_feedback", row.PeerFeedback, rec.PeerFeedback)
		checkOptional(at, "manager_comments", row.ManagerComments, rec.ManagerComments)

		switch {
		case strings.TrimSpace(rec.Summary) == "":
			at("empty summary")
		case summary.IsErrorSummary(rec.Summary):
			summaryErrors++
		}
	}
	return mismatches, summaryErrors
}

func checkOptional(at func(string, ...any), column, sent string, got *string) {
	switch {
	case sent == "" && got != nil:
		at("%s should be absent, got %q", column, *got)
	case sent != "" && got == nil:
		at("%s missing, want %q", column, sent)
	case sent != "" && *got != sent:
		at("%s %q, want %q", column, *got, sent)
	}
}
