package summary

import (
	"strconv"
	"strings"

	"github.com/okian/perfsum/internal/domain/model"
)

const promptInstructions = `
Write a professional performance summary paragraph (around 3-5 sentences) that highlights:
- Overall performance based on goals met percentage
- Specific achievements from tasks completed
- Areas of strength and opportunities for growth
- Tone should be constructive and balanced

The summary should be suitable for inclusion in a formal performance review document.
`

// BuildPrompt renders the generation prompt for one record.
func BuildPrompt(rec model.EmployeeRecord) string {
	var b strings.Builder
	b.WriteString("Generate a professional, concise performance summary for this employee based on the following data:\n\n")
	writeLine(&b, "Employee Name", rec.EmployeeName)
	writeLine(&b, "Employee ID", rec.EmployeeID)
	writeLine(&b, "Department", rec.Department)
	writeLine(&b, "Month", rec.Month)
	writeLine(&b, "Tasks Completed", rec.TasksCompleted)
	writeLine(&b, "Goals Met", FormatPercent(rec.GoalsMet))
	if rec.PeerFeedback != nil {
		writeLine(&b, "Peer Feedback", *rec.PeerFeedback)
	}
	if rec.ManagerComments != nil {
		writeLine(&b, "Manager Comments", *rec.ManagerComments)
	}
	b.WriteString(promptInstructions)
	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

// FormatPercent renders 85 as "85%" and 72.5 as "72.5%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
