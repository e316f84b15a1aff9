package uploadcli

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/csv"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/perfsum/pkg/logger"
)

// Header is the column order of generated files.
var Header = []string{
	"employee_name", "employee_id", "department", "month",
	"tasks_completed", "goals_met", "peer_feedback", "manager_comments",
}

var (
	firstNames  = []string{"Alice", "Bob", "Carol", "Dmitri", "Esra", "Farid", "Grace", "Hiro", "Ines", "Jonas"}
	lastNames   = []string{"Nguyen", "Smith", "Okafor", "Ivanova", "Yilmaz", "Haddad", "Hopper", "Tanaka", "Silva", "Berg"}
	departments = []string{"Engineering", "Sales", "Operations", "Finance", "Support", "Marketing"}
	months      = []string{"January", "February", "March", "April", "May", "June"}
	tasks       = []string{
		"Shipped 3 features, fixed 12 bugs",
		"Closed 8 deals, onboarded 2 accounts",
		"Migrated billing database, cut costs by 10%",
		"Resolved 140 tickets, wrote 5 help articles",
		"Ran quarterly campaign, grew signups 18%",
		"Prepared audit, automated monthly close",
	}
	feedback = []string{"Great teammate", "Always willing to help", "Clear communicator", ""}
	comments = []string{"Ready for more scope", "", "Needs to delegate more", ""}
	badGoals = []string{"abc", "", "n/a", "NaN", "inf"}
)

// randomInt returns a uniform value in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// GenerateRows builds n rows. Every badEvery-th row carries a goals_met cell
// the service must coerce to 0; some optional cells are left empty.
func GenerateRows(ctx context.Context, n, badEvery int) []Row {
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		r := Row{
			EmployeeName:    firstNames[i%len(firstNames)] + " " + lastNames[randomInt(len(lastNames))],
			EmployeeID:      uuid.NewString(),
			Department:      departments[randomInt(len(departments))],
			Month:           months[i%len(months)],
			TasksCompleted:  tasks[randomInt(len(tasks))],
			PeerFeedback:    feedback[i%len(feedback)],
			ManagerComments: comments[i%len(comments)],
		}
		if badEvery > 0 && (i+1)%badEvery == 0 {
			r.GoalsCell = badGoals[(i/badEvery)%len(badGoals)]
			r.ExpectedGoals = 0
		} else {
			goals := float64(randomInt(201)) / 2 // 0..100 in steps of 0.5
			r.GoalsCell = strconv.FormatFloat(goals, 'f', -1, 64)
			if i%7 == 3 {
				r.GoalsCell += "%"
			}
			r.ExpectedGoals = goals
		}
		rows = append(rows, r)
	}
	logger.Get().Debug(ctx, "rows generated", logger.Int("rows", len(rows)), logger.Int("badEvery", badEvery))
	return rows
}

// EncodeCSV renders rows with Header as the first line.
func EncodeCSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		rec := []string{
			r.EmployeeName, r.EmployeeID, r.Department, r.Month,
			r.TasksCompleted, r.GoalsCell, r.PeerFeedback, r.ManagerComments,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
