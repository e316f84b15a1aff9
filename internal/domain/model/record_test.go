package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/perfsum/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSummaryRecordJSON(t *testing.T) {
	convey.Convey("Given a summary record", t, func() {
		rec := model.EmployeeRecord{
			EmployeeName:   "Alice",
			EmployeeID:     "E1",
			Department:     "Eng",
			Month:          "Jan",
			TasksCompleted: "Shipped 3 features",
			GoalsMet:       85,
		}

		convey.Convey("When optional fields are absent", func() {
			out, err := json.Marshal(model.NewSummaryRecord(rec, "Solid month."))
			convey.So(err, convey.ShouldBeNil)

			var fields map[string]any
			convey.So(json.Unmarshal(out, &fields), convey.ShouldBeNil)

			convey.Convey("Then the input is echoed flat next to the summary", func() {
				convey.So(fields["employee_name"], convey.ShouldEqual, "Alice")
				convey.So(fields["employee_id"], convey.ShouldEqual, "E1")
				convey.So(fields["department"], convey.ShouldEqual, "Eng")
				convey.So(fields["month"], convey.ShouldEqual, "Jan")
				convey.So(fields["tasks_completed"], convey.ShouldEqual, "Shipped 3 features")
				convey.So(fields["goals_met"], convey.ShouldEqual, 85.0)
				convey.So(fields["summary"], convey.ShouldEqual, "Solid month.")
			})

			convey.Convey("And the optional keys are not emitted at all", func() {
				_, hasPeer := fields["peer_feedback"]
				_, hasManager := fields["manager_comments"]
				convey.So(hasPeer, convey.ShouldBeFalse)
				convey.So(hasManager, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When optional fields are present", func() {
			rec.PeerFeedback = model.StringPtr("Great teammate")
			rec.ManagerComments = model.StringPtr("")
			out, err := json.Marshal(model.NewSummaryRecord(rec, ""))
			convey.So(err, convey.ShouldBeNil)

			var fields map[string]any
			convey.So(json.Unmarshal(out, &fields), convey.ShouldBeNil)

			convey.Convey("Then they are emitted, and summary is always present", func() {
				convey.So(rec.HasPeerFeedback(), convey.ShouldBeTrue)
				convey.So(rec.HasManagerComments(), convey.ShouldBeTrue)
				convey.So(fields["peer_feedback"], convey.ShouldEqual, "Great teammate")
				convey.So(fields["manager_comments"], convey.ShouldEqual, "")
				convey.So(fields, convey.ShouldContainKey, "summary")
			})
		})
	})
}

func TestRequiredColumns(t *testing.T) {
	convey.Convey("Given the required column list", t, func() {
		convey.Convey("Then it names exactly the six required headers in order", func() {
			convey.So(model.RequiredColumns, convey.ShouldResemble, []string{
				"employee_name", "employee_id", "department", "month", "tasks_completed", "goals_met",
			})
			convey.So(model.OptionalColumns, convey.ShouldResemble, []string{"peer_feedback", "manager_comments"})
		})
	})
}
