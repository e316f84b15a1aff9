package summary_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/perfsum/internal/domain/model"
	"github.com/okian/perfsum/internal/domain/summary"
	. "github.com/smartystreets/goconvey/convey"
)

type stubProvider struct {
	text    string
	err     error
	panics  bool
	prompts []string
	wait    bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.panics {
		panic("provider exploded")
	}
	if p.wait {
		<-ctx.Done()
		return "", summary.NewProviderError("stub", ctx.Err())
	}
	return p.text, p.err
}

func alice() model.EmployeeRecord {
	return model.EmployeeRecord{
		EmployeeName:   "Alice",
		EmployeeID:     "E1",
		Department:     "Eng",
		Month:          "Jan",
		TasksCompleted: "Shipped 3 features",
		GoalsMet:       85,
	}
}

func TestBuildPrompt(t *testing.T) {
	Convey("Given a record without optional fields", t, func() {
		prompt := summary.BuildPrompt(alice())

		Convey("Then every required field is embedded", func() {
			So(prompt, ShouldContainSubstring, "Employee Name: Alice\n")
			So(prompt, ShouldContainSubstring, "Employee ID: E1\n")
			So(prompt, ShouldContainSubstring, "Department: Eng\n")
			So(prompt, ShouldContainSubstring, "Month: Jan\n")
			So(prompt, ShouldContainSubstring, "Tasks Completed: Shipped 3 features\n")
			So(prompt, ShouldContainSubstring, "Goals Met: 85%\n")
		})

		Convey("And the optional lines are left out", func() {
			So(prompt, ShouldNotContainSubstring, "Peer Feedback")
			So(prompt, ShouldNotContainSubstring, "Manager Comments")
		})

		Convey("And the instructions ask for a balanced 3-5 sentence review", func() {
			So(prompt, ShouldContainSubstring, "3-5 sentences")
			So(prompt, ShouldContainSubstring, "constructive and balanced")
			So(prompt, ShouldContainSubstring, "Areas of strength and opportunities for growth")
		})
	})

	Convey("Given a record with feedback and comments", t, func() {
		rec := alice()
		rec.GoalsMet = 72.5
		rec.PeerFeedback = model.StringPtr("Helpful reviewer")
		rec.ManagerComments = model.StringPtr("Ready for more scope")
		prompt := summary.BuildPrompt(rec)

		Convey("Then they are appended as labelled lines after the goals", func() {
			So(prompt, ShouldContainSubstring, "Goals Met: 72.5%\nPeer Feedback: Helpful reviewer\nManager Comments: Ready for more scope\n")
		})
	})

	Convey("Given FormatPercent", t, func() {
		So(summary.FormatPercent(0), ShouldEqual, "0%")
		So(summary.FormatPercent(100), ShouldEqual, "100%")
		So(summary.FormatPercent(33.25), ShouldEqual, "33.25%")
	})
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	Convey("Given a provider that succeeds", t, func() {
		p := &stubProvider{text: "  Alice had a strong month.\n"}
		s := summary.New(p)

		out := s.Summarize(ctx, alice())

		Convey("Then the text is trimmed and returned", func() {
			So(out, ShouldEqual, "Alice had a strong month.")
			So(summary.IsErrorSummary(out), ShouldBeFalse)
			So(p.prompts, ShouldHaveLength, 1)
			So(p.prompts[0], ShouldEqual, summary.BuildPrompt(alice()))
			So(s.ProviderName(), ShouldEqual, "stub")
		})
	})

	Convey("Given a provider that fails", t, func() {
		p := &stubProvider{err: summary.NewProviderError("stub", errors.New("quota exceeded"))}
		out := summary.New(p).Summarize(ctx, alice())

		Convey("Then the failure is embedded in the summary", func() {
			So(out, ShouldEqual, "Error generating summary: stub: quota exceeded")
			So(summary.IsErrorSummary(out), ShouldBeTrue)
		})
	})

	Convey("Given a provider that returns only whitespace", t, func() {
		out := summary.New(&stubProvider{text: " \n\t"}).Summarize(ctx, alice())

		Convey("Then it counts as an empty response failure", func() {
			So(out, ShouldStartWith, summary.ErrorPrefix)
			So(out, ShouldContainSubstring, summary.ErrEmptyResponse.Error())
		})
	})

	Convey("Given a provider that panics", t, func() {
		var out string
		So(func() { out = summary.New(&stubProvider{panics: true}).Summarize(ctx, alice()) }, ShouldNotPanic)

		Convey("Then the panic becomes an error summary", func() {
			So(out, ShouldStartWith, summary.ErrorPrefix)
			So(out, ShouldContainSubstring, "provider exploded")
		})
	})

	Convey("Given a provider slower than the configured timeout", t, func() {
		s := summary.New(&stubProvider{wait: true}, summary.WithTimeout(10*time.Millisecond))
		out := s.Summarize(ctx, alice())

		Convey("Then the call is cut off and reported", func() {
			So(out, ShouldStartWith, summary.ErrorPrefix)
			So(strings.Contains(out, "deadline exceeded"), ShouldBeTrue)
		})
	})
}

func TestProviderError(t *testing.T) {
	Convey("Given a provider error", t, func() {
		cause := errors.New("401 unauthorized")
		err := summary.NewProviderError("gemini", cause)

		Convey("Then it matches both the sentinel and the cause", func() {
			So(errors.Is(err, summary.ErrProvider), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "gemini: 401 unauthorized")
		})

		Convey("And a nil cause still renders", func() {
			So(summary.NewProviderError("x", nil).Error(), ShouldEqual, "x: summary provider failed")
		})
	})
}
