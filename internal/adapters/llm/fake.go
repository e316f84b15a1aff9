package llm

import (
	"context"
	"fmt"
	"strings"
)

// FakeName is the provider name reported in logs and metrics.
const FakeName = "fake"

// Fake is an offline provider. It builds a fixed-shape summary from the
// labelled lines of the prompt, so the same record always yields the same
// text.
type Fake struct{}

// NewFake creates the offline provider.
func NewFake() *Fake { return &Fake{} }

func (Fake) Name() string { return FakeName }

// Generate never fails unless ctx is already done.
func (Fake) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := promptField(prompt, "Employee Name")
	dept := promptField(prompt, "Department")
	month := promptField(prompt, "Month")
	goals := promptField(prompt, "Goals Met")
	tasks := promptField(prompt, "Tasks Completed")

	s := fmt.Sprintf("%s (%s) met %s of goals in %s. Key work: %s.", name, dept, goals, month, tasks)
	if fb := promptField(prompt, "Peer Feedback"); fb != "" {
		s += " Peers noted: " + fb + "."
	}
	if mc := promptField(prompt, "Manager Comments"); mc != "" {
		s += " Manager notes: " + mc + "."
	}
	return s, nil
}

func promptField(prompt, label string) string {
	for _, line := range strings.Split(prompt, "\n") {
		if v, ok := strings.CutPrefix(line, label+": "); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
