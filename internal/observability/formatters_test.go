package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dovvnloading/Leadz/internal/types"
)

func TestPrintJobRecord(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintJobRecord(&types.JobRecord{
		JobTitle:   "Senior Go Developer",
		Company:    "Acme",
		Location:   "Remote",
		Salary:     "$150k-$180k",
		JobType:    "Full-time",
		Experience: "Senior",
		Skills:     []string{"Go", "Kubernetes"},
		Summary:    "Own backend services.",
		URL:        "https://example.com/job/1",
	})

	out := buf.String()
	assert.Contains(t, out, "Senior Go Developer")
	assert.Contains(t, out, "Company:    Acme")
	assert.Contains(t, out, "Go, Kubernetes")
	assert.Contains(t, out, "https://example.com/job/1")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "└")
}

func TestPrintJobRecord_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintJobRecord(nil)
	assert.Empty(t, buf.String())
}

func TestPrintJobRecord_SkipsNASummary(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	printer.PrintJobRecord(&types.JobRecord{
		JobTitle: "Go Developer",
		Summary:  types.NotAvailable,
		URL:      "https://example.com",
	})

	// The N/A summary is omitted; only field rows carry N/A values.
	assert.NotContains(t, buf.String(), "\n│ N/A")
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStatus("Step 2/5: Searching the web...")
	assert.Equal(t, "• Step 2/5: Searching the web...\n", buf.String())
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 9)
	}
	assert.Equal(t, "one two three four five", strings.ReplaceAll(wrapped, "\n", " "))
}
