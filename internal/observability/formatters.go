// Package observability provides formatted console output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/dovvnloading/Leadz/internal/types"
)

// boxWidth is the width of formatted output boxes.
const boxWidth = 64

// Printer handles formatted output for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a bordered box with a title and content lines.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobRecord outputs a job card for a discovered listing.
func (p *Printer) PrintJobRecord(record *types.JobRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:    %s\n", record.Company))
	sb.WriteString(fmt.Sprintf("Location:   %s\n", record.Location))
	sb.WriteString(fmt.Sprintf("Salary:     %s\n", record.Salary))
	sb.WriteString(fmt.Sprintf("Type:       %s\n", record.JobType))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", record.Experience))
	if len(record.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:     %s\n", strings.Join(record.Skills, ", ")))
	}
	if record.Summary != "" && record.Summary != types.NotAvailable {
		sb.WriteString("\n")
		sb.WriteString(wrapText(record.Summary, boxWidth-4))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\n%s", record.URL))

	p.printBox(record.JobTitle, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatus outputs a progress line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStatus(message string) {
	fmt.Fprintf(p.out, "• %s\n", message)
}

// wrapText wraps text at word boundaries to the given width.
func wrapText(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				sb.WriteString("\n")
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
