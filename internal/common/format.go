package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultWidth = 80

// Report writes the boxed console layout used by the command-line tools
type Report struct {
	out   io.Writer
	width int
}

func NewReport(out io.Writer, width int) *Report {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Report{out: out, width: width}
}

func (r *Report) Separator(char string) {
	fmt.Fprintln(r.out, strings.Repeat(char, r.width))
}

// Header prints a title framed by separators
func (r *Report) Header(title string) {
	fmt.Fprintln(r.out)
	r.Separator("=")
	fmt.Fprintln(r.out, title)
	r.Separator("=")
}

func (r *Report) Footer(message string) {
	fmt.Fprintln(r.out)
	r.Separator("=")
	fmt.Fprintln(r.out, message)
	r.Separator("=")
	fmt.Fprintln(r.out)
}

// Section opens a box for one entity, followed by its detail lines
func (r *Report) Section(title string, details ...string) {
	fmt.Fprintf(r.out, "\n┌─ %s\n", title)
	for _, d := range details {
		fmt.Fprintf(r.out, "│  %s\n", d)
	}
	fmt.Fprintln(r.out, "├"+strings.Repeat("─", r.width-2))
}

// Item prints one line inside a section
func (r *Report) Item(label, value string, isLast bool) {
	fmt.Fprintf(r.out, "%s %-18s: %s\n", BoxPrefix(isLast), label, value)
}

// BoxPrefix returns the appropriate box-drawing prefix for list items
func BoxPrefix(isLast bool) string {
	if isLast {
		return "└"
	}
	return "│"
}

// FormatMoney renders an amount with two decimals, right aligned
func FormatMoney(amount decimal.Decimal) string {
	return fmt.Sprintf("%14s", amount.StringFixed(2))
}

// ShortId truncates long identifiers for console output.
func ShortId(id string) string {
	if id == "" {
		return "none"
	}
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
