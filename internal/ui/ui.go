// Package ui renders human-facing CLI output for themeshift.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI styles.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

// Message symbols.
const (
	SymbolSuccess = "✔"
	SymbolError   = "✖"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Output writes styled messages to a terminal.
type Output struct {
	w       io.Writer
	noColor bool
	quiet   bool
	verbose bool
}

// NewOutput creates an Output writing to w.
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// DefaultOutput creates an Output for stdout. Colors are off when NO_COLOR
// is set.
func DefaultOutput() *Output {
	o := NewOutput(os.Stdout)
	o.noColor = os.Getenv("NO_COLOR") != ""
	return o
}

// SetNoColor disables colors.
func (o *Output) SetNoColor(noColor bool) { o.noColor = noColor }

// SetQuiet suppresses everything but errors.
func (o *Output) SetQuiet(quiet bool) { o.quiet = quiet }

// SetVerbose enables Debug messages.
func (o *Output) SetVerbose(verbose bool) { o.verbose = verbose }

func (o *Output) style(code, text string) string {
	if o.noColor {
		return text
	}
	return code + text + Reset
}

func (o *Output) line(symbol, code, format string, args []any) {
	fmt.Fprintf(o.w, "%s %s\n", o.style(code, symbol), fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (o *Output) Success(format string, args ...any) {
	if !o.quiet {
		o.line(SymbolSuccess, Green, format, args)
	}
}

// Error prints an error message, even in quiet mode.
func (o *Output) Error(format string, args ...any) {
	o.line(SymbolError, Red, format, args)
}

// ErrorWithHint prints an error followed by a suggestion.
func (o *Output) ErrorWithHint(err, hint string) {
	o.line(SymbolError, Red, "%s", []any{err})
	fmt.Fprintf(o.w, "  %s %s\n", o.style(Gray, "Hint:"), hint)
}

// Warning prints a warning.
func (o *Output) Warning(format string, args ...any) {
	if !o.quiet {
		o.line(SymbolWarning, Yellow, format, args)
	}
}

// Info prints an informational message.
func (o *Output) Info(format string, args ...any) {
	if !o.quiet {
		o.line(SymbolInfo, Blue, format, args)
	}
}

// Debug prints a message in verbose mode only.
func (o *Output) Debug(format string, args ...any) {
	if o.verbose {
		fmt.Fprintf(o.w, "%s %s\n", o.style(Gray, "[DEBUG]"), fmt.Sprintf(format, args...))
	}
}

// Print prints a plain line.
func (o *Output) Print(format string, args ...any) {
	if !o.quiet {
		fmt.Fprintf(o.w, format+"\n", args...)
	}
}

// Section prints a bold heading.
func (o *Output) Section(title string) {
	if !o.quiet {
		fmt.Fprintln(o.w, o.style(Bold, title))
	}
}

// Field prints an indented label and value. Empty values print as "-".
func (o *Output) Field(label, value string) {
	o.FieldColored(label, value, "")
}

// FieldColored prints a field whose value is styled with code.
func (o *Output) FieldColored(label, value, code string) {
	if o.quiet {
		return
	}
	if value == "" {
		value = "-"
	} else if code != "" {
		value = o.style(code, value)
	}
	fmt.Fprintf(o.w, "  %s %s\n", o.style(Gray, label+":"), value)
}

// Table prints rows under headers with padded columns.
func (o *Output) Table(headers []string, rows [][]string) {
	if o.quiet {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	render := func(cells []string) string {
		var b strings.Builder
		for i := 0; i < len(cells) && i < len(widths); i++ {
			fmt.Fprintf(&b, "%-*s  ", widths[i], cells[i])
		}
		return strings.TrimRight(b.String(), " ")
	}

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}

	fmt.Fprintln(o.w, o.style(Bold, render(headers)))
	fmt.Fprintln(o.w, o.style(Gray, render(sep)))
	for _, row := range rows {
		fmt.Fprintln(o.w, render(row))
	}
}

// ColorSwatch prints a 24-bit color block followed by hex and an optional
// label.
func (o *Output) ColorSwatch(hex, label string) {
	if o.quiet {
		return
	}

	var r, g, b int
	_, _ = fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)

	block := "  "
	if !o.noColor {
		block = fmt.Sprintf("\033[48;2;%d;%d;%dm  %s", r, g, b, Reset)
	}
	if label != "" {
		fmt.Fprintf(o.w, "%s %s  %s\n", block, hex, label)
		return
	}
	fmt.Fprintf(o.w, "%s %s\n", block, hex)
}
