package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"typeconv/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.Faint)
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <subject>: <SEV> <CODE>: <Message>
// затем Notes с отступом. Цвет следует color.NoColor.
func Pretty(w io.Writer, bag *diag.Bag) error {
	if bag == nil {
		return nil
	}
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintln(w, Line(d)); err != nil {
			return err
		}
		for _, n := range d.Notes {
			line := "  " + noteColor.Sprint("note:") + " "
			if n.Subject != "" {
				line += n.Subject + ": "
			}
			if _, err := fmt.Fprintln(w, line+n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Line renders the head line of one diagnostic.
func Line(d diag.Diagnostic) string {
	sev := severityColor(d.Severity).Sprint(d.Severity.String())
	head := fmt.Sprintf("%s %s: %s", sev, d.Code.ID(), d.Message)
	if d.Subject == "" {
		return head
	}
	return d.Subject + ": " + head
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}
