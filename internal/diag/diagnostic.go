package diag

import "fmt"

type Note struct {
	Subject string
	Msg     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  string
	Notes    []Note
}

func (d Diagnostic) String() string {
	if d.Subject == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Code.ID(), d.Subject, d.Message)
}

// Errorf builds a SevError diagnostic.
func Errorf(code Code, subject, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     code,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warningf builds a SevWarning diagnostic.
func Warningf(code Code, subject, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SevWarning,
		Code:     code,
		Subject:  subject,
		Message:  fmt.Sprintf(format, args...),
	}
}

// WithNote appends a note and returns the diagnostic for chaining.
func (d Diagnostic) WithNote(subject, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Subject: subject, Msg: msg})
	return d
}
