package diagnostic

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Diagnostic codes.
const (
	CodeMatched  = "matched"
	CodeDropped  = "dropped"
	CodeUnset    = "unset"
	CodeSimilar  = "similar"
	CodeDispatch = "dispatch"
	CodeBuild    = "build"
)

// Diagnostics holds all diagnostic information of one explanation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// TypePair identifies which type mapping this relates to (if any).
	TypePair string
	// FieldPath identifies which member this relates to (if any).
	FieldPath string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return "unknown"
	}
}

// Add records a diagnostic under the list matching its severity.
func (d *Diagnostics) Add(severity DiagnosticSeverity, code, message, typePair, fieldPath string) {
	diag := Diagnostic{
		Severity:  severity,
		Code:      code,
		Message:   message,
		TypePair:  typePair,
		FieldPath: fieldPath,
	}

	switch severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

func (d *Diagnostics) AddError(code, message, typePair, fieldPath string) {
	d.Add(DiagnosticError, code, message, typePair, fieldPath)
}

func (d *Diagnostics) AddWarning(code, message, typePair, fieldPath string) {
	d.Add(DiagnosticWarning, code, message, typePair, fieldPath)
}

func (d *Diagnostics) AddInfo(code, message, typePair, fieldPath string) {
	d.Add(DiagnosticInfo, code, message, typePair, fieldPath)
}

// Codes lists the codes of all diagnostics in All order.
func (d *Diagnostics) Codes() []string {
	all := d.All()

	res := make([]string, 0, len(all))
	for _, diag := range all {
		res = append(res, diag.Code)
	}

	return res
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	res := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	res = append(res, d.Errors...)
	res = append(res, d.Warnings...)

	return append(res, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.TypePair != "" {
		prefix = append(prefix, "["+d.TypePair+"]")
	}

	if d.FieldPath != "" {
		prefix = append(prefix, d.FieldPath)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
