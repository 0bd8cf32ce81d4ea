package parser

import (
	"fmt"
	"strings"

	"github.com/svgpathturtle/svgpathturtle/token"
)

// Label classifies a Diagnostic by severity.
type Label int

const (
	Info Label = iota
	Warning
	Error
	Panic
	Fatal
)

func (l Label) String() string {
	switch l {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Panic:
		return "panic"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Diagnostic is one message produced while parsing a single file:
// syntax errors, a resynchronization panic, or an informational note.
type Diagnostic struct {
	Filename string
	Pos      token.Position
	Label    Label
	Message  string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Filename, d.Pos.Line, d.Pos.Column, d.Label, d.Message)
}

// Diagnostics collects every message produced across a parse, including
// whatever files it transitively imports.
type Diagnostics struct {
	items []*Diagnostic
}

// Add appends a diagnostic.
func (d *Diagnostics) Add(diag *Diagnostic) {
	d.items = append(d.items, diag)
}

// All returns every diagnostic recorded so far, in the order reported.
func (d *Diagnostics) All() []*Diagnostic {
	return d.items
}

// HasError reports whether any recorded diagnostic is Error, Panic, or
// Fatal severity: the run's compiled program is not safe to execute.
func (d *Diagnostics) HasError() bool {
	for _, item := range d.items {
		if item.Label >= Error {
			return true
		}
	}
	return false
}

// String renders every diagnostic, one per line, in report order.
func (d *Diagnostics) String() string {
	var b strings.Builder
	for _, item := range d.items {
		b.WriteString(item.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
