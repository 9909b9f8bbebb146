package parse

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityError marks input that was rejected or dropped.
	SeverityError Severity = "error"
	// SeverityWarning marks input that was repaired.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks advisory notes that did not change anything.
	SeverityInfo Severity = "info"
)

// Diagnostic is a structured record of a repair, rejection or note.
type Diagnostic struct {
	Severity Severity    `json:"severity"`
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Location *Location   `json:"location,omitempty"` // nil if no source location
	SeeAlso  *Diagnostic `json:"seeAlso,omitempty"`  // related position, e.g. a previous occurrence
}

// Location identifies a position within a source.
type Location struct {
	Source string `json:"source"` // full name of the source
	Line   int    `json:"line"`   // 1-based
	Column int    `json:"column"` // 1-based
}

// LocationOf converts the 0-based position of item to a 1-based Location.
func LocationOf(item Item) *Location { return LocationAt(item.Pos()) }

// LocationAt converts a 0-based position to a 1-based Location.
func LocationAt(pos Position) *Location {
	name := ""
	if pos.Source != nil {
		name = pos.Source.FullName()
	}
	return &Location{Source: name, Line: pos.Line + 1, Column: pos.Column + 1}
}

// String renders d as "short[line:column]: message; see also: ...".
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Location != nil {
		fmt.Fprintf(&b, "%s[%d:%d]: ", filepath.Base(d.Location.Source), d.Location.Line, d.Location.Column)
	}
	b.WriteString(d.Message)
	if d.SeeAlso != nil {
		b.WriteString("; see also: ")
		b.WriteString(d.SeeAlso.String())
	}
	return b.String()
}

// Diagnostics is an ordered sink of diagnostics. The zero value is ready to use.
// It is not safe for concurrent use.
type Diagnostics struct {
	items []Diagnostic
}

// NewDiagnostics returns an empty sink.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Add appends d.
func (s *Diagnostics) Add(d Diagnostic) {
	s.items = append(s.items, d)
}

// At appends a diagnostic located at item.
func (s *Diagnostics) At(item Item, sev Severity, code, message string) {
	s.Add(Diagnostic{Severity: sev, Code: code, Message: message, Location: LocationOf(item)})
}

// AtSeeAlso appends a diagnostic located at item with a cross reference to related.
func (s *Diagnostics) AtSeeAlso(item Item, sev Severity, code, message string, related Item, relatedMessage string) {
	s.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  message,
		Location: LocationOf(item),
		SeeAlso:  SeeAlsoItem(related, relatedMessage),
	})
}

// All returns a copy of the recorded diagnostics in insertion order.
func (s *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (s *Diagnostics) Len() int { return len(s.items) }

// HasErrors reports whether any recorded diagnostic has error severity.
func (s *Diagnostics) HasErrors() bool {
	for _, d := range s.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// SeeAlsoItem returns a cross-reference diagnostic located at item.
func SeeAlsoItem(item Item, message string) *Diagnostic {
	return &Diagnostic{Message: message, Location: LocationOf(item)}
}
