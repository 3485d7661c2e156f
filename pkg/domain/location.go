package domain

import "fmt"

// Range is a half-open byte range [Start, End) into a source file.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Valid reports whether the range is well-formed for a source of the given length.
func (r Range) Valid(sourceLen int) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= sourceLen
}

// Overlaps reports whether two ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Position is a 1-based line and column in source code.
type Position struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Location represents a span in source code.
type Location struct {
	File      string `json:"file"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	StartCol  int    `json:"startCol,omitempty"`
	EndCol    int    `json:"endCol,omitempty"`
}

// NewLocation builds a Location from start and end positions.
func NewLocation(file string, start, end Position) Location {
	return Location{
		File:      file,
		StartLine: start.Line,
		EndLine:   end.Line,
		StartCol:  start.Col,
		EndCol:    end.Col,
	}
}

// Start returns the start position of the location.
func (l Location) Start() Position {
	return Position{Line: l.StartLine, Col: l.StartCol}
}

// String returns the location in file:line:col format.
func (l Location) String() string {
	if l.StartLine == 0 {
		return l.File
	}
	if l.StartCol > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
	}
	return fmt.Sprintf("%s:%d", l.File, l.StartLine)
}
