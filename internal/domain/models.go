package domain

import (
	"fmt"
	"strings"
)

// SyntaxKind names the syntax used to render an entry's description
type SyntaxKind string

// Syntax kinds understood by the preview
const (
	SyntaxPlain      SyntaxKind = "text/plain"
	SyntaxJava       SyntaxKind = "text/java"
	SyntaxKotlin     SyntaxKind = "text/kotlin"
	SyntaxSmali      SyntaxKind = "text/smali"
	SyntaxXML        SyntaxKind = "text/xml"
	SyntaxJSON       SyntaxKind = "text/json"
	SyntaxProperties SyntaxKind = "text/properties"
)

// ResultEntry is one item produced by a search engine.
// Implementations must be immutable once handed to the results store.
type ResultEntry interface {
	ID() string
	Name() string        // display string
	Description() string // code line or other description, "" when absent
	Syntax() SyntaxKind
	Ref() string // code node reference, "" when the entry has none
}

// Positioned is implemented by entries that carry a source position
type Positioned interface {
	Position() Position
}

// Position is a location inside a source or resource file
type Position struct {
	Path   string
	Line   int // 1-based, 0 when unknown
	Column int // 1-based, 0 when unknown
}

func (p Position) String() string {
	if p.Line <= 0 {
		return p.Path
	}
	if p.Column <= 0 {
		return fmt.Sprintf("%s:%d", p.Path, p.Line)
	}
	return fmt.Sprintf("%s:%d:%d", p.Path, p.Line, p.Column)
}

// PositionOf returns the entry's source position if it has one
func PositionOf(e ResultEntry) (Position, bool) {
	if p, ok := e.(Positioned); ok {
		return p.Position(), true
	}
	return Position{}, false
}

// HasDescription reports whether the entry has a non-empty description
func HasDescription(e ResultEntry) bool {
	return e != nil && e.Description() != ""
}

// Entry is the basic ResultEntry implementation
type Entry struct {
	EntryID string
	Label   string
	Desc    string
	Kind    SyntaxKind
	CodeRef string
}

func (e Entry) ID() string          { return e.EntryID }
func (e Entry) Name() string        { return e.Label }
func (e Entry) Description() string { return e.Desc }
func (e Entry) Ref() string         { return e.CodeRef }

func (e Entry) Syntax() SyntaxKind {
	if e.Kind == "" {
		return SyntaxPlain
	}
	return e.Kind
}

// PositionedEntry is an Entry that also knows where it lives in a file
type PositionedEntry struct {
	Entry
	Pos Position
}

func (e PositionedEntry) Position() Position { return e.Pos }

// CompareEntries is the default total order for result entries:
// display name case-insensitively, then case-sensitively, then ID.
func CompareEntries(a, b ResultEntry) int {
	if c := strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name())); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name(), b.Name()); c != 0 {
		return c
	}
	return strings.Compare(a.ID(), b.ID())
}

// JumpTarget is what a navigator is asked to open
type JumpTarget struct {
	Entry    ResultEntry
	Position *Position // nil when the entry has no source position
}

func (t JumpTarget) String() string {
	if t.Position != nil {
		return t.Position.String()
	}
	if t.Entry == nil {
		return ""
	}
	return t.Entry.Name()
}

// SessionState is the lifecycle state of one search session
type SessionState int

const (
	StateIdle SessionState = iota
	StateSearching
	StatePopulated
	StateComplete
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StatePopulated:
		return "populated"
	case StateComplete:
		return "complete"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
