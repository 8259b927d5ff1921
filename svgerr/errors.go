// Package svgerr defines the errors reported while compiling
// an SVG document into a scene.
package svgerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind uint8

const (
	// MalformedDocument is a tokenizer level failure (broken XML).
	MalformedDocument Kind = iota
	// StackMismatch means the traversal or cascade stacks lost their
	// balance. It always denotes a bug.
	StackMismatch
	InvalidTransform
	MalformedNumber
	InvalidPathStart
	UnknownColorName
	InvalidAttributeValue
	// UnsupportedFeature is reported for constructs the compiler
	// recognizes but does not handle (em units, currentColor...).
	UnsupportedFeature
)

func (k Kind) String() string {
	switch k {
	case MalformedDocument:
		return "MalformedDocument"
	case StackMismatch:
		return "StackMismatch"
	case InvalidTransform:
		return "InvalidTransform"
	case MalformedNumber:
		return "MalformedNumber"
	case InvalidPathStart:
		return "InvalidPathStart"
	case UnknownColorName:
		return "UnknownColorName"
	case InvalidAttributeValue:
		return "InvalidAttributeValue"
	case UnsupportedFeature:
		return "UnsupportedFeature"
	default:
		return "<unknown Kind>"
	}
}

// Error is the single error type returned by the compiler.
// Pos is a byte offset inside the attribute value (-1 when unknown),
// Line and Col locate the element in the document (0 when unknown).
type Error struct {
	Kind Kind
	Attr string
	Pos  int
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Attr != "" {
		msg = fmt.Sprintf("%s (attribute %q)", msg, e.Attr)
	}
	if e.Line > 0 {
		return fmt.Sprintf("SVG Error (line %d, character %d): %s", e.Line, e.Col, msg)
	}
	return "SVG Error: " + msg
}

// New returns an error without location.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: -1, Msg: fmt.Sprintf(format, args...)}
}

// NewAt returns an error positioned at byte offset `pos` of the value of `attr`.
func NewAt(kind Kind, attr string, pos int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Attr: attr, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// At attaches a document location to `err`. Errors which
// are not *Error are wrapped as MalformedDocument.
// A location already set is kept, as it is the more precise one.
func At(err error, line, col int) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: MalformedDocument, Pos: -1, Line: line, Col: col, Msg: err.Error()}
	}
	if e.Line > 0 {
		return e
	}
	out := *e
	out.Line, out.Col = line, col
	return &out
}

// WithAttr sets the attribute name of `err` when it is an *Error
// and has none yet.
func WithAttr(err error, attr string) error {
	var e *Error
	if !errors.As(err, &e) || e.Attr != "" {
		return err
	}
	out := *e
	out.Attr = attr
	return &out
}

// Is reports whether `err` is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
