package metrics

import (
	"errors"
	"fmt"

	"github.com/TpouHuK/halstead-js/internal/fileproc"
	sitter "github.com/smacker/go-tree-sitter"
)

var (
	// ErrUnsupportedTarget is returned when an assignment target is not a plain identifier.
	ErrUnsupportedTarget = errors.New("unsupported assignment target")

	// ErrTypeArguments is returned for calls with explicit type arguments.
	ErrTypeArguments = errors.New("explicit type arguments are not supported")

	// ErrSyntax is returned when the tree contains parse errors.
	ErrSyntax = errors.New("syntax error")

	// ErrFileTooLarge is returned when a file exceeds the configured size limit.
	ErrFileTooLarge = fileproc.ErrFileTooLarge
)

// MalformedInputError describes a construct the engine refuses to measure.
type MalformedInputError struct {
	Kind   string // tree-sitter node kind of the offending node
	Text   string
	Line   uint32 // 1-based
	Column uint32 // 1-based
	Err    error
}

func newMalformedInputError(node *sitter.Node, source []byte, err error) *MalformedInputError {
	pt := node.StartPoint()
	text := node.Content(source)
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return &MalformedInputError{
		Kind:   node.Type(),
		Text:   text,
		Line:   pt.Row + 1,
		Column: pt.Column + 1,
		Err:    err,
	}
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%d:%d: %v: %s %q", e.Line, e.Column, e.Err, e.Kind, e.Text)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
