package tileset

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput means the document could not be parsed as XML at all.
	ErrMalformedInput = errors.New("malformed tileset input")
	// ErrSchemaViolation means the XML parsed but does not describe a valid tileset.
	ErrSchemaViolation = errors.New("tileset schema violation")
)

// SchemaError pinpoints the element or attribute that broke the schema.
// Path looks like "tileset@tilecount" or "tile[27]/object[1]/polygon@points".
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrSchemaViolation, e.Path, e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaViolation
}

func schemaErr(path, format string, args ...any) error {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedInput, err)
}
