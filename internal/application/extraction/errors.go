package extraction

import (
	"errors"
	"fmt"
)

// Stage-level sentinels. Every *Error matches exactly one of them.
var (
	ErrNotFound      = errors.New("no structured value found")
	ErrParse         = errors.New("structured value is not valid JSON")
	ErrSchemaInvalid = errors.New("structured value does not match schema")
)

// Stage is where extraction stopped.
type Stage string

const (
	StageSearch   Stage = "search"
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
)

// Error is a classified extraction failure.
type Error struct {
	Stage  Stage
	Schema Schema
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Schema, e.sentinel())
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Schema, e.sentinel(), e.Err)
}

// Unwrap exposes both the stage sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *Error) sentinel() error {
	switch e.Stage {
	case StageSearch:
		return ErrNotFound
	case StageParse:
		return ErrParse
	default:
		return ErrSchemaInvalid
	}
}

func notFound(schema Schema, err error) *Error {
	return &Error{Stage: StageSearch, Schema: schema, Err: err}
}

func parseFailure(schema Schema, err error) *Error {
	return &Error{Stage: StageParse, Schema: schema, Err: err}
}

func schemaInvalid(schema Schema, err error) *Error {
	return &Error{Stage: StageValidate, Schema: schema, Err: err}
}
