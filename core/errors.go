package core

import "fmt"

// SourceError means the repository could not be cloned or opened.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to open repository %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// EnumerationError means branch data could not be listed from an opened repository.
type EnumerationError struct {
	Source string
	Err    error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to list branches of %s: %v", e.Source, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// SerializationError means the report could not be rendered as JSON.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize branch report: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
