package ingest

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrNotSvg         = errors.New("file is not an SVG")
	ErrTooLarge       = errors.New("file exceeds the size limit")
	ErrUnreadableFile = errors.New("file could not be read")
	ErrMalformedSvg   = errors.New("malformed SVG")
	ErrProcessing     = errors.New("SVG processing failed")
	ErrDuplicateName  = errors.New("an icon with this name already exists")
	ErrInvalidName    = errors.New("invalid icon name")
)

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	NotSvg         ValidationKind = "not_svg"
	TooLarge       ValidationKind = "too_large"
	UnreadableFile ValidationKind = "unreadable_file"
)

// ValidationError rejects a file before its content is parsed.
type ValidationError struct {
	Kind  ValidationKind
	File  string
	Size  int64
	Limit int64
	Err   error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case NotSvg:
		return fmt.Sprintf("%s: %s", e.File, ErrNotSvg)
	case TooLarge:
		return fmt.Sprintf("%s: %s (%d bytes, limit %d)", e.File, ErrTooLarge, e.Size, e.Limit)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.File, ErrUnreadableFile, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.File, ErrUnreadableFile)
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	switch e.Kind {
	case NotSvg:
		return target == ErrNotSvg
	case TooLarge:
		return target == ErrTooLarge
	case UnreadableFile:
		return target == ErrUnreadableFile
	}
	return false
}

// ProcessingKind classifies a ProcessingError.
type ProcessingKind string

const (
	MalformedSvg     ProcessingKind = "malformed_svg"
	ProcessingFailed ProcessingKind = "processing_failed"
)

// ProcessingError reports accepted content that cannot be canonicalised.
// Err carries the original cause.
type ProcessingError struct {
	Kind ProcessingKind
	Err  error
}

func (e *ProcessingError) Error() string {
	prefix := ErrProcessing.Error()
	if e.Kind == MalformedSvg {
		prefix = ErrMalformedSvg.Error()
	}
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func (e *ProcessingError) Is(target error) bool {
	if e.Kind == MalformedSvg {
		return target == ErrMalformedSvg
	}
	return target == ErrProcessing
}

// IngestionKind classifies an IngestionError.
type IngestionKind string

const (
	DuplicateName IngestionKind = "duplicate_name"
	InvalidName   IngestionKind = "invalid_name"
)

// IngestionError is a business-rule rejection of an otherwise valid icon.
type IngestionError struct {
	Kind IngestionKind
	Name string
}

func (e *IngestionError) Error() string {
	if e.Kind == DuplicateName {
		return fmt.Sprintf("%s: %q", ErrDuplicateName, e.Name)
	}
	return fmt.Sprintf("%s: %q", ErrInvalidName, e.Name)
}

func (e *IngestionError) Is(target error) bool {
	if e.Kind == DuplicateName {
		return target == ErrDuplicateName
	}
	return target == ErrInvalidName
}
