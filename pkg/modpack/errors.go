// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// KindUnknown classifies errors that did not originate in the engine.
	KindUnknown Kind = iota
	// KindNetwork covers request, connect, and non-success status failures.
	KindNetwork
	// KindDecode covers response bodies that are not valid manifests.
	KindDecode
	// KindHashMismatch is a computed digest that differs from a non-empty expected digest.
	KindHashMismatch
	// KindIO covers directory creation and file write failures.
	KindIO
	// KindInvalidArchiveEntry is an archive entry with an unsafe or unclassifiable path.
	KindInvalidArchiveEntry
	// KindExtraction covers every other archive processing failure.
	KindExtraction
)

var (
	// ErrNetwork is the sentinel wrapped by every KindNetwork error.
	ErrNetwork = errors.New("network error")
	// ErrDecode is the sentinel wrapped by every KindDecode error.
	ErrDecode = errors.New("decode error")
	// ErrHashMismatch is the sentinel wrapped by every KindHashMismatch error.
	ErrHashMismatch = errors.New("hash mismatch")
	// ErrIO is the sentinel wrapped by every KindIO error.
	ErrIO = errors.New("i/o error")
	// ErrInvalidArchiveEntry is the sentinel wrapped by every KindInvalidArchiveEntry error.
	ErrInvalidArchiveEntry = errors.New("invalid archive entry")
	// ErrExtraction is the sentinel wrapped by every KindExtraction error.
	ErrExtraction = errors.New("extraction error")

	// ErrInvalidPackID is returned for pack ids that cannot name a directory.
	ErrInvalidPackID = errors.New("invalid pack id")
)

type (
	// Kind categorizes an engine failure.
	Kind int

	// Error is the error type reported by every stage of the engine. It wraps
	// both the sentinel of its Kind and the underlying cause, so callers can
	// use errors.Is with either.
	Error struct {
		Kind Kind
		Op   string // Operation that failed, e.g. "download file"
		Path string // File, URL, or archive entry involved (optional)
		Err  error
	}

	// HashMismatchError reports a downloaded file whose SHA-1 digest differs
	// from the manifest. It wraps ErrHashMismatch.
	HashMismatchError struct {
		File     string
		Expected string
		Got      string
	}

	// InvalidEntryError reports an archive entry whose stored path contains a
	// component that is neither a plain name nor ".". It wraps
	// ErrInvalidArchiveEntry.
	InvalidEntryError struct {
		Entry     string
		Component string
	}
)

// NewError builds an *Error of the given kind.
func NewError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network_error"
	case KindDecode:
		return "decode_error"
	case KindHashMismatch:
		return "hash_mismatch"
	case KindIO:
		return "io_error"
	case KindInvalidArchiveEntry:
		return "invalid_archive_entry"
	case KindExtraction:
		return "extraction_error"
	case KindUnknown:
		return "unknown"
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindDecode:
		return ErrDecode
	case KindHashMismatch:
		return ErrHashMismatch
	case KindIO:
		return ErrIO
	case KindInvalidArchiveEntry:
		return ErrInvalidArchiveEntry
	case KindExtraction:
		return ErrExtraction
	case KindUnknown:
		return nil
	}
	return nil
}

// Error formats the failure as "<op> <path>: <cause>".
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	} else if s := e.Kind.sentinel(); s != nil {
		sb.WriteString(": ")
		sb.WriteString(s.Error())
	}
	return sb.String()
}

// Unwrap returns the kind sentinel and the cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Error shows both digests so a corrupted mirror can be told apart from a
// stale manifest.
func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("mismatched hashes for %s, expected: %s found: %s", e.File, e.Expected, e.Got)
}

// Unwrap returns ErrHashMismatch so callers can use errors.Is.
func (e *HashMismatchError) Unwrap() error { return ErrHashMismatch }

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("archive entry %q has invalid component %q", e.Entry, e.Component)
}

// Unwrap returns ErrInvalidArchiveEntry so callers can use errors.Is.
func (e *InvalidEntryError) Unwrap() error { return ErrInvalidArchiveEntry }

// KindOf classifies err. Errors that carry no engine kind return KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrHashMismatch):
		return KindHashMismatch
	case errors.Is(err, ErrInvalidArchiveEntry):
		return KindInvalidArchiveEntry
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrDecode):
		return KindDecode
	case errors.Is(err, ErrIO):
		return KindIO
	case errors.Is(err, ErrExtraction):
		return KindExtraction
	}
	return KindUnknown
}

// ValidatePackID rejects ids that are empty or would not resolve to a single
// directory below the destination root.
func ValidatePackID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, `/\`) || !filepath.IsLocal(id) {
		return fmt.Errorf("%w: %q", ErrInvalidPackID, id)
	}
	return nil
}
