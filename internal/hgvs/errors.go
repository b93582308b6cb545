package hgvs

import "errors"

// Parsing failures. Callers compare with errors.Is; the wrapped message
// carries the offending input.
var (
	ErrMalformedURL     = errors.New("malformed url")
	ErrTagNotFound      = errors.New("tag not found")
	ErrUnrecognizedCode = errors.New("unrecognized amino acid code")
	ErrInvalidNotation  = errors.New("invalid p-dot notation")
)

// KindOf returns a short name for the notation error wrapped by err,
// or "" if err is not one of this package's sentinels.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedURL):
		return "MalformedURL"
	case errors.Is(err, ErrTagNotFound):
		return "TagNotFound"
	case errors.Is(err, ErrUnrecognizedCode):
		return "UnrecognizedCode"
	case errors.Is(err, ErrInvalidNotation):
		return "InvalidNotation"
	}
	return ""
}
