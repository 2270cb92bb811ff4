package domain

import "errors"

// Error taxonomy surfaced by the API. Repositories and services wrap these
// so callers can classify failures with errors.Is.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingField       = errors.New("missing required field")
	ErrMalformedDate      = errors.New("malformed date, expected YYYY-MM-DD")
	ErrInvalidAmount      = errors.New("amount must be numeric")
	ErrNoFile             = errors.New("no file part")
	ErrEmptyFilename      = errors.New("no selected file")
	ErrNotFound           = errors.New("not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// Code returns the taxonomy name for err, or "" if err is unclassified.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return "DuplicateEmail"
	case errors.Is(err, ErrInvalidCredentials):
		return "InvalidCredentials"
	case errors.Is(err, ErrMissingField):
		return "MissingField"
	case errors.Is(err, ErrMalformedDate):
		return "MalformedDate"
	case errors.Is(err, ErrInvalidAmount):
		return "InvalidAmount"
	case errors.Is(err, ErrNoFile):
		return "NoFile"
	case errors.Is(err, ErrEmptyFilename):
		return "EmptyFilename"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrStoreUnavailable):
		return "StoreUnavailable"
	default:
		return ""
	}
}
