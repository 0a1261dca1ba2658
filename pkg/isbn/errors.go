package isbn

import "errors"

// Data errors. The messages are part of the public contract and are matched
// verbatim by callers, so they keep their historical capitalisation.
var (
	ErrInvalidFormat          = errors.New("Invalid ISBN format")
	ErrInvalidCheckDigit      = errors.New("Invalid ISBN Check Digit")
	ErrUnrecognisedPrefix     = errors.New("Invalid ISBN GS1 prefix")
	ErrUnrecognisedGroup      = errors.New("Unrecognised ISBN group element")
	ErrUnrecognisedRegistrant = errors.New("Unrecognised ISBN registrant element")
)

// Programmer errors. These report misuse of the API rather than bad input text.
var (
	ErrUnsupportedFormat = errors.New("isbn: unsupported format selector")
	ErrWrongLength       = errors.New("isbn: check digit needs 9 or 12 digits")
)

// Kind classifies an error returned by this package.
type Kind string

const (
	KindNone                   Kind = ""
	KindInvalidFormat          Kind = "invalid_format"
	KindInvalidCheckDigit      Kind = "invalid_check_digit"
	KindUnrecognisedPrefix     Kind = "unrecognised_prefix"
	KindUnrecognisedGroup      Kind = "unrecognised_group"
	KindUnrecognisedRegistrant Kind = "unrecognised_registrant"
	KindUnsupportedFormat      Kind = "unsupported_format"
	KindWrongLength            Kind = "wrong_length"
	KindUnknown                Kind = "unknown"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidFormat, KindInvalidFormat},
	{ErrInvalidCheckDigit, KindInvalidCheckDigit},
	{ErrUnrecognisedPrefix, KindUnrecognisedPrefix},
	{ErrUnrecognisedGroup, KindUnrecognisedGroup},
	{ErrUnrecognisedRegistrant, KindUnrecognisedRegistrant},
	{ErrUnsupportedFormat, KindUnsupportedFormat},
	{ErrWrongLength, KindWrongLength},
}

// KindOf reports the Kind of err. A nil error has KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// IsDataError reports whether err describes bad input text, as opposed to API misuse.
func IsDataError(err error) bool {
	switch KindOf(err) {
	case KindInvalidFormat, KindInvalidCheckDigit, KindUnrecognisedPrefix,
		KindUnrecognisedGroup, KindUnrecognisedRegistrant:
		return true
	}
	return false
}
