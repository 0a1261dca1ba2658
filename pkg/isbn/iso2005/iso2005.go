// Package iso2005 presents ISBNs as described by ISO 2108:2005, which admits
// both the 13-digit form and the legacy 10-digit form.
package iso2005

import (
	"strings"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

// Format selects how an ISBN is rendered.
type Format string

const (
	// FormatDefault renders the 13-digit elements under the plain "ISBN" label.
	FormatDefault Format = "ISBN"
	FormatISBN13  Format = "ISBN-13"
	FormatISBN10  Format = "ISBN-10"
)

// ParseFormat maps a selector string to a Format. The empty string selects
// FormatDefault.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatDefault, nil
	case FormatDefault, FormatISBN13, FormatISBN10:
		return f, nil
	}
	return "", isbn.ErrUnsupportedFormat
}

// ISBN is a decomposed identifier accepted from either 10- or 13-digit input.
type ISBN struct {
	id isbn.Identifier
}

var parser = isbn.NewParser(nil, isbn.FormBoth)

// Parse parses 10- or 13-digit free text against the default range table.
func Parse(text string) (ISBN, error) {
	id, err := parser.Parse(text)
	if err != nil {
		return ISBN{}, err
	}
	return ISBN{id: id}, nil
}

// MustParse is like Parse but panics on failure.
func MustParse(text string) ISBN {
	i, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return i
}

// TryParse is like Parse but reports failure as ok == false.
func TryParse(text string) (ISBN, bool) {
	i, err := Parse(text)
	return i, err == nil
}

// IsValid reports whether text parses.
func IsValid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// ParseResult parses text and returns the serialisable outcome.
func ParseResult(text string) isbn.Result {
	return parser.ParseResult(text)
}

// FromIdentifier wraps an already decomposed identifier.
func FromIdentifier(id isbn.Identifier) ISBN {
	return ISBN{id: id}
}

// Identifier returns the underlying decomposed value.
func (i ISBN) Identifier() isbn.Identifier { return i.id }

// Components returns five elements for the 13-digit formats and four, with a
// recomputed check character, for FormatISBN10.
func (i ISBN) Components(f Format) ([]string, error) {
	switch f {
	case "", FormatDefault, FormatISBN13:
		return i.id.Components(), nil
	case FormatISBN10:
		return i.id.Components10(), nil
	}
	return nil, isbn.ErrUnsupportedFormat
}

// Digits returns the separator-free form for f.
func (i ISBN) Digits(f Format) (string, error) {
	c, err := i.Components(f)
	if err != nil {
		return "", err
	}
	return strings.Join(c, ""), nil
}

// Format renders the label and the hyphenated elements, for example
// "ISBN-10 0-14-002346-1" or "ISBN 978-0-14-002346-6".
func (i ISBN) Format(f Format) (string, error) {
	c, err := i.Components(f)
	if err != nil {
		return "", err
	}
	if f == "" {
		f = FormatDefault
	}
	return string(f) + " " + strings.Join(c, "-"), nil
}

// String renders FormatDefault.
func (i ISBN) String() string {
	s, _ := i.Format(FormatDefault)
	return s
}

// Agency returns the registration agency name from the default range table.
func (i ISBN) Agency() string { return i.id.Agency() }

// Number returns the 13 digits as an integer.
func (i ISBN) Number() uint64 { return i.id.Number() }

func (i ISBN) MarshalJSON() ([]byte, error) { return i.id.MarshalJSON() }
