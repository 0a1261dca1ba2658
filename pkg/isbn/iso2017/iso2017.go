// Package iso2017 presents ISBNs as described by ISO 2108:2017, which only
// admits the 13-digit form.
package iso2017

import "github.com/yourusername/open-isbn/pkg/isbn"

// ISBN is a decomposed 13-digit identifier.
type ISBN struct {
	id isbn.Identifier
}

var parser = isbn.NewParser(nil, isbn.Form13)

// Parse parses 13-digit free text. 10-digit input is an invalid format.
func Parse(text string) (ISBN, error) {
	id, err := parser.Parse(text)
	if err != nil {
		return ISBN{}, err
	}
	return ISBN{id: id}, nil
}

func MustParse(text string) ISBN {
	i, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return i
}

func TryParse(text string) (ISBN, bool) {
	i, err := Parse(text)
	return i, err == nil
}

func IsValid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

func ParseResult(text string) isbn.Result {
	return parser.ParseResult(text)
}

// FromIdentifier wraps an already decomposed identifier.
func FromIdentifier(id isbn.Identifier) ISBN { return ISBN{id: id} }

func (i ISBN) Identifier() isbn.Identifier { return i.id }
func (i ISBN) Components() []string        { return i.id.Components() }
func (i ISBN) Digits() string              { return i.id.Digits() }
func (i ISBN) Hyphenated() string          { return i.id.Hyphenated() }
func (i ISBN) Agency() string              { return i.id.Agency() }
func (i ISBN) Number() uint64              { return i.id.Number() }

// String renders "ISBN " followed by the hyphenated elements.
func (i ISBN) String() string { return i.id.String() }

func (i ISBN) MarshalJSON() ([]byte, error) { return i.id.MarshalJSON() }
