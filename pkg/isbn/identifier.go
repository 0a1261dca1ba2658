package isbn

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Identifier is a fully decomposed, checksum-valid ISBN-13. The zero value is
// not a valid identifier. Identifiers are comparable with ==.
type Identifier struct {
	gs1         string
	group       string
	registrant  string
	publication string
	check       string
}

func (id Identifier) GS1() string         { return id.gs1 }
func (id Identifier) Group() string       { return id.group }
func (id Identifier) Registrant() string  { return id.registrant }
func (id Identifier) Publication() string { return id.publication }
func (id Identifier) CheckDigit() string  { return id.check }

// IsZero reports whether id is the zero Identifier.
func (id Identifier) IsZero() bool {
	return id == Identifier{}
}

// Components returns the five elements in order: GS1 prefix, group,
// registrant, publication and check digit.
func (id Identifier) Components() []string {
	return []string{id.gs1, id.group, id.registrant, id.publication, id.check}
}

// Components10 returns the four ISBN-10 elements with a recomputed check
// character. The ISBN-10 scheme only exists for the 978 prefix; for other
// prefixes the result is computed the same way and has no standing.
func (id Identifier) Components10() []string {
	body := id.group + id.registrant + id.publication
	return []string{id.group, id.registrant, id.publication, string(checkDigit10(body))}
}

// Digits returns the 13 digits without separators.
func (id Identifier) Digits() string {
	return strings.Join(id.Components(), "")
}

// Digits10 returns the 10-character form. See Components10.
func (id Identifier) Digits10() string {
	return strings.Join(id.Components10(), "")
}

// Hyphenated returns the 13-digit form with hyphens between elements.
func (id Identifier) Hyphenated() string {
	return strings.Join(id.Components(), "-")
}

// Hyphenated10 returns the 10-character form with hyphens between elements.
func (id Identifier) Hyphenated10() string {
	return strings.Join(id.Components10(), "-")
}

// String returns the display form, e.g. "ISBN 978-0-8021-3020-4".
func (id Identifier) String() string {
	if id.IsZero() {
		return ""
	}
	return "ISBN " + id.Hyphenated()
}

// Number returns the 13 digits as an integer.
func (id Identifier) Number() uint64 {
	n, _ := strconv.ParseUint(id.Digits(), 10, 64)
	return n
}

// Agency looks up the registration agency in the default range table.
func (id Identifier) Agency() string {
	return id.AgencyIn(DefaultRangeTable())
}

// AgencyIn looks up the registration agency in t. It returns "" when t does
// not know the identifier's group.
func (id Identifier) AgencyIn(t *RangeTable) string {
	a, _ := t.Agency(id.gs1, id.group)
	return a
}

// identifierJSON carries no agency: the name depends on the range table the
// identifier was decomposed against, which the value does not hold.
type identifierJSON struct {
	GS1         string `json:"gs1"`
	Group       string `json:"group"`
	Registrant  string `json:"registrant"`
	Publication string `json:"publication"`
	CheckDigit  string `json:"check_digit"`
	Digits      string `json:"digits"`
	Hyphenated  string `json:"hyphenated"`
}

func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(identifierJSON{
		GS1:         id.gs1,
		Group:       id.group,
		Registrant:  id.registrant,
		Publication: id.publication,
		CheckDigit:  id.check,
		Digits:      id.Digits(),
		Hyphenated:  id.Hyphenated(),
	})
}

// UnmarshalJSON accepts either the object written by MarshalJSON or a bare
// string, and re-parses the digits against the default table.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	var text string
	if len(data) > 0 && data[0] == '{' {
		var v identifierJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		text = v.Digits
	} else if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	return id.UnmarshalText([]byte(text))
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.Digits()), nil
}

func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value stores the identifier as its 13-digit string.
func (id Identifier) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.Digits(), nil
}

// Scan reads an identifier stored by Value.
func (id *Identifier) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = Identifier{}
		return nil
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	}
	return fmt.Errorf("isbn: cannot scan %T into Identifier", src)
}
