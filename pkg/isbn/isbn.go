// Package isbn recognises, validates and decomposes International Standard
// Book Numbers (ISO 2108).
//
// Free text is reduced to a digit string by Recognize, the check digit is
// verified, and Decompose splits the 13 digits into GS1 prefix, registration
// group, registrant, publication and check digit using a RangeTable. 10-digit
// input is converted to its 978 form first.
//
// The package-level functions accept both 10- and 13-digit input and use the
// embedded range table. The iso2005 and iso2017 subpackages expose the
// dual-format and 13-only variants.
package isbn

import "sync"

var (
	defaultParserOnce sync.Once
	defaultParser     *Parser
)

func std() *Parser {
	defaultParserOnce.Do(func() {
		defaultParser = NewParser(DefaultRangeTable(), FormBoth)
	})
	return defaultParser
}

// Parse parses text with the default parser.
func Parse(text string) (Identifier, error) { return std().Parse(text) }

// MustParse parses text with the default parser and panics on failure.
func MustParse(text string) Identifier { return std().MustParse(text) }

// TryParse parses text with the default parser.
func TryParse(text string) (Identifier, bool) { return std().TryParse(text) }

// IsValid reports whether text parses with the default parser.
func IsValid(text string) bool { return std().IsValid(text) }

// ValidateChecksum reports whether text is recognised and carries a correct
// check digit, without consulting the range table.
func ValidateChecksum(text string) bool { return std().ValidateChecksum(text) }

// ParseResult parses text with the default parser and returns the outcome as
// a Result.
func ParseResult(text string) Result { return std().ParseResult(text) }
