package marc

import (
	"regexp"
	"strings"

	"github.com/yourusername/open-isbn/pkg/isbn"
)

// trailingQualifier matches the "(pbk.)" style note older records append to
// the number itself.
var trailingQualifier = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)[\s:;.]*$`)

// ISBNEntry is one standard-number subfield and what parsing it produced.
type ISBNEntry struct {
	Tag       string      `json:"tag"`
	Code      string      `json:"code"`
	Raw       string      `json:"raw"`
	Qualifier string      `json:"qualifier,omitempty"`
	Cancelled bool        `json:"cancelled,omitempty"`
	Result    isbn.Result `json:"result"`
}

// ExtractISBNs parses every ISBN and cancelled-ISBN subfield of the profile's
// standard-number field. A nil parser uses the package default.
func ExtractISBNs(r *Record, p Profile, parser *isbn.Parser) []ISBNEntry {
	if parser == nil {
		parser = isbn.NewParser(nil, isbn.FormBoth)
	}
	var out []ISBNEntry
	for _, f := range r.FieldsByTag(p.ISBNTag) {
		var qualifiers []string
		if p.QualifierCode != "" {
			qualifiers = f.Subfield(p.QualifierCode)
		}
		for _, s := range f.Subfields {
			if s.Code != p.ISBNCode && s.Code != p.CancelledCode {
				continue
			}
			number, note := splitQualifier(s.Value)
			q := qualifiers
			if note != "" {
				q = append([]string{note}, qualifiers...)
			}
			out = append(out, ISBNEntry{
				Tag:       f.Tag,
				Code:      s.Code,
				Raw:       s.Value,
				Qualifier: strings.Join(q, "; "),
				Cancelled: s.Code == p.CancelledCode,
				Result:    parser.ParseResult(number),
			})
		}
	}
	return out
}

func splitQualifier(v string) (number, qualifier string) {
	v = strings.TrimSpace(v)
	if m := trailingQualifier.FindStringSubmatch(v); m != nil {
		return m[1], strings.TrimSpace(m[2])
	}
	return strings.TrimRight(v, " :;"), ""
}
