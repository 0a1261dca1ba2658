package isbn

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/width"
)

// Forms selects which digit counts a recognizer accepts.
type Forms uint8

const (
	Form13 Forms = 1 << iota
	Form10

	FormBoth = Form13 | Form10
)

const (
	lineBreaks = "\n\r\v\f\u0085\u2028\u2029"
	separators = "-./ \t"
)

type pattern struct {
	re     *regexp.Regexp
	body   int
	// spaced forms look through separators for a neighbouring digit run.
	spaced bool
}

// Candidate shapes in priority order. The GS1 prefix is pinned to 978/979 in
// the 13-digit forms except the DOI form, which carries any three digits.
var (
	forms13 = []pattern{
		{regexp.MustCompile(`97[89]\d{10}`), 0, false},
		{regexp.MustCompile(`97[89]-\d+-\d+-\d+-\d`), 0, false},
		{regexp.MustCompile(`97[89]\s+\d+\s+\d+\s+\d+\s+\d`), 0, true},
		{regexp.MustCompile(`10\.(\d{3}\.[\d.]+/\d+)`), 1, false},
	}
	forms10 = []pattern{
		{regexp.MustCompile(`\d{9}[\dXx]`), 0, false},
		{regexp.MustCompile(`\d+-\d+-\d+-[\dXx]`), 0, false},
		{regexp.MustCompile(`\d+(?:\.\d+)*\s+\d+(?:\.\d+)*\s+\d+(?:\.\d+)*\s+[\dXx]`), 0, true},
	}
)

// labelPattern finds length labels such as "ISBN-13", "ISBN 10" or "国际书号-13".
// A label number followed by a digit or a dot belongs to the identifier.
var labelPattern = regexp.MustCompile(`(?i)(?:ISBN|ИСБН|国际书号|國際書號)[ \-]?(10|13)(?:[^\d.]|$)`)

var dashes = strings.NewReplacer(
	"\u00a0", " ", "\u2007", " ", "\u202f", " ",
	"\u2010", "-", "\u2011", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-", "\u2212", "-",
)

// Recognize locates exactly one ISBN-shaped token in text and returns its
// separator-free digits (13 digits, or 10 characters with an upper-case X
// check). It does not verify the check digit.
func Recognize(text string, forms Forms) (string, error) {
	if strings.ContainsAny(text, lineBreaks) {
		return "", ErrInvalidFormat
	}
	text, declared, err := stripLabels(dashes.Replace(width.Fold.String(text)))
	if err != nil {
		return "", err
	}

	if forms&Form13 != 0 {
		found := candidates(text, forms13, 13)
		switch {
		case len(found) > 1:
			return "", ErrInvalidFormat
		case len(found) == 1:
			if declared == 10 {
				return "", ErrInvalidFormat
			}
			return found[0], nil
		}
	}
	if forms&Form10 != 0 && declared != 13 {
		if found := candidates(text, forms10, 10); len(found) == 1 {
			return found[0], nil
		}
	}
	return "", ErrInvalidFormat
}

// stripLabels blanks out length labels and reports the declared length, 0 if
// none. Labels declaring both lengths are rejected.
func stripLabels(text string) (string, int, error) {
	matches := labelPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0, nil
	}
	declared := 0
	var b strings.Builder
	last := 0
	for _, m := range matches {
		n := 10
		if text[m[2]:m[3]] == "13" {
			n = 13
		}
		if declared != 0 && declared != n {
			return "", 0, ErrInvalidFormat
		}
		declared = n
		b.WriteString(text[last:m[0]])
		b.WriteByte(' ')
		last = m[3]
	}
	b.WriteString(text[last:])
	return b.String(), declared, nil
}

// candidates returns the distinct digit strings produced by the first pattern
// that yields any well-bounded match of the wanted length.
func candidates(text string, patterns []pattern, length int) []string {
	for _, p := range patterns {
		var found []string
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if !bounded(text, m[0], m[1], p.spaced) {
				continue
			}
			digits := strings.ToUpper(stripSeparators(text[m[2*p.body]:m[2*p.body+1]]))
			if len(digits) != length {
				continue
			}
			if !slices.Contains(found, digits) {
				found = append(found, digits)
			}
		}
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// bounded reports whether the match text[start:end] is not glued to a digit
// or a trailing X. Spaced forms skip separator characters when looking for a
// neighbouring digit.
func bounded(text string, start, end int, spaced bool) bool {
	if end < len(text) && (text[end] == 'X' || text[end] == 'x') {
		return false
	}
	before, after := text[:start], text[end:]
	if spaced {
		before = strings.TrimRight(before, separators)
		after = strings.TrimLeft(after, separators)
	}
	if before != "" && isDigit(before[len(before)-1]) {
		return false
	}
	return after == "" || !isDigit(after[0])
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '.', '/', ' ', '\t':
			return -1
		}
		return r
	}, s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
