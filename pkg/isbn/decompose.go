package isbn

import "strconv"

// Decompose splits a 13-digit string into its five elements using table.
// The check digit is not verified here.
func Decompose(raw13 string, table *RangeTable) (Identifier, error) {
	if len(raw13) != 13 || !allDigits(raw13) {
		return Identifier{}, ErrInvalidFormat
	}
	gs1, rest := raw13[:3], raw13[3:]
	if !table.HasPrefix(gs1) {
		return Identifier{}, ErrUnrecognisedPrefix
	}
	group, entry, ok := table.matchGroup(gs1, rest)
	if !ok {
		return Identifier{}, ErrUnrecognisedGroup
	}

	// remainder holds registrant, publication and the check digit; every
	// element but the check keeps at least one digit.
	remainder := rest[len(group):]
	for _, r := range entry.Rules {
		if r.Length > len(remainder)-2 {
			continue
		}
		v, err := strconv.Atoi(remainder[:r.Length])
		if err != nil || v < r.Low || v > r.High {
			continue
		}
		return Identifier{
			gs1:         gs1,
			group:       group,
			registrant:  remainder[:r.Length],
			publication: remainder[r.Length : len(remainder)-1],
			check:       remainder[len(remainder)-1:],
		}, nil
	}
	return Identifier{}, ErrUnrecognisedRegistrant
}

// To13 converts a checksum-valid 10-character ISBN to its 13-digit form under
// the 978 prefix, recomputing the check digit.
func To13(raw10 string) (string, error) {
	if len(raw10) != 10 || !allDigits(raw10[:9]) {
		return "", ErrInvalidFormat
	}
	body := "978" + raw10[:9]
	return body + string(checkDigit13(body)), nil
}
