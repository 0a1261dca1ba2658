package isbn

import "strings"

// checkDigit13 computes the ISBN-13 check digit over 12 decimal digits.
// Weights alternate 1 and 3 starting from the left.
func checkDigit13(d string) byte {
	sum := 0
	for i := 0; i < 12; i++ {
		n := int(d[i] - '0')
		if i%2 == 1 {
			n *= 3
		}
		sum += n
	}
	return byte('0' + (10-sum%10)%10)
}

// checkDigit10 computes the ISBN-10 check character over 9 decimal digits.
// Weights run 10 down to 2; a remainder of 10 is written as 'X'.
func checkDigit10(d string) byte {
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(d[i]-'0') * (10 - i)
	}
	c := (11 - sum%11) % 11
	if c == 10 {
		return 'X'
	}
	return byte('0' + c)
}

// ComputeCheckDigit returns the check character for a 12-digit (ISBN-13) or
// 9-digit (ISBN-10) payload. Any other length yields ErrWrongLength; a
// payload of the right length with a non-digit yields ErrInvalidFormat.
func ComputeCheckDigit(digits string) (string, error) {
	switch len(digits) {
	case 12:
		if !allDigits(digits) {
			return "", ErrInvalidFormat
		}
		return string(checkDigit13(digits)), nil
	case 9:
		if !allDigits(digits) {
			return "", ErrInvalidFormat
		}
		return string(checkDigit10(digits)), nil
	}
	return "", ErrWrongLength
}

// CheckDigit is ComputeCheckDigit with the error folded into ok.
func CheckDigit(digits string) (string, bool) {
	c, err := ComputeCheckDigit(digits)
	return c, err == nil
}

// ValidChecksum reports whether raw is a 13-digit string or a 10-character
// string (nine digits and a digit or X) whose last character matches the
// computed check character.
func ValidChecksum(raw string) bool {
	switch len(raw) {
	case 13:
		return allDigits(raw) && checkDigit13(raw) == raw[12]
	case 10:
		if !allDigits(raw[:9]) {
			return false
		}
		return checkDigit10(raw) == strings.ToUpper(raw[9:])[0]
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
