// Package validate holds checksum and shape checks applied to extracted
// banking identifiers.
package validate

import "strings"

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits     = "0123456789"
	upperAlnum = upperAlpha + digits
)

// LengthBetween returns true if n is within [min,max].
func LengthBetween(s string, min, max int) bool {
	n := len(s)
	return n >= min && n <= max
}

// IsAlphabet returns true if all characters in s are in allowed set.
func IsAlphabet(s, allowed string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(allowed, rune(s[i])) {
			return false
		}
	}
	return true
}

// IBAN checks structure and the ISO 13616 mod-97 checksum. Spaces are
// ignored; letters must be upper case.
func IBAN(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if !LengthBetween(s, 15, 34) {
		return false
	}
	if !IsAlphabet(s[:2], upperAlpha) || !IsAlphabet(s[2:4], digits) || !IsAlphabet(s[4:], upperAlnum) {
		return false
	}
	// country code and check digits move to the end
	rearranged := s[4:] + s[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		if c >= 'A' && c <= 'Z' {
			rem = (rem*100 + int(c-'A') + 10) % 97
			continue
		}
		rem = (rem*10 + int(c-'0')) % 97
	}
	return rem == 1
}

// ABARouting checks a 9-digit US routing number with the 3-7-1 weighted
// checksum.
func ABARouting(s string) bool {
	if len(s) != 9 || !IsAlphabet(s, digits) || s == "000000000" {
		return false
	}
	weights := [3]int{3, 7, 1}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * weights[i%3]
	}
	return sum%10 == 0
}
