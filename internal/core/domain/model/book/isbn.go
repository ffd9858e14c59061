package book

import (
	"fmt"
	"strings"

	"bookstore/internal/pkg/errs"
)

// ISBN is a checksum-validated ISBN-10 or ISBN-13, stored without hyphens.
type ISBN struct {
	value string
}

// NewISBN parses an ISBN with or without hyphens.
func NewISBN(raw string) (ISBN, error) {
	clean := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", ""))

	var ok bool
	switch len(clean) {
	case 10:
		ok = validISBN10(clean)
	case 13:
		ok = validISBN13(clean)
	}
	if !ok {
		return ISBN{}, errs.NewValueIsInvalidErrorWithCause("isbn", fmt.Errorf("%q is not a valid ISBN", raw))
	}

	return ISBN{value: clean}, nil
}

// String returns the ISBN without hyphens.
func (i ISBN) String() string {
	return i.value
}

// IsZero reports whether the ISBN was never parsed.
func (i ISBN) IsZero() bool {
	return i.value == ""
}

func validISBN10(s string) bool {
	sum := 0
	for i := 0; i < 9; i++ {
		d, ok := digit(s[i])
		if !ok {
			return false
		}
		sum += d * (10 - i)
	}
	check, ok := digit(s[9])
	if s[9] == 'X' {
		check, ok = 10, true
	}
	if !ok {
		return false
	}
	return (sum+check)%11 == 0
}

func validISBN13(s string) bool {
	sum := 0
	for i := 0; i < 12; i++ {
		d, ok := digit(s[i])
		if !ok {
			return false
		}
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check, ok := digit(s[12])
	return ok && (10-sum%10)%10 == check
}

func digit(b byte) (int, bool) {
	if b < '0' || b > '9' {
		return 0, false
	}
	return int(b - '0'), true
}
