package grid

import (
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EmailPattern matches a standard local@domain.tld address.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email checks a cell against EmailPattern.
func Email(message string) validation.Rule {
	return validation.Match(EmailPattern).Error(message)
}

// IntRange checks that a cell is a whole number within [lo, hi].
// Anything else, including decimals, fails with message.
func IntRange(lo, hi int, message string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		n, err := strconv.Atoi(s)
		if err != nil || n < lo || n > hi {
			return validation.NewError("validation_int_range", message)
		}
		return nil
	})
}

// NonNegativeNumber checks that a cell parses as a number >= 0.
func NonNegativeNumber(message string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		n, ok := ParseNumber(s)
		if !ok || n < 0 {
			return validation.NewError("validation_non_negative", message)
		}
		return nil
	})
}
