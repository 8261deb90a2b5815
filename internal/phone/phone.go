// Package phone normalizes raw phone number strings into the canonical
// +<countrycode><subscriber> form used by the SMS dispatcher.
package phone

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidNumber is returned when a raw input does not yield a usable
// phone number after digit extraction.
var ErrInvalidNumber = errors.New("invalid phone number")

// digitRuns matches maximal runs of digit characters.
var digitRuns = regexp.MustCompile(`\d+`)

// defaultCountryCode is prepended to bare 10-digit subscriber numbers.
const defaultCountryCode = "1"

// Normalize cleans up a raw phone number string for sending SMS messages,
// e.g. "555-123-4567" becomes "+15551234567".
//
// All digit runs in the input are concatenated in order; everything else
// (punctuation, spaces, parentheses, letters) is discarded. The resulting
// digit string must be 10 to 12 digits long. A 10-digit number is assumed
// to be a US number and gets the "1" country code. Inputs of 11 or 12
// digits are passed through untouched, so callers in that range must
// already include a country code.
func Normalize(raw string) (string, error) {
	digits := strings.Join(digitRuns.FindAllString(raw, -1), "")

	if len(digits) < 10 || len(digits) > 12 {
		return "", fmt.Errorf("%w: %q is not between 10 and 12 digits", ErrInvalidNumber, digits)
	}

	if len(digits) == 10 {
		digits = defaultCountryCode + digits
	}

	return "+" + digits, nil
}

// NormalizeAll normalizes every number in order, failing on the first
// invalid entry. The whole batch is rejected when any entry is bad.
func NormalizeAll(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		n, err := Normalize(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
