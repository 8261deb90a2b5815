package phone

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestNormalizeFormatsUSNumber(t *testing.T) {
	got, err := Normalize("555-123-4567")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got != "+15551234567" {
		t.Fatalf("expected +15551234567, got %s", got)
	}
}

func TestNormalizePassesThroughInternational(t *testing.T) {
	got, err := Normalize("+44 20 7946 0958")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got != "+442079460958" {
		t.Fatalf("expected +442079460958, got %s", got)
	}
}

func TestNormalizeElevenDigitsUntouched(t *testing.T) {
	got, err := Normalize("1 (555) 123-4567")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got != "+15551234567" {
		t.Fatalf("expected +15551234567, got %s", got)
	}
}

func TestNormalizeTooShort(t *testing.T) {
	if _, err := Normalize("123"); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestNormalizeTooLong(t *testing.T) {
	if _, err := Normalize("1234567890123"); !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

// Letters are silently dropped, never translated to keypad digits. A
// vanity number therefore comes up short and is rejected.
func TestNormalizeDropsLetters(t *testing.T) {
	_, err := Normalize("1-800-FLOWERS")
	if !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber for vanity number, got %v", err)
	}
	if !strings.Contains(err.Error(), `"1800"`) {
		t.Fatalf("expected error to carry extracted digits, got %v", err)
	}
}

func TestNormalizeCanonicalShape(t *testing.T) {
	canon := regexp.MustCompile(`^\+\d{11,12}$`)
	inputs := []string{
		"5551234567",
		"15551234567",
		"442079460958",
		"(555) 123-4567",
		"+1 555 123 4567",
	}
	for _, in := range inputs {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("normalize(%q) failed: %v", in, err)
		}
		if !canon.MatchString(got) {
			t.Fatalf("normalize(%q) = %q, not canonical", in, got)
		}
	}
}

func TestNormalizeAllFailsWholeBatch(t *testing.T) {
	_, err := NormalizeAll([]string{"5551234567", "123"})
	if !errors.Is(err, ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestNormalizeAllPreservesOrder(t *testing.T) {
	got, err := NormalizeAll([]string{"555-123-4567", "442079460958"})
	if err != nil {
		t.Fatalf("normalize all failed: %v", err)
	}
	if len(got) != 2 || got[0] != "+15551234567" || got[1] != "+442079460958" {
		t.Fatalf("unexpected result: %v", got)
	}
}
