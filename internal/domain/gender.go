package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownValue = errors.New("unknown enum value")

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender accepts either case and rejects anything outside the closed set.
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToUpper(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale:
		return g, nil
	}
	return "", fmt.Errorf("%w: gender %q", ErrUnknownValue, s)
}

// Opposite returns the gender shown to this one in discovery.
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}
