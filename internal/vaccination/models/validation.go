package models

import (
	"regexp"
	"strings"

	dErrors "vaxreg/pkg/domain-errors"
)

const (
	// NationalIDLength is the exact digit count of a citizen's national ID.
	NationalIDLength = 12
	// PhoneLength is the exact digit count of a phone number.
	PhoneLength = 10
	// MinimumAge is the lowest age eligible for registration.
	MinimumAge = 12
)

var (
	nationalIDPattern = regexp.MustCompile(`^[0-9]{12}$`)
	phonePattern      = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidateID fails with CodeInvalidFormat unless id is exactly 12 ASCII digits.
func ValidateID(id string) error {
	if !nationalIDPattern.MatchString(id) {
		return dErrors.New(dErrors.CodeInvalidFormat, "invalid national ID: must be 12 digits")
	}
	return nil
}

// ValidatePhone fails with CodeInvalidFormat unless phone is exactly 10 ASCII digits.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return dErrors.New(dErrors.CodeInvalidFormat, "invalid phone: must be 10 digits")
	}
	return nil
}

// ValidateAge fails with CodeIneligibleAge when age is below MinimumAge.
func ValidateAge(age int) error {
	if age < MinimumAge {
		return dErrors.New(dErrors.CodeIneligibleAge, "age must be 12 or above")
	}
	return nil
}

// ValidateName rejects names that cannot live on a single record line.
func ValidateName(name string) error {
	if strings.ContainsAny(name, "\r\n") {
		return dErrors.New(dErrors.CodeInvalidFormat, "name must not contain line breaks")
	}
	return nil
}

// ValidateCenterID fails with CodeInvalidFormat for a blank or multi-line ID.
func ValidateCenterID(id string) error {
	if strings.TrimSpace(id) == "" {
		return dErrors.New(dErrors.CodeInvalidFormat, "center ID required")
	}
	if strings.ContainsAny(id, "\r\n") {
		return dErrors.New(dErrors.CodeInvalidFormat, "center ID must not contain line breaks")
	}
	return nil
}

// ValidateCapacity fails with CodeInvalidFormat for a non-positive daily capacity.
func ValidateCapacity(capacity int) error {
	if capacity <= 0 {
		return dErrors.New(dErrors.CodeInvalidFormat, "daily capacity must be a positive integer")
	}
	return nil
}
