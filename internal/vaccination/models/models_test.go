package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vaxreg/pkg/domain-errors"
)

func TestValidationRules(t *testing.T) {
	t.Run("national ID must be exactly 12 digits", func(t *testing.T) {
		assert.NoError(t, ValidateID("123456789012"))
		for _, bad := range []string{"", "12345678901", "1234567890123", "12345678901a", " 23456789012", "１２３４５６７８９０１２"} {
			err := ValidateID(bad)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat), "id %q", bad)
		}
	})

	t.Run("phone must be exactly 10 digits", func(t *testing.T) {
		assert.NoError(t, ValidatePhone("9876543210"))
		for _, bad := range []string{"", "987654321", "98765432101", "98765-4321"} {
			err := ValidatePhone(bad)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat), "phone %q", bad)
		}
	})

	t.Run("age must be at least 12", func(t *testing.T) {
		assert.NoError(t, ValidateAge(12))
		assert.NoError(t, ValidateAge(90))
		assert.True(t, dErrors.HasCode(ValidateAge(11), dErrors.CodeIneligibleAge))
		assert.True(t, dErrors.HasCode(ValidateAge(-1), dErrors.CodeIneligibleAge))
	})

	t.Run("capacity must be positive", func(t *testing.T) {
		assert.NoError(t, ValidateCapacity(1))
		assert.True(t, dErrors.HasCode(ValidateCapacity(0), dErrors.CodeInvalidFormat))
		assert.True(t, dErrors.HasCode(ValidateCapacity(-3), dErrors.CodeInvalidFormat))
	})

	t.Run("center ID must not be blank", func(t *testing.T) {
		assert.NoError(t, ValidateCenterID("C001"))
		assert.True(t, dErrors.HasCode(ValidateCenterID("  "), dErrors.CodeInvalidFormat))
	})
}

func TestNewCitizen(t *testing.T) {
	t.Run("first failing rule wins: age before phone before id", func(t *testing.T) {
		_, err := NewCitizen("A", 5, "bad", "bad")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIneligibleAge))

		_, err = NewCitizen("A", 30, "bad", "bad")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "phone")

		_, err = NewCitizen("A", 30, "9876543210", "bad")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "national ID")
	})

	t.Run("valid citizen starts with no doses", func(t *testing.T) {
		c, err := NewCitizen("Asha Patil", 34, "9876543210", "123456789012")
		require.NoError(t, err)
		assert.False(t, c.Dose1Completed)
		assert.False(t, c.Dose2Completed)
		assert.Equal(t, "Citizen: Asha Patil (34), Phone: 9876543210, ID: 123456789012, Dose1: No, Dose2: No", c.String())
	})

	t.Run("names with line breaks are rejected", func(t *testing.T) {
		_, err := NewCitizen("A\nB", 30, "9876543210", "123456789012")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat))
	})
}

func TestCitizenMarkDose(t *testing.T) {
	c := &Citizen{ID: "123456789012"}

	assert.True(t, c.MarkDose(DoseFirst))
	assert.False(t, c.MarkDose(DoseFirst), "second mark is a no-op")
	assert.True(t, c.Dose1Completed)
	assert.False(t, c.Dose2Completed)

	assert.True(t, c.MarkDose(DoseSecond))
	assert.True(t, c.DoseCompleted(DoseSecond))
}

func TestNewCenter(t *testing.T) {
	c, err := NewCenter("C001", "City Hospital", "Solapur", 5)
	require.NoError(t, err)
	assert.Equal(t, "C001 - City Hospital (Solapur), Capacity: 5", c.String())

	_, err = NewCenter("", "x", "y", 5)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat))

	_, err = NewCenter("C009", "x", "y", 0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat))
}

func TestDate(t *testing.T) {
	t.Run("parse and format round trip", func(t *testing.T) {
		d, err := ParseDate("2024-01-10")
		require.NoError(t, err)
		assert.Equal(t, MustDate(2024, time.January, 10), d)
		assert.Equal(t, "2024-01-10", d.String())
	})

	t.Run("rejects malformed and impossible dates", func(t *testing.T) {
		for _, bad := range []string{"", "2024-1-10", "10/01/2024", "2024-02-30"} {
			_, err := ParseDate(bad)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat), "date %q", bad)
		}
		_, err := NewDate(2023, time.February, 29)
		assert.Error(t, err)
	})

	t.Run("add days crosses month and year boundaries", func(t *testing.T) {
		assert.Equal(t, MustDate(2024, time.March, 1), MustDate(2024, time.February, 29).AddDays(1))
		assert.Equal(t, MustDate(2025, time.January, 1), MustDate(2024, time.December, 31).AddDays(1))
		assert.Equal(t, MustDate(2024, time.December, 31), MustDate(2025, time.January, 1).AddDays(-1))
	})

	t.Run("calendar day ignores time of day and zone", func(t *testing.T) {
		late := time.Date(2024, 1, 9, 23, 59, 0, 0, time.FixedZone("IST", 5*3600+1800))
		assert.Equal(t, MustDate(2024, time.January, 9), DateOf(late))
	})

	t.Run("ordering", func(t *testing.T) {
		a := MustDate(2024, time.January, 10)
		b := MustDate(2024, time.January, 11)
		assert.True(t, a.Before(b))
		assert.True(t, b.After(a))
		assert.Equal(t, 0, a.Compare(MustDate(2024, time.January, 10)))
	})

	t.Run("json uses ISO text", func(t *testing.T) {
		raw, err := json.Marshal(struct {
			D Date `json:"d"`
		}{MustDate(2024, time.January, 10)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"d":"2024-01-10"}`, string(raw))

		var out struct {
			D Date `json:"d"`
		}
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, MustDate(2024, time.January, 10), out.D)
	})
}

func TestParseDoseKind(t *testing.T) {
	for in, want := range map[string]DoseKind{
		"FIRST": DoseFirst, "first": DoseFirst, "DOSE1": DoseFirst,
		"SECOND": DoseSecond, "DOSE2": DoseSecond, "2": DoseSecond,
	} {
		got, err := ParseDoseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDoseKind("THIRD")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidFormat))
}

func TestStaffDisplay(t *testing.T) {
	s := Staff{Person: Person{Name: "Ravi", Age: 41, Phone: "9000000001"}, StaffID: "S-7", Role: "nurse"}
	assert.Equal(t, "Staff: Ravi (41), Phone: 9000000001, ID: S-7, Role: nurse", s.String())
}
