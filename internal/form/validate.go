package form

import (
	"regexp"
	"time"
)

// phoneRe accepts E.164 numbers, matching what the account backend enforces.
var phoneRe = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// ValidPhone reports whether a phone value passes the format check.
// Empty input is valid; required-field checks happen separately.
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phoneRe.MatchString(phone)
}

// ValidBirthDate reports whether a birth date satisfies the minimum age.
// A nil date is valid; required-field checks happen separately. Age is
// whole elapsed calendar years between the date and now.
func ValidBirthDate(birthDate *time.Time, now time.Time, minimumAgeYears int) bool {
	if birthDate == nil {
		return true
	}
	return wholeYears(*birthDate, now) >= minimumAgeYears
}

// wholeYears computes full calendar years elapsed from start to end.
func wholeYears(start, end time.Time) int {
	start, end = start.UTC(), end.UTC()
	years := end.Year() - start.Year()
	if end.Month() < start.Month() ||
		(end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}
