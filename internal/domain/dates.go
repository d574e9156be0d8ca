package domain

import "time"

const DateLayout = "2006-01-02"

// DateOf drops the clock part of t and returns midnight UTC of the same
// calendar day. Booking dates and birth dates are always stored this way.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DaysBetween counts calendar days from a to b. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// AgeOn returns the age in whole years reached on day for someone born on dob.
func AgeOn(dob, day time.Time) int {
	dob, day = DateOf(dob), DateOf(day)
	age := day.Year() - dob.Year()
	if dob.AddDate(age, 0, 0).After(day) {
		age--
	}
	return age
}
