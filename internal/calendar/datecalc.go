package calendar

import (
	"fmt"
	"time"
)

// civil drops the clock and zone so arithmetic counts calendar days.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date n days after t. Negative n subtracts.
func AddDays(t time.Time, n int) time.Time {
	return civil(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b, negative
// when b is earlier.
func DaysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

// Age is an elapsed span expressed in calendar units.
type Age struct {
	Years     int `json:"years"`
	Months    int `json:"months"`
	Days      int `json:"days"`
	TotalDays int `json:"totalDays"`
}

// AgeOn computes the age on day "on" of someone born on birth. Whole
// years are counted first, then whole months from that anniversary, then
// the remaining days. Anniversaries that fall past a month end land on
// its last day.
func AgeOn(birth, on time.Time) (Age, error) {
	b, o := civil(birth), civil(on)
	if o.Before(b) {
		return Age{}, fmt.Errorf("birth date %s is after %s", b.Format("2006-01-02"), o.Format("2006-01-02"))
	}

	years := o.Year() - b.Year()
	if addMonthsClamped(b, 12*years).After(o) {
		years--
	}
	anniversary := addMonthsClamped(b, 12*years)

	months := monthsApart(anniversary, o)
	if addMonthsClamped(anniversary, months).After(o) {
		months--
	}
	monthAnchor := addMonthsClamped(anniversary, months)

	return Age{
		Years:     years,
		Months:    months,
		Days:      DaysBetween(monthAnchor, o),
		TotalDays: DaysBetween(b, o),
	}, nil
}

func monthsApart(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// addMonthsClamped adds n months to t, keeping the day of month unless
// the target month is shorter.
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(t.Day(), last), 0, 0, 0, 0, time.UTC)
}
