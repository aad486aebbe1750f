package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/util"
)

// DateLayout is the wire format of every calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time component. The zero value is "no date".
type Date struct {
	t time.Time
}

// NewDate returns the date for the given year, month and day. Out of range
// days roll over the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals; it panics on malformed input.
func MustParseDate(value string) Date {
	d, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Time() time.Time   { return d.t }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// String returns the date as "YYYY-MM-DD", or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// AddMonths adds n calendar months without clamping the day, so Jan 31 + 1
// month lands in March. Historical payment dates and schedule due dates are
// both generated this way and must stay comparable.
func (d Date) AddMonths(n int) Date {
	return Date{t: d.t.AddDate(0, n, 0)}
}

// AddDays adds n days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of whole days from d to other (negative when other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// MonthKey returns the calendar month the date belongs to.
func (d Date) MonthKey() MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// MonthsUntil returns the calendar month difference from d to other, ignoring days.
func (d Date) MonthsUntil(other Date) int {
	return util.MonthsBetween(d.Year(), int(d.Month()), other.Year(), int(other.Month()))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthKey identifies a calendar month (year + month).
type MonthKey struct {
	Year  int
	Month time.Month
}

func (k MonthKey) String() string {
	return util.FormatMonth(k.Year, int(k.Month))
}

// ParseMonthKey parses "YYYY-MM".
func ParseMonthKey(value string) (MonthKey, error) {
	y, m, err := util.ParseMonth(value)
	if err != nil {
		return MonthKey{}, err
	}
	return MonthKey{Year: y, Month: time.Month(m)}, nil
}
