package util

import (
	"fmt"
)

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthsBetween returns the calendar month difference between two year/month pairs.
// Days are ignored: Jan 31 -> Feb 1 is one month.
func MonthsBetween(startYear, startMonth, endYear, endMonth int) int {
	return (endYear-startYear)*12 + (endMonth - startMonth)
}

// FormatMonth formats year and month integers into "YYYY-MM"
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonth parses a "YYYY-MM" formatted string into year and month integers
func ParseMonth(value string) (year, month int, err error) {
	if len(value) != 7 || value[4] != '-' {
		return 0, 0, fmt.Errorf("invalid month format, expected YYYY-MM")
	}
	if _, err = fmt.Sscanf(value, "%04d-%02d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("invalid month format, expected YYYY-MM: %w", err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	return year, month, nil
}
