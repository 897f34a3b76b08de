// utils/dates.go
package utils

import "time"

const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Today formats the UTC calendar day of t as YYYY-MM-DD.
func Today(t time.Time) string {
	return BeginningOfDay(t.UTC()).Format(DateLayout)
}
