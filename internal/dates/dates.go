// Package dates formats publication dates for display. Month, day and year
// are zero-padded to two digits and taken from the time's own location.
package dates

import (
	"fmt"
	"time"
)

// MonthDay formats t as MM/DD.
func MonthDay(t time.Time) string {
	return fmt.Sprintf("%02d/%02d", int(t.Month()), t.Day())
}

// FullDate formats t as YYYY/MM/DD.
func FullDate(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%02d", t.Year(), int(t.Month()), t.Day())
}
