package network

import "time"

// PeriodKey collapses a timestamp to its calendar month, formatted as
// "YYYY-MM" (e.g. "2024-03"). Every snapshot in the store is keyed by the
// string this returns.
func PeriodKey(t time.Time) string {
	return t.Format("2006-01")
}
