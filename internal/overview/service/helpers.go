package service

import "time"

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func startOfNextMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0)
}
