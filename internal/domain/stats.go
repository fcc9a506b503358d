package domain

import "time"

// DailyCount number of appointments starting on a calendar day.
// Days with zero appointments are omitted (sparse series).
type DailyCount struct {
	Day   time.Time
	Count int
}

// HourCount number of appointments starting within an hour-of-day bucket (0-23)
type HourCount struct {
	Hour  int
	Count int
}

// RepeatCustomer visit rollup for one customer
type RepeatCustomer struct {
	Name      string
	Email     string
	Phone     *string
	Visits    int
	LastVisit time.Time
}

// StatusTotals per-status appointment counts over all time.
// Every status is always present, zero-filled when absent.
type StatusTotals struct {
	Scheduled int
	Confirmed int
	Cancelled int
	Completed int
	Total     int
}

// StatsReport агрегированная сводка загрузки для админки
type StatsReport struct {
	DailyVolume     []DailyCount
	HourlyHistogram []HourCount
	TopCustomers    []RepeatCustomer
	StatusTotals    StatusTotals
}
