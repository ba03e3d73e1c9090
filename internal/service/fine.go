package service

import (
	"os"
	"strconv"
	"time"
)

// DefaultFinePerDay is the fallback daily fine in rupiah when FINE_PER_DAY is unset
const DefaultFinePerDay int64 = 5000

// FinePerDayFromEnv reads the daily fine rate from the environment
func FinePerDayFromEnv() int64 {
	raw := os.Getenv("FINE_PER_DAY")
	if raw == "" {
		return DefaultFinePerDay
	}
	rate, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || rate < 0 {
		return DefaultFinePerDay
	}
	return rate
}

// DaysLate returns how many whole calendar days returnedAt falls after deadline.
// Each timestamp is reduced to the calendar day it reads in its own location:
// a deadline stored as a UTC midnight keeps its intended day no matter what zone
// the server clock runs in, and handing equipment back any time on the deadline
// day itself counts as zero days late. The difference is taken between UTC
// midnights, which are always exact 24h multiples apart regardless of DST.
// Early returns clamp to zero.
func DaysLate(returnedAt, deadline time.Time) int {
	r := time.Date(returnedAt.Year(), returnedAt.Month(), returnedAt.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, time.UTC)

	late := int(r.Sub(d) / (24 * time.Hour))
	if late < 0 {
		return 0
	}
	return late
}

// Fine is the late fee for a return: days late times the daily rate
func Fine(daysLate int, finePerDay int64) int64 {
	if daysLate <= 0 {
		return 0
	}
	return int64(daysLate) * finePerDay
}
