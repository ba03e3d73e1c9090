package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysLate(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	day := func(y int, m time.Month, d, hour, min int) time.Time {
		return time.Date(y, m, d, hour, min, 0, 0, wib)
	}

	tests := []struct {
		name     string
		returned time.Time
		deadline time.Time
		want     int
	}{
		{
			name:     "returning on the deadline day itself is not late",
			returned: day(2026, time.January, 29, 17, 30),
			deadline: day(2026, time.January, 29, 8, 0),
			want:     0,
		},
		{
			name:     "one day past the deadline",
			returned: day(2026, time.January, 30, 9, 0),
			deadline: day(2026, time.January, 29, 23, 0),
			want:     1,
		},
		{
			name:     "several days past the deadline",
			returned: day(2026, time.February, 3, 12, 0),
			deadline: day(2026, time.January, 29, 12, 0),
			want:     5,
		},
		{
			name:     "early return clamps to zero",
			returned: day(2026, time.January, 25, 10, 0),
			deadline: day(2026, time.January, 29, 10, 0),
			want:     0,
		},
		{
			name:     "minutes across midnight still count as a full day",
			returned: day(2026, time.January, 30, 0, 5),
			deadline: day(2026, time.January, 29, 23, 55),
			want:     1,
		},
		{
			// The deadline is stored as a UTC midnight; its calendar day must
			// hold even when the server clock runs west of UTC
			name:     "deadline day holds on a clock west of UTC",
			returned: time.Date(2026, time.January, 29, 10, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			deadline: time.Date(2026, time.January, 29, 0, 0, 0, 0, time.UTC),
			want:     0,
		},
		{
			name:     "one day past the deadline on a clock west of UTC",
			returned: time.Date(2026, time.January, 30, 10, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			deadline: time.Date(2026, time.January, 29, 0, 0, 0, 0, time.UTC),
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysLate(tt.returned, tt.deadline))
		})
	}
}

// A spring-forward day is only 23 hours long; counting late days as elapsed
// hours over 24 would swallow a day across the gap.
func TestDaysLateAcrossDSTGap(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// DST starts 2026-03-08 in America/New_York
	returned := time.Date(2026, time.March, 9, 10, 0, 0, 0, ny)
	deadline := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysLate(returned, deadline))
}

func TestFine(t *testing.T) {
	assert.Equal(t, int64(0), Fine(0, 5000))
	assert.Equal(t, int64(5000), Fine(1, 5000))
	assert.Equal(t, int64(10000), Fine(2, 5000))
	assert.Equal(t, int64(0), Fine(-3, 5000))
}

func TestFinePerDayFromEnv(t *testing.T) {
	t.Setenv("FINE_PER_DAY", "2500")
	assert.Equal(t, int64(2500), FinePerDayFromEnv())

	t.Setenv("FINE_PER_DAY", "")
	assert.Equal(t, DefaultFinePerDay, FinePerDayFromEnv())

	t.Setenv("FINE_PER_DAY", "not-a-number")
	assert.Equal(t, DefaultFinePerDay, FinePerDayFromEnv())

	t.Setenv("FINE_PER_DAY", "-100")
	assert.Equal(t, DefaultFinePerDay, FinePerDayFromEnv())
}
