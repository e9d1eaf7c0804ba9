package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression_FieldCount(t *testing.T) {
	_, err := ParseCronExpression("0 3 * *")
	assert.Error(t, err)

	_, err = ParseCronExpression("0 3 * * * *")
	assert.Error(t, err)

	_, err = ParseCronExpression("0 3 * * *")
	assert.NoError(t, err)
}

func TestParseCronExpression_InvalidValues(t *testing.T) {
	_, err := ParseCronExpression("60 * * * *")
	assert.Error(t, err, "minute out of range")

	_, err = ParseCronExpression("* 24 * * *")
	assert.Error(t, err, "hour out of range")

	_, err = ParseCronExpression("x * * * *")
	assert.Error(t, err, "non-numeric value")

	_, err = ParseCronExpression("*/0 * * * *")
	assert.Error(t, err, "zero step")
}

func TestParseCronExpression_Steps(t *testing.T) {
	ce, err := ParseCronExpression("*/15 * * * *")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 15, 30, 45}, ce.minutes)
}

func TestParseCronExpression_RangesAndLists(t *testing.T) {
	ce, err := ParseCronExpression("0 9-11 * * 1,3,5")
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10, 11}, ce.hours)
	assert.Equal(t, []int{1, 3, 5}, ce.weekdays)
}

func TestCronExpression_NextDaily(t *testing.T) {
	ce := MustParseCronExpression("0 3 * * *")

	// Before 03:00 the same day.
	from := time.Date(2025, time.September, 10, 1, 30, 0, 0, time.UTC)
	next := ce.Next(from)
	assert.Equal(t, time.Date(2025, time.September, 10, 3, 0, 0, 0, time.UTC), next)

	// Exactly at 03:00 rolls over to the next day.
	next = ce.Next(next)
	assert.Equal(t, time.Date(2025, time.September, 11, 3, 0, 0, 0, time.UTC), next)
}

func TestCronExpression_NextWeekly(t *testing.T) {
	ce := MustParseCronExpression(EverySunday)

	// 2025-09-10 is a Wednesday.
	from := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)
	next := ce.Next(from)

	assert.Equal(t, time.Sunday, next.Weekday())
	assert.Equal(t, time.Date(2025, time.September, 14, 0, 0, 0, 0, time.UTC), next)
}

func TestCronExpression_NextEveryFiveMinutes(t *testing.T) {
	ce := MustParseCronExpression(Every5Minutes)

	from := time.Date(2025, time.September, 10, 12, 3, 20, 0, time.UTC)
	next := ce.Next(from)
	assert.Equal(t, time.Date(2025, time.September, 10, 12, 5, 0, 0, time.UTC), next)
}

func TestCronExpression_StringRoundTrip(t *testing.T) {
	ce := MustParseCronExpression("0 3 * * *")
	assert.Equal(t, "0 3 * * *", ce.String())
}

func TestMustParseCronExpression_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustParseCronExpression("not a cron")
	})
}

func TestCronPresets_AllParse(t *testing.T) {
	presets := []string{
		EveryMinute, Every5Minutes, Every10Minutes,
		EveryHour, EveryDay3AM, EveryDayMidnight, EverySunday,
	}
	for _, p := range presets {
		_, err := ParseCronExpression(p)
		assert.NoError(t, err, "preset %q", p)
	}
}

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(10 * time.Minute)

	from := time.Date(2025, time.September, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, from.Add(10*time.Minute), s.Next(from))
	assert.Equal(t, "@every 10m0s", s.String())
}
