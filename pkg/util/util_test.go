package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateKey(t *testing.T) {
	loc := time.UTC
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, loc)

	for _, key := range []string{
		"2024-03-05",
		"Tue Mar 05 2024",
		"2024-03-05T14:30:00Z",
		"2024-03-05T14:30:00.123Z",
		"  2024-03-05 ",
	} {
		t.Run(key, func(t *testing.T) {
			got, err := ParseDateKey(key, loc)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	_, err := ParseDateKey("", loc)
	assert.Error(t, err)
	_, err = ParseDateKey("not a date", loc)
	assert.Error(t, err)
}

func TestParseDateKey_InstantUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	got, err := ParseDateKey("2024-03-05T20:00:00Z", tokyo)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Day())
}

func TestSameDay(t *testing.T) {
	day := time.Date(2024, time.March, 5, 17, 45, 0, 0, time.Local)
	assert.True(t, SameDay("2024-03-05", day))
	assert.True(t, SameDay("Tue Mar 05 2024", day))
	assert.False(t, SameDay("2024-03-06", day))
	assert.False(t, SameDay("garbage", day))
}

func TestNormalizeDateKey(t *testing.T) {
	assert.Equal(t, "2024-03-05", NormalizeDateKey("Tue Mar 05 2024"))
	assert.Equal(t, "garbage", NormalizeDateKey("garbage"))
}

func TestDayBounds(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 13, 14, 15, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), StartOfDay(ts))

	end := EndOfDay(ts)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, 999*time.Millisecond, time.Duration(end.Nanosecond()))
}

func TestHours(t *testing.T) {
	assert.Equal(t, 3.5, RoundHours(3.49999))
	assert.Equal(t, "1.5", FormatHours(1.5))
	assert.Equal(t, "0.0", FormatHours(0))

	assert.Equal(t, "30 mins", HumanHours(0.5))
	assert.Equal(t, "1 hr", HumanHours(1))
	assert.Equal(t, "1 hr 30 mins", HumanHours(1.5))
	assert.Equal(t, "3 hrs", HumanHours(3))
	assert.Equal(t, "2 hrs 30 mins", HumanHours(2.5))
}
