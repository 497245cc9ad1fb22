package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompare pins the branch order of the display comparator.
func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		da, db int
		want   int
	}{
		{"Today beats future", 0, 3, -1},
		{"Today beats past", 0, -3, -1},
		{"Future loses to today", 3, 0, 1},
		{"Past loses to today", -3, 0, 1},
		{"Both today, first checked wins", 0, 0, -1},
		{"Sooner future first", 2, 9, -1},
		{"Later future second", 9, 2, 1},
		{"Equal future", 4, 4, 0},
		{"Future before past", 1, -1, -1},
		{"Past after future", -1, 1, 1},
		{"Recent past first", -1, -10, -1},
		{"Older past second", -10, -1, 1},
		{"Equal past", -7, -7, 0},
		{"Unknown sorts after past", -300, UnknownOffset, -1},
		{"Unknown sorts after future", UnknownOffset, 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.da, tt.db))
		})
	}
}

func TestSign(t *testing.T) {
	assert.Equal(t, -1, sign(-42))
	assert.Equal(t, 0, sign(0))
	assert.Equal(t, 1, sign(7))
}

// TestDaysBetween_DST verifies that calendar-day arithmetic is not skewed
// by the 23h or 25h days of a DST transition.
func TestDaysBetween_DST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// 2025-03-30 is the spring-forward day in Europe.
	from := time.Date(2025, 3, 29, 0, 0, 0, 0, loc)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, daysBetween(from, to))
	assert.Equal(t, -2, daysBetween(to, from))

	// 2025-10-26 is the fall-back day.
	from = time.Date(2025, 10, 25, 0, 0, 0, 0, loc)
	to = time.Date(2025, 10, 27, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, daysBetween(from, to))
}

func TestGuardTable(t *testing.T) {
	err := guardTable(func() { panic("bad lunar day") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad lunar day")

	assert.NoError(t, guardTable(func() {}))
}

func TestParseVCardDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantMonth time.Month
		wantDay   int
		wantYear  int
		yearKnown bool
		wantErr   bool
	}{
		{"ISO dashed", "1990-04-12", time.April, 12, 1990, true, false},
		{"ISO basic", "19900412", time.April, 12, 1990, true, false},
		{"RFC3339", "1990-04-12T00:00:00Z", time.April, 12, 1990, true, false},
		{"No year dashed", "--04-12", time.April, 12, 0, false, false},
		{"No year basic", "--0412", time.April, 12, 0, false, false},
		{"Leap day without year", "--02-29", time.February, 29, 0, false, false},
		{"Garbage", "April 12th", 0, 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, yearKnown, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.yearKnown, yearKnown)
			assert.Equal(t, tt.wantMonth, got.Month())
			assert.Equal(t, tt.wantDay, got.Day())
			if tt.yearKnown {
				assert.Equal(t, tt.wantYear, got.Year())
			}
		})
	}
}

type failingConverter struct{}

func (failingConverter) LunarToSolar(int, int, int) (time.Time, Precision, error) {
	return time.Time{}, PrecisionExact, errors.New("no table entry")
}

func TestGenerator_LunarToSolarFallback(t *testing.T) {
	g := &Generator{Converter: failingConverter{}}
	assert.Equal(t, time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), g.lunarToSolar(2025, 10, 9))

	g = &Generator{}
	assert.Equal(t, time.Date(2026, 11, 18, 0, 0, 0, 0, time.UTC), g.lunarToSolar(2026, 10, 9),
		"A nil converter defaults to the anchored model")
}

func TestYearlyRule(t *testing.T) {
	rule, err := yearlyRule(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "FREQ=YEARLY;BYMONTH=2;BYMONTHDAY=29", rule)

	rule, err = yearlyRule(time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=31", rule)
}

func TestExpansionYears(t *testing.T) {
	years, err := expansionYears(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2026, 2027}, years)

	years, err = expansionYears(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025, 2026, 2027, 2028}, years)
}
