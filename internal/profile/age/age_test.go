package age

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ref = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *time.Time { return &t }

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		birth *time.Time
		want  string
	}{
		{"just born", at(ref.Add(-30 * time.Minute)), "0 hours old"},
		{"five hours", at(ref.Add(-5 * time.Hour)), "5 hours old"},
		{"one day", at(ref.Add(-24 * time.Hour)), "1 days old"},
		{"ten days is never zero months", at(ref.AddDate(0, 0, -10)), "10 days old"},
		{"twenty nine days", at(ref.AddDate(0, 0, -29)), "29 days old"},
		{"two months", at(ref.AddDate(0, -2, -3)), "2 months old"},
		{"eleven months", at(ref.AddDate(0, -11, 0)), "11 months old"},
		{"one year", at(ref.AddDate(-1, 0, 0)), "1 years old"},
		{"thirty four years", at(time.Date(1992, 4, 2, 0, 0, 0, 0, time.UTC)), "34 years old"},
		{"nil birth date", nil, Unknown},
		{"future birth date", at(ref.Add(time.Hour)), Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeLabel(tt.birth, ref))
		})
	}
}

func TestComputeMonthBoundaries(t *testing.T) {
	t.Run("thirty days without a full calendar month stays in days", func(t *testing.T) {
		birth := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, "30 days old", ComputeLabel(&birth, now))
	})

	t.Run("end of month birthdays clamp", func(t *testing.T) {
		birth := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
		now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, "1 months old", ComputeLabel(&birth, now))
	})

	t.Run("month anniversary not yet reached", func(t *testing.T) {
		birth := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
		now := time.Date(2026, 11, 14, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, "1 months old", ComputeLabel(&birth, now))
	})
}

func TestComputedLabelsMatchPattern(t *testing.T) {
	for _, offset := range []time.Duration{time.Hour, 48 * time.Hour, 90 * 24 * time.Hour, 4000 * 24 * time.Hour} {
		assert.True(t, ValidLabel(ComputeLabel(at(ref.Add(-offset)), ref)))
	}
	assert.False(t, ValidLabel("3 years"))
	assert.False(t, ValidLabel("three years old"))
	assert.False(t, ValidLabel(""))
}

func TestClassifyBoundaries(t *testing.T) {
	birthdayYearsAgo := func(years int) time.Time { return ref.AddDate(-years, 0, 0) }

	assert.Equal(t, BucketChild, Classify(at(birthdayYearsAgo(18).Add(24*time.Hour)), ref), "17y364d")
	assert.Equal(t, BucketAdult, Classify(at(birthdayYearsAgo(18)), ref), "18y")
	assert.Equal(t, BucketAdult, Classify(at(birthdayYearsAgo(60).Add(24*time.Hour)), ref), "59y364d")
	assert.Equal(t, BucketSenior, Classify(at(birthdayYearsAgo(60)), ref), "60y")
	assert.Equal(t, BucketChild, Classify(at(ref.AddDate(0, 0, -3)), ref), "newborn")
	assert.Equal(t, BucketUnknown, Classify(nil, ref))
}

func TestYears(t *testing.T) {
	birth := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
	years, ok := Years(&birth, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	// Feb 29 anniversaries clamp to Feb 28 in common years.
	assert.Equal(t, 26, years)
}
