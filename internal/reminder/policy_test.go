package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	today := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		due  time.Time
		want Classification
	}{
		{time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC), Classification{Category: Future}},
		{time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), Classification{Category: Tomorrow}},
		{time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), Classification{Category: Today}},
		{time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), Classification{Category: Overdue, DaysLate: 1}},
		{time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), Classification{Category: Overdue, DaysLate: 10}},
		// Month and year boundaries.
		{time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), Classification{Category: Future}},
		{time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), Classification{Category: Overdue, DaysLate: 365}},
	}

	for _, tt := range tests {
		t.Run(tt.due.Format(DateLayout), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.due, today))
		})
	}
}

func TestClassifyAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// The night of 2025-03-30 is 23 hours long in Berlin.
	today := time.Date(2025, time.March, 31, 8, 0, 0, 0, loc)
	due := time.Date(2025, time.March, 30, 0, 0, 0, 0, loc)

	assert.Equal(t, Classification{Category: Overdue, DaysLate: 1}, Classify(due, today))
}

func TestPolicyActive(t *testing.T) {
	p := DefaultPolicies()[Overdue]

	assert.False(t, p.Active(7))
	assert.True(t, p.Active(8))
	assert.True(t, p.Active(20))
	assert.False(t, p.Active(21))
}

func TestWithWindowLeavesOriginalUntouched(t *testing.T) {
	orig := DefaultPolicies()
	changed := orig.WithWindow(Today, Window{StartHour: 9, EndHour: 17, CooldownMinutes: 45})

	assert.Equal(t, 7, orig[Today].StartHour)
	assert.Equal(t, 15*time.Minute, orig[Today].Cooldown)
	assert.Equal(t, 9, changed[Today].StartHour)
	assert.Equal(t, 45*time.Minute, changed[Today].Cooldown)
	assert.Equal(t, "URGENT! Rent is due TODAY!", changed[Today].Message("Rent", Classification{Category: Today}))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "tomorrow", Tomorrow.String())
	assert.Equal(t, "overdue", Overdue.String())
	assert.Equal(t, "future", Future.String())
}
