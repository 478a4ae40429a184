package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-15 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2024, 1, 15, hour, minute, 0, 0, time.Local)
}

func TestWeekdayIndex(t *testing.T) {
	cases := []struct {
		day  string
		want int
	}{
		{"monday", 0},
		{"Monday", 0},
		{"WEDNESDAY", 2},
		{" sunday ", 6},
	}
	for _, c := range cases {
		got, err := WeekdayIndex(c.day)
		require.NoError(t, err, c.day)
		assert.Equal(t, c.want, got, c.day)
	}

	_, err := WeekdayIndex("sundnay")
	var idErr *InvalidIdentifierError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, "sundnay", idErr.Value)
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, 0, WeekdayOf(monday(0, 0)))
	assert.Equal(t, 6, WeekdayOf(monday(0, 0).AddDate(0, 0, 6)))
	assert.Equal(t, 9*60+30+MinutesPerDay, MinuteOfWeek(monday(9, 30).AddDate(0, 0, 1)))
}

func TestIsOngoing(t *testing.T) {
	c := &Course{Name: "Algebra", Time: &Time{Day: "monday", Start: 540, End: 630}}

	assert.True(t, c.IsOngoing(monday(9, 30)))
	assert.True(t, c.IsOngoing(monday(9, 0)))
	assert.True(t, c.IsOngoing(monday(10, 30)))
	assert.False(t, c.IsOngoing(monday(10, 31)))
	assert.False(t, c.IsOngoing(monday(8, 59)))
	assert.False(t, c.IsOngoing(monday(9, 30).AddDate(0, 0, 1)))

	unscheduled := &Course{Name: "Seminar"}
	assert.False(t, unscheduled.IsOngoing(monday(9, 30)))
	_, err := unscheduled.Weekday()
	assert.Error(t, err)
}

func TestPathAndIdentifier(t *testing.T) {
	c := &Course{Name: "Lineární algebra", Abbreviation: "LA", Type: "přednáška", Root: "courses"}
	assert.Equal(t, "courses/Lineární algebra (LA)/přednáška", c.Path(false))
	assert.Equal(t, "courses/Lineární algebra (LA)", c.Path(true))
	assert.Equal(t, "la-p", c.Identifier())
	assert.Equal(t, "LA", c.DisplayName(true))
	assert.Equal(t, "Lineární algebra", c.DisplayName(false))
}

func TestFormatHHMM(t *testing.T) {
	assert.Equal(t, " 9:00", FormatHHMM(540))
	assert.Equal(t, "10:30", FormatHHMM(630))
}
