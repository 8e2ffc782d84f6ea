package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/smartcal/internal/model"
)

func TestBuildMonthSundayStart(t *testing.T) {
	// June 2024 starts on a Saturday and has 30 days.
	m := BuildMonth(2024, time.June, time.Sunday, "2024-06-15", []model.Note{
		{Date: "2024-06-01", Title: "a"},
		{Date: "2024-06-01", Title: "b", Featured: true},
		{Date: "2024-06-20", Title: "c", ReminderEnabled: true, ReminderTime: "09:00"},
	}, []model.Reminder{{Date: "2024-06-03", Time: "10:00"}})

	require.Len(t, m.Weeks, 6)
	for i := 0; i < 6; i++ {
		assert.True(t, m.Weeks[0][i].Blank(), "leading blank %d", i)
	}
	first := m.Weeks[0][6]
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "2024-06-01", first.Date)
	assert.Equal(t, 2, first.NoteCount)
	assert.True(t, first.Featured)

	assert.True(t, m.Weeks[1][1].HasReminder, "June 3 has a standalone reminder")
	assert.True(t, m.Weeks[2][6].IsToday, "June 15")
	assert.True(t, m.Weeks[3][4].HasReminder, "June 20 has a note reminder")

	last := m.Weeks[5]
	assert.Equal(t, 30, last[0].Day)
	for i := 1; i < 7; i++ {
		assert.True(t, last[i].Blank())
	}
	assert.Equal(t, "June 2024", m.Title())
}

func TestBuildMonthMondayStart(t *testing.T) {
	// February 2021 starts on a Monday and fills exactly four weeks.
	m := BuildMonth(2021, time.February, time.Monday, "", nil, nil)
	require.Len(t, m.Weeks, 4)
	assert.Equal(t, 1, m.Weeks[0][0].Day)
	assert.Equal(t, 28, m.Weeks[3][6].Day)
	assert.Equal(t, time.Monday, m.Weekdays()[0])
	assert.Equal(t, time.Sunday, m.Weekdays()[6])
}

func TestShift(t *testing.T) {
	y, mo := Shift(2024, time.January, -1)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.December, mo)

	y, mo = Shift(2024, time.December, 1)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, mo)
}

func TestParseWeekStart(t *testing.T) {
	wd, err := ParseWeekStart("Monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	_, err = ParseWeekStart("friday")
	assert.Error(t, err)
}

func TestDateArithmetic(t *testing.T) {
	d := time.Date(2024, 2, 28, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "2024-03-01", AddDays(d, 2).Format(model.DateLayout), "leap year")
	assert.Equal(t, "2024-02-18", AddDays(d, -10).Format(model.DateLayout))

	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 365, DaysBetween(a, b))
	assert.Equal(t, -365, DaysBetween(b, a))
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(1990, 8, 31, 0, 0, 0, 0, time.UTC)
	on := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	age, err := AgeOn(birth, on)
	require.NoError(t, err)
	assert.Equal(t, 33, age.Years)
	assert.Equal(t, 9, age.Months)
	assert.Equal(t, 1, age.Days)
	assert.Equal(t, DaysBetween(birth, on), age.TotalDays)

	same, err := AgeOn(on, on)
	require.NoError(t, err)
	assert.Equal(t, Age{}, same)

	_, err = AgeOn(on, birth)
	assert.Error(t, err)
}

func TestAgeOnMonthEnds(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		birth time.Time
		on    time.Time
		want  Age
	}{
		{"31st into short february", day(2000, 1, 31), day(2001, 3, 1), Age{Years: 1, Months: 1, Days: 1}},
		{"30th into non-leap february", day(2000, 1, 30), day(2023, 3, 1), Age{Years: 23, Months: 1, Days: 1}},
		{"leap day birthday", day(2000, 2, 29), day(2001, 2, 28), Age{Years: 1}},
		{"leap day before anniversary", day(2000, 2, 29), day(2001, 2, 27), Age{Months: 11, Days: 29}},
		{"31st into 30 day month", day(2020, 5, 31), day(2020, 6, 30), Age{Months: 1}},
		{"end of year", day(2019, 12, 31), day(2020, 12, 30), Age{Months: 11, Days: 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AgeOn(tt.birth, tt.on)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.Days, 0)
			assert.Equal(t, tt.want.Years, got.Years)
			assert.Equal(t, tt.want.Months, got.Months)
			assert.Equal(t, tt.want.Days, got.Days)
			assert.Equal(t, DaysBetween(tt.birth, tt.on), got.TotalDays)
		})
	}
}

func TestRenderMarksDays(t *testing.T) {
	m := BuildMonth(2024, time.June, time.Sunday, "", []model.Note{
		{Date: "2024-06-10", Title: "x", Featured: true, ReminderEnabled: true, ReminderTime: "08:00"},
	}, nil)

	out := Render(m, "")
	assert.Contains(t, out, "June 2024")
	assert.Contains(t, out, "Su")
	assert.Contains(t, out, "*+10")
	assert.Equal(t, 1+1+len(m.Weeks), strings.Count(out, "\n"))
}
