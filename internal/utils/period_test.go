package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 13, 15, 4, 5, 0, time.UTC) // a Thursday

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDefaultsToCurrentMonth(t *testing.T) {
	r, err := PeriodQuery{}.Resolve(now)
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, r.Period)
	assert.Equal(t, date(2025, 3, 1), r.From)
	assert.Equal(t, date(2025, 4, 1), r.To)
}

func TestResolvePeriods(t *testing.T) {
	cases := []struct {
		q        PeriodQuery
		from, to time.Time
	}{
		{PeriodQuery{Period: "day"}, date(2025, 3, 13), date(2025, 3, 14)},
		{PeriodQuery{Period: "day", Date: "2024-02-29"}, date(2024, 2, 29), date(2024, 3, 1)},
		{PeriodQuery{Period: "week"}, date(2025, 3, 10), date(2025, 3, 17)},
		{PeriodQuery{Period: "week", Date: "2025-03-16"}, date(2025, 3, 10), date(2025, 3, 17)},
		{PeriodQuery{Period: "month", Year: "2024", Month: "12"}, date(2024, 12, 1), date(2025, 1, 1)},
		{PeriodQuery{Period: "YEAR", Year: "2023"}, date(2023, 1, 1), date(2024, 1, 1)},
	}
	for _, tc := range cases {
		r, err := tc.q.Resolve(now)
		require.NoError(t, err, "%+v", tc.q)
		assert.Equal(t, tc.from, r.From, "%+v", tc.q)
		assert.Equal(t, tc.to, r.To, "%+v", tc.q)
	}
}

func TestResolveAllIsUnbounded(t *testing.T) {
	r, err := PeriodQuery{Period: "all"}.Resolve(now)
	require.NoError(t, err)
	assert.True(t, r.IsZero())
	assert.True(t, r.Contains(date(1999, 1, 1)))
}

func TestResolveRejectsGarbage(t *testing.T) {
	for _, q := range []PeriodQuery{
		{Period: "fortnight"},
		{Month: "13"},
		{Year: "abc"},
		{Date: "13/03/2025"},
	} {
		_, err := q.Resolve(now)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "%+v", q)
	}
}

func TestPrevious(t *testing.T) {
	r, _ := PeriodQuery{Period: "month", Year: "2025", Month: "1"}.Resolve(now)
	prev := r.Previous()
	assert.Equal(t, date(2024, 12, 1), prev.From)
	assert.Equal(t, date(2025, 1, 1), prev.To)

	w, _ := PeriodQuery{Period: "week"}.Resolve(now)
	assert.Equal(t, date(2025, 3, 3), w.Previous().From)
}

func TestParseDateKeepsCalendarDay(t *testing.T) {
	d, err := ParseDate("2025-03-13T23:30:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 13), d)
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, Page{Page: 1, PageSize: 20}, ParsePage("", ""))
	assert.Equal(t, Page{Page: 3, PageSize: 50}, ParsePage("3", "50"))
	assert.Equal(t, Page{Page: 1, PageSize: 20}, ParsePage("-1", "1000"))
	p := Page{Page: 2, PageSize: 20}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 3, p.TotalPages(41))
}
