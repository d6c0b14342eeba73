package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period names accepted by list and statistics endpoints
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// DateLayout is the calendar-day format used on the wire
const DateLayout = "2006-01-02"

// ErrInvalidPeriod is returned for unknown period names or out-of-range dates
var ErrInvalidPeriod = errors.New("invalid period")

// DateRange is a half-open interval [From, To). A zero range means unbounded.
type DateRange struct {
	Period string    `json:"period"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// IsZero reports whether the range is unbounded
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	if r.IsZero() {
		return true
	}
	return !t.Before(r.From) && t.Before(r.To)
}

// Previous returns the range of equal period length right before r
func (r DateRange) Previous() DateRange {
	switch r.Period {
	case PeriodDay:
		return DateRange{Period: r.Period, From: r.From.AddDate(0, 0, -1), To: r.From}
	case PeriodWeek:
		return DateRange{Period: r.Period, From: r.From.AddDate(0, 0, -7), To: r.From}
	case PeriodMonth:
		return DateRange{Period: r.Period, From: r.From.AddDate(0, -1, 0), To: r.From}
	case PeriodYear:
		return DateRange{Period: r.Period, From: r.From.AddDate(-1, 0, 0), To: r.From}
	}
	return DateRange{Period: r.Period}
}

// PeriodQuery carries the raw period query parameters
type PeriodQuery struct {
	Period string `form:"period" binding:"omitempty,period"`
	Year   string `form:"year"`
	Month  string `form:"month"`
	Date   string `form:"date"`
}

// Resolve turns the query into a concrete range relative to now. The default period is month.
func (q PeriodQuery) Resolve(now time.Time) (DateRange, error) {
	now = now.UTC()
	anchor := Day(now)
	if q.Date != "" {
		d, err := ParseDate(q.Date)
		if err != nil {
			return DateRange{}, err
		}
		anchor = d
	}
	year, month := anchor.Year(), anchor.Month()
	if q.Year != "" {
		y, err := strconv.Atoi(q.Year)
		if err != nil || y < 1970 || y > 9999 {
			return DateRange{}, fmt.Errorf("%w: year %q", ErrInvalidPeriod, q.Year)
		}
		year = y
	}
	if q.Month != "" {
		m, err := strconv.Atoi(q.Month)
		if err != nil || m < 1 || m > 12 {
			return DateRange{}, fmt.Errorf("%w: month %q", ErrInvalidPeriod, q.Month)
		}
		month = time.Month(m)
	}

	period := strings.ToLower(strings.TrimSpace(q.Period))
	if period == "" {
		period = PeriodMonth
	}
	switch period {
	case PeriodDay:
		return DateRange{Period: period, From: anchor, To: anchor.AddDate(0, 0, 1)}, nil
	case PeriodWeek:
		// Weeks start on Monday
		offset := (int(anchor.Weekday()) + 6) % 7
		from := anchor.AddDate(0, 0, -offset)
		return DateRange{Period: period, From: from, To: from.AddDate(0, 0, 7)}, nil
	case PeriodMonth:
		from := MonthStart(year, month)
		return DateRange{Period: period, From: from, To: from.AddDate(0, 1, 0)}, nil
	case PeriodYear:
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Period: period, From: from, To: from.AddDate(1, 0, 0)}, nil
	case PeriodAll:
		return DateRange{Period: period}, nil
	}
	return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, q.Period)
}

// MonthStart returns midnight UTC of the first day of the month
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar day
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidPeriod, s)
	}
	// Keep the calendar day the client meant, not the UTC one
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
