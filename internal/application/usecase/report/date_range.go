// Package report contains the reporting use cases: period resolution, summaries,
// trends, record listings and digest scheduling.
package report

import (
	"time"

	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

// TimeRange is a named reporting period selector.
type TimeRange string

const (
	TimeRangeToday       TimeRange = "today"
	TimeRangeYesterday   TimeRange = "yesterday"
	TimeRangeThisWeek    TimeRange = "this_week"
	TimeRangeLastWeek    TimeRange = "last_week"
	TimeRangeThisMonth   TimeRange = "this_month"
	TimeRangeLastMonth   TimeRange = "last_month"
	TimeRangeThisQuarter TimeRange = "this_quarter"
	TimeRangeLastQuarter TimeRange = "last_quarter"
	TimeRangeThisYear    TimeRange = "this_year"
	TimeRangeLastYear    TimeRange = "last_year"
	TimeRangeCustom      TimeRange = "custom"
)

// TimeRanges lists every selector in display order.
var TimeRanges = []TimeRange{
	TimeRangeToday,
	TimeRangeYesterday,
	TimeRangeThisWeek,
	TimeRangeLastWeek,
	TimeRangeThisMonth,
	TimeRangeLastMonth,
	TimeRangeThisQuarter,
	TimeRangeLastQuarter,
	TimeRangeThisYear,
	TimeRangeLastYear,
	TimeRangeCustom,
}

// IsValid reports whether tr is a known selector.
func (tr TimeRange) IsValid() bool {
	for _, known := range TimeRanges {
		if tr == known {
			return true
		}
	}
	return false
}

// ParseTimeRange validates a raw selector at the request boundary.
func ParseTimeRange(raw string) (TimeRange, error) {
	tr := TimeRange(raw)
	if !tr.IsValid() {
		return "", domainerror.NewReportError(
			domainerror.ErrCodeInvalidTimeRange,
			domainerror.ErrInvalidTimeRange.Error(),
			domainerror.ErrInvalidTimeRange,
		)
	}
	return tr, nil
}

// Granularity is the bucket size used for trend series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// IsValid reports whether g is a supported bucket size.
func (g Granularity) IsValid() bool {
	return g == GranularityDay || g == GranularityWeek || g == GranularityMonth
}

// DateInterval is a closed interval of instants. From <= To for every
// interval produced by the resolver.
type DateInterval struct {
	From time.Time
	To   time.Time
}

// Duration returns To - From.
func (i DateInterval) Duration() time.Duration {
	return i.To.Sub(i.From)
}

// Contains reports whether t lies inside the closed interval.
func (i DateInterval) Contains(t time.Time) bool {
	return !t.Before(i.From) && !t.After(i.To)
}

// Shift moves both bounds by d.
func (i DateInterval) Shift(d time.Duration) DateInterval {
	return DateInterval{From: i.From.Add(d), To: i.To.Add(d)}
}

// ComparisonPair holds the current period and the preceding period of equal length.
type ComparisonPair struct {
	Current  DateInterval
	Previous DateInterval
}

// Clock supplies the current instant. Reporting periods are computed in the
// location of the returned time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock pinned to a reporting location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock creates a clock for loc. A nil loc means time.Local.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{Location: loc}
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// DateRangeResolver turns selectors into concrete intervals. It holds no
// mutable state and is safe for concurrent use.
type DateRangeResolver struct {
	clock Clock
}

// NewDateRangeResolver creates a new resolver reading the current time from clock.
func NewDateRangeResolver(clock Clock) *DateRangeResolver {
	return &DateRangeResolver{clock: clock}
}

// Location returns the location periods are computed in.
func (r *DateRangeResolver) Location() *time.Location {
	return r.clock.Now().Location()
}

// ResolveInterval returns the interval covered by tr. Custom bounds are only
// consulted for TimeRangeCustom and are returned unmodified.
func (r *DateRangeResolver) ResolveInterval(tr TimeRange, customFrom, customTo *time.Time) (DateInterval, error) {
	now := r.clock.Now()
	today := startOfDay(now)
	ceiling := endOfDay(now)
	loc := now.Location()
	year, month, day := now.Date()

	switch tr {
	case TimeRangeToday:
		return DateInterval{From: today, To: ceiling}, nil

	case TimeRangeYesterday:
		yesterday := time.Date(year, month, day-1, 0, 0, 0, 0, loc)
		return DateInterval{From: yesterday, To: endOfDay(yesterday)}, nil

	case TimeRangeThisWeek:
		return DateInterval{From: weekStart(now), To: ceiling}, nil

	case TimeRangeLastWeek:
		monday := weekStart(now)
		lastMonday := time.Date(monday.Year(), monday.Month(), monday.Day()-7, 0, 0, 0, 0, loc)
		lastSunday := time.Date(monday.Year(), monday.Month(), monday.Day()-1, 0, 0, 0, 0, loc)
		return DateInterval{From: lastMonday, To: endOfDay(lastSunday)}, nil

	case TimeRangeThisMonth:
		return DateInterval{From: time.Date(year, month, 1, 0, 0, 0, 0, loc), To: ceiling}, nil

	case TimeRangeLastMonth:
		from := time.Date(year, month-1, 1, 0, 0, 0, 0, loc)
		// Day 0 of the current month is the last day of the previous one.
		to := time.Date(year, month, 0, 0, 0, 0, 0, loc)
		return DateInterval{From: from, To: endOfDay(to)}, nil

	case TimeRangeThisQuarter:
		quarter := (int(month) - 1) / 3
		from := time.Date(year, time.Month(quarter*3+1), 1, 0, 0, 0, 0, loc)
		return DateInterval{From: from, To: ceiling}, nil

	case TimeRangeLastQuarter:
		quarter := (int(month)-1)/3 - 1
		qYear := year
		if quarter < 0 {
			quarter = 3
			qYear--
		}
		from := time.Date(qYear, time.Month(quarter*3+1), 1, 0, 0, 0, 0, loc)
		to := time.Date(qYear, time.Month((quarter+1)*3+1), 0, 0, 0, 0, 0, loc)
		return DateInterval{From: from, To: endOfDay(to)}, nil

	case TimeRangeThisYear:
		return DateInterval{From: time.Date(year, time.January, 1, 0, 0, 0, 0, loc), To: ceiling}, nil

	case TimeRangeLastYear:
		from := time.Date(year-1, time.January, 1, 0, 0, 0, 0, loc)
		to := time.Date(year-1, time.December, 31, 0, 0, 0, 0, loc)
		return DateInterval{From: from, To: endOfDay(to)}, nil

	case TimeRangeCustom:
		if customFrom == nil || customTo == nil {
			return DateInterval{}, domainerror.NewReportError(
				domainerror.ErrCodeMissingRange,
				domainerror.ErrMissingRange.Error(),
				domainerror.ErrMissingRange,
			)
		}
		if customTo.Before(*customFrom) {
			return DateInterval{}, domainerror.NewReportError(
				domainerror.ErrCodeInvalidDateRange,
				domainerror.ErrInvalidDateRange.Error(),
				domainerror.ErrInvalidDateRange,
			)
		}
		return DateInterval{From: *customFrom, To: *customTo}, nil

	default:
		return DateInterval{}, domainerror.NewReportError(
			domainerror.ErrCodeInvalidTimeRange,
			domainerror.ErrInvalidTimeRange.Error(),
			domainerror.ErrInvalidTimeRange,
		)
	}
}

// ResolvePreviousPeriod returns the interval of equal length ending exactly
// where current begins. The selector does not change the arithmetic; calendar
// alignment of the result is not guaranteed.
func (r *DateRangeResolver) ResolvePreviousPeriod(_ TimeRange, current DateInterval) DateInterval {
	return current.Shift(-current.Duration())
}

// ResolveGranularity returns the default bucket size for tr.
func (r *DateRangeResolver) ResolveGranularity(tr TimeRange) Granularity {
	switch tr {
	case TimeRangeToday, TimeRangeYesterday, TimeRangeThisWeek, TimeRangeLastWeek:
		return GranularityDay
	case TimeRangeThisMonth, TimeRangeLastMonth, TimeRangeThisQuarter, TimeRangeLastQuarter:
		return GranularityWeek
	case TimeRangeThisYear, TimeRangeLastYear, TimeRangeCustom:
		return GranularityMonth
	default:
		return GranularityDay
	}
}

// ResolveComparison resolves the current interval, its previous period and
// the default granularity in one call.
func (r *DateRangeResolver) ResolveComparison(tr TimeRange, customFrom, customTo *time.Time) (ComparisonPair, Granularity, error) {
	current, err := r.ResolveInterval(tr, customFrom, customTo)
	if err != nil {
		return ComparisonPair{}, "", err
	}
	return ComparisonPair{
		Current:  current,
		Previous: r.ResolvePreviousPeriod(tr, current),
	}, r.ResolveGranularity(tr), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// weekStart returns the Monday starting the week containing t. Sunday belongs
// to the week that started six days earlier.
func weekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, t.Location())
}
