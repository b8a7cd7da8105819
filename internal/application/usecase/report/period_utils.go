package report

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// MaxSeriesBuckets bounds the number of buckets in one trend series.
const MaxSeriesBuckets = 1000

// PeriodInfo describes one bucket of a trend series. Date is the unclipped
// bucket start and doubles as its key; PeriodStart and PeriodEnd are clipped
// to the reported interval.
type PeriodInfo struct {
	Key         string
	Date        time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	PeriodLabel string
}

// GeneratePeriodLabel generates a human-readable label for a bucket.
// Formats:
// - Day: "dd/mm/yyyy"
// - Week: "W{iso week} {iso year}" (en) or "שבוע {week} {year}" (he)
// - Month: "{month_abbr} {year}"
func GeneratePeriodLabel(date time.Time, granularity Granularity, locale language.Tag) string {
	code := LocaleCode(locale)
	switch granularity {
	case GranularityWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf(weekLabelFormats[code], week, year)
	case GranularityMonth:
		return fmt.Sprintf("%s %d", monthNames[code][date.Month()-1], date.Year())
	default:
		return date.Format("02/01/2006")
	}
}

// BucketStart returns the start of the bucket containing t, in t's location.
func BucketStart(t time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityWeek:
		return weekStart(t)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return startOfDay(t)
	}
}

// nextBucket returns the start of the bucket following the one starting at start.
func nextBucket(start time.Time, granularity Granularity) time.Time {
	switch granularity {
	case GranularityWeek:
		return start.AddDate(0, 0, 7)
	case GranularityMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// GetPeriodKeyForDate returns the series key of the bucket containing date.
func GetPeriodKeyForDate(date time.Time, granularity Granularity) string {
	return BucketStart(date, granularity).Format("2006-01-02")
}

// CountPeriodBuckets returns the length of the series GeneratePeriodSeries
// would build for interval, without building it.
func CountPeriodBuckets(interval DateInterval, granularity Granularity) int {
	loc := interval.From.Location()
	first := BucketStart(interval.From, granularity)
	last := BucketStart(interval.To.In(loc), granularity)
	if last.Before(first) {
		return 0
	}

	switch granularity {
	case GranularityMonth:
		return (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1
	case GranularityWeek:
		return int((civilDay(last)-civilDay(first))/7) + 1
	default:
		return int(civilDay(last)-civilDay(first)) + 1
	}
}

// civilDay numbers calendar days so that DST shifts do not skew differences.
func civilDay(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// GeneratePeriodSeries generates every bucket overlapping interval so charts
// have no gaps. Buckets are computed in the location of interval.From.
func GeneratePeriodSeries(interval DateInterval, granularity Granularity, locale language.Tag) []PeriodInfo {
	loc := interval.From.Location()
	from := interval.From
	to := interval.To.In(loc)

	var periods []PeriodInfo
	for current := BucketStart(from, granularity); !current.After(to); current = nextBucket(current, granularity) {
		end := endOfDay(nextBucket(current, granularity).AddDate(0, 0, -1))

		periodStart := current
		if periodStart.Before(from) {
			periodStart = from
		}
		periodEnd := end
		if periodEnd.After(to) {
			periodEnd = to
		}

		periods = append(periods, PeriodInfo{
			Key:         current.Format("2006-01-02"),
			Date:        current,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			PeriodLabel: GeneratePeriodLabel(current, granularity, locale),
		})
	}

	return periods
}
