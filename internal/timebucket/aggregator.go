package timebucket

import (
	"sort"
	"time"

	"github.com/savegress/wagerwatch/pkg/models"
	"github.com/shopspring/decimal"
)

// Granularity is the time-bucketing unit selected from the date span
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// SelectGranularity picks a granularity from the span between start
// and end: <=7 days daily, <=60 weekly, <=365 monthly, else yearly.
func SelectGranularity(start, end time.Time) Granularity {
	days := int(end.Sub(start).Hours() / 24)
	switch {
	case days <= 7:
		return GranularityDaily
	case days <= 60:
		return GranularityWeekly
	case days <= 365:
		return GranularityMonthly
	default:
		return GranularityYearly
	}
}

// BucketStart returns the start of the granularity-aligned period
// containing t. Alignment convention (pinned, UTC):
//   - daily: midnight of the event date
//   - weekly: Monday 00:00 of the ISO week
//   - monthly: first of the month
//   - yearly: January 1st
func BucketStart(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	switch g {
	case GranularityDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityWeekly:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday belongs to the week started the previous Monday
		}
		monday := t.AddDate(0, 0, -(weekday - 1))
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityYearly:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Aggregator buckets merged records into period summaries
type Aggregator struct{}

// NewAggregator creates a new time bucket aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate buckets records by the granularity selected from the date
// span and sums per bucket: distinct players, total wager, total hold.
// Buckets with no records are omitted rather than zero-filled; output
// is sorted by period start ascending. An empty input yields an empty
// (non-nil) summary.
func (a *Aggregator) Aggregate(start, end time.Time, records []models.MergedRecord) ([]models.PeriodSummary, Granularity) {
	g := SelectGranularity(start, end)

	type accumulator struct {
		players map[string]bool
		wager   decimal.Decimal
		hold    decimal.Decimal
	}

	buckets := make(map[time.Time]*accumulator)
	for _, rec := range records {
		period := BucketStart(rec.EventAt, g)
		b, ok := buckets[period]
		if !ok {
			b = &accumulator{players: make(map[string]bool)}
			buckets[period] = b
		}
		b.players[rec.PlayerID] = true
		b.wager = b.wager.Add(rec.WagerAmount)
		b.hold = b.hold.Add(rec.HoldAmount)
	}

	summaries := make([]models.PeriodSummary, 0, len(buckets))
	for period, b := range buckets {
		summaries = append(summaries, models.PeriodSummary{
			Period:       period,
			TotalPlayers: len(b.players),
			TotalWager:   b.wager,
			TotalHold:    b.hold,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Period.Before(summaries[j].Period)
	})

	return summaries, g
}
