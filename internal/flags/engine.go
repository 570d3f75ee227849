package flags

import (
	"fmt"
	"sort"

	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/pkg/models"
	"github.com/shopspring/decimal"
)

// OccupationUnknown groups players whose usage records matched no
// profile. They form their own roll-up group and are never dropped.
const OccupationUnknown = "unknown"

// Engine computes per-player behavioral aggregates and risk flags
type Engine struct {
	bigBetAmount     decimal.Decimal
	highFrequencyTxn int
	dailySpikeAmount decimal.Decimal
}

// NewEngine creates a flagging engine from configured thresholds
func NewEngine(cfg *config.FlagsConfig) *Engine {
	return &Engine{
		bigBetAmount:     decimal.NewFromFloat(cfg.BigBetAmount),
		highFrequencyTxn: cfg.HighFrequencyTxn,
		dailySpikeAmount: decimal.NewFromFloat(cfg.DailySpikeAmount),
	}
}

// PlayerMetrics groups records by (player, occupation) and derives the
// three behavioral flags per player. A player with records always has
// at least one active day; a zero count there is an invariant
// violation and surfaces as an error rather than a silent guard.
func (e *Engine) PlayerMetrics(records []models.MergedRecord) ([]models.PlayerMetric, error) {
	type groupKey struct {
		playerID   string
		occupation string
	}
	type accumulator struct {
		sessions   int
		txnCount   int
		totalWager decimal.Decimal
		maxBet     decimal.Decimal
		activeDays map[string]bool
	}

	groups := make(map[groupKey]*accumulator)
	for _, rec := range records {
		key := groupKey{playerID: rec.PlayerID, occupation: rec.Occupation}
		a, ok := groups[key]
		if !ok {
			a = &accumulator{activeDays: make(map[string]bool)}
			groups[key] = a
		}
		a.sessions++
		a.txnCount += rec.TxnCount
		a.totalWager = a.totalWager.Add(rec.WagerAmount)
		if rec.WagerAmount.GreaterThan(a.maxBet) {
			a.maxBet = rec.WagerAmount
		}
		a.activeDays[rec.EventAt.UTC().Format("2006-01-02")] = true
	}

	metrics := make([]models.PlayerMetric, 0, len(groups))
	for key, a := range groups {
		if len(a.activeDays) == 0 {
			return nil, fmt.Errorf("player %s: records present but zero active days", key.playerID)
		}

		activeDays := decimal.NewFromInt(int64(len(a.activeDays)))
		avgPerDay := a.totalWager.Div(activeDays)

		m := models.PlayerMetric{
			PlayerID:       key.playerID,
			Occupation:     key.occupation,
			Sessions:       a.sessions,
			TxnCount:       a.txnCount,
			TotalWager:     a.totalWager,
			MeanBet:        a.totalWager.Div(decimal.NewFromInt(int64(a.sessions))),
			MaxBet:         a.maxBet,
			ActiveDays:     len(a.activeDays),
			AvgWagerPerDay: avgPerDay,
		}
		m.BigBet = m.MaxBet.GreaterThanOrEqual(e.bigBetAmount)
		m.HighFrequency = m.TxnCount >= e.highFrequencyTxn
		m.DailySpike = avgPerDay.GreaterThanOrEqual(e.dailySpikeAmount)

		metrics = append(metrics, m)
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].PlayerID != metrics[j].PlayerID {
			return metrics[i].PlayerID < metrics[j].PlayerID
		}
		return metrics[i].Occupation < metrics[j].Occupation
	})

	return metrics, nil
}

// RollupByOccupation sums flags (as 0/1 per player) within each
// occupation category. Players without an occupation roll up under
// OccupationUnknown.
func (e *Engine) RollupByOccupation(metrics []models.PlayerMetric) []models.OccupationFlagSummary {
	rollup := make(map[string]*models.OccupationFlagSummary)
	for _, m := range metrics {
		occupation := m.Occupation
		if occupation == "" {
			occupation = OccupationUnknown
		}
		s, ok := rollup[occupation]
		if !ok {
			s = &models.OccupationFlagSummary{Occupation: occupation}
			rollup[occupation] = s
		}
		s.Players++
		if m.BigBet {
			s.BigBet++
		}
		if m.HighFrequency {
			s.HighFrequency++
		}
		if m.DailySpike {
			s.DailySpike++
		}
	}

	summaries := make([]models.OccupationFlagSummary, 0, len(rollup))
	for _, s := range rollup {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Occupation < summaries[j].Occupation
	})

	return summaries
}
