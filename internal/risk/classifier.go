package risk

import (
	"sort"

	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/pkg/models"
	"github.com/shopspring/decimal"
)

// Classifier maps wager amounts to risk levels using fixed breakpoints.
// Intervals are inclusive on the lower bound and exclusive on the
// upper bound: [0,5000) normal, [5000,25000) at_risk,
// [25000,100000) pathological, [100000,inf) exclude.
type Classifier struct {
	atRiskFrom       decimal.Decimal
	pathologicalFrom decimal.Decimal
	excludeFrom      decimal.Decimal
}

// NewClassifier creates a classifier from configured breakpoints
func NewClassifier(cfg *config.RiskConfig) *Classifier {
	return &Classifier{
		atRiskFrom:       decimal.NewFromFloat(cfg.AtRiskFrom),
		pathologicalFrom: decimal.NewFromFloat(cfg.PathologicalFrom),
		excludeFrom:      decimal.NewFromFloat(cfg.ExcludeFrom),
	}
}

// Classify returns the risk level for a wager amount. Pure and total:
// every amount maps to exactly one level. Negative amounts (data
// anomalies) fall below every breakpoint and classify as normal.
func (c *Classifier) Classify(wager decimal.Decimal) models.RiskLevel {
	switch {
	case wager.LessThan(c.atRiskFrom):
		return models.RiskLevelNormal
	case wager.LessThan(c.pathologicalFrom):
		return models.RiskLevelAtRisk
	case wager.LessThan(c.excludeFrom):
		return models.RiskLevelPathological
	default:
		return models.RiskLevelExclude
	}
}

// Distribution produces the per-level distribution table: unique
// players, total wager and total hold per risk level. All four levels
// are always present, in ascending severity order; absent levels carry
// zero counts.
func (c *Classifier) Distribution(records []models.MergedRecord) []models.RiskBreakdown {
	type accumulator struct {
		players map[string]bool
		wager   decimal.Decimal
		hold    decimal.Decimal
	}

	acc := make(map[models.RiskLevel]*accumulator)
	for _, level := range models.RiskLevels() {
		acc[level] = &accumulator{players: make(map[string]bool)}
	}

	for _, rec := range records {
		a := acc[rec.RiskLevel]
		a.players[rec.PlayerID] = true
		a.wager = a.wager.Add(rec.WagerAmount)
		a.hold = a.hold.Add(rec.HoldAmount)
	}

	breakdown := make([]models.RiskBreakdown, 0, len(acc))
	for _, level := range models.RiskLevels() {
		a := acc[level]
		breakdown = append(breakdown, models.RiskBreakdown{
			Level:      level,
			Label:      level.Label(),
			Players:    len(a.players),
			TotalWager: a.wager,
			TotalHold:  a.hold,
		})
	}

	return breakdown
}

// TopPlayers returns the top-N players by total wager across the
// filtered records, with their dominant risk level (the level of their
// largest single wager).
func TopPlayers(records []models.MergedRecord, n int) []models.TopPlayer {
	type accumulator struct {
		occupation string
		wager      decimal.Decimal
		hold       decimal.Decimal
		sessions   int
		maxWager   decimal.Decimal
		level      models.RiskLevel
	}

	acc := make(map[string]*accumulator)
	for _, rec := range records {
		a, ok := acc[rec.PlayerID]
		if !ok {
			a = &accumulator{occupation: rec.Occupation, level: rec.RiskLevel}
			acc[rec.PlayerID] = a
		}
		a.wager = a.wager.Add(rec.WagerAmount)
		a.hold = a.hold.Add(rec.HoldAmount)
		a.sessions++
		if rec.WagerAmount.GreaterThan(a.maxWager) {
			a.maxWager = rec.WagerAmount
			a.level = rec.RiskLevel
		}
	}

	players := make([]models.TopPlayer, 0, len(acc))
	for id, a := range acc {
		players = append(players, models.TopPlayer{
			PlayerID:   id,
			Occupation: a.occupation,
			TotalWager: a.wager,
			TotalHold:  a.hold,
			Sessions:   a.sessions,
			RiskLevel:  a.level,
		})
	}

	sort.Slice(players, func(i, j int) bool {
		if !players[i].TotalWager.Equal(players[j].TotalWager) {
			return players[i].TotalWager.GreaterThan(players[j].TotalWager)
		}
		return players[i].PlayerID < players[j].PlayerID
	})

	if n > 0 && len(players) > n {
		players = players[:n]
	}
	return players
}
