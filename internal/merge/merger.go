package merge

import (
	"strings"

	"github.com/savegress/wagerwatch/internal/risk"
	"github.com/savegress/wagerwatch/pkg/models"
)

// Merger joins usage records to player profiles by identity key
type Merger struct {
	classifier *risk.Classifier
}

// NewMerger creates a new record merger
func NewMerger(classifier *risk.Classifier) *Merger {
	return &Merger{classifier: classifier}
}

// Merge left-outer joins usage records to profiles on the canonical
// player ID. Every usage record produces exactly one merged record;
// unmatched records keep a nil profile and empty occupation. A profile
// matching multiple usage records joins to each of them.
func (m *Merger) Merge(usage []models.UsageRecord, profiles []models.PlayerProfile) []models.MergedRecord {
	index := make(map[string]*models.PlayerProfile, len(profiles))
	for i := range profiles {
		// Duplicate profile IDs: last one wins.
		index[CanonicalKey(profiles[i].PlayerID)] = &profiles[i]
	}

	merged := make([]models.MergedRecord, 0, len(usage))
	for _, u := range usage {
		rec := models.MergedRecord{
			UsageRecord: u,
			HoldAmount:  u.WagerAmount.Sub(u.ReturnAmount),
			RiskLevel:   m.classifier.Classify(u.WagerAmount),
		}
		if profile, ok := index[CanonicalKey(u.PlayerID)]; ok {
			rec.Profile = profile
			rec.Occupation = profile.Occupation
		}
		merged = append(merged, rec)
	}

	return merged
}

// CanonicalKey normalizes an identity key for joining
func CanonicalKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
