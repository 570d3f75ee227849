package kyc

import (
	"strings"
	"time"

	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/pkg/models"
)

// Analyzer classifies player profiles into verified vs. stale-unverified
type Analyzer struct {
	staleDays int
}

// NewAnalyzer creates a KYC aging analyzer
func NewAnalyzer(cfg *config.KYCConfig) *Analyzer {
	return &Analyzer{staleDays: cfg.StaleDays}
}

// ReferenceTime returns the deterministic "now" proxy for aging: the
// maximum timestamp observed across profile as-of and registration
// dates. Never the wall clock. Nil when no profile carries any usable
// timestamp.
func ReferenceTime(profiles []models.PlayerProfile) *time.Time {
	var ref *time.Time
	for i := range profiles {
		for _, t := range []*time.Time{profiles[i].AsOf, profiles[i].RegisteredAt} {
			if t != nil && (ref == nil || t.After(*ref)) {
				ref = t
			}
		}
	}
	return ref
}

// Analyze partitions profiles relative to the reference timestamp.
// Verified: status "verified" (case-insensitive) with a verification
// timestamp present. Stale-unverified: not verified and registered at
// least staleDays before the reference. Profiles matching neither
// condition, including those with missing timestamps, count as
// unclassified; a profile lands in at most one bucket.
func (a *Analyzer) Analyze(profiles []models.PlayerProfile) models.KYCAgingSummary {
	ref := ReferenceTime(profiles)
	summary := models.KYCAgingSummary{
		StaleDays:   a.staleDays,
		ReferenceAt: ref,
	}

	staleAge := time.Duration(a.staleDays) * 24 * time.Hour
	for i := range profiles {
		p := &profiles[i]
		verified := strings.EqualFold(strings.TrimSpace(p.KYCStatus), string(models.KYCStatusVerified))

		switch {
		case verified && p.VerifiedAt != nil:
			summary.Verified++
		case !verified && p.RegisteredAt != nil && ref != nil && ref.Sub(*p.RegisteredAt) >= staleAge:
			summary.StaleUnverified++
		default:
			summary.Unclassified++
		}
	}

	return summary
}
