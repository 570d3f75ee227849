package dedup

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/pkg/models"
	"github.com/savegress/wagerwatch/pkg/workerpool"
)

// ReasonInsufficientColumns reports a skipped scan when the snapshot
// exposes fewer than two identity columns.
const ReasonInsufficientColumns = "insufficient identity columns"

// ReasonDisabled reports a scan disabled by configuration
const ReasonDisabled = "duplicate detection disabled"

// Detector finds likely duplicate player identities via pairwise
// fuzzy comparison of normalized identity strings.
type Detector struct {
	enabled   bool
	sampleCap int
	threshold float64
	workers   int
}

// NewDetector creates a duplicate detector
func NewDetector(cfg *config.DedupConfig) *Detector {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Detector{
		enabled:   cfg.Enabled,
		sampleCap: cfg.SampleCap,
		threshold: cfg.Threshold,
		workers:   workers,
	}
}

// candidate is one profile admitted to the comparison set
type candidate struct {
	playerID string
	identity string
}

// Scan compares every unordered pair of profiles within a bounded
// sample and emits pairs scoring at or above the threshold. The sample
// cap bounds the O(n^2) cost; it is a scalability limit, not a
// completeness guarantee over the full dataset. availableColumns is
// the set of identity columns present in the snapshot schema; with
// fewer than two the scan is skipped, not failed. Pair evaluation runs
// across the worker pool; the final ordering is deterministic: score
// descending, then pair key ascending.
func (d *Detector) Scan(profiles []models.PlayerProfile, availableColumns []string) models.DuplicateScan {
	scan := models.DuplicateScan{
		ID:        uuid.NewString(),
		Status:    models.ScanStatusOK,
		SampleCap: d.sampleCap,
		Threshold: d.threshold,
		Pairs:     []models.DuplicatePair{},
	}

	if !d.enabled {
		scan.Status = models.ScanStatusSkipped
		scan.Reason = ReasonDisabled
		return scan
	}
	if len(availableColumns) < 2 {
		scan.Status = models.ScanStatusSkipped
		scan.Reason = ReasonInsufficientColumns
		return scan
	}

	candidates := d.collectCandidates(profiles, availableColumns)
	scan.Compared = len(candidates)
	if len(candidates) < 2 {
		return scan
	}

	pool, err := workerpool.New(workerpool.Config{Workers: d.workers, QueueSize: len(candidates)})
	if err != nil {
		pool = workerpool.NewDefault()
	}
	defer pool.Shutdown()

	var mu sync.Mutex
	var pairs []models.DuplicatePair

	// One task per left row; each task owns the pairs (i, j>i), so
	// tasks share no mutable state beyond the guarded result slice.
	for i := range candidates {
		i := i
		pool.Submit(func() error {
			var local []models.DuplicatePair
			for j := i + 1; j < len(candidates); j++ {
				score := TokenSortRatio(candidates[i].identity, candidates[j].identity)
				if score >= d.threshold {
					local = append(local, orderedPair(candidates[i].playerID, candidates[j].playerID, score))
				}
			}
			if len(local) > 0 {
				mu.Lock()
				pairs = append(pairs, local...)
				mu.Unlock()
			}
			return nil
		})
	}
	pool.Wait()

	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Score != pairs[b].Score {
			return pairs[a].Score > pairs[b].Score
		}
		if pairs[a].PlayerA != pairs[b].PlayerA {
			return pairs[a].PlayerA < pairs[b].PlayerA
		}
		return pairs[a].PlayerB < pairs[b].PlayerB
	})

	scan.Pairs = pairs
	return scan
}

// collectCandidates builds normalized identity strings for profiles
// that carry a value in every available identity column, capped at the
// configured sample size in dataset order.
func (d *Detector) collectCandidates(profiles []models.PlayerProfile, availableColumns []string) []candidate {
	var candidates []candidate
	for i := range profiles {
		identity, ok := IdentityString(&profiles[i], availableColumns)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			playerID: profiles[i].PlayerID,
			identity: identity,
		})
		if d.sampleCap > 0 && len(candidates) >= d.sampleCap {
			break
		}
	}
	return candidates
}

// IdentityString builds the normalized identity string for a profile:
// the lower-cased, trimmed values of each available identity column,
// space-separated in canonical column order. Returns false when any
// available column has no value for this profile.
func IdentityString(p *models.PlayerProfile, availableColumns []string) (string, bool) {
	parts := make([]string, 0, len(availableColumns))
	for _, col := range availableColumns {
		value := strings.ToLower(strings.TrimSpace(identityValue(p, col)))
		if value == "" {
			return "", false
		}
		parts = append(parts, value)
	}
	return strings.Join(parts, " "), true
}

func identityValue(p *models.PlayerProfile, column string) string {
	switch column {
	case "first_name":
		return p.FirstName
	case "last_name":
		return p.LastName
	case "email":
		return p.Email
	case "username":
		return p.Username
	case "phone":
		return p.Phone
	case "city":
		return p.City
	case "region":
		return p.Region
	case "postal_code":
		return p.PostalCode
	}
	return ""
}

func orderedPair(a, b string, score float64) models.DuplicatePair {
	if b < a {
		a, b = b, a
	}
	return models.DuplicatePair{PlayerA: a, PlayerB: b, Score: score}
}
