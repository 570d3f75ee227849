package ingest

import (
	"sort"

	"github.com/savegress/wagerwatch/pkg/models"
)

// Snapshot is an immutable view of the two input datasets for one
// pipeline invocation. Hash identifies the input content and keys the
// report memoization cache; a changed input always changes the hash.
type Snapshot struct {
	Profiles []models.PlayerProfile
	Usage    []models.UsageRecord

	// IdentityColumns lists which of the duplicate-detection identity
	// columns were present in the profile header, in canonical order.
	IdentityColumns []string

	Hash string
}

// Providers returns the distinct provider names present in the usage
// dataset, sorted ascending.
func (s *Snapshot) Providers() []string {
	seen := make(map[string]bool)
	var providers []string
	for _, u := range s.Usage {
		if u.Provider == "" || seen[u.Provider] {
			continue
		}
		seen[u.Provider] = true
		providers = append(providers, u.Provider)
	}
	sort.Strings(providers)
	return providers
}
