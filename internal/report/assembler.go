package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/internal/dedup"
	"github.com/savegress/wagerwatch/internal/flags"
	"github.com/savegress/wagerwatch/internal/ingest"
	"github.com/savegress/wagerwatch/internal/kyc"
	"github.com/savegress/wagerwatch/internal/merge"
	"github.com/savegress/wagerwatch/internal/risk"
	"github.com/savegress/wagerwatch/internal/timebucket"
	"github.com/savegress/wagerwatch/pkg/models"
)

// Params are the filter parameters for one report invocation.
// Provider empty selects all providers.
type Params struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Provider string    `json:"provider,omitempty"`
	TopN     int       `json:"top_n,omitempty"`
}

// Assembler runs the full analytics pipeline over a snapshot and
// assembles the structured report the presentation layer consumes.
// The pipeline is a single-pass synchronous batch computation; the
// only cross-invocation state is the memoization cache.
type Assembler struct {
	classifier *risk.Classifier
	merger     *merge.Merger
	buckets    *timebucket.Aggregator
	flags      *flags.Engine
	kyc        *kyc.Analyzer
	dedup      *dedup.Detector
	topN       int
	cache      *Cache
}

// NewAssembler creates a report assembler wired to all engine components
func NewAssembler(cfg *config.Config) *Assembler {
	classifier := risk.NewClassifier(&cfg.Risk)

	var cache *Cache
	if cfg.Report.CacheOn {
		cache = NewCache(cfg.Report.CacheSize)
	}

	return &Assembler{
		classifier: classifier,
		merger:     merge.NewMerger(classifier),
		buckets:    timebucket.NewAggregator(),
		flags:      flags.NewEngine(&cfg.Flags),
		kyc:        kyc.NewAnalyzer(&cfg.KYC),
		dedup:      dedup.NewDetector(&cfg.Dedup),
		topN:       cfg.Report.TopPlayers,
		cache:      cache,
	}
}

// Assemble produces the risk report for a snapshot under the given
// filter parameters. Results are memoized by snapshot hash and
// parameters; a changed snapshot can never return a stale report. An
// empty filtered record set yields a report with empty tables and
// NoData set, never an error.
func (a *Assembler) Assemble(snapshot *ingest.Snapshot, params Params) (*models.RiskReport, error) {
	if params.TopN <= 0 {
		params.TopN = a.topN
	}

	if a.cache != nil {
		if cached, ok := a.cache.Get(snapshot.Hash, params); ok {
			return cached, nil
		}
	}

	merged := a.merger.Merge(snapshot.Usage, snapshot.Profiles)
	filtered := filterRecords(merged, params)

	periods, granularity := a.buckets.Aggregate(params.Start, params.End, filtered)

	metrics, err := a.flags.PlayerMetrics(filtered)
	if err != nil {
		return nil, err
	}

	rpt := &models.RiskReport{
		ID:              uuid.NewString(),
		GeneratedAt:     time.Now().UTC(),
		StartDate:       params.Start,
		EndDate:         params.End,
		Provider:        params.Provider,
		Granularity:     string(granularity),
		NoData:          len(filtered) == 0,
		Periods:         periods,
		OccupationFlags: a.flags.RollupByOccupation(metrics),
		RiskBreakdown:   a.classifier.Distribution(filtered),
		TopPlayers:      risk.TopPlayers(filtered, params.TopN),
		KYCAging:        a.kyc.Analyze(snapshot.Profiles),
		Duplicates:      a.dedup.Scan(snapshot.Profiles, snapshot.IdentityColumns),
	}

	if a.cache != nil {
		a.cache.Put(snapshot.Hash, params, rpt)
	}

	return rpt, nil
}

// DefaultParams derives a whole-dataset date range from the snapshot,
// mirroring the dashboard's initial filter state.
func DefaultParams(snapshot *ingest.Snapshot) Params {
	var params Params
	for _, u := range snapshot.Usage {
		if params.Start.IsZero() || u.EventAt.Before(params.Start) {
			params.Start = u.EventAt
		}
		if u.EventAt.After(params.End) {
			params.End = u.EventAt
		}
	}
	return params
}

func filterRecords(records []models.MergedRecord, params Params) []models.MergedRecord {
	filtered := make([]models.MergedRecord, 0, len(records))
	for _, rec := range records {
		if rec.EventAt.Before(params.Start) || rec.EventAt.After(params.End) {
			continue
		}
		if params.Provider != "" && rec.Provider != params.Provider {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}
