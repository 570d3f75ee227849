package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// KYCStatus represents the verification state of a player profile
type KYCStatus string

const (
	KYCStatusVerified    KYCStatus = "verified"
	KYCStatusNotVerified KYCStatus = "not_verified"
)

// PlayerProfile represents a player's profile/KYC record.
// Timestamps are nil when the source value was missing or unparseable.
type PlayerProfile struct {
	PlayerID     string     `json:"player_id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	Phone        string     `json:"phone"`
	City         string     `json:"city"`
	Region       string     `json:"region"`
	PostalCode   string     `json:"postal_code"`
	Occupation   string     `json:"occupation"`
	KYCStatus    string     `json:"kyc_status"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	AsOf         *time.Time `json:"as_of,omitempty"`
}

// UsageRecord represents one reporting-interval wager record for a
// player at a service provider.
type UsageRecord struct {
	PlayerID     string          `json:"player_id"`
	Provider     string          `json:"provider"`
	EventAt      time.Time       `json:"event_at"`
	WagerAmount  decimal.Decimal `json:"wager_amount"`
	ReturnAmount decimal.Decimal `json:"return_amount"`
	TxnCount     int             `json:"txn_count"`
	GameID       string          `json:"game_id"`
}

// MergedRecord is a UsageRecord left-joined with its PlayerProfile.
// Profile is nil when no profile matched; the record is kept regardless.
type MergedRecord struct {
	UsageRecord
	HoldAmount decimal.Decimal `json:"hold_amount"`
	Occupation string          `json:"occupation,omitempty"`
	Profile    *PlayerProfile  `json:"profile,omitempty"`
	RiskLevel  RiskLevel       `json:"risk_level"`
}

// RiskLevel represents the wager-derived risk tier of a record
type RiskLevel string

const (
	RiskLevelNormal       RiskLevel = "normal"
	RiskLevelAtRisk       RiskLevel = "at_risk"
	RiskLevelPathological RiskLevel = "pathological"
	RiskLevelExclude      RiskLevel = "exclude"
)

// Label returns the operator-facing display label for a risk level
func (r RiskLevel) Label() string {
	switch r {
	case RiskLevelNormal:
		return "GO (Normal)"
	case RiskLevelAtRisk:
		return "LOOK (At Risk)"
	case RiskLevelPathological:
		return "ACT (Pathological)"
	case RiskLevelExclude:
		return "STOP (Exclude)"
	}
	return string(r)
}

// RiskLevels lists all levels in ascending severity order
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLevelNormal, RiskLevelAtRisk, RiskLevelPathological, RiskLevelExclude}
}

// PlayerMetric is the per-(player, occupation) behavioral aggregate.
// Sessions counts usage records; TxnCount sums per-record transaction counts.
type PlayerMetric struct {
	PlayerID       string          `json:"player_id"`
	Occupation     string          `json:"occupation,omitempty"`
	Sessions       int             `json:"sessions"`
	TxnCount       int             `json:"txn_count"`
	TotalWager     decimal.Decimal `json:"total_wager"`
	MeanBet        decimal.Decimal `json:"mean_bet"`
	MaxBet         decimal.Decimal `json:"max_bet"`
	ActiveDays     int             `json:"active_days"`
	AvgWagerPerDay decimal.Decimal `json:"avg_wager_per_day"`
	BigBet         bool            `json:"big_bet"`
	HighFrequency  bool            `json:"high_frequency"`
	DailySpike     bool            `json:"daily_spike"`
}

// OccupationFlagSummary is the per-occupation roll-up of flag counts.
// Players without a matched profile roll up under the "unknown" occupation.
type OccupationFlagSummary struct {
	Occupation    string `json:"occupation"`
	Players       int    `json:"players"`
	BigBet        int    `json:"big_bet"`
	HighFrequency int    `json:"high_frequency"`
	DailySpike    int    `json:"daily_spike"`
}

// PeriodSummary is one time bucket of the wager trend table
type PeriodSummary struct {
	Period       time.Time       `json:"period"`
	TotalPlayers int             `json:"total_players"`
	TotalWager   decimal.Decimal `json:"total_wager"`
	TotalHold    decimal.Decimal `json:"total_hold"`
}

// RiskBreakdown is one row of the risk-level distribution table
type RiskBreakdown struct {
	Level      RiskLevel       `json:"level"`
	Label      string          `json:"label"`
	Players    int             `json:"players"`
	TotalWager decimal.Decimal `json:"total_wager"`
	TotalHold  decimal.Decimal `json:"total_hold"`
}

// TopPlayer is one row of the top-players-by-wager table
type TopPlayer struct {
	PlayerID   string          `json:"player_id"`
	Occupation string          `json:"occupation,omitempty"`
	TotalWager decimal.Decimal `json:"total_wager"`
	TotalHold  decimal.Decimal `json:"total_hold"`
	Sessions   int             `json:"sessions"`
	RiskLevel  RiskLevel       `json:"risk_level"`
}

// KYCAgingSummary partitions profiles into verified vs. stale-unverified.
// Profiles matching neither condition are counted as unclassified.
type KYCAgingSummary struct {
	Verified        int        `json:"verified"`
	StaleUnverified int        `json:"stale_unverified"`
	Unclassified    int        `json:"unclassified"`
	StaleDays       int        `json:"stale_days"`
	ReferenceAt     *time.Time `json:"reference_at,omitempty"`
}

// DuplicatePair is an unordered candidate duplicate-identity pair.
// PlayerA sorts lexically before PlayerB; each pair is emitted once.
type DuplicatePair struct {
	PlayerA string  `json:"player_a"`
	PlayerB string  `json:"player_b"`
	Score   float64 `json:"score"`
}

// ScanStatus represents the outcome of a duplicate scan
type ScanStatus string

const (
	ScanStatusOK      ScanStatus = "ok"
	ScanStatusSkipped ScanStatus = "skipped"
)

// DuplicateScan is the duplicate-detection output for a snapshot
type DuplicateScan struct {
	ID        string          `json:"id"`
	Status    ScanStatus      `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	Compared  int             `json:"compared"`
	SampleCap int             `json:"sample_cap"`
	Threshold float64         `json:"threshold"`
	Pairs     []DuplicatePair `json:"pairs"`
}

// RiskReport is the assembled analytics output handed to the
// presentation and document-rendering collaborators.
type RiskReport struct {
	ID              string                  `json:"id"`
	GeneratedAt     time.Time               `json:"generated_at"`
	StartDate       time.Time               `json:"start_date"`
	EndDate         time.Time               `json:"end_date"`
	Provider        string                  `json:"provider,omitempty"`
	Granularity     string                  `json:"granularity"`
	NoData          bool                    `json:"no_data"`
	Periods         []PeriodSummary         `json:"periods"`
	OccupationFlags []OccupationFlagSummary `json:"occupation_flags"`
	RiskBreakdown   []RiskBreakdown         `json:"risk_breakdown"`
	TopPlayers      []TopPlayer             `json:"top_players"`
	KYCAging        KYCAgingSummary         `json:"kyc_aging"`
	Duplicates      DuplicateScan           `json:"duplicates"`
}
