package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/savegress/wagerwatch/pkg/models"
	"github.com/shopspring/decimal"
)

// Required columns per dataset. A missing required column is a schema
// error and fails the pipeline before any row is processed.
var (
	profileRequiredColumns = []string{"player_id", "nature_of_work", "kyc_status", "registration_date"}
	usageRequiredColumns   = []string{"playerid", "sp_name", "date_time", "total_bet", "total_win", "txn_count", "game_id"}
)

// IdentityColumns is the fixed, ordered set of profile columns used to
// build the normalized identity string for duplicate detection. These
// are optional: detection degrades gracefully when columns are absent.
var IdentityColumns = []string{
	"first_name", "last_name", "email", "username",
	"phone", "city", "region", "postal_code",
}

// Timestamp layouts accepted by the loader, tried in order
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// SchemaError reports a missing required column at pipeline start
type SchemaError struct {
	Dataset string
	Column  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %s: required column %q missing", e.Dataset, e.Column)
}

// LoadSnapshot reads the profile and usage CSV files into an immutable
// snapshot. The snapshot hash covers the raw bytes of both files.
func LoadSnapshot(profilePath, usagePath string) (*Snapshot, error) {
	profileData, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("read profile dataset: %w", err)
	}
	usageData, err := os.ReadFile(usagePath)
	if err != nil {
		return nil, fmt.Errorf("read usage dataset: %w", err)
	}

	return ParseSnapshot(bytes.NewReader(profileData), bytes.NewReader(usageData),
		contentHash(profileData, usageData))
}

// ParseSnapshot parses the two datasets from readers. Exposed for
// tests and for callers that hold the data in memory already.
func ParseSnapshot(profile, usage io.Reader, hash string) (*Snapshot, error) {
	profiles, identityCols, err := parseProfiles(profile)
	if err != nil {
		return nil, err
	}

	usageRecords, err := parseUsage(usage)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Profiles:        profiles,
		Usage:           usageRecords,
		IdentityColumns: identityCols,
		Hash:            hash,
	}, nil
}

func parseProfiles(r io.Reader) ([]models.PlayerProfile, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read profile header: %w", err)
	}

	cols := indexColumns(header)
	for _, required := range profileRequiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, nil, &SchemaError{Dataset: "profile", Column: required}
		}
	}

	// Record which identity columns this snapshot can offer to the
	// duplicate detector.
	var identityCols []string
	for _, c := range IdentityColumns {
		if _, ok := cols[c]; ok {
			identityCols = append(identityCols, c)
		}
	}

	var profiles []models.PlayerProfile
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read profile row: %w", err)
		}

		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		profiles = append(profiles, models.PlayerProfile{
			PlayerID:     get("player_id"),
			FirstName:    get("first_name"),
			LastName:     get("last_name"),
			Email:        get("email"),
			Username:     get("username"),
			Phone:        get("phone"),
			City:         get("city"),
			Region:       get("region"),
			PostalCode:   get("postal_code"),
			Occupation:   get("nature_of_work"),
			KYCStatus:    get("kyc_status"),
			RegisteredAt: parseTime(get("registration_date")),
			VerifiedAt:   parseTime(get("kyc_verified_date")),
			AsOf:         parseTime(get("as_of_date")),
		})
	}

	return profiles, identityCols, nil
}

func parseUsage(r io.Reader) ([]models.UsageRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read usage header: %w", err)
	}

	cols := indexColumns(header)
	for _, required := range usageRequiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, &SchemaError{Dataset: "usage", Column: required}
		}
	}

	var records []models.UsageRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read usage row: %w", err)
		}

		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		eventAt := parseTime(get("date_time"))
		if eventAt == nil {
			// Records without a parseable event time cannot be
			// bucketed or filtered; excluded at the boundary.
			continue
		}

		records = append(records, models.UsageRecord{
			PlayerID:     get("playerid"),
			Provider:     get("sp_name"),
			EventAt:      *eventAt,
			WagerAmount:  parseAmount(get("total_bet")),
			ReturnAmount: parseAmount(get("total_win")),
			TxnCount:     parseCount(get("txn_count")),
			GameID:       get("game_id"),
		})
	}

	return records, nil
}

// indexColumns maps normalized header names to their positions
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

// parseTime coerces a timestamp value to a missing-value sentinel (nil)
// when empty or unparseable; it never substitutes a default date.
func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func parseAmount(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseCount(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func contentHash(profile, usage []byte) string {
	h := sha256.New()
	h.Write(profile)
	h.Write(usage)
	return hex.EncodeToString(h.Sum(nil))
}
