package kyc

import (
	"testing"
	"time"

	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/pkg/models"
)

func testAnalyzer() *Analyzer {
	return NewAnalyzer(&config.KYCConfig{StaleDays: 3})
}

func ts(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestReferenceTime_MaxObserved(t *testing.T) {
	profiles := []models.PlayerProfile{
		{PlayerID: "p1", RegisteredAt: ts(2024, time.March, 1)},
		{PlayerID: "p2", RegisteredAt: ts(2024, time.March, 5), AsOf: ts(2024, time.March, 10)},
		{PlayerID: "p3"},
	}

	ref := ReferenceTime(profiles)
	if ref == nil || !ref.Equal(*ts(2024, time.March, 10)) {
		t.Errorf("reference = %v, expected 2024-03-10", ref)
	}
}

func TestReferenceTime_NoTimestamps(t *testing.T) {
	if ref := ReferenceTime([]models.PlayerProfile{{PlayerID: "p1"}}); ref != nil {
		t.Errorf("expected nil reference without timestamps, got %v", ref)
	}
}

func TestAnalyzer_Analyze_VerifiedCaseInsensitive(t *testing.T) {
	a := testAnalyzer()

	summary := a.Analyze([]models.PlayerProfile{
		{PlayerID: "p1", KYCStatus: "VERIFIED", VerifiedAt: ts(2024, time.March, 1), RegisteredAt: ts(2024, time.January, 1), AsOf: ts(2024, time.March, 10)},
		{PlayerID: "p2", KYCStatus: " Verified ", VerifiedAt: ts(2024, time.March, 2), RegisteredAt: ts(2024, time.January, 1)},
	})

	if summary.Verified != 2 {
		t.Errorf("verified = %d, expected 2", summary.Verified)
	}
	if summary.StaleUnverified != 0 {
		t.Errorf("verified players can never be stale, got %d", summary.StaleUnverified)
	}
}

func TestAnalyzer_Analyze_VerifiedStatusWithoutTimestamp(t *testing.T) {
	a := testAnalyzer()

	summary := a.Analyze([]models.PlayerProfile{
		{PlayerID: "p1", KYCStatus: "verified", RegisteredAt: ts(2024, time.January, 1), AsOf: ts(2024, time.March, 10)},
	})

	if summary.Verified != 0 || summary.Unclassified != 1 {
		t.Errorf("verified status without a verification date is unclassified, got %+v", summary)
	}
}

func TestAnalyzer_Analyze_StaleBoundary(t *testing.T) {
	a := testAnalyzer()

	summary := a.Analyze([]models.PlayerProfile{
		// Registered exactly staleDays before the reference: stale.
		{PlayerID: "p1", KYCStatus: "not_verified", RegisteredAt: ts(2024, time.March, 7), AsOf: ts(2024, time.March, 10)},
		// One day inside the window: not yet stale.
		{PlayerID: "p2", KYCStatus: "not_verified", RegisteredAt: ts(2024, time.March, 8)},
		// No registration date at all.
		{PlayerID: "p3", KYCStatus: "not_verified"},
	})

	if summary.StaleUnverified != 1 {
		t.Errorf("stale = %d, expected 1 (exactly at the boundary)", summary.StaleUnverified)
	}
	if summary.Unclassified != 2 {
		t.Errorf("unclassified = %d, expected 2", summary.Unclassified)
	}
	if summary.ReferenceAt == nil || !summary.ReferenceAt.Equal(*ts(2024, time.March, 10)) {
		t.Errorf("reference = %v, expected 2024-03-10", summary.ReferenceAt)
	}
	if summary.StaleDays != 3 {
		t.Errorf("stale days = %d, expected 3", summary.StaleDays)
	}
}

func TestAnalyzer_Analyze_Empty(t *testing.T) {
	summary := testAnalyzer().Analyze(nil)

	if summary.Verified != 0 || summary.StaleUnverified != 0 || summary.Unclassified != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if summary.ReferenceAt != nil {
		t.Errorf("expected nil reference for empty input, got %v", summary.ReferenceAt)
	}
}
