package dedup

import (
	"fmt"
	"testing"

	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/pkg/models"
)

func testDetector() *Detector {
	return NewDetector(&config.DedupConfig{
		Enabled:   true,
		SampleCap: 300,
		Threshold: 90,
		Workers:   2,
	})
}

func profile(id, first, last, email string) models.PlayerProfile {
	return models.PlayerProfile{
		PlayerID:  id,
		FirstName: first,
		LastName:  last,
		Email:     email,
	}
}

var nameEmailColumns = []string{"first_name", "last_name", "email"}

func TestDetector_Scan_TransposedNames(t *testing.T) {
	d := testDetector()

	scan := d.Scan([]models.PlayerProfile{
		profile("p1", "John", "Doe", "john@example.com"),
		profile("p2", "Doe", "John", "john@example.com"),
		profile("p3", "Alice", "Quartz", "alice@elsewhere.net"),
	}, nameEmailColumns)

	if scan.Status != models.ScanStatusOK {
		t.Fatalf("status = %s, expected ok", scan.Status)
	}
	if scan.Compared != 3 {
		t.Errorf("compared = %d, expected 3", scan.Compared)
	}
	if len(scan.Pairs) != 1 {
		t.Fatalf("expected 1 duplicate pair, got %d: %+v", len(scan.Pairs), scan.Pairs)
	}

	pair := scan.Pairs[0]
	if pair.PlayerA != "p1" || pair.PlayerB != "p2" {
		t.Errorf("pair = (%s,%s), expected (p1,p2)", pair.PlayerA, pair.PlayerB)
	}
	if pair.Score != 100 {
		t.Errorf("transposed names score = %f, expected 100", pair.Score)
	}
}

func TestDetector_Scan_PairOrderAndUniqueness(t *testing.T) {
	d := testDetector()

	// IDs chosen so dataset order differs from lexical order.
	scan := d.Scan([]models.PlayerProfile{
		profile("zz", "John", "Doe", "john@example.com"),
		profile("aa", "Doe", "John", "john@example.com"),
	}, nameEmailColumns)

	if len(scan.Pairs) != 1 {
		t.Fatalf("symmetric pair must be emitted once, got %d", len(scan.Pairs))
	}
	if scan.Pairs[0].PlayerA != "aa" || scan.Pairs[0].PlayerB != "zz" {
		t.Errorf("pair key not lexically ordered: (%s,%s)", scan.Pairs[0].PlayerA, scan.Pairs[0].PlayerB)
	}
}

func TestDetector_Scan_Deterministic(t *testing.T) {
	d := testDetector()

	profiles := []models.PlayerProfile{
		profile("p1", "John", "Doe", "john@example.com"),
		profile("p2", "Doe", "John", "john@example.com"),
		profile("p3", "Jon", "Doe", "john@example.com"),
		profile("p4", "John", "Doe", "john@example.com"),
	}

	first := d.Scan(profiles, nameEmailColumns)
	second := d.Scan(profiles, nameEmailColumns)

	if len(first.Pairs) != len(second.Pairs) {
		t.Fatalf("pair counts differ: %d vs %d", len(first.Pairs), len(second.Pairs))
	}
	for i := range first.Pairs {
		if first.Pairs[i] != second.Pairs[i] {
			t.Errorf("pair %d differs across runs: %+v vs %+v", i, first.Pairs[i], second.Pairs[i])
		}
	}
	// Highest score first.
	for i := 1; i < len(first.Pairs); i++ {
		if first.Pairs[i].Score > first.Pairs[i-1].Score {
			t.Errorf("pairs not sorted by score descending at %d", i)
		}
	}
}

func TestDetector_Scan_SkippedInsufficientColumns(t *testing.T) {
	d := testDetector()

	scan := d.Scan([]models.PlayerProfile{
		profile("p1", "John", "Doe", "john@example.com"),
	}, []string{"email"})

	if scan.Status != models.ScanStatusSkipped {
		t.Fatalf("status = %s, expected skipped", scan.Status)
	}
	if scan.Reason != ReasonInsufficientColumns {
		t.Errorf("reason = %q, expected %q", scan.Reason, ReasonInsufficientColumns)
	}
	if len(scan.Pairs) != 0 {
		t.Errorf("skipped scan must emit no pairs, got %d", len(scan.Pairs))
	}
}

func TestDetector_Scan_Disabled(t *testing.T) {
	d := NewDetector(&config.DedupConfig{Enabled: false, SampleCap: 300, Threshold: 90, Workers: 2})

	scan := d.Scan(nil, nameEmailColumns)
	if scan.Status != models.ScanStatusSkipped || scan.Reason != ReasonDisabled {
		t.Errorf("disabled scan = %s/%q, expected skipped/%q", scan.Status, scan.Reason, ReasonDisabled)
	}
}

func TestDetector_Scan_SampleCap(t *testing.T) {
	d := NewDetector(&config.DedupConfig{Enabled: true, SampleCap: 5, Threshold: 90, Workers: 2})

	var profiles []models.PlayerProfile
	for i := 0; i < 20; i++ {
		profiles = append(profiles, profile(
			fmt.Sprintf("p%02d", i),
			fmt.Sprintf("first%d", i),
			fmt.Sprintf("last%d", i),
			fmt.Sprintf("u%d@example.com", i),
		))
	}

	scan := d.Scan(profiles, nameEmailColumns)
	if scan.Compared != 5 {
		t.Errorf("compared = %d, expected sample cap of 5", scan.Compared)
	}
}

func TestDetector_Scan_ExcludesIncompleteProfiles(t *testing.T) {
	d := testDetector()

	scan := d.Scan([]models.PlayerProfile{
		profile("p1", "John", "Doe", "john@example.com"),
		profile("p2", "John", "", "john@example.com"), // missing last name
	}, nameEmailColumns)

	if scan.Compared != 1 {
		t.Errorf("compared = %d, expected incomplete profile excluded", scan.Compared)
	}
	if len(scan.Pairs) != 0 {
		t.Errorf("expected no pairs with a single candidate, got %d", len(scan.Pairs))
	}
}

func TestIdentityString(t *testing.T) {
	p := profile("p1", "  John ", "DOE", "John@Example.com")

	identity, ok := IdentityString(&p, nameEmailColumns)
	if !ok {
		t.Fatal("expected complete identity")
	}
	if identity != "john doe john@example.com" {
		t.Errorf("identity = %q", identity)
	}

	p.Email = ""
	if _, ok := IdentityString(&p, nameEmailColumns); ok {
		t.Error("missing column value must exclude the profile")
	}
}
