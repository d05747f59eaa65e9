package amendment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func floatPtr(v float64) *float64 {
	return &v
}

func dedupeFixture() []Record {
	return []Record{
		NewRecord(Record{
			ID:               "first",
			BillNumber:       "HB1600",
			SessionYear:      2025,
			ItemNumber:       "125",
			PatronName:       "Jane Doe",
			DeltaGF:          floatPtr(500000.2),
			DescriptionShort: "Provides funding  for the Example Center",
		}),
		NewRecord(Record{
			ID:               "second",
			BillNumber:       "HB1600",
			SessionYear:      2025,
			ItemNumber:       "125",
			PatronName:       "  JANE   doe ",
			DeltaGF:          floatPtr(500000.4),
			DescriptionShort: "provides FUNDING for the example center",
		}),
		NewRecord(Record{
			ID:               "third",
			BillNumber:       "HB1600",
			SessionYear:      2025,
			ItemNumber:       "126",
			PatronName:       "Jane Doe",
			DeltaGF:          floatPtr(500000.2),
			DescriptionShort: "Provides funding  for the Example Center",
		}),
	}
}

func TestFingerprint_IgnoresCaseSpacingAndCents(t *testing.T) {
	records := dedupeFixture()

	if Fingerprint(records[0]) != Fingerprint(records[1]) {
		t.Errorf("Expected equal fingerprints, got %q and %q", Fingerprint(records[0]), Fingerprint(records[1]))
	}
}

func TestFingerprint_ItemNumberMatters(t *testing.T) {
	records := dedupeFixture()

	if Fingerprint(records[0]) == Fingerprint(records[2]) {
		t.Error("Expected different fingerprints for different item numbers")
	}
}

func TestFingerprint_FallsBackToFullDescription(t *testing.T) {
	short := NewRecord(Record{BillNumber: "HB30", ItemNumber: "1", DescriptionShort: "Same text"})
	full := NewRecord(Record{BillNumber: "HB30", ItemNumber: "1", DescriptionFull: "same   TEXT"})

	if Fingerprint(short) != Fingerprint(full) {
		t.Error("Expected full description to stand in for a missing short description")
	}
}

func TestFingerprint_SeparatorCannotLeakFromFields(t *testing.T) {
	a := NewRecord(Record{BillNumber: "HB30", ItemNumber: "1\x1f2"})
	b := NewRecord(Record{BillNumber: "HB30\x1f1", ItemNumber: "2"})

	if Fingerprint(a) == Fingerprint(b) {
		t.Error("Expected separator characters inside fields to be dropped")
	}
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	records := dedupeFixture()

	result := Dedupe(records)

	want := []Record{records[0], records[2]}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("Dedupe mismatch (-want +got):\n%s", diff)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	once := Dedupe(dedupeFixture())
	twice := Dedupe(once)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Dedupe is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestDedupe_DoesNotMutateInput(t *testing.T) {
	records := dedupeFixture()
	before := append([]Record(nil), records...)

	Dedupe(records)

	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("Input modified (-before +after):\n%s", diff)
	}
}

func TestDedupe_Empty(t *testing.T) {
	if result := Dedupe(nil); len(result) != 0 {
		t.Errorf("Expected empty result, got %d records", len(result))
	}
}
