package amendment

import (
	"strings"
	"testing"
	"time"
)

var testMember = Member{
	ID:       "H354",
	FullName: "Jane Q. Example",
	Chamber:  ChamberHouse,
	District: "12",
	Party:    "D",
}

func TestAmountTypeOf(t *testing.T) {
	tests := []struct {
		first    *float64
		second   *float64
		expected AmountType
	}{
		{nil, nil, AmountLanguageOnly},
		{floatPtr(0), nil, AmountIncrease},
		{floatPtr(100), floatPtr(-50), AmountIncrease},
		{nil, floatPtr(-1), AmountDecrease},
		{floatPtr(-100), floatPtr(50), AmountDecrease},
	}

	for i, tt := range tests {
		if result := AmountTypeOf(tt.first, tt.second); result != tt.expected {
			t.Errorf("Case %d: expected %s, got %s", i, tt.expected, result)
		}
	}
}

func TestNewRecord_DerivedFields(t *testing.T) {
	record := NewRecord(Record{
		DeltaGF:    floatPtr(300),
		DeltaNGF:   floatPtr(-100),
		NetAmount:  999,
		IsIncrease: false,
	})

	if record.NetAmount != 200 {
		t.Errorf("Expected net 200, got %v", record.NetAmount)
	}
	if !record.IsIncrease {
		t.Error("Expected increase")
	}
	if record.IsLanguageOnly {
		t.Error("Expected not language-only")
	}
	if record.Stage != StageMemberRequest {
		t.Errorf("Expected stage %s, got %s", StageMemberRequest, record.Stage)
	}
}

func TestNewRecord_ZeroIsNotLanguageOnly(t *testing.T) {
	zero := NewRecord(Record{DeltaGF: floatPtr(0), DeltaNGF: floatPtr(0)})
	if zero.IsLanguageOnly || zero.IsIncrease || zero.NetAmount != 0 {
		t.Errorf("Expected real zero-change record, got %+v", zero)
	}

	language := NewRecord(Record{})
	if !language.IsLanguageOnly {
		t.Error("Expected record without deltas to be language-only")
	}
}

func TestNewRecord_ClassifiesMissingCategory(t *testing.T) {
	record := NewRecord(Record{DescriptionShort: "Virginia Tech research"})
	if record.SpendingCategoryID != CategoryHigherEducation {
		t.Errorf("Expected %s, got %s", CategoryHigherEducation, record.SpendingCategoryID)
	}

	kept := NewRecord(Record{SpendingCategoryID: CategoryFinance, DescriptionShort: "Virginia Tech research"})
	if kept.SpendingCategoryID != CategoryFinance {
		t.Errorf("Expected supplied category to be kept, got %s", kept.SpendingCategoryID)
	}
}

func TestRecordID(t *testing.T) {
	if id := RecordID("HB1600", 2025, "H354", "125 #10h"); id != "HB1600-2025-member-H354-125-10h" {
		t.Errorf("Expected 'HB1600-2025-member-H354-125-10h', got %q", id)
	}
}

func TestBuildMemberRequests(t *testing.T) {
	rows := []ParsedRow{
		{ItemNumber: "125", AmendmentNumber: "#10h", Title: "Standards of Quality staffing", DetailURL: "https://budget.lis.virginia.gov/a/1", FYFirst: floatPtr(100), FYSecond: floatPtr(200)},
		{ItemNumber: "311", AmendmentNumber: "#2h", Title: "Clarify reporting language"},
	}
	details := map[string]string{
		"https://budget.lis.virginia.gov/a/1": "Provides funding to the Example County School Board for staffing.",
	}

	requests, records := BuildMemberRequests(testMember, 2025, "HB1600", rows, details)

	if len(requests) != 2 || len(records) != 2 {
		t.Fatalf("Expected 2 requests and 2 records, got %d and %d", len(requests), len(records))
	}

	if requests[0].Item != "125 #10h" {
		t.Errorf("Expected item '125 #10h', got %q", requests[0].Item)
	}
	if requests[0].Stage != StageCodeMemberRequest {
		t.Errorf("Expected stage %s, got %s", StageCodeMemberRequest, requests[0].Stage)
	}
	if requests[0].SpendingCategoryID != CategoryK12Education {
		t.Errorf("Expected %s, got %s", CategoryK12Education, requests[0].SpendingCategoryID)
	}
	if requests[1].AmountType != AmountLanguageOnly {
		t.Errorf("Expected language-only, got %s", requests[1].AmountType)
	}

	first := records[0]
	if first.DeltaGF == nil || *first.DeltaGF != 300 {
		t.Errorf("Expected GF delta 300, got %v", first.DeltaGF)
	}
	if first.NetAmount != 300 {
		t.Errorf("Expected net 300, got %v", first.NetAmount)
	}
	if first.PatronName != testMember.FullName || first.LegislatorID != "H354" || first.MemberCode != "H354" {
		t.Errorf("Expected member attribution, got %+v", first)
	}
	if first.SubItem != "#10h" {
		t.Errorf("Expected sub item '#10h', got %q", first.SubItem)
	}
	if first.DescriptionFull == "" {
		t.Error("Expected detail text as full description")
	}
	if !strings.Contains(first.PrimaryRecipientName, "Example County School Board") {
		t.Errorf("Expected recipient from detail text, got %q", first.PrimaryRecipientName)
	}
	if first.Confidence() != HighRecipientConfidence {
		t.Errorf("Expected confidence %v, got %v", HighRecipientConfidence, first.Confidence())
	}

	if !records[1].IsLanguageOnly {
		t.Error("Expected second record to be language-only")
	}
}

func TestBuildMemberRequests_OverflowingAmountIsAbsent(t *testing.T) {
	rows := []ParsedRow{
		{ItemNumber: "125", AmendmentNumber: "#10h", Title: "Standards of Quality staffing", FYFirst: ParseCurrency("1e400"), FYSecond: ParseCurrency("$500")},
	}

	requests, records := BuildMemberRequests(testMember, 2025, "HB1600", rows, nil)

	if requests[0].FYFirst != nil {
		t.Errorf("Expected absent first-year amount, got %v", *requests[0].FYFirst)
	}
	if records[0].NetAmount != 500 {
		t.Errorf("Expected net 500, got %v", records[0].NetAmount)
	}
	if Fingerprint(records[0]) == "" {
		t.Error("Expected fingerprint")
	}

	card := BuildCard(testMember, "HB1600", requests, "", time.Now())
	if card.Display.Headline != "1 member request • $500 second-year" {
		t.Errorf("Unexpected headline %q", card.Display.Headline)
	}
}

func TestComputeTotals(t *testing.T) {
	items := []Request{
		{Item: "1 #1h", FYFirst: floatPtr(100), FYSecond: floatPtr(-500), AmountType: AmountDecrease},
		{Item: "2 #1h", AmountType: AmountLanguageOnly},
		{Item: "3 #1h", FYFirst: floatPtr(500), FYSecond: floatPtr(10), AmountType: AmountIncrease},
		{Item: "4 #1h", FYSecond: floatPtr(300), AmountType: AmountIncrease},
	}

	totals := ComputeTotals(items)

	if totals.Count != 4 {
		t.Errorf("Expected count 4, got %d", totals.Count)
	}
	if totals.LanguageOnlyCount != 1 {
		t.Errorf("Expected 1 language-only, got %d", totals.LanguageOnlyCount)
	}
	if totals.FYFirstTotal != 600 {
		t.Errorf("Expected FY1 total 600, got %v", totals.FYFirstTotal)
	}
	if totals.FYSecondTotal != -190 {
		t.Errorf("Expected FY2 total -190, got %v", totals.FYSecondTotal)
	}

	// items 1 and 3 tie at 500; the first one found is kept
	if totals.LargestAmendment == nil || totals.LargestAmendment.Item != "1 #1h" {
		t.Fatalf("Expected largest amendment '1 #1h', got %+v", totals.LargestAmendment)
	}
	if totals.LargestAmendment.Amount != 500 {
		t.Errorf("Expected largest amount 500, got %v", totals.LargestAmendment.Amount)
	}
}

func TestComputeTotals_NoAmounts(t *testing.T) {
	totals := ComputeTotals([]Request{{Item: "1 #1h", AmountType: AmountLanguageOnly}})
	if totals.LargestAmendment != nil {
		t.Errorf("Expected no largest amendment, got %+v", totals.LargestAmendment)
	}
}

func TestFeatured(t *testing.T) {
	items := []Request{
		{Item: "a", FYFirst: floatPtr(10)},
		{Item: "b", FYFirst: floatPtr(-300)},
		{Item: "c", FYSecond: floatPtr(50)},
		{Item: "d", FYSecond: floatPtr(300)},
	}

	featured := Featured(items, 3)

	got := []string{featured[0].Item, featured[1].Item, featured[2].Item}
	want := []string{"b", "d", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected featured %v, got %v", want, got)
			break
		}
	}
	if items[0].Item != "a" {
		t.Error("Featured should not reorder the input")
	}
}

func TestBuildCard(t *testing.T) {
	items := []Request{
		{Item: "1 #1h", FYFirst: floatPtr(100), FYSecond: floatPtr(1_250_000), AmountType: AmountIncrease},
		{Item: "2 #1h", FYSecond: floatPtr(50_000), AmountType: AmountIncrease},
	}
	updatedAt := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	card := BuildCard(testMember, "HB1600", items, "https://budget.lis.virginia.gov/mbramendment/2025/1/H354", updatedAt)

	if card.LastName != "Example" {
		t.Errorf("Expected last name 'Example', got %q", card.LastName)
	}
	if card.Display.Headline != "2 member requests • $1.3M second-year" {
		t.Errorf("Unexpected headline %q", card.Display.Headline)
	}
	if card.UpdatedAt != "2025-01-15T12:00:00.000Z" {
		t.Errorf("Unexpected updatedAt %q", card.UpdatedAt)
	}

	stage, ok := card.Amendments["HB1600"][StageCodeMemberRequest]
	if !ok {
		t.Fatal("Expected HB1600/MR stage data")
	}
	if stage.Totals.Count != 2 || len(stage.Items) != 2 || len(stage.Featured) != 2 {
		t.Errorf("Unexpected stage data %+v", stage)
	}
}

func TestBuildCard_Empty(t *testing.T) {
	card := BuildCard(testMember, "HB30", nil, "", time.Now())

	if card.Display.Headline != "No member requests found" {
		t.Errorf("Unexpected headline %q", card.Display.Headline)
	}
	if items := card.Amendments["HB30"][StageCodeMemberRequest].Items; items == nil {
		t.Error("Expected empty, non-nil item list")
	}
}

func TestBuildCard_SingleRequestHeadline(t *testing.T) {
	items := []Request{{Item: "1 #1h", FYSecond: floatPtr(900), AmountType: AmountIncrease}}

	card := BuildCard(testMember, "HB30", items, "", time.Now())

	if card.Display.Headline != "1 member request • $900 second-year" {
		t.Errorf("Unexpected headline %q", card.Display.Headline)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "$0"},
		{999, "$999"},
		{1_500, "$2K"},
		{350_000, "$350K"},
		{1_250_000, "$1.3M"},
		{-2_000_000, "$-2.0M"},
	}

	for _, tt := range tests {
		if result := FormatCurrency(tt.value); result != tt.expected {
			t.Errorf("FormatCurrency(%v): expected %q, got %q", tt.value, tt.expected, result)
		}
	}
}
