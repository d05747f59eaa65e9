package report

import (
	"math"
	"testing"

	"github.com/lysyi3m/lis-comb/app/amendment"
)

func TestGroupMinorSlices(t *testing.T) {
	focus := []FocusSlice{
		{CategoryID: amendment.CategoryK12Education, TotalAmount: 70},
		{CategoryID: amendment.CategoryHealthHuman, TotalAmount: 20},
		{CategoryID: amendment.CategoryTransportation, TotalAmount: 10},
		{CategoryID: amendment.CategoryFinance, TotalAmount: 3},
		{CategoryID: amendment.CategoryJudicial, TotalAmount: 2},
		{CategoryID: amendment.CategoryLegislative, TotalAmount: 1},
	}

	got := GroupMinorSlices(focus, MinSlicePercent)

	if len(got) != 4 {
		t.Fatalf("Expected 4 slices, got %d: %v", len(got), got)
	}

	for i, label := range []string{
		amendment.CategoryK12Education.Info().ShortLabel,
		amendment.CategoryHealthHuman.Info().ShortLabel,
		amendment.CategoryTransportation.Info().ShortLabel,
		OtherLabel,
	} {
		if got[i].Label != label {
			t.Errorf("Slice %d: expected label %q, got %q", i, label, got[i].Label)
		}
	}

	other := got[3]
	if !other.IsOther || other.Value != 6 {
		t.Errorf("Expected Other slice of 6, got %+v", other)
	}
	if math.Abs(other.Percent-6.0/106*100) > 1e-9 {
		t.Errorf("Expected Other percent %.4f, got %.4f", 6.0/106*100, other.Percent)
	}
	if got[0].IsOther {
		t.Error("Expected first slice not to be Other")
	}
}

func TestGroupMinorSlices_NoOtherWhenAllLarge(t *testing.T) {
	focus := []FocusSlice{
		{CategoryID: amendment.CategoryK12Education, TotalAmount: 60},
		{CategoryID: amendment.CategoryFinance, TotalAmount: 40},
	}

	got := GroupMinorSlices(focus, MinSlicePercent)
	if len(got) != 2 {
		t.Fatalf("Expected 2 slices, got %d", len(got))
	}
	for _, s := range got {
		if s.IsOther {
			t.Errorf("Unexpected Other slice %+v", s)
		}
	}
}

func TestGroupMinorSlices_NonPositiveTotal(t *testing.T) {
	if got := GroupMinorSlices(nil, MinSlicePercent); len(got) != 0 {
		t.Errorf("Expected no slices for empty input, got %v", got)
	}

	focus := []FocusSlice{{CategoryID: amendment.CategoryFinance, TotalAmount: -10}}
	if got := GroupMinorSlices(focus, MinSlicePercent); len(got) != 0 {
		t.Errorf("Expected no slices for negative total, got %v", got)
	}
}

func TestStoryBucketFor(t *testing.T) {
	tests := []struct {
		category amendment.Category
		expected StoryBucket
	}{
		{amendment.CategoryK12Education, BucketSchoolsKids},
		{amendment.CategoryHigherEducation, BucketSchoolsKids},
		{amendment.CategoryHealthHuman, BucketHealthCare},
		{amendment.CategoryJudicial, BucketSafetyJustice},
		{amendment.CategoryAgriculture, BucketJobsBusinessInnovation},
		{amendment.CategoryNaturalResources, BucketParksEnvironmentEnergy},
		{amendment.CategoryVeteransDefense, BucketVeteransMilitary},
		{amendment.CategoryFinance, BucketGovernmentOverhead},
		{amendment.CategoryUnclassified, BucketGovernmentOverhead},
		{"unknown", BucketGovernmentOverhead},
	}

	for _, tt := range tests {
		if got := StoryBucketFor(tt.category); got != tt.expected {
			t.Errorf("StoryBucketFor(%q): expected %q, got %q", tt.category, tt.expected, got)
		}
	}
}

func TestStoryBuckets_EveryCategoryHasBucket(t *testing.T) {
	known := make(map[StoryBucket]bool)
	for _, info := range StoryBuckets() {
		known[info.ID] = true
	}

	for _, category := range amendment.Categories() {
		if !known[StoryBucketFor(category.ID)] {
			t.Errorf("Category %s maps to unknown bucket", category.ID)
		}
	}
}

func TestStoryBucketSlices(t *testing.T) {
	focus := []FocusSlice{
		{CategoryID: amendment.CategoryFinance, TotalAmount: 100},
		{CategoryID: amendment.CategoryK12Education, TotalAmount: 80},
		{CategoryID: amendment.CategoryHigherEducation, TotalAmount: 50},
	}

	got := StoryBucketSlices(focus)
	if len(got) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(got))
	}
	if got[0].BucketID != BucketSchoolsKids || got[0].TotalAmount != 130 {
		t.Errorf("Expected schools bucket of 130 first, got %+v", got[0])
	}
	if len(got[0].Categories) != 2 {
		t.Errorf("Expected 2 categories in schools bucket, got %v", got[0].Categories)
	}
	if got[1].Label != "Government & Overhead" {
		t.Errorf("Expected Government & Overhead, got %s", got[1].Label)
	}
}
