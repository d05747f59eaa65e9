package report

import (
	"cmp"
	"math"
	"slices"

	"github.com/lysyi3m/lis-comb/app/amendment"
)

// StoryBucket is a plain-language grouping of spending categories.
type StoryBucket string

const (
	BucketSchoolsKids            StoryBucket = "schools_kids"
	BucketHealthCare             StoryBucket = "health_care"
	BucketSafetyJustice          StoryBucket = "safety_justice"
	BucketRoadsTransit           StoryBucket = "roads_transit"
	BucketJobsBusinessInnovation StoryBucket = "jobs_business_innovation"
	BucketParksEnvironmentEnergy StoryBucket = "parks_environment_energy"
	BucketVeteransMilitary       StoryBucket = "veterans_military"
	BucketGovernmentOverhead     StoryBucket = "government_overhead"
	BucketDebtReserves           StoryBucket = "debt_reserves"
)

type StoryBucketInfo struct {
	ID         StoryBucket `json:"id"`
	Label      string      `json:"label"`
	ShortLabel string      `json:"shortLabel"`
}

var storyBuckets = []StoryBucketInfo{
	{BucketSchoolsKids, "Schools & Kids", "Schools & Kids"},
	{BucketHealthCare, "Health & Care", "Health & Care"},
	{BucketSafetyJustice, "Safety & Justice", "Safety & Justice"},
	{BucketRoadsTransit, "Roads & Transit", "Roads & Transit"},
	{BucketJobsBusinessInnovation, "Jobs, Business & Innovation", "Jobs & Business"},
	{BucketParksEnvironmentEnergy, "Parks, Environment & Energy", "Parks & Environment"},
	{BucketVeteransMilitary, "Veterans & Military Families", "Veterans"},
	{BucketGovernmentOverhead, "Government & Overhead", "Government"},
	{BucketDebtReserves, "Debt & Reserves", "Debt & Reserves"},
}

// Debt & Reserves has no categories yet; finance and central appropriations
// stay in government overhead.
var categoryBuckets = map[amendment.Category]StoryBucket{
	amendment.CategoryK12Education:      BucketSchoolsKids,
	amendment.CategoryHigherEducation:   BucketSchoolsKids,
	amendment.CategoryHealthHuman:       BucketHealthCare,
	amendment.CategoryPublicSafety:      BucketSafetyJustice,
	amendment.CategoryJudicial:          BucketSafetyJustice,
	amendment.CategoryTransportation:    BucketRoadsTransit,
	amendment.CategoryCommerceTrade:     BucketJobsBusinessInnovation,
	amendment.CategoryAgriculture:       BucketJobsBusinessInnovation,
	amendment.CategoryNaturalResources:  BucketParksEnvironmentEnergy,
	amendment.CategoryVeteransDefense:   BucketVeteransMilitary,
	amendment.CategoryAdministration:    BucketGovernmentOverhead,
	amendment.CategoryLegislative:       BucketGovernmentOverhead,
	amendment.CategoryIndependentAgency: BucketGovernmentOverhead,
	amendment.CategoryCapitalOutlay:     BucketGovernmentOverhead,
	amendment.CategoryFinance:           BucketGovernmentOverhead,
	amendment.CategoryCentralApprop:     BucketGovernmentOverhead,
	amendment.CategoryUnclassified:      BucketGovernmentOverhead,
}

func StoryBuckets() []StoryBucketInfo {
	return slices.Clone(storyBuckets)
}

func StoryBucketFor(category amendment.Category) StoryBucket {
	if bucket, ok := categoryBuckets[category]; ok {
		return bucket
	}
	return BucketGovernmentOverhead
}

func (b StoryBucket) Info() StoryBucketInfo {
	for _, info := range storyBuckets {
		if info.ID == b {
			return info
		}
	}
	return StoryBucketInfo{ID: b, Label: string(b), ShortLabel: string(b)}
}

type BucketSlice struct {
	BucketID    StoryBucket          `json:"bucketId"`
	Label       string               `json:"label"`
	TotalAmount float64              `json:"totalAmount"`
	Categories  []amendment.Category `json:"categories"`
}

// StoryBucketSlices regroups category focus slices into story buckets,
// largest magnitude first.
func StoryBucketSlices(focus []FocusSlice) []BucketSlice {
	totals := newGroups[StoryBucket]()
	categories := make(map[StoryBucket][]amendment.Category)

	for _, s := range focus {
		bucket := StoryBucketFor(s.CategoryID)
		totals.add(bucket, s.TotalAmount)
		categories[bucket] = append(categories[bucket], s.CategoryID)
	}

	out := make([]BucketSlice, 0, len(totals.keys))
	for _, bucket := range totals.keys {
		out = append(out, BucketSlice{
			BucketID:    bucket,
			Label:       bucket.Info().Label,
			TotalAmount: totals.total(bucket),
			Categories:  categories[bucket],
		})
	}

	slices.SortStableFunc(out, func(a, b BucketSlice) int {
		return cmp.Compare(math.Abs(b.TotalAmount), math.Abs(a.TotalAmount))
	})

	return out
}
