package amendment

import (
	"fmt"
	"regexp"
	"strings"
)

// NewRecord fills in the derived fields of r. NetAmount, IsIncrease and
// IsLanguageOnly are always recomputed from the deltas; a missing or unknown
// category is classified from agency metadata, then from the description.
func NewRecord(r Record) Record {
	if r.Stage == "" {
		r.Stage = StageMemberRequest
	}

	r.NetAmount = valueOrZero(r.DeltaGF) + valueOrZero(r.DeltaNGF)
	r.IsIncrease = r.NetAmount > 0
	r.IsLanguageOnly = r.DeltaGF == nil && r.DeltaNGF == nil

	if !r.SpendingCategoryID.Valid() {
		r.SpendingCategoryID = CategoryUnclassified
		if r.AgencyName != "" || r.SecretariatCode != "" {
			r.SpendingCategoryID = ClassifyAgency(r.AgencyName, r.SecretariatCode)
		}
		if r.SpendingCategoryID == CategoryUnclassified {
			r.SpendingCategoryID = Classify(r.Description())
		}
	}

	return r
}

var nonSlug = regexp.MustCompile(`[^A-Za-z0-9]+`)

// RecordID builds the stable id of a member request, e.g.
// "HB1600-2025-member-H354-125-10h".
func RecordID(bill string, year int, memberCode, item string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(item, "-"), "-")
	return fmt.Sprintf("%s-%d-member-%s-%s", bill, year, memberCode, slug)
}

// AmountTypeOf classifies the two fiscal-year amounts of a request.
func AmountTypeOf(fyFirst, fySecond *float64) AmountType {
	if fyFirst == nil && fySecond == nil {
		return AmountLanguageOnly
	}
	if valueOrZero(fyFirst)+valueOrZero(fySecond) >= 0 {
		return AmountIncrease
	}
	return AmountDecrease
}

func sumPresent(values ...*float64) *float64 {
	var sum float64
	present := false
	for _, v := range values {
		if v != nil {
			sum += *v
			present = true
		}
	}
	if !present {
		return nil
	}
	return &sum
}
