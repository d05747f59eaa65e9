package amendment

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const FeaturedCount = 3

// BuildMemberRequests turns one member's parsed rows into published request
// summaries and canonical records, both in page order. details maps detail
// page URLs to extracted text and may be nil.
func BuildMemberRequests(member Member, year int, bill string, rows []ParsedRow, details map[string]string) ([]Request, []Record) {
	requests := make([]Request, 0, len(rows))
	records := make([]Record, 0, len(rows))

	for _, row := range rows {
		item := row.Item()
		id := RecordID(bill, year, member.Code(), item)
		category := Classify(row.Title)
		full := details[row.DetailURL]

		request := Request{
			ID:                 id,
			Bill:               bill,
			Stage:              StageCodeMemberRequest,
			Item:               item,
			Title:              row.Title,
			LISURL:             row.DetailURL,
			FYFirst:            row.FYFirst,
			FYSecond:           row.FYSecond,
			AmountType:         AmountTypeOf(row.FYFirst, row.FYSecond),
			SpendingCategoryID: category,
		}

		record := Record{
			ID:                 id,
			Stage:              StageMemberRequest,
			BillNumber:         bill,
			SessionYear:        year,
			Chamber:            member.Chamber,
			PatronName:         member.FullName,
			LegislatorID:       member.ID,
			MemberCode:         member.Code(),
			ItemNumber:         row.ItemNumber,
			SubItem:            row.AmendmentNumber,
			SpendingCategoryID: category,
			DeltaGF:            sumPresent(row.FYFirst, row.FYSecond),
			DescriptionShort:   row.Title,
			DescriptionFull:    full,
			SourceURL:          row.DetailURL,
			SourcePageHint:     item,
		}

		if recipient, ok := ExtractRecipient(cmp.Or(full, row.Title)); ok {
			confidence := recipient.Confidence
			record.PrimaryRecipientName = recipient.Name
			record.RecipientRawText = recipient.RawText
			record.RecipientConfidence = &confidence
			request.PrimaryRecipientName = recipient.Name
		}

		requests = append(requests, request)
		records = append(records, NewRecord(record))
	}

	return requests, records
}

// ComputeTotals rolls up a member's requests. The largest amendment is the
// first one reaching the greatest single fiscal-year magnitude.
func ComputeTotals(items []Request) Totals {
	totals := Totals{Count: len(items)}

	for _, item := range items {
		if item.AmountType == AmountLanguageOnly {
			totals.LanguageOnlyCount++
		}
		totals.FYFirstTotal += valueOrZero(item.FYFirst)
		totals.FYSecondTotal += valueOrZero(item.FYSecond)
	}

	var maxAmount float64
	for _, item := range items {
		amount := magnitude(item)
		if amount > maxAmount {
			maxAmount = amount
			totals.LargestAmendment = &LargestAmendment{
				Item:   item.Item,
				Title:  item.Title,
				Amount: amount,
				LISURL: item.LISURL,
			}
		}
	}

	return totals
}

// Featured returns up to n requests by descending magnitude, ties in page order.
func Featured(items []Request, n int) []Request {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Request) int {
		return cmp.Compare(magnitude(b), magnitude(a))
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// BuildCard assembles the published card of one member for one bill.
func BuildCard(member Member, bill string, items []Request, profileURL string, updatedAt time.Time) Card {
	if items == nil {
		items = []Request{}
	}
	totals := ComputeTotals(items)

	headline := "No member requests found"
	if totals.Count > 0 {
		plural := "s"
		if totals.Count == 1 {
			plural = ""
		}
		headline = fmt.Sprintf("%d member request%s • %s second-year", totals.Count, plural, FormatCurrency(totals.FYSecondTotal))
	}

	return Card{
		ID:         member.ID,
		FullName:   member.FullName,
		LastName:   cmp.Or(member.LastName, lastName(member.FullName)),
		Chamber:    member.Chamber,
		District:   member.District,
		Party:      member.Party,
		ProfileURL: profileURL,
		Amendments: map[string]map[string]StageData{
			bill: {
				StageCodeMemberRequest: {
					Totals:   totals,
					Items:    items,
					Featured: Featured(items, FeaturedCount),
				},
			},
		},
		Display: Display{
			Headline: headline,
			Badges:   []string{},
		},
		UpdatedAt: updatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// FormatCurrency renders headline amounts: $1.2M, $350K, $900. Halves
// round away from zero.
func FormatCurrency(value float64) string {
	d := decimal.NewFromFloat(value)
	abs := math.Abs(value)
	switch {
	case abs >= 1_000_000:
		return "$" + d.Div(decimal.NewFromInt(1_000_000)).StringFixed(1) + "M"
	case abs >= 1_000:
		return "$" + d.Div(decimal.NewFromInt(1_000)).StringFixed(0) + "K"
	default:
		return "$" + d.StringFixed(0)
	}
}

func magnitude(item Request) float64 {
	return math.Max(math.Abs(valueOrZero(item.FYFirst)), math.Abs(valueOrZero(item.FYSecond)))
}

func lastName(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
