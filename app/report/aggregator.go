package report

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/lysyi3m/lis-comb/app/amendment"
	"github.com/shopspring/decimal"
)

const (
	DefaultMinRecipientConfidence = 0.9
	DefaultRecipientLimit         = 5
)

// BillFilter restricts records by bill prefix. "HB-only" and "SB-only" are
// understood by Summaries alone.
type BillFilter string

const (
	BillFilterAll    BillFilter = "all"
	BillFilterBoth   BillFilter = "both"
	BillFilterHouse  BillFilter = "house"
	BillFilterSenate BillFilter = "senate"
	BillFilterHBOnly BillFilter = "HB-only"
	BillFilterSBOnly BillFilter = "SB-only"
)

type DedupeMode string

const (
	DedupeAll    DedupeMode = "all"
	DedupeUnique DedupeMode = "unique"
)

// Identity selects one legislator: by id when set, else by patron name.
// An empty identity matches no record.
type Identity struct {
	LegislatorID string
	PatronName   string
}

func (id Identity) matches(r amendment.Record) bool {
	switch {
	case id.LegislatorID != "":
		return r.LegislatorID == id.LegislatorID
	case id.PatronName != "":
		return amendment.NormalizeText(r.PatronName) == amendment.NormalizeText(id.PatronName)
	default:
		return false
	}
}

type FocusParams struct {
	Identity
	Years      []int // empty matches every year
	BillFilter BillFilter
	Chamber    string // "House", "Senate", "both" or empty
	Dedupe     DedupeMode
}

type FocusSlice struct {
	CategoryID  amendment.Category `json:"categoryId"`
	TotalAmount float64            `json:"totalAmount"`
}

type RecipientParams struct {
	FocusParams
	MinConfidence *float64 // nil uses DefaultMinRecipientConfidence
	Limit         int      // zero uses DefaultRecipientLimit
}

type Recipient struct {
	Name           string               `json:"recipientName"`
	TotalAmount    float64              `json:"totalAmount"`
	AmendmentCount int                  `json:"amendmentCount"`
	Categories     []amendment.Category `json:"categories"`
}

type SummaryParams struct {
	Identity
	Year       int
	BillFilter BillFilter
	Dedupe     DedupeMode
}

type Summary struct {
	ID                   string             `json:"id"`
	BillNumber           string             `json:"billNumber"`
	SessionYear          int                `json:"sessionYear"`
	DescriptionShort     string             `json:"descriptionShort"`
	NetAmount            float64            `json:"netAmount"`
	SpendingCategoryID   amendment.Category `json:"spendingCategoryId"`
	PrimaryRecipientName string             `json:"primaryRecipientName,omitempty"`
	RecipientConfidence  *float64           `json:"recipientConfidence,omitempty"`
	SourceURL            string             `json:"sourceUrl,omitempty"`
}

// FocusSlices sums the funding increases of one legislator per spending
// category, largest magnitude first.
func FocusSlices(records []amendment.Record, params FocusParams) []FocusSlice {
	selected := params.selectRecords(records)

	totals := newGroups[amendment.Category]()
	for _, r := range selected {
		totals.add(r.SpendingCategoryID, r.NetAmount)
	}

	out := make([]FocusSlice, 0, len(totals.keys))
	for _, category := range totals.keys {
		out = append(out, FocusSlice{CategoryID: category, TotalAmount: totals.total(category)})
	}

	slices.SortStableFunc(out, func(a, b FocusSlice) int {
		return cmp.Compare(math.Abs(b.TotalAmount), math.Abs(a.TotalAmount))
	})

	return out
}

// TopRecipients ranks the organisations a legislator's increases fund.
// Recipients are grouped case-insensitively and shown as first seen.
func TopRecipients(records []amendment.Record, params RecipientParams) []Recipient {
	minConfidence := DefaultMinRecipientConfidence
	if params.MinConfidence != nil {
		minConfidence = *params.MinConfidence
	}
	limit := cmp.Or(params.Limit, DefaultRecipientLimit)

	type entry struct {
		recipient Recipient
		seen      map[amendment.Category]bool
	}

	totals := newGroups[string]()
	entries := make(map[string]*entry)

	for _, r := range params.selectRecords(records) {
		name := strings.TrimSpace(r.PrimaryRecipientName)
		if amendment.IsVagueRecipient(name) {
			continue
		}
		if r.Confidence() < minConfidence {
			continue
		}

		key := strings.ToLower(name)
		e, ok := entries[key]
		if !ok {
			e = &entry{
				recipient: Recipient{Name: r.PrimaryRecipientName, Categories: []amendment.Category{}},
				seen:      make(map[amendment.Category]bool),
			}
			entries[key] = e
		}

		totals.add(key, r.NetAmount)
		e.recipient.AmendmentCount++
		if !e.seen[r.SpendingCategoryID] {
			e.seen[r.SpendingCategoryID] = true
			e.recipient.Categories = append(e.recipient.Categories, r.SpendingCategoryID)
		}
	}

	out := make([]Recipient, 0, len(totals.keys))
	for _, key := range totals.keys {
		recipient := entries[key].recipient
		recipient.TotalAmount = totals.total(key)
		out = append(out, recipient)
	}

	slices.SortStableFunc(out, func(a, b Recipient) int {
		return cmp.Compare(b.TotalAmount, a.TotalAmount)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out
}

// Summaries lists one legislator's increases for a single session year,
// largest first.
func Summaries(records []amendment.Record, params SummaryParams) []Summary {
	var filtered []amendment.Record
	for _, r := range records {
		if r.Stage != amendment.StageMemberRequest || r.SessionYear != params.Year {
			continue
		}
		if !params.matches(r) || !matchesBill(r.BillNumber, params.BillFilter, true) {
			continue
		}
		if !isFundingIncrease(r) {
			continue
		}
		filtered = append(filtered, r)
	}

	if params.Dedupe == DedupeUnique {
		filtered = amendment.Dedupe(filtered)
	}

	out := make([]Summary, 0, len(filtered))
	for _, r := range filtered {
		out = append(out, Summary{
			ID:                   r.ID,
			BillNumber:           r.BillNumber,
			SessionYear:          r.SessionYear,
			DescriptionShort:     amendment.Truncate(r.Description(), amendment.DescriptionLength),
			NetAmount:            r.NetAmount,
			SpendingCategoryID:   r.SpendingCategoryID,
			PrimaryRecipientName: r.PrimaryRecipientName,
			RecipientConfidence:  r.RecipientConfidence,
			SourceURL:            r.SourceURL,
		})
	}

	slices.SortStableFunc(out, func(a, b Summary) int {
		return cmp.Compare(b.NetAmount, a.NetAmount)
	})

	return out
}

func (p FocusParams) selectRecords(records []amendment.Record) []amendment.Record {
	var selected []amendment.Record

	for _, r := range records {
		if r.Stage != amendment.StageMemberRequest {
			continue
		}
		if len(p.Years) > 0 && !slices.Contains(p.Years, r.SessionYear) {
			continue
		}
		if !p.matches(r) || !matchesBill(r.BillNumber, p.BillFilter, false) {
			continue
		}
		if p.Chamber != "" && p.Chamber != "both" && string(r.Chamber) != p.Chamber {
			continue
		}
		if !isFundingIncrease(r) {
			continue
		}
		selected = append(selected, r)
	}

	if p.Dedupe == DedupeUnique {
		return amendment.Dedupe(selected)
	}
	return selected
}

func matchesBill(bill string, filter BillFilter, extended bool) bool {
	switch {
	case filter == BillFilterHouse || (extended && filter == BillFilterHBOnly):
		return strings.HasPrefix(bill, "HB")
	case filter == BillFilterSenate || (extended && filter == BillFilterSBOnly):
		return strings.HasPrefix(bill, "SB")
	default:
		return true
	}
}

// Language-only, zero and negative records never count toward focus.
func isFundingIncrease(r amendment.Record) bool {
	return !r.IsLanguageOnly && r.NetAmount > 0
}

// groups sums amounts per key exactly, remembering first-seen key order.
type groups[K comparable] struct {
	keys   []K
	totals map[K]decimal.Decimal
}

func newGroups[K comparable]() *groups[K] {
	return &groups[K]{totals: make(map[K]decimal.Decimal)}
}

func (g *groups[K]) add(key K, amount float64) {
	current, ok := g.totals[key]
	if !ok {
		g.keys = append(g.keys, key)
	}
	g.totals[key] = current.Add(decimal.NewFromFloat(amount))
}

func (g *groups[K]) total(key K) float64 {
	return g.totals[key].InexactFloat64()
}
