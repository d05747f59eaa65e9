package amendment

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Parser struct {
	baseURL *url.URL
}

func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	return &Parser{baseURL: u}, nil
}

// Run extracts member-request rows from an LIS amendment page. Scanning
// stops at the first table yielding a row; a page without matching rows
// returns an empty slice.
func (p *Parser) Run(data []byte) ([]ParsedRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	rows := []ParsedRow{}
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if row, ok := p.parseRow(tr); ok {
				rows = append(rows, row)
			}
		})
		return len(rows) == 0
	})

	return rows, nil
}

// parseRow accepts the six-cell layout: selector, item (td.child),
// amendment number (td.num), description, FY1, FY2.
func (p *Parser) parseRow(tr *goquery.Selection) (ParsedRow, bool) {
	cells := tr.ChildrenFiltered("td")
	if cells.Length() != 6 {
		return ParsedRow{}, false
	}

	itemCell := cells.Eq(1)
	numCell := cells.Eq(2)
	titleCell := cells.Eq(3)

	if !itemCell.HasClass("child") || !numCell.HasClass("num") {
		return ParsedRow{}, false
	}

	row := ParsedRow{
		ItemNumber:      cellText(itemCell),
		AmendmentNumber: cellText(numCell),
		Title:           cellText(titleCell),
		FYFirst:         ParseCurrency(cells.Eq(4).Text()),
		FYSecond:        ParseCurrency(cells.Eq(5).Text()),
	}

	if row.ItemNumber == "" || row.Title == "" {
		return ParsedRow{}, false
	}

	if link := titleCell.Find("a").First(); link.Length() > 0 {
		row.DetailURL = p.resolve(link.AttrOr("href", ""))
	}

	return row, true
}

func (p *Parser) resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(ref).String()
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}
