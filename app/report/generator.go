package report

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/lis-comb/app/amendment"
)

// FeedInfo describes the channel of a legislator feed. SelfLink is the
// public URL of the feed itself.
type FeedInfo struct {
	Title       string
	Link        string
	SelfLink    string
	Description string
	Version     string
	UpdatedAt   time.Time
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Run renders summaries as an RSS 2.0 document, one item per amendment.
func (g *Generator) Run(info FeedInfo, summaries []Summary) (string, error) {
	if info.Title == "" {
		return "", fmt.Errorf("feed title is required")
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", info.Title, 4)
	g.writeElement(&buf, "link", info.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(info.Description, fmt.Sprintf("Budget amendment requests: %s", info.Title)), 4)

	if info.SelfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(info.SelfLink)))
	}

	lastBuildDate := info.UpdatedAt
	if lastBuildDate.IsZero() {
		lastBuildDate = time.Now()
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("LIS-Comb/%s", info.Version), 4)
	g.writeElement(&buf, "language", "en-us", 4)

	for _, s := range summaries {
		g.writeItem(&buf, s, lastBuildDate)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, s Summary, published time.Time) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(s.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", itemTitle(s), 6)
	g.writeElement(buf, "link", s.SourceURL, 6)
	g.writeElement(buf, "description", cmp.Or(s.DescriptionShort, "No description available"), 6)
	g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	g.writeElement(buf, "category", s.SpendingCategoryID.Info().Label, 6)
	g.writeElement(buf, "category", StoryBucketFor(s.SpendingCategoryID).Info().Label, 6)

	buf.WriteString("    </item>\n")
}

// "HB1600: $500K for City of Example"
func itemTitle(s Summary) string {
	target := cmp.Or(s.PrimaryRecipientName, s.SpendingCategoryID.Info().Label)
	return fmt.Sprintf("%s: %s for %s", s.BillNumber, amendment.FormatCurrency(s.NetAmount), target)
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
