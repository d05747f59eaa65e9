package amendment

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

type DetailExtractor struct{}

func NewDetailExtractor() *DetailExtractor {
	return &DetailExtractor{}
}

// Run returns the readable text of an amendment detail page with whitespace
// collapsed.
func (e *DetailExtractor) Run(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	var base *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			base = u
		}
	}

	article, err := readability.FromReader(bytes.NewReader(data), base)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if text == "" {
		return "", fmt.Errorf("no text extracted from HTML data")
	}

	slog.Debug("Detail text extracted",
		"url", pageURL,
		"title", article.Title,
		"text_length", len(text))

	return text, nil
}
