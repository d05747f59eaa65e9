package amendment

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	HighRecipientConfidence = 0.95
	LowRecipientConfidence  = 0.80
)

type Recipient struct {
	Name       string
	RawText    string
	Confidence float64
}

var recipientIntroPatterns = compileAll(
	`(?i)\bto the\s+([A-Z][^.;]*)`,
	`(?i)\bto\s+([A-Z][^.;]*)`,
	`(?i)\bfor the\s+([A-Z][^.;]*)`,
	`(?i)\bfor\s+([A-Z][^.;]*)`,
	`(?i)\bprovides?\s+(?:funding\s+)?(?:to|for)\s+(?:the\s+)?([A-Z][^.;]*)`,
)

// Checked in order; the first phrase present ends the name.
var recipientStopPhrases = compileAll(
	`(?i)\bto support\b`, `(?i)\bto provide\b`, `(?i)\bto establish\b`,
	`(?i)\bto administer\b`, `(?i)\bto be used\b`, `(?i)\bfor the purpose of\b`,
	`(?i)\bto fund\b`, `(?i)\bto assist\b`, `(?i)\bto help\b`,
	`(?i)\bto enable\b`, `(?i)\bto allow\b`, `(?i)\bto create\b`,
)

var recipientTrailing = regexp.MustCompile(`[,;:\s]+$`)

var orgKeyword = wordPattern(
	"City", "County", "Town", "Village", "Borough",
	"School Board", "Public Schools", "School Division", "School District",
	"University", "College", "Community College", "Institute",
	"Hospital", "Clinic", "Center",
	"Authority", "Commission", "Corporation", "Foundation", "Association",
	"Department", "Agency", "Board", "Council",
	"Fund", "Trust", "Program", "Grant", "Scholarship", "Initiative",
)

var strongOrgKeyword = wordPattern(
	"City", "County", "Town", "School Board", "Public Schools",
	"University", "College", "Community College",
	"Hospital", "Center", "Authority", "Commission",
	"Department", "Agency", "Board",
)

// vagueRecipientPrefixes are lead-ins that never name a recipient.
var vagueRecipientPrefixes = []string{
	"this ", "that ", "these ", "those ", "such ",
	"the cost of ", "the cost ", "the provision of ",
}

var recipientBlacklist = func() []string {
	actions := []string{
		"implement ", "provide ", "establish ", "support ", "fund ", "expand ",
		"improve ", "reduce ", "continue ", "create ", "enable ", "allow ",
		"assist ", "help ",
	}
	out := slices.Clone(vagueRecipientPrefixes)
	for _, action := range actions {
		out = append(out, action, "to "+action)
	}
	return out
}()

var clauseGlue = []string{" while ", " which ", " that ", " in order to "}

// ExtractRecipient looks for the funded organisation in amendment text such
// as "Provides funding to the City of Richmond to support ...". Only names
// carrying an organisation keyword are accepted; the best candidate is the
// most confident, then the longest.
func ExtractRecipient(description string) (Recipient, bool) {
	text := strings.Join(strings.Fields(description), " ")
	if text == "" {
		return Recipient{}, false
	}

	var candidates []Recipient
	for _, pattern := range recipientIntroPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			name, ok := cleanRecipientCandidate(match[1])
			if !ok {
				continue
			}

			confidence := LowRecipientConfidence
			if strongOrgKeyword.MatchString(name) {
				confidence = HighRecipientConfidence
			}

			candidates = append(candidates, Recipient{Name: name, RawText: match[0], Confidence: confidence})
		}
	}

	if len(candidates) == 0 {
		return Recipient{}, false
	}

	slices.SortStableFunc(candidates, func(a, b Recipient) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(utf8.RuneCountInString(b.Name), utf8.RuneCountInString(a.Name))
	})

	return candidates[0], true
}

// IsVagueRecipient reports names too short or too generic to group on.
func IsVagueRecipient(name string) bool {
	trimmed := strings.TrimSpace(name)
	if utf8.RuneCountInString(trimmed) < 3 {
		return true
	}
	return hasAnyPrefix(strings.ToLower(trimmed), vagueRecipientPrefixes)
}

func cleanRecipientCandidate(raw string) (string, bool) {
	name := strings.TrimSpace(raw)

	for _, stop := range recipientStopPhrases {
		if loc := stop.FindStringIndex(name); loc != nil {
			name = strings.TrimSpace(name[:loc[0]])
			break
		}
	}

	for _, delimiter := range []string{".", ";", ","} {
		if before, _, found := strings.Cut(name, delimiter); found {
			name = strings.TrimSpace(before)
		}
	}

	name = strings.TrimSpace(recipientTrailing.ReplaceAllString(name, ""))

	length := utf8.RuneCountInString(name)
	if length < 3 || length > 150 {
		return "", false
	}

	lower := strings.ToLower(name)
	if hasAnyPrefix(lower, recipientBlacklist) {
		return "", false
	}

	if !orgKeyword.MatchString(name) {
		return "", false
	}

	for _, glue := range clauseGlue {
		if strings.Contains(lower, glue) && len(strings.Fields(name)) > 15 {
			return "", false
		}
	}

	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) && !strings.HasPrefix(lower, "the ") {
		return "", false
	}

	return name, true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func wordPattern(keywords ...string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, keyword := range keywords {
		quoted[i] = regexp.QuoteMeta(keyword)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		out[i] = regexp.MustCompile(pattern)
	}
	return out
}
