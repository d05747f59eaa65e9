package amendment

import (
	"regexp"
	"strings"
)

type matcher func(text string) bool

type rule struct {
	category Category
	match    matcher
}

type CategoryInfo struct {
	ID         Category `json:"id"`
	Label      string   `json:"label"`
	ShortLabel string   `json:"shortLabel"`
}

var categoryInfos = []CategoryInfo{
	{CategoryK12Education, "K-12 Education", "K-12"},
	{CategoryHigherEducation, "Higher Education", "Higher Ed"},
	{CategoryHealthHuman, "Health & Human Resources", "Health & HHR"},
	{CategoryPublicSafety, "Public Safety & Homeland Security", "Public Safety"},
	{CategoryTransportation, "Transportation", "Transportation"},
	{CategoryNaturalResources, "Natural Resources", "Natural Resources"},
	{CategoryCommerceTrade, "Commerce & Trade", "Commerce & Trade"},
	{CategoryAgriculture, "Agriculture & Forestry", "Ag & Forestry"},
	{CategoryVeteransDefense, "Veterans & Defense Affairs", "Veterans"},
	{CategoryAdministration, "Administration", "Administration"},
	{CategoryFinance, "Finance", "Finance"},
	{CategoryJudicial, "Judicial", "Judicial"},
	{CategoryLegislative, "Legislative", "Legislative"},
	{CategoryCentralApprop, "Central Appropriations", "Central Approp."},
	{CategoryIndependentAgency, "Independent Agencies", "Independent"},
	{CategoryCapitalOutlay, "Capital Outlay", "Capital Outlay"},
	{CategoryUnclassified, "Unclassified", "Unclassified"},
}

// Categories returns every spending category in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryInfos))
	copy(out, categoryInfos)
	return out
}

// Info returns the labels for a category; unknown ids fall back to the raw id.
func (c Category) Info() CategoryInfo {
	for _, info := range categoryInfos {
		if info.ID == c {
			return info
		}
	}
	return CategoryInfo{ID: c, Label: string(c), ShortLabel: string(c)}
}

func (c Category) Valid() bool {
	for _, info := range categoryInfos {
		if info.ID == c {
			return true
		}
	}
	return false
}

// "HB 1234: ", "SB1600 - "
var billPrefix = regexp.MustCompile(`^(?:hb|sb|hj|sj|hr|sr)\s*\d+\s*[:\-–]\s*`)

// rules is evaluated top to bottom and the first match wins. Vocabularies
// overlap across categories, so the order is the classifier.
//
// Higher education precedes K-12: institution names contain "college" and
// K-12 lists generic school terms. Health precedes public safety so
// "behavioral health" in a jail program lands in HHR. Independent agencies
// come last because "vrs" and "retirement" are claimed by central
// appropriations first.
var rules = []rule{
	{CategoryHigherEducation, anyOf(
		contains("higher education", "community college", "state council of higher", "virginia tech"),
		words("schev", "vcu", "uva", "vt"),
		// Literal heuristic: "college"/"university" without "school".
		allOf(contains("college", "university"), not(contains("school"))),
	)},
	{CategoryK12Education, anyOf(
		contains("department of education", "public education", "k-12", "k12", "elementary",
			"secondary school", "public school", "school division", "standards of quality"),
		words("soq"),
	)},
	{CategoryHealthHuman, anyOf(
		contains("health", "hospital", "medical", "medicaid", "behavioral health", "mental health",
			"social services", "aging", "disability", "human services", "human resources",
			"child care", "childcare", "nursing"),
		words("dmas"),
	)},
	{CategoryPublicSafety, contains("police", "corrections", "criminal justice", "emergency management",
		"homeland security", "fire", "public safety", "law enforcement", "sheriff", "jail", "prison")},
	{CategoryTransportation, anyOf(
		contains("transportation", "highway", "transit", "rail", "aviation", "motor vehicle", "road", "bridge"),
		words("vdot", "dmv"),
	)},
	{CategoryNaturalResources, anyOf(
		contains("environmental", "conservation", "wildlife", "marine resources", "forestry", "parks",
			"historic resources", "water quality", "chesapeake bay"),
		words("deq", "dcr"),
	)},
	{CategoryCommerceTrade, contains("commerce", "trade", "economic development", "business", "tourism",
		"labor", "workforce")},
	{CategoryAgriculture, anyOf(
		contains("agriculture", "farming", "farm", "crop"),
		words("vdacs"),
	)},
	{CategoryVeteransDefense, contains("veteran", "military", "defense", "national guard")},
	{CategoryJudicial, contains("court", "judicial", "supreme court", "magistrate", "judge", "judiciary")},
	{CategoryLegislative, contains("general assembly", "house of delegates", "senate of virginia",
		"legislative", "campaign finance")},
	{CategoryAdministration, contains("administration", "secretary of", "governor", "lieutenant governor",
		"attorney general")},
	{CategoryFinance, contains("finance", "treasury", "taxation", "revenue", "comptroller")},
	{CategoryCentralApprop, anyOf(
		contains("central appropriations", "employee benefits", "retirement"),
		words("vrs"),
	)},
	{CategoryCapitalOutlay, contains("capital outlay", "capital project", "construction", "renovation", "facility")},
	{CategoryIndependentAgency, anyOf(
		contains("virginia lottery", "lottery", "alcoholic beverage control", "abc board",
			"state corporation commission", "virginia retirement system", "workers' compensation commission",
			"workers compensation commission", "cannabis control authority", "opioid abatement authority",
			"commonwealth savers"),
		words("scc", "vrs"),
	)},
}

// Classify maps an amendment title to a spending category. It never fails;
// titles no rule recognises are unclassified.
func Classify(title string) Category {
	text := billPrefix.ReplaceAllString(NormalizeText(title), "")

	for _, r := range rules {
		if r.match(text) {
			return r.category
		}
	}
	return CategoryUnclassified
}

// ClassifyAgency maps agency metadata from imported records. The secretariat
// is the most reliable signal; otherwise the agency name runs through the
// title cascade.
func ClassifyAgency(agencyName, secretariatCode string) Category {
	agency := NormalizeText(agencyName)
	secretariat := NormalizeText(secretariatCode)

	if secretariat != "" {
		switch {
		case secretariat == "11" || strings.Contains(secretariat, "independent"):
			return CategoryIndependentAgency
		case strings.Contains(secretariat, "education"):
			if strings.Contains(agency, "higher") || strings.Contains(agency, "college") || strings.Contains(agency, "university") {
				return CategoryHigherEducation
			}
			return CategoryK12Education
		case strings.Contains(secretariat, "health"):
			return CategoryHealthHuman
		case strings.Contains(secretariat, "public safety") || strings.Contains(secretariat, "homeland"):
			return CategoryPublicSafety
		case strings.Contains(secretariat, "transportation"):
			return CategoryTransportation
		case strings.Contains(secretariat, "natural resource") || strings.Contains(secretariat, "environment"):
			return CategoryNaturalResources
		case strings.Contains(secretariat, "commerce") || strings.Contains(secretariat, "trade"):
			return CategoryCommerceTrade
		case strings.Contains(secretariat, "agriculture") || strings.Contains(secretariat, "forestry"):
			return CategoryAgriculture
		case strings.Contains(secretariat, "veteran") || strings.Contains(secretariat, "defense"):
			return CategoryVeteransDefense
		case strings.Contains(secretariat, "administration"):
			return CategoryAdministration
		case strings.Contains(secretariat, "finance"):
			return CategoryFinance
		}
	}

	return Classify(agency)
}

func contains(keywords ...string) matcher {
	return func(text string) bool {
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				return true
			}
		}
		return false
	}
}

func words(acronyms ...string) matcher {
	quoted := make([]string, len(acronyms))
	for i, acronym := range acronyms {
		quoted[i] = regexp.QuoteMeta(acronym)
	}
	re := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return re.MatchString
}

func anyOf(matchers ...matcher) matcher {
	return func(text string) bool {
		for _, m := range matchers {
			if m(text) {
				return true
			}
		}
		return false
	}
}

func allOf(matchers ...matcher) matcher {
	return func(text string) bool {
		for _, m := range matchers {
			if !m(text) {
				return false
			}
		}
		return true
	}
}

func not(m matcher) matcher {
	return func(text string) bool {
		return !m(text)
	}
}
