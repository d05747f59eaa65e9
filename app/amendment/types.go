package amendment

// Record types

type Category string

const (
	CategoryK12Education      Category = "k12_education"
	CategoryHigherEducation   Category = "higher_education"
	CategoryHealthHuman       Category = "health_and_human_resources"
	CategoryPublicSafety      Category = "public_safety_and_homeland_security"
	CategoryTransportation    Category = "transportation"
	CategoryNaturalResources  Category = "natural_resources"
	CategoryCommerceTrade     Category = "commerce_and_trade"
	CategoryAgriculture       Category = "agriculture_and_forestry"
	CategoryVeteransDefense   Category = "veterans_and_defense_affairs"
	CategoryAdministration    Category = "administration"
	CategoryFinance           Category = "finance"
	CategoryJudicial          Category = "judicial"
	CategoryLegislative       Category = "legislative"
	CategoryCentralApprop     Category = "central_appropriations"
	CategoryIndependentAgency Category = "independent_agencies"
	CategoryCapitalOutlay     Category = "capital_outlay"
	CategoryUnclassified      Category = "unclassified"
)

type Stage string

const StageMemberRequest Stage = "member_request"

// StageCodeMemberRequest keys member requests inside published cards.
const StageCodeMemberRequest = "MR"

type Chamber string

const (
	ChamberHouse  Chamber = "House"
	ChamberSenate Chamber = "Senate"
)

type AmountType string

const (
	AmountIncrease     AmountType = "increase"
	AmountDecrease     AmountType = "decrease"
	AmountLanguageOnly AmountType = "language-only"
)

// Record is one canonical amendment. Build it with NewRecord so the derived
// money fields stay consistent.
type Record struct {
	ID           string  `json:"id"`
	Stage        Stage   `json:"stage"`
	BillNumber   string  `json:"billNumber"`
	SessionYear  int     `json:"sessionYear"`
	Chamber      Chamber `json:"chamber"`
	PatronName   string  `json:"patronName"`
	LegislatorID string  `json:"legislatorId,omitempty"`
	MemberCode   string  `json:"memberCode,omitempty"`

	ItemNumber      string `json:"itemNumber"`
	SubItem         string `json:"subItem,omitempty"`
	AgencyCode      string `json:"agencyCode,omitempty"`
	AgencyName      string `json:"agencyName,omitempty"`
	SecretariatCode string `json:"secretariatCode,omitempty"`

	SpendingCategoryID Category `json:"spendingCategoryId"`

	DeltaGF        *float64 `json:"deltaGF"`
	DeltaNGF       *float64 `json:"deltaNGF"`
	NetAmount      float64  `json:"netAmount"`
	IsIncrease     bool     `json:"isIncrease"`
	IsLanguageOnly bool     `json:"isLanguageOnly"`

	DescriptionShort string `json:"descriptionShort,omitempty"`
	DescriptionFull  string `json:"descriptionFull,omitempty"`

	PrimaryRecipientName string   `json:"primaryRecipientName,omitempty"`
	RecipientConfidence  *float64 `json:"recipientConfidence,omitempty"`
	RecipientRawText     string   `json:"recipientRawText,omitempty"`

	SourceURL      string `json:"sourceUrl,omitempty"`
	SourcePageHint string `json:"sourcePageHint,omitempty"`
}

// Description returns the short description, falling back to the full one.
func (r Record) Description() string {
	if r.DescriptionShort != "" {
		return r.DescriptionShort
	}
	return r.DescriptionFull
}

// Confidence returns the recipient confidence with unknown read as zero.
func (r Record) Confidence() float64 {
	if r.RecipientConfidence == nil {
		return 0
	}
	return *r.RecipientConfidence
}

// Page parsing types

type ParsedRow struct {
	ItemNumber      string
	AmendmentNumber string
	Title           string
	DetailURL       string
	FYFirst         *float64
	FYSecond        *float64
}

// Item is the display id combining item and amendment number ("125 #10h").
func (r ParsedRow) Item() string {
	return r.ItemNumber + " " + r.AmendmentNumber
}

// Roster types

type Member struct {
	ID         string  `yaml:"id" json:"id"`
	MemberCode string  `yaml:"memberCode,omitempty" json:"memberCode,omitempty"`
	FullName   string  `yaml:"fullName" json:"fullName"`
	LastName   string  `yaml:"lastName,omitempty" json:"lastName,omitempty"`
	Chamber    Chamber `yaml:"chamber" json:"chamber"`
	District   string  `yaml:"district,omitempty" json:"district,omitempty"`
	Party      string  `yaml:"party,omitempty" json:"party,omitempty"`
}

// Code returns the LIS member code used in page URLs.
func (m Member) Code() string {
	if m.MemberCode != "" {
		return m.MemberCode
	}
	return m.ID
}

// Published card types

type Request struct {
	ID                   string     `json:"id"`
	Bill                 string     `json:"bill"`
	Stage                string     `json:"stage"`
	Item                 string     `json:"item"`
	Title                string     `json:"title"`
	LISURL               string     `json:"lisUrl"`
	FYFirst              *float64   `json:"fyFirst"`
	FYSecond             *float64   `json:"fySecond"`
	AmountType           AmountType `json:"amountType"`
	SpendingCategoryID   Category   `json:"spendingCategoryId"`
	PrimaryRecipientName string     `json:"primaryRecipientName,omitempty"`
}

type LargestAmendment struct {
	Item   string  `json:"item"`
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	LISURL string  `json:"lisUrl"`
}

type Totals struct {
	Count             int               `json:"count"`
	LanguageOnlyCount int               `json:"languageOnlyCount"`
	FYFirstTotal      float64           `json:"fyFirstTotal"`
	FYSecondTotal     float64           `json:"fySecondTotal"`
	LargestAmendment  *LargestAmendment `json:"largestAmendment,omitempty"`
}

type StageData struct {
	Totals   Totals    `json:"totals"`
	Items    []Request `json:"items"`
	Featured []Request `json:"featured"`
}

type Display struct {
	Headline string   `json:"headline"`
	Subhead  string   `json:"subhead"`
	Badges   []string `json:"badges"`
}

type Card struct {
	ID         string                          `json:"id"`
	FullName   string                          `json:"fullName"`
	LastName   string                          `json:"lastName"`
	Chamber    Chamber                         `json:"chamber"`
	District   string                          `json:"district,omitempty"`
	Party      string                          `json:"party,omitempty"`
	ProfileURL string                          `json:"profileUrl,omitempty"`
	Amendments map[string]map[string]StageData `json:"amendments"`
	Display    Display                         `json:"display"`
	UpdatedAt  string                          `json:"updatedAt"`
}
