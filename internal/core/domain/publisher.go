package domain

import "time"

// Publisher is a registry entry for a publishing organization.
type Publisher struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind,omitempty"` // commercial, university-press, society, ...
	Country   string    `json:"country,omitempty"`
	DateAdded time.Time `json:"date_added"`
}

// FundingCategory is the closed funding-source vocabulary.
type FundingCategory string

const (
	FundingIndustry    FundingCategory = "industry"
	FundingGovernment  FundingCategory = "government"
	FundingAcademic    FundingCategory = "academic"
	FundingNonprofit   FundingCategory = "nonprofit"
	FundingIndependent FundingCategory = "independent"
	FundingUnknown     FundingCategory = "unknown"
)

// FundingCategories lists the known categories, in display order.
var FundingCategories = []FundingCategory{
	FundingIndustry,
	FundingGovernment,
	FundingAcademic,
	FundingNonprofit,
	FundingIndependent,
	FundingUnknown,
}

// KnownFundingCategory reports whether c belongs to the vocabulary.
func KnownFundingCategory(c FundingCategory) bool {
	for _, k := range FundingCategories {
		if k == c {
			return true
		}
	}
	return false
}
