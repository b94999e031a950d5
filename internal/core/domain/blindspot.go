package domain

// Severity grades a blindspot finding
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Finding kinds
const (
	FindingFundingConcentration   = "funding_concentration"
	FindingFundingGap             = "funding_gap"
	FindingPublisherConcentration = "publisher_concentration"
	FindingMethodologySkew        = "methodology_skew"
)

// Finding is one detected statistical imbalance in the indexed collection.
type Finding struct {
	Kind     string   `json:"kind"`
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject,omitempty"` // category or publisher name
	Share    float64  `json:"share,omitempty"`   // 0..1 fraction of the evaluated population
	Count    int      `json:"count"`
	Total    int      `json:"total"`
	Detail   string   `json:"detail"`
}

// BlindspotReport is the full set of findings plus the index version the
// analysis was computed at.
type BlindspotReport struct {
	Findings []Finding `json:"findings"`
	Version  uint64    `json:"version"`
}
