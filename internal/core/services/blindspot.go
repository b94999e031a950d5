package services

import (
	"fmt"
	"sort"

	"github.com/refledger/refledger-core/internal/core/domain"
)

// Blindspot analysis thresholds
const (
	fundingConcentrationShare = 0.50
	fundingHighShare          = 0.70
	publisherMinRecords       = 10
	publisherConcentration    = 0.50
	publisherHighShare        = 0.70
	methodologyMinRecords     = 5
	methodologySkewShare      = 0.50
	methodologyHighShare      = 0.70
	methodologyLowScore       = 50.0
)

// AnalyzeBlindspots runs the read-only statistical pass over the index.
// Each rule is independent and order-insensitive; the report is the
// concatenation of all triggered rules.
func AnalyzeBlindspots(ix *domain.Index) *domain.BlindspotReport {
	report := &domain.BlindspotReport{
		Findings: []domain.Finding{},
		Version:  ix.LastVersion,
	}
	report.Findings = append(report.Findings, fundingFindings(ix)...)
	report.Findings = append(report.Findings, publisherFindings(ix)...)
	report.Findings = append(report.Findings, methodologyFindings(ix)...)
	return report
}

func fundingFindings(ix *domain.Index) []domain.Finding {
	counts := make(map[domain.FundingCategory]int)
	total := 0
	for _, cat := range ix.ItemFunding {
		counts[cat]++
		total++
	}
	// No funding annotations at all means no population to report
	// against, so neither concentration nor gap findings are emitted.
	if total == 0 {
		return nil
	}

	var findings []domain.Finding
	for _, cat := range domain.FundingCategories {
		if cat == domain.FundingUnknown {
			continue
		}
		n := counts[cat]
		share := float64(n) / float64(total)
		switch {
		case share >= fundingConcentrationShare:
			sev := domain.SeverityMedium
			if share >= fundingHighShare {
				sev = domain.SeverityHigh
			}
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingFundingConcentration,
				Severity: sev,
				Subject:  string(cat),
				Share:    share,
				Count:    n,
				Total:    total,
				Detail:   fmt.Sprintf("%.0f%% of funding-annotated records are %s-funded", share*100, cat),
			})
		case n == 0:
			findings = append(findings, domain.Finding{
				Kind:     domain.FindingFundingGap,
				Severity: domain.SeverityLow,
				Subject:  string(cat),
				Count:    0,
				Total:    total,
				Detail:   fmt.Sprintf("no records with %s funding", cat),
			})
		}
	}
	return findings
}

func publisherFindings(ix *domain.Index) []domain.Finding {
	counts := make(map[string]int)
	total := 0
	for _, pub := range ix.ItemPublisher {
		counts[pub]++
		total++
	}
	if total < publisherMinRecords {
		return nil
	}

	var findings []domain.Finding
	for _, pub := range sortedKeys(counts) {
		n := counts[pub]
		share := float64(n) / float64(total)
		if share < publisherConcentration {
			continue
		}
		sev := domain.SeverityMedium
		if share >= publisherHighShare {
			sev = domain.SeverityHigh
		}
		findings = append(findings, domain.Finding{
			Kind:     domain.FindingPublisherConcentration,
			Severity: sev,
			Subject:  pub,
			Share:    share,
			Count:    n,
			Total:    total,
			Detail:   fmt.Sprintf("%.0f%% of publisher-annotated records come from %s", share*100, pub),
		})
	}
	return findings
}

func methodologyFindings(ix *domain.Index) []domain.Finding {
	total, low := 0, 0
	for _, set := range ix.Scores {
		v, ok := set.Dimensions[domain.DimMethodology]
		if !ok {
			continue
		}
		total++
		if v < methodologyLowScore {
			low++
		}
	}
	if total < methodologyMinRecords {
		return nil
	}

	share := float64(low) / float64(total)
	if share < methodologySkewShare {
		return nil
	}
	sev := domain.SeverityMedium
	if share >= methodologyHighShare {
		sev = domain.SeverityHigh
	}
	return []domain.Finding{{
		Kind:     domain.FindingMethodologySkew,
		Severity: sev,
		Share:    share,
		Count:    low,
		Total:    total,
		Detail:   fmt.Sprintf("%.0f%% of methodology-scored records score below %.0f", share*100, methodologyLowScore),
	}}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
