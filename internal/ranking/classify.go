package ranking

import "ranktracker/internal/models"

// paidWindow is how many leading items are inspected for paid results.
const paidWindow = 4

// Classify walks one result page and produces the outcomes for a project.
//
// When paidEnabled is set, every paid item among the first four entries is
// emitted first, in page order, without matching it to a tracked domain. Then
// each tracked domain gets exactly one outcome: the first organic item whose
// domain matches, or a not-ranking outcome. trackedDomains is expected to be
// deduplicated already.
func Classify(items []models.SearchResultItem, trackedDomains []string, subdomainMode, paidEnabled bool) []Outcome {
	outcomes := make([]Outcome, 0, len(trackedDomains)+paidWindow)

	if paidEnabled {
		outcomes = append(outcomes, classifyPaid(items)...)
	}

	for _, domain := range trackedDomains {
		outcomes = append(outcomes, classifyDomain(items, domain, subdomainMode))
	}

	return outcomes
}

func classifyPaid(items []models.SearchResultItem) []Outcome {
	window := items
	if len(window) > paidWindow {
		window = window[:paidWindow]
	}

	var outcomes []Outcome
	for _, item := range window {
		if item.Type == models.ItemPaid {
			outcomes = append(outcomes, Paid(item))
		}
	}
	return outcomes
}

func classifyDomain(items []models.SearchResultItem, domain string, subdomainMode bool) Outcome {
	for _, item := range items {
		if item.Type != models.ItemOrganic {
			continue
		}
		if Matches(item.Domain, domain, subdomainMode) {
			return Matched(domain, item)
		}
	}
	return NotRankingFor(domain)
}
