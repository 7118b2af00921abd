package signal

import (
	"sort"
	"strings"

	"github.com/ignite/footprint/internal/mail"
)

// Subject-line vocabulary that marks work-related mail.
var professionalTerms = []string{
	"meeting", "project", "proposal", "contract", "invoice",
	"report", "update", "review", "deadline", "schedule",
	"presentation", "call", "conference", "quarterly", "budget",
	"strategy", "planning", "analysis", "development", "launch",
	"client", "team", "manager", "director", "executive",
}

// ExtractProfessionalContext infers the owner's professional world from
// contact domains (consumer providers excluded) and subject vocabulary.
func ExtractProfessionalContext(received, sent []mail.Message) ProfessionalContextSignals {
	var contactDomains []string
	uniqueContacts := make(map[string]bool)

	for _, msg := range received {
		if domain := ExtractDomain(msg.From); domain != "" && !IsPersonalDomain(domain) {
			contactDomains = append(contactDomains, domain)
		}
		if msg.From != "" {
			uniqueContacts[strings.ToLower(msg.From)] = true
		}
	}

	for _, msg := range sent {
		if msg.To == "" {
			continue
		}
		for _, recipient := range strings.Split(msg.To, ",") {
			if domain := ExtractDomain(recipient); domain != "" && !IsPersonalDomain(domain) {
				contactDomains = append(contactDomains, domain)
			}
			if recipient != "" {
				uniqueContacts[strings.TrimSpace(strings.ToLower(recipient))] = true
			}
		}
	}

	topDomains := FindMostCommon(contactDomains, 15)

	// Category tallies, with first-seen order retained so industry
	// inference is deterministic on ties.
	categories := make(map[string]int)
	var categoryOrder []string
	for _, domain := range contactDomains {
		category := CategorizeDomain(domain)
		if category == "" {
			continue
		}
		if _, ok := categories[category]; !ok {
			categoryOrder = append(categoryOrder, category)
		}
		categories[category]++
	}

	industry := ""
	if len(categories) > 0 {
		best := categoryOrder[0]
		for _, name := range categoryOrder[1:] {
			if categories[name] > categories[best] {
				best = name
			}
		}
		industry = titleCaser.String(best)
	}

	companies := []string{}
	seen := make(map[string]bool)
	domainsForCompanies := topDomains
	if len(domainsForCompanies) > 10 {
		domainsForCompanies = domainsForCompanies[:10]
	}
	for _, domain := range domainsForCompanies {
		company := ExtractCompanyFromDomain(domain)
		if company != "" && !seen[company] {
			seen[company] = true
			companies = append(companies, company)
		}
	}
	if len(companies) > 5 {
		companies = companies[:5]
	}

	var subjects []string
	for _, msg := range received {
		subjects = append(subjects, msg.Subject)
	}
	for _, msg := range sent {
		subjects = append(subjects, msg.Subject)
	}

	return ProfessionalContextSignals{
		TopContactDomains:    topDomains,
		DomainCategories:     categories,
		InferredIndustry:     industry,
		CompanyAffiliations:  companies,
		ProfessionalKeywords: extractProfessionalKeywords(subjects),
		TotalUniqueContacts:  len(uniqueContacts),
	}
}

// extractProfessionalKeywords counts fixed-vocabulary term occurrences
// across subjects and returns the top 10 terms seen more than once.
func extractProfessionalKeywords(subjects []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, term := range professionalTerms {
		for _, subject := range subjects {
			if strings.Contains(strings.ToLower(subject), term) {
				if _, ok := counts[term]; !ok {
					order = append(order, term)
				}
				counts[term]++
			}
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})

	keywords := []string{}
	for _, term := range order {
		if counts[term] > 1 {
			keywords = append(keywords, term)
		}
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}
