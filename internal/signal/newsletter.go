package signal

import (
	"strings"

	"github.com/ignite/footprint/internal/mail"
)

// ExtractNewsletterSignals identifies newsletters in the received
// collection by unsubscribe header, subject keywords, known bulk-sender
// domains, and no-reply senders.
func ExtractNewsletterSignals(received []mail.Message) NewsletterSignals {
	var (
		total   int
		domains []string
		names   []string
	)

	for _, msg := range received {
		if !IsNewsletter(msg) {
			continue
		}
		total++

		if domain := ExtractDomain(msg.From); domain != "" {
			domains = append(domains, domain)
		}

		if strings.Contains(msg.From, "<") {
			name := strings.TrimSpace(msg.From[:strings.Index(msg.From, "<")])
			name = strings.Trim(name, `"`)
			if name != "" {
				names = append(names, name)
			}
		}
	}

	// Uncategorized newsletter domains still count, under "other".
	categories := make(map[string]int)
	for _, domain := range domains {
		if category := CategorizeDomain(domain); category != "" {
			categories[category]++
		} else {
			categories["other"]++
		}
	}

	return NewsletterSignals{
		NewsletterDomains:    uniqueStrings(domains),
		NewsletterCategories: categories,
		TopNewsletters:       FindMostCommon(names, 10),
		TotalNewsletters:     total,
		NewsletterPercentage: CalculatePercentage(total, len(received)),
	}
}

// uniqueStrings de-duplicates while preserving first-seen order. Never
// nil, so list fields marshal as [] rather than null.
func uniqueStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{}
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
