package signal

import (
	"strings"

	"github.com/ignite/footprint/internal/mail"
)

// Heuristic classifiers built on the field parsers. All vocabulary tables
// are fixed at compile time and never mutated at runtime.

// Subject keywords that mark bulk/broadcast mail.
var newsletterKeywords = []string{
	"newsletter", "digest", "weekly", "daily", "roundup", "briefing",
	"update", "bulletin", "dispatch", "subscription",
}

// Known bulk-mail sender platforms.
var newsletterDomains = []string{
	"substack.com", "substackcdn.com", "beehiiv.com", "mailchimp.com",
	"convertkit.com", "ghost.io", "buttondown.email", "revue.co",
}

// domainCategory pairs a category name with its substring patterns.
// Kept as an ordered slice (not a map) so categorization is deterministic
// when patterns overlap.
type domainCategory struct {
	name     string
	patterns []string
}

var domainCategories = []domainCategory{
	{"technology", []string{
		"techcrunch.com", "theverge.com", "wired.com", "arstechnica.com",
		"hackernews", "github.com", "stackoverflow.com", "dev.to",
		"medium.com", "substack.com", "twitter.com",
	}},
	{"finance", []string{
		"bloomberg.com", "reuters.com", "wsj.com", "ft.com",
		"morningbrew.com", "finimize.com", "robinhood.com",
	}},
	{"business", []string{
		"linkedin.com", "harvard.edu", "forbes.com", "inc.com",
		"entrepreneur.com", "fastcompany.com",
	}},
	{"news", []string{
		"nytimes.com", "washingtonpost.com", "cnn.com", "bbc.com",
		"theguardian.com", "npr.org",
	}},
	{"productivity", []string{
		"notion.so", "todoist.com", "trello.com", "asana.com",
		"slack.com", "zoom.us", "calendly.com",
	}},
	{"education", []string{
		".edu", "coursera.org", "udemy.com", "edx.org",
		"khanacademy.org", "codecademy.com",
	}},
}

// Consumer mail providers; mail from these tells us nothing about the
// owner's professional context.
var personalDomains = map[string]bool{
	"gmail.com":      true,
	"yahoo.com":      true,
	"hotmail.com":    true,
	"outlook.com":    true,
	"icloud.com":     true,
	"aol.com":        true,
	"protonmail.com": true,
	"mail.com":       true,
}

// Generic provider names filtered out of company inference.
var genericCompanyNames = map[string]bool{
	"gmail":   true,
	"yahoo":   true,
	"hotmail": true,
	"outlook": true,
	"icloud":  true,
	"mail":    true,
	"email":   true,
}

// TLD suffixes stripped before inferring a company name from a domain.
var companyTLDSuffixes = []string{".com", ".org", ".net", ".io", ".co", ".ai"}

// IsNewsletter reports whether a message looks like bulk/broadcast mail:
// an unsubscribe header, a newsletter keyword in the subject, a known
// bulk-sender domain, or a no-reply sender.
func IsNewsletter(msg mail.Message) bool {
	if msg.ListUnsubscribe != "" {
		return true
	}

	subject := strings.ToLower(msg.Subject)
	for _, kw := range newsletterKeywords {
		if strings.Contains(subject, kw) {
			return true
		}
	}

	if domain := ExtractDomain(msg.From); domain != "" {
		for _, nd := range newsletterDomains {
			if strings.Contains(domain, nd) {
				return true
			}
		}
	}

	from := strings.ToLower(msg.From)
	return strings.Contains(from, "noreply") || strings.Contains(from, "no-reply")
}

// CategorizeDomain maps a domain to its category (technology, finance,
// ...) by substring match, in declaration order. Empty string means
// uncategorized.
func CategorizeDomain(domain string) string {
	if domain == "" {
		return ""
	}
	domain = strings.ToLower(domain)

	for _, cat := range domainCategories {
		for _, pattern := range cat.patterns {
			if strings.Contains(domain, pattern) {
				return cat.name
			}
		}
	}
	return ""
}

// IsPersonalDomain reports whether the domain is a consumer mail provider.
func IsPersonalDomain(domain string) bool {
	return personalDomains[strings.ToLower(domain)]
}

// IsLikelyResponse reports whether a message is probably a reply: a
// Re:/Fwd: subject prefix, or a sent message that belongs to a thread.
// The second branch over-counts thread-starting outbound messages; this
// is a known imprecision kept for stable response-rate numbers.
func IsLikelyResponse(msg mail.Message) bool {
	subject := strings.ToLower(msg.Subject)
	if strings.HasPrefix(subject, "re:") || strings.HasPrefix(subject, "fwd:") ||
		strings.HasPrefix(subject, "fw:") {
		return true
	}

	if msg.ThreadID != "" && len(msg.Labels) > 0 && msg.HasLabel("SENT") {
		return true
	}
	return false
}

// ExtractCompanyFromDomain guesses a company name from a domain, e.g.
// "techcorp.com" -> "Techcorp". Consumer providers and empty results
// yield an empty string.
func ExtractCompanyFromDomain(domain string) string {
	if domain == "" {
		return ""
	}

	company := domain
	for _, suffix := range companyTLDSuffixes {
		company = strings.ReplaceAll(company, suffix, "")
	}

	// Keep the registrable part when subdomains remain.
	if parts := strings.Split(company, "."); len(parts) > 1 {
		company = parts[len(parts)-1]
	}

	company = titleCaser.String(company)
	if company == "" || genericCompanyNames[strings.ToLower(company)] {
		return ""
	}
	return company
}
