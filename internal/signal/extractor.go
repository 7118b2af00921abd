package signal

import (
	"math"
	"time"

	"github.com/ignite/footprint/internal/mail"
)

// Extractor runs the four signal aggregators over one pair of message
// collections and assembles the quality-scored report. It holds no
// state between runs; create one per analysis.
type Extractor struct {
	enrichment *Enrichment
}

// NewExtractor creates a signal extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// WithEnrichment attaches externally computed LLM enrichment to be
// merged into the communication-style signals. The extractor never
// performs the enrichment call itself.
func (e *Extractor) WithEnrichment(enrichment *Enrichment) *Extractor {
	e.enrichment = enrichment
	return e
}

// ExtractAllSignals runs newsletter, communication-style, professional
// and activity analysis and returns the assembled report. It performs no
// I/O and never fails: malformed records degrade to zero contributions.
func (e *Extractor) ExtractAllSignals(received, sent []mail.Message, userEmail string) Report {
	newsletters := ExtractNewsletterSignals(received)
	style := ExtractCommunicationStyle(sent, e.enrichment)
	professional := ExtractProfessionalContext(received, sent)

	all := make([]mail.Message, 0, len(received)+len(sent))
	all = append(all, received...)
	all = append(all, sent...)
	activity := ExtractActivityPatterns(all)

	return Report{
		UserEmail:           userEmail,
		AnalyzedAt:          time.Now(),
		Newsletters:         newsletters,
		CommunicationStyle:  style,
		ProfessionalContext: professional,
		ActivityPatterns:    activity,
		TotalEmailsAnalyzed: len(received),
		SentEmailsAnalyzed:  len(sent),
		QualityScore:        qualityScore(len(received), len(sent), newsletters, style),
	}
}

// qualityScore estimates run completeness in [0,1] from data volume and
// signal presence.
func qualityScore(receivedCount, sentCount int, newsletters NewsletterSignals, style CommunicationStyleSignals) float64 {
	score := 0.0

	// Email volume (max 0.4).
	switch {
	case receivedCount >= 100:
		score += 0.2
	case receivedCount >= 50:
		score += 0.1
	}
	switch {
	case sentCount >= 50:
		score += 0.2
	case sentCount >= 25:
		score += 0.1
	}

	// Newsletter detection (max 0.2).
	if newsletters.TotalNewsletters > 0 {
		score += 0.1
	}
	if len(newsletters.NewsletterCategories) > 2 {
		score += 0.1
	}

	// Communication style data (max 0.2).
	if style.AvgEmailLength > 0 {
		score += 0.1
	}
	if len(style.CommonGreetings) > 0 || len(style.CommonSignoffs) > 0 {
		score += 0.1
	}

	// Baseline activity credit.
	score += 0.2

	return round2(math.Min(score, 1.0))
}
