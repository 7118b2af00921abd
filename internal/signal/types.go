package signal

import "time"

// NewsletterSignals describes the owner's newsletter subscriptions.
type NewsletterSignals struct {
	NewsletterDomains    []string       `json:"newsletter_domains"`
	NewsletterCategories map[string]int `json:"newsletter_categories"`
	TopNewsletters       []string       `json:"top_newsletters"`
	TotalNewsletters     int            `json:"total_newsletters"`
	NewsletterPercentage float64        `json:"newsletter_percentage"`
}

// Enrichment holds qualitative analysis computed by an external LLM
// service over full message bodies. It is supplied by the caller and
// attached at construction; the signal pipeline never produces it itself.
type Enrichment struct {
	Tone                   string   `json:"tone,omitempty"`
	WritingStyle           string   `json:"writing_style,omitempty"`
	CommonTopics           []string `json:"common_topics,omitempty"`
	RelationshipQuality    string   `json:"relationship_quality,omitempty"`
	ProfessionalismLevel   int      `json:"professionalism_level,omitempty"` // 1-10
	PersonalityTraits      []string `json:"personality_traits,omitempty"`
	CommunicationStrengths []string `json:"communication_strengths,omitempty"`
}

// CommunicationStyleSignals describes how the owner writes, derived from
// sent-mail metadata (subjects and snippets; full bodies are not
// guaranteed to be available).
type CommunicationStyleSignals struct {
	AvgEmailLength        int      `json:"avg_email_length"`
	FormalityScore        float64  `json:"formality_score"`
	EmojiUsageRate        float64  `json:"emoji_usage_rate"`
	CommonGreetings       []string `json:"common_greetings"`
	CommonSignoffs        []string `json:"common_signoffs"`
	SentEmailCount        int      `json:"sent_email_count"`
	AvgRecipientsPerEmail float64  `json:"avg_recipients_per_email"`

	Enrichment          *Enrichment `json:"enrichment,omitempty"`
	EnrichmentAvailable bool        `json:"enrichment_available"`
}

// ProfessionalContextSignals describes the owner's professional world
// inferred from contact domains and subject vocabulary.
type ProfessionalContextSignals struct {
	TopContactDomains    []string       `json:"top_contact_domains"`
	DomainCategories     map[string]int `json:"domain_categories"`
	InferredIndustry     string         `json:"inferred_industry,omitempty"`
	CompanyAffiliations  []string       `json:"company_affiliations"`
	ProfessionalKeywords []string       `json:"professional_keywords"`
	TotalUniqueContacts  int            `json:"total_unique_contacts"`
}

// ActivityPatternSignals describes the owner's mail rhythm over time.
type ActivityPatternSignals struct {
	EmailsPerDay      float64  `json:"emails_per_day"`
	PeakActivityHours []int    `json:"peak_activity_hours"`
	PeakActivityDays  []string `json:"peak_activity_days"`
	ThreadDepthAvg    float64  `json:"thread_depth_avg"`
	ResponseRate      float64  `json:"response_rate"`
	DateRangeDays     int      `json:"date_range_days"`
	TotalThreads      int      `json:"total_threads"`
}

// Report is the complete output of one signal-extraction run. It is
// built once by the extractor and immutable thereafter.
type Report struct {
	UserEmail  string    `json:"user_email"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	Newsletters         NewsletterSignals          `json:"newsletter_signals"`
	CommunicationStyle  CommunicationStyleSignals  `json:"communication_style"`
	ProfessionalContext ProfessionalContextSignals `json:"professional_context"`
	ActivityPatterns    ActivityPatternSignals     `json:"activity_patterns"`

	TotalEmailsAnalyzed int     `json:"total_emails_analyzed"`
	SentEmailsAnalyzed  int     `json:"sent_emails_analyzed"`
	QualityScore        float64 `json:"analysis_quality_score"`
}
