package signal

import (
	"github.com/ignite/footprint/internal/mail"
)

// snippetWordFactor scales a snippet's word count up to an estimated
// full-body word count, compensating for snippet truncation.
const snippetWordFactor = 3

// ExtractCommunicationStyle analyzes sent-mail metadata for writing
// habits. Formality is scored on subjects; emoji usage, length estimates
// and greeting/sign-off patterns come from snippets. An optional
// externally computed enrichment is attached as-is — its absence never
// blocks the base signals.
func ExtractCommunicationStyle(sent []mail.Message, enrichment *Enrichment) CommunicationStyleSignals {
	if len(sent) == 0 {
		return CommunicationStyleSignals{
			FormalityScore:        0.5,
			CommonGreetings:       []string{},
			CommonSignoffs:        []string{},
			AvgRecipientsPerEmail: 1.0,
		}
	}

	var formalitySum float64
	for _, msg := range sent {
		formalitySum += CalculateFormalityScore(msg.Subject)
	}
	avgFormality := formalitySum / float64(len(sent))

	var (
		emojiCount    int
		totalSnippets int
		wordCounts    []int
	)
	for _, msg := range sent {
		if msg.Snippet == "" {
			continue
		}
		emojiCount += CountEmojis(msg.Snippet)
		totalSnippets++
		wordCounts = append(wordCounts, CountWords(msg.Snippet)*snippetWordFactor)
	}

	avgLength := 0
	if len(wordCounts) > 0 {
		sum := 0
		for _, wc := range wordCounts {
			sum += wc
		}
		avgLength = sum / len(wordCounts)
	}

	var recipientCounts []int
	for _, msg := range sent {
		if count := ExtractRecipientsCount(msg.To); count > 0 {
			recipientCounts = append(recipientCounts, count)
		}
	}
	avgRecipients := 1.0
	if len(recipientCounts) > 0 {
		sum := 0
		for _, rc := range recipientCounts {
			sum += rc
		}
		avgRecipients = float64(sum) / float64(len(recipientCounts))
	}

	var greetingsFound, signoffsFound []string
	for _, msg := range sent {
		if g := ExtractGreeting(msg.Snippet); g != "" {
			greetingsFound = append(greetingsFound, g)
		}
		if s := ExtractSignoff(msg.Snippet); s != "" {
			signoffsFound = append(signoffsFound, s)
		}
	}

	return CommunicationStyleSignals{
		AvgEmailLength:        avgLength,
		FormalityScore:        round2(avgFormality),
		EmojiUsageRate:        CalculatePercentage(emojiCount, totalSnippets),
		CommonGreetings:       FindMostCommon(greetingsFound, 3),
		CommonSignoffs:        FindMostCommon(signoffsFound, 3),
		SentEmailCount:        len(sent),
		AvgRecipientsPerEmail: round1(avgRecipients),
		Enrichment:            enrichment,
		EnrichmentAvailable:   enrichment != nil,
	}
}
