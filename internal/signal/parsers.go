package signal

import (
	"math"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field parsers turn a single raw header or snippet into a typed value.
// Malformed input never produces an error — it produces the zero value
// (empty string, false second return) so a bad record degrades to "no
// signal" instead of aborting a run.

// Formality indicators for scoring 0-1.
var formalPhrases = []string{
	"dear sir", "dear madam", "to whom it may concern", "sincerely",
	"respectfully", "pursuant to", "please find attached", "i am writing to",
	"i would like to", "thank you for your", "looking forward to",
	"kind regards", "yours faithfully", "yours sincerely",
}

var casualPhrases = []string{
	"hey", "hi there", "what's up", "cheers", "thanks!", "thx",
	"gonna", "wanna", "yeah", "yep", "nope", "btw", "fyi",
	"lol", "lmk", "asap", "cool", "awesome", "great!", "sounds good",
}

var greetings = []string{
	"hi", "hello", "hey", "dear", "good morning", "good afternoon",
	"good evening", "greetings", "hope you're well", "hope this finds you well",
}

var signoffs = []string{
	"best", "thanks", "regards", "cheers", "sincerely", "best regards",
	"kind regards", "warm regards", "thank you", "talk soon", "see you",
	"yours", "yours truly", "respectfully",
}

var (
	contractionRe = regexp.MustCompile(`\w+n't|\w+'ll|\w+'re|\w+'ve|\w+'d`)
	localSplitRe  = regexp.MustCompile(`[._\-+]`)
	recipientRe   = regexp.MustCompile(`[,;]`)
	titleCaser    = cases.Title(language.English)
)

// ExtractDomain returns the lower-cased domain of an email address,
// stripping a "Name <addr>" wrapper when present. Empty string means
// no domain could be extracted.
func ExtractDomain(address string) string {
	if address == "" || !strings.Contains(address, "@") {
		return ""
	}

	if lt := strings.Index(address, "<"); lt >= 0 {
		if gt := strings.Index(address[lt:], ">"); gt >= 0 {
			address = address[lt+1 : lt+gt]
		}
	}

	at := strings.LastIndex(address, "@")
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(address[at+1:]))
	// Drop anything after embedded whitespace.
	if fields := strings.Fields(domain); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// ExtractDisplayName returns the display-name portion of a
// `Name <addr@domain>` From header, or empty string if there isn't one
// worth keeping (quotes stripped, must be longer than 2 characters).
func ExtractDisplayName(fromField string) string {
	if !strings.Contains(fromField, "<") || !strings.Contains(fromField, ">") {
		return ""
	}
	name := strings.TrimSpace(fromField[:strings.Index(fromField, "<")])
	name = strings.Trim(name, `"'`)
	if len(name) > 2 {
		return name
	}
	return ""
}

// ExtractNameFromAddress guesses a person's name from the local part of
// an address, e.g. "john.doe@x.com" -> "John Doe". It needs at least two
// multi-character non-numeric tokens; otherwise returns empty string.
func ExtractNameFromAddress(address string) string {
	if address == "" || !strings.Contains(address, "@") {
		return ""
	}

	local := address[:strings.Index(address, "@")]
	parts := localSplitRe.Split(local, -1)

	var nameParts []string
	for _, p := range parts {
		if len(p) > 1 && !isAllDigits(p) {
			nameParts = append(nameParts, capitalize(p))
		}
	}

	if len(nameParts) >= 2 {
		return nameParts[0] + " " + nameParts[1]
	}
	return ""
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func capitalize(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// ParseTimestamp parses an RFC 2822-style email Date header. The second
// return value is false when the header cannot be parsed.
func ParseTimestamp(dateStr string) (time.Time, bool) {
	t, err := mail.ParseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ExtractHour returns the hour of day (0-23) from a Date header.
func ExtractHour(dateStr string) (int, bool) {
	t, ok := ParseTimestamp(dateStr)
	if !ok {
		return 0, false
	}
	return t.Hour(), true
}

// ExtractDayOfWeek returns the weekday name ("Monday", ...) from a Date
// header, or empty string when the date is unparseable.
func ExtractDayOfWeek(dateStr string) string {
	t, ok := ParseTimestamp(dateStr)
	if !ok {
		return ""
	}
	return t.Weekday().String()
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountEmojis counts runs of emoji characters in text, using the common
// Unicode emoji blocks (emoticons, pictographs, transport, flags).
func CountEmojis(text string) int {
	count := 0
	inRun := false
	for _, r := range text {
		if isEmojiRune(r) {
			if !inRun {
				count++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return count
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F600 && r <= 0x1F64F: // emoticons
		return true
	case r >= 0x1F300 && r <= 0x1F5FF: // symbols & pictographs
		return true
	case r >= 0x1F680 && r <= 0x1F6FF: // transport & map symbols
		return true
	case r >= 0x1F1E0 && r <= 0x1F1FF: // flags
		return true
	case r >= 0x2702 && r <= 0x27B0:
		return true
	case r >= 0x24C2 && r <= 0x1F251:
		return true
	}
	return false
}

// ExtractRecipientsCount counts addresses in a To header (split on comma
// or semicolon; only tokens containing '@' count).
func ExtractRecipientsCount(toField string) int {
	if toField == "" {
		return 0
	}
	count := 0
	for _, r := range recipientRe.Split(toField, -1) {
		if strings.Contains(r, "@") {
			count++
		}
	}
	return count
}

// CalculateFormalityScore scores text register from 0 (casual) to 1
// (formal) using phrase and punctuation cues. Text with no indicators at
// all scores a neutral 0.5.
func CalculateFormalityScore(text string) float64 {
	if text == "" {
		return 0.5
	}

	lower := strings.ToLower(text)

	formal := 0
	for _, phrase := range formalPhrases {
		if strings.Contains(lower, phrase) {
			formal++
		}
	}

	casual := 0
	for _, phrase := range casualPhrases {
		if strings.Contains(lower, phrase) {
			casual++
		}
	}

	// Contractions read casual.
	casual += len(contractionRe.FindAllString(text, -1))

	// High-register vocabulary reads formal.
	if strings.Contains(lower, "pursuant") || strings.Contains(lower, "herewith") ||
		strings.Contains(lower, "aforementioned") {
		formal += 2
	}

	casual += strings.Count(text, "!")
	if strings.Count(text, "?") > 2 {
		casual++
	}

	total := formal + casual
	if total == 0 {
		return 0.5
	}

	score := float64(formal) / float64(total)
	return math.Min(math.Max(score, 0.0), 1.0)
}

// ExtractGreeting finds a known greeting at the start of the first few
// lines of text and returns it title-cased, or empty string.
func ExtractGreeting(text string) string {
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	head := strings.TrimSpace(strings.ToLower(strings.Join(lines, " ")))

	for _, g := range greetings {
		if strings.HasPrefix(head, g) {
			return titleCaser.String(g)
		}
	}
	return ""
}

// ExtractSignoff finds a known sign-off anywhere in the last few
// non-blank lines of text and returns it title-cased, or empty string.
func ExtractSignoff(text string) string {
	if text == "" {
		return ""
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	tail := strings.ToLower(strings.Join(lines, " "))

	for _, s := range signoffs {
		if strings.Contains(tail, s) {
			return titleCaser.String(s)
		}
	}
	return ""
}

// CalculatePercentage computes part/total as a percentage rounded to two
// decimals, guarding division by zero.
func CalculatePercentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FindMostCommon frequency-ranks items and returns the top n, breaking
// count ties by first-seen order. The result is never nil so list
// fields marshal as [] rather than null.
func FindMostCommon(items []string, topN int) []string {
	order := []string{}
	if len(items) == 0 {
		return order
	}

	counts := make(map[string]int, len(items))
	firstSeen := make(map[string]int, len(items))
	for i, item := range items {
		if _, ok := counts[item]; !ok {
			firstSeen[item] = i
			order = append(order, item)
		}
		counts[item]++
	}

	sort.SliceStable(order, func(a, b int) bool {
		if counts[order[a]] != counts[order[b]] {
			return counts[order[a]] > counts[order[b]]
		}
		return firstSeen[order[a]] < firstSeen[order[b]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}
