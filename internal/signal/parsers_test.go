package signal

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"bare address", "john@x.com", "x.com"},
		{"angle bracket wrapper", "John <john@x.com>", "x.com"},
		{"quoted display name", `"Doe, John" <john@x.com>`, "x.com"},
		{"uppercase normalized", "JOHN@X.COM", "x.com"},
		{"no at sign", "not-an-address", ""},
		{"empty", "", ""},
		{"trailing junk after whitespace", "john@x.com extra", "x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.address); got != tt.want {
				t.Errorf("ExtractDomain(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}

func TestExtractDomainIdempotent(t *testing.T) {
	wrapped := ExtractDomain("John <john@x.com>")
	bare := ExtractDomain("john@x.com")
	if wrapped != bare || wrapped != "x.com" {
		t.Errorf("wrapped=%q bare=%q, want both x.com", wrapped, bare)
	}
}

func TestExtractDisplayName(t *testing.T) {
	tests := []struct {
		from string
		want string
	}{
		{"TechCrunch Daily <news@techcrunch.com>", "TechCrunch Daily"},
		{`"Jane Doe" <jane@corp.com>`, "Jane Doe"},
		{"al <a@b.com>", ""}, // too short
		{"plain@addr.com", ""},
	}

	for _, tt := range tests {
		if got := ExtractDisplayName(tt.from); got != tt.want {
			t.Errorf("ExtractDisplayName(%q) = %q, want %q", tt.from, got, tt.want)
		}
	}
}

func TestExtractNameFromAddress(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"john.doe@x.com", "John Doe"},
		{"jane_smith@corp.io", "Jane Smith"},
		{"first.middle.last@x.com", "First Middle"},
		{"a@x.com", ""},
		{"john123.42@x.com", ""}, // numeric tokens filtered, only one name token left
		{"no-at-sign", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractNameFromAddress(tt.address); got != tt.want {
			t.Errorf("ExtractNameFromAddress(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("Mon, 15 Jan 2024 14:30:00 +0000")
	if !ok {
		t.Fatal("expected valid parse")
	}
	if ts.Year() != 2024 || ts.Hour() != 14 || ts.Minute() != 30 {
		t.Errorf("unexpected timestamp: %v", ts)
	}

	if _, ok := ParseTimestamp("not a date"); ok {
		t.Error("expected parse failure for garbage input")
	}
	if _, ok := ParseTimestamp(""); ok {
		t.Error("expected parse failure for empty input")
	}
}

func TestExtractHourAndDay(t *testing.T) {
	hour, ok := ExtractHour("Mon, 15 Jan 2024 14:30:00 +0000")
	if !ok || hour != 14 {
		t.Errorf("ExtractHour = %d ok=%v, want 14 true", hour, ok)
	}

	if day := ExtractDayOfWeek("Mon, 15 Jan 2024 14:30:00 +0000"); day != "Monday" {
		t.Errorf("ExtractDayOfWeek = %q, want Monday", day)
	}

	if _, ok := ExtractHour("garbage"); ok {
		t.Error("expected no hour from garbage")
	}
	if day := ExtractDayOfWeek("garbage"); day != "" {
		t.Errorf("expected empty day, got %q", day)
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("quick status update on the launch"); got != 6 {
		t.Errorf("CountWords = %d, want 6", got)
	}
	if got := CountWords(""); got != 0 {
		t.Errorf("CountWords(empty) = %d, want 0", got)
	}
}

func TestCountEmojis(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"no emoji", "plain text only", 0},
		{"single emoji", "great work \U0001F600", 1},
		{"run counts once", "\U0001F600\U0001F601 and \U0001F680", 2},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountEmojis(tt.text); got != tt.want {
				t.Errorf("CountEmojis(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractRecipientsCount(t *testing.T) {
	tests := []struct {
		to   string
		want int
	}{
		{"a@x.com", 1},
		{"a@x.com, b@y.com", 2},
		{"a@x.com; b@y.com, Team", 2},
		{"", 0},
		{"no addresses here", 0},
	}

	for _, tt := range tests {
		if got := ExtractRecipientsCount(tt.to); got != tt.want {
			t.Errorf("ExtractRecipientsCount(%q) = %d, want %d", tt.to, got, tt.want)
		}
	}
}

func TestCalculateFormalityScore(t *testing.T) {
	if got := CalculateFormalityScore(""); got != 0.5 {
		t.Errorf("empty text = %v, want 0.5", got)
	}
	if got := CalculateFormalityScore("nothing matching either list"); got != 0.5 {
		t.Errorf("neutral text = %v, want 0.5", got)
	}

	formal := CalculateFormalityScore("Dear Sir, please find attached the report. Kind regards")
	casual := CalculateFormalityScore("hey! gonna grab lunch? lol can't wait!!")
	if formal <= casual {
		t.Errorf("formal score %v should exceed casual score %v", formal, casual)
	}

	// Score stays within [0,1] for arbitrary inputs.
	inputs := []string{
		"!!!!!!!!!!", "pursuant herewith aforementioned",
		strings.Repeat("won't can't she'll ", 50),
		"??? ?? ?",
	}
	for _, text := range inputs {
		score := CalculateFormalityScore(text)
		if score < 0 || score > 1 {
			t.Errorf("score %v out of [0,1] for %q", score, text)
		}
	}
}

func TestExtractGreeting(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"hi prefix", "hi team, quick update", "Hi"},
		{"good morning", "Good morning everyone\nhere's the plan", "Good Morning"},
		{"greeting not at start", "just following up, hello", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractGreeting(tt.text); got != tt.want {
				t.Errorf("ExtractGreeting(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractSignoff(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"best at end", "see the doc\n\nbest\nJohn", "Best"},
		{"thanks contained", "let me know.\nthanks, J", "Thanks"},
		{"no signoff", "line one\nline two", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSignoff(tt.text); got != tt.want {
				t.Errorf("ExtractSignoff(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		part, total int
		want        float64
	}{
		{0, 0, 0.0},
		{5, 0, 0.0},
		{0, 10, 0.0},
		{2, 3, 66.67},
		{1, 2, 50.0},
		{10, 10, 100.0},
	}

	for _, tt := range tests {
		if got := CalculatePercentage(tt.part, tt.total); got != tt.want {
			t.Errorf("CalculatePercentage(%d, %d) = %v, want %v", tt.part, tt.total, got, tt.want)
		}
	}
}

func TestFindMostCommon(t *testing.T) {
	items := []string{"b", "a", "b", "c", "a", "b"}
	got := FindMostCommon(items, 2)
	want := []string{"b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindMostCommon = %v, want %v", got, want)
	}

	// Ties break by first-seen order.
	tied := FindMostCommon([]string{"x", "y", "x", "y"}, 2)
	if !reflect.DeepEqual(tied, []string{"x", "y"}) {
		t.Errorf("tie-break order = %v, want [x y]", tied)
	}

	// Empty input yields an empty, non-nil slice so callers marshal []
	// instead of null.
	if got := FindMostCommon(nil, 5); got == nil || len(got) != 0 {
		t.Errorf("empty input = %#v, want empty non-nil slice", got)
	}
}
