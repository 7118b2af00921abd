package signal

import (
	"sort"
	"time"

	"github.com/ignite/footprint/internal/mail"
)

// ExtractActivityPatterns mines temporal rhythm from the combined
// received+sent collection. Records with unparseable dates contribute
// nothing but never abort the run.
func ExtractActivityPatterns(all []mail.Message) ActivityPatternSignals {
	if len(all) == 0 {
		return ActivityPatternSignals{
			PeakActivityHours: []int{},
			PeakActivityDays:  []string{},
			ThreadDepthAvg:    1.0,
		}
	}

	var (
		hours         []int
		days          []string
		timestamps    []time.Time
		threadIDs     []string
		responseCount int
	)

	for _, msg := range all {
		if hour, ok := ExtractHour(msg.Date); ok {
			hours = append(hours, hour)
		}
		if day := ExtractDayOfWeek(msg.Date); day != "" {
			days = append(days, day)
		}
		if ts, ok := ParseTimestamp(msg.Date); ok {
			timestamps = append(timestamps, ts)
		}
		if msg.ThreadID != "" {
			threadIDs = append(threadIDs, msg.ThreadID)
		}
		if IsLikelyResponse(msg) {
			responseCount++
		}
	}

	emailsPerDay := 0.0
	dateRangeDays := 0
	if len(timestamps) > 0 {
		sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
		earliest := timestamps[0]
		latest := timestamps[len(timestamps)-1]
		dateRangeDays = int(latest.Sub(earliest).Hours() / 24)
		if dateRangeDays < 1 {
			dateRangeDays = 1
		}
		emailsPerDay = round1(float64(len(timestamps)) / float64(dateRangeDays))
	}

	peakHours := topInts(hours, 3)
	peakDays := FindMostCommon(days, 3)

	uniqueThreads := len(uniqueStrings(threadIDs))
	threadDepth := 1.0
	if uniqueThreads > 0 {
		threadDepth = float64(len(threadIDs)) / float64(uniqueThreads)
	}

	return ActivityPatternSignals{
		EmailsPerDay:      emailsPerDay,
		PeakActivityHours: peakHours,
		PeakActivityDays:  peakDays,
		ThreadDepthAvg:    round1(threadDepth),
		ResponseRate:      CalculatePercentage(responseCount, len(all)),
		DateRangeDays:     dateRangeDays,
		TotalThreads:      uniqueThreads,
	}
}

// topInts frequency-ranks ints and returns the top n, ties broken by
// first-seen order. Never nil, mirroring FindMostCommon.
func topInts(items []int, topN int) []int {
	order := []int{}
	if len(items) == 0 {
		return order
	}

	counts := make(map[int]int, len(items))
	firstSeen := make(map[int]int, len(items))
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
