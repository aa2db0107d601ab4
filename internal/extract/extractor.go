package extract

import (
	"strings"
	"unicode/utf8"
)

// Calibration thresholds for the sentence heuristics. Offsets and window
// sizes are measured in runes.
const (
	// LeadOffset is the largest keyword offset inside the first qualifying
	// sentence at which the document's opening sentence is preferred.
	LeadOffset = 10
	// SnapWindow is how far either side of the keyword the boundary-snapped
	// window reaches before snapping.
	SnapWindow = 50
	// FixedWindow is the unsnapped fallback window either side of the keyword.
	FixedWindow = 30
	// FallbackLength is how many runes of an abstract are kept when no
	// sentence could be extracted from it.
	FallbackLength = 100
	// MinAbstractLength is the abstract length at or below which a search
	// result carries too little context to be kept.
	MinAbstractLength = 10
)

// TruncateMarker is appended to abstracts cut at FallbackLength.
const TruncateMarker = "..."

const (
	fullStop    = '。'
	terminators = "。！？|"
)

// Tier is one step of the sentence heuristic. It reports ok=false when it
// has nothing to offer so the next tier can run.
type Tier interface {
	Extract(text, keyword string) (sentence string, ok bool)
}

// DefaultTiers is the ordered heuristic used by RelevantSentence.
var DefaultTiers = []Tier{SentenceTier{}, SnapTier{}, WindowTier{}}

// RelevantSentence returns the single sentence or snippet of text that best
// represents keyword, trying each tier of DefaultTiers in order. It returns
// "" when keyword does not occur in text.
func RelevantSentence(text, keyword string) string {
	return FirstOf(DefaultTiers, text, keyword)
}

// FirstOf runs tiers in order and returns the first successful extraction.
func FirstOf(tiers []Tier, text, keyword string) string {
	if keyword == "" || !strings.Contains(text, keyword) {
		return ""
	}
	for _, t := range tiers {
		if s, ok := t.Extract(text, keyword); ok {
			return s
		}
	}
	return ""
}

// SentenceTier splits text on sentence terminators and picks the first
// sentence that mentions the keyword.
//
// When the keyword sits within LeadOffset runes of that sentence's start, the
// sentence is likely a continuation, so the document's opening sentence is
// returned instead, provided it mentions the keyword too. This misfires on
// short sentences whose topic really is the keyword; the behavior is kept
// as calibrated.
type SentenceTier struct{}

func (SentenceTier) Extract(text, keyword string) (string, bool) {
	segments := splitSentences(text)
	var first string
	found := false
	for _, seg := range segments {
		s := strings.TrimSpace(seg)
		if s != "" && strings.Contains(seg, keyword) {
			first = s
			found = true
			break
		}
	}
	if !found {
		return "", false
	}
	if runeIndex(first, keyword) <= LeadOffset {
		lead := strings.TrimSpace(segments[0])
		if lead != "" && strings.Contains(lead, keyword) {
			return lead + string(fullStop), true
		}
	}
	return first + string(fullStop), true
}

// SnapTier takes a SnapWindow-rune window around the first keyword
// occurrence and tightens it to the surrounding full stops.
type SnapTier struct{}

func (SnapTier) Extract(text, keyword string) (string, bool) {
	rs := []rune(text)
	k := runeIndex(text, keyword)
	if k < 0 {
		return "", false
	}
	kw := utf8.RuneCountInString(keyword)
	start := max(0, k-SnapWindow)
	end := min(len(rs), k+kw+SnapWindow)

	if before := lastIndexRune(rs[:k], fullStop); before > start {
		start = before + 1
	}
	if after := indexRuneFrom(rs, fullStop, k); after > 0 && after < end {
		end = after + 1
	}
	out := strings.TrimSpace(string(rs[start:end]))
	if !strings.Contains(out, keyword) {
		return "", false
	}
	return out, true
}

// WindowTier returns FixedWindow runes either side of the keyword with no
// boundary snapping.
type WindowTier struct{}

func (WindowTier) Extract(text, keyword string) (string, bool) {
	rs := []rune(text)
	k := runeIndex(text, keyword)
	if k < 0 {
		return "", false
	}
	start := max(0, k-FixedWindow)
	end := min(len(rs), k+utf8.RuneCountInString(keyword)+FixedWindow)
	return strings.TrimSpace(string(rs[start:end])), true
}

// splitSentences splits on every terminator and keeps empty segments, so
// the first element is always the text before the first terminator.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if strings.ContainsRune(terminators, r) {
			out = append(out, text[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(out, text[start:])
}

// runeIndex is strings.Index measured in runes.
func runeIndex(s, sub string) int {
	i := strings.Index(s, sub)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

func indexRuneFrom(rs []rune, r rune, from int) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
