package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevantSentence_PicksQualifyingSentence(t *testing.T) {
	text := "今天天气很好。他学习了成语。一鸣惊人的故事很有趣。"
	got := RelevantSentence(text, "一鸣惊人")
	assert.Equal(t, "一鸣惊人的故事很有趣。", got)
}

func TestRelevantSentence_KeywordDeepInSentence(t *testing.T) {
	text := "今天天气很好。他在今年的全国青少年科技比赛中终于一鸣惊人，震惊四座！后来呢"
	got := RelevantSentence(text, "一鸣惊人")
	assert.Equal(t, "他在今年的全国青少年科技比赛中终于一鸣惊人，震惊四座。", got)
}

// The lead-sentence override only fires when the opening sentence already
// mentions the keyword, which also makes it the first qualifying sentence.
// This pins the calibrated behavior rather than an inferred intent.
func TestRelevantSentence_LeadSentenceOverride(t *testing.T) {
	text := "比赛中他一鸣惊人。一鸣惊人的表现令人赞叹。"
	got := RelevantSentence(text, "一鸣惊人")
	assert.Equal(t, "比赛中他一鸣惊人。", got)
}

func TestRelevantSentence_EmptyLeadSegmentIsIgnored(t *testing.T) {
	text := "。一鸣惊人的表现令人赞叹|其他"
	got := RelevantSentence(text, "一鸣惊人")
	assert.Equal(t, "一鸣惊人的表现令人赞叹。", got)
}

func TestRelevantSentence_SplitsOnAllTerminators(t *testing.T) {
	text := "第一句？第二句！他们说画龙点睛|画龙点睛是成语"
	got := RelevantSentence(text, "画龙点睛")
	assert.Equal(t, "他们说画龙点睛。", got)
}

func TestRelevantSentence_KeywordAbsent(t *testing.T) {
	assert.Equal(t, "", RelevantSentence("完全无关的文本。", "一鸣惊人"))
	assert.Equal(t, "", RelevantSentence("任何文本", ""))
}

func TestRelevantSentence_FallsThroughToFixedWindow(t *testing.T) {
	// The keyword spans a terminator, so no sentence holds it and the
	// snapped window cuts it in half.
	text := "今天天气很好。他学习了成语"
	got := RelevantSentence(text, "好。他")
	assert.Equal(t, text, got)
}

func TestSnapTier_NoTerminatorsStaysWithinWindow(t *testing.T) {
	text := strings.Repeat("前", 80) + "惊" + strings.Repeat("后", 80)
	got, ok := SnapTier{}.Extract(text, "惊")
	require.True(t, ok)
	assert.Contains(t, got, "惊")
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 2*SnapWindow+1)
	assert.Equal(t, 2*SnapWindow+1, utf8.RuneCountInString(got))
}

func TestSnapTier_SnapsToFullStops(t *testing.T) {
	text := "开头的话。记者报道称他一鸣惊人令人意外。结尾的话"
	got, ok := SnapTier{}.Extract(text, "一鸣惊人")
	require.True(t, ok)
	assert.Equal(t, "记者报道称他一鸣惊人令人意外。", got)
}

func TestSnapTier_IgnoresFullStopsOutsideWindow(t *testing.T) {
	text := "远处。" + strings.Repeat("字", 60) + "一鸣惊人" + strings.Repeat("尾", 60) + "。"
	got, ok := SnapTier{}.Extract(text, "一鸣惊人")
	require.True(t, ok)
	assert.NotContains(t, got, "远处")
	assert.NotContains(t, got, "。")
	assert.Equal(t, 2*SnapWindow+4, utf8.RuneCountInString(got))
}

func TestWindowTier_FixedWidth(t *testing.T) {
	text := strings.Repeat("前", 40) + "一鸣惊人" + strings.Repeat("后", 40)
	got, ok := WindowTier{}.Extract(text, "一鸣惊人")
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("前", FixedWindow)+"一鸣惊人"+strings.Repeat("后", FixedWindow), got)
}

func TestFirstOf_CustomTierOrder(t *testing.T) {
	text := "今天天气很好。他学习了成语。一鸣惊人的故事很有趣。"
	got := FirstOf([]Tier{WindowTier{}}, text, "一鸣惊人")
	assert.Equal(t, "今天天气很好。他学习了成语。一鸣惊人的故事很有趣。", got)
}

func TestRelevantSentence_ResultAlwaysContainsKeyword(t *testing.T) {
	cases := []struct{ text, keyword string }{
		{"一鸣惊人", "一鸣惊人"},
		{"他一鸣惊人。", "一鸣惊人"},
		{"。。。一鸣惊人！！", "一鸣惊人"},
		{"前文|一鸣惊人|后文", "一鸣惊人"},
		{"a。b。c 一鸣 惊人", "一鸣"},
		{"今天天气很好。他学习了成语", "好。他"},
		{strings.Repeat("长", 300) + "破釜沉舟" + strings.Repeat("长", 300), "破釜沉舟"},
		{"Mixed ascii. 画龙点睛 and more", "画龙点睛"},
	}
	for _, tc := range cases {
		got := RelevantSentence(tc.text, tc.keyword)
		require.NotEmpty(t, got, "text %q", tc.text)
		assert.Contains(t, got, tc.keyword, "text %q", tc.text)
	}
}
