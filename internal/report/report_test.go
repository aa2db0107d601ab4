package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyperifyio/idiomsearch/internal/meaning"
	"github.com/hyperifyio/idiomsearch/internal/orchestrator"
	"github.com/hyperifyio/idiomsearch/internal/search"
)

func sampleSet() orchestrator.ResultSet {
	return orchestrator.ResultSet{
		{
			Site: orchestrator.Site{Name: "人民网", Domain: "people.com.cn"},
			Results: []search.Result{
				{Title: "t1", Snippet: "他一鸣惊人，真是一鸣惊人。"},
				{Title: "t2", Snippet: "一鸣惊人出自《史记》。"},
			},
		},
		{Site: orchestrator.Site{Name: "光明网", Domain: "gmw.cn"}, Err: errors.New("timeout")},
	}
}

func TestFormat_WithoutMeaning(t *testing.T) {
	got := Format(nil, "一鸣惊人", sampleSet())
	want := strings.Join([]string{
		"搜索关键词: 一鸣惊人",
		strings.Repeat("=", 60),
		"",
		"人民网结果（2条）:",
		"1. 他【一鸣惊人】，真是【一鸣惊人】。",
		"2. 【一鸣惊人】出自《史记》。",
		"",
		"光明网结果（0条）:",
		"  未找到相关结果",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormat_WithMeaning(t *testing.T) {
	m := &meaning.Meaning{Idiom: "一鸣惊人", Explanation: "比喻一下子做出惊人的成绩。", Analysis: "第一段\n\n第二段"}
	got := Format(m, "一鸣惊人", nil)
	want := strings.Join([]string{
		"成语解释:",
		strings.Repeat("-", 40),
		"【一鸣惊人】",
		"解释：比喻一下子做出惊人的成绩。",
		"",
		"第一段\n\n第二段",
		"",
		"搜索关键词: 一鸣惊人",
		strings.Repeat("=", 60),
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormat_Deterministic(t *testing.T) {
	a := Format(nil, "一鸣惊人", sampleSet())
	b := Format(nil, "一鸣惊人", sampleSet())
	assert.Equal(t, a, b)
}

func TestFormatMeaning_NoAnalysis(t *testing.T) {
	got := FormatMeaning(&meaning.Meaning{Idiom: "画龙点睛", Explanation: "比喻关键处点明要旨。"})
	assert.Equal(t, "【画龙点睛】\n解释：比喻关键处点明要旨。", got)

	empty := FormatMeaning(&meaning.Meaning{Idiom: "画龙点睛"})
	assert.Equal(t, "【画龙点睛】\n解释：", empty)
	assert.Empty(t, FormatMeaning(nil))
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, "【成语】和【成语】", Highlight("成语和成语", "成语"))
	assert.Equal(t, "无关", Highlight("无关", "成语"))
	assert.Equal(t, "原文", Highlight("原文", ""))
}

func TestFormat_EveryEmptySiteSaysNoResults(t *testing.T) {
	rs := orchestrator.ResultSet{
		{Site: orchestrator.Site{Name: "a"}},
		{Site: orchestrator.Site{Name: "b"}},
	}
	got := Format(nil, "成语", rs)
	assert.Equal(t, 2, strings.Count(got, NoResults))
}
