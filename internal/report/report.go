// Package report renders a search session as plain text.
package report

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/idiomsearch/internal/meaning"
	"github.com/hyperifyio/idiomsearch/internal/orchestrator"
)

// Highlight markers wrapped around each keyword occurrence.
const (
	MarkOpen  = "【"
	MarkClose = "】"
)

// NoResults is printed under a site that produced nothing.
const NoResults = "  未找到相关结果"

// NoMeaning is shown in place of the meaning block when none was found.
const NoMeaning = "未找到该成语的解释"

// Format renders the optional meaning followed by every site's results.
// The output depends only on its arguments.
func Format(m *meaning.Meaning, keyword string, rs orchestrator.ResultSet) string {
	var out []string
	if m != nil {
		out = append(out,
			"成语解释:",
			strings.Repeat("-", 40),
			FormatMeaning(m),
			"",
		)
	}
	out = append(out,
		"搜索关键词: "+keyword,
		strings.Repeat("=", 60),
	)
	for _, s := range rs {
		out = append(out, fmt.Sprintf("\n%s结果（%d条）:", s.Site.Name, len(s.Results)))
		if len(s.Results) == 0 {
			out = append(out, NoResults)
			continue
		}
		for i, r := range s.Results {
			out = append(out, fmt.Sprintf("%d. %s", i+1, Highlight(r.Snippet, keyword)))
		}
	}
	return strings.Join(out, "\n")
}

// FormatMeaning renders a dictionary entry: the bracketed idiom, its
// explanation line (present even when the explanation is empty) and,
// separated by a blank line, the analysis verbatim.
func FormatMeaning(m *meaning.Meaning) string {
	if m == nil {
		return ""
	}
	lines := []string{MarkOpen + m.Idiom + MarkClose, "解释：" + m.Explanation}
	if m.Analysis != "" {
		lines = append(lines, "", m.Analysis)
	}
	return strings.Join(lines, "\n")
}

// Highlight wraps every literal occurrence of keyword in s.
func Highlight(s, keyword string) string {
	if keyword == "" {
		return s
	}
	return strings.ReplaceAll(s, keyword, MarkOpen+keyword+MarkClose)
}
