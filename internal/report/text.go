package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const rule = "--------------------------------------------------------------------------------"

// Text writes the terminal summary of doc: counts, per-fragment details
// with up to three dialogue samples and two matches, then the patterns.
func Text(w io.Writer, doc Document, now time.Time) {
	var b strings.Builder
	heavy := strings.Repeat("=", len(rule))

	b.WriteString(heavy + "\n")
	b.WriteString("片段组织分析报告\n")
	b.WriteString(heavy + "\n\n")

	b.WriteString(fmt.Sprintf("文档总数: %s\n", humanize.Comma(int64(doc.Summary.TotalDocuments))))
	b.WriteString(fmt.Sprintf("片段数量: %s\n", humanize.Comma(int64(doc.Summary.FragmentCount))))
	b.WriteString(fmt.Sprintf("正文数量: %s\n", humanize.Comma(int64(doc.Summary.MainTextCount))))
	if !doc.GeneratedAt.IsZero() {
		b.WriteString(fmt.Sprintf("生成时间: %s (%s)\n",
			doc.GeneratedAt.Local().Format("2006-01-02 15:04"),
			humanize.RelTime(doc.GeneratedAt, now, "ago", "from now")))
	}
	b.WriteString("\n")

	b.WriteString(rule + "\n片段详细分析\n" + rule + "\n\n")
	for i, f := range doc.Fragments {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.Title))
		b.WriteString(fmt.Sprintf("   字数: %s | 段落: %d | 对话: %d\n",
			humanize.Comma(int64(f.WordCount)), f.ParagraphCount, f.DialogueCount))
		b.WriteString(fmt.Sprintf("   关键词: %s\n", joinOr(f.Keywords, "无")))
		b.WriteString(fmt.Sprintf("   地点: %s\n", joinOr(f.Locations, "无")))

		if len(f.Dialogues) > 0 {
			b.WriteString("   对话示例:\n")
			for _, d := range f.Dialogues[:min(3, len(f.Dialogues))] {
				b.WriteString(fmt.Sprintf("     - \"%s\"\n", d.Text))
			}
		}

		if len(f.BestMatches) == 0 {
			b.WriteString("   最佳匹配: 无\n\n")
			continue
		}
		b.WriteString("   最佳匹配:\n")
		for _, m := range f.BestMatches[:min(2, len(f.BestMatches))] {
			b.WriteString(fmt.Sprintf("     - %s (总分: %.3f, 地点: %.3f, 关键词: %.3f)\n",
				m.Title, m.Score, m.LocationMatch, m.KeywordOverlap))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n组织模式总结\n" + rule + "\n\n")
	for _, p := range doc.Patterns {
		b.WriteString(fmt.Sprintf("%s: %d 个片段\n", p.Name, p.Count))
		b.WriteString(fmt.Sprintf("  %s\n", p.Description))
	}
	b.WriteString("\n" + heavy + "\n")

	io.WriteString(w, b.String())
}
