package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// JSON renders doc as indented JSON with characters left unescaped.
func JSON(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode json report: %w", err)
	}
	return buf.Bytes(), nil
}

// YAML renders doc as block-style YAML.
func YAML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode yaml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml report: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown renders doc as a Markdown report.
func Markdown(doc Document) string {
	var b strings.Builder

	b.WriteString("# 片段组织分析报告\n\n")
	if doc.RunID != "" {
		b.WriteString(fmt.Sprintf("- Run: `%s`\n", doc.RunID))
	}
	b.WriteString(fmt.Sprintf("- Generated: %s\n", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("- 文档总数: %d\n", doc.Summary.TotalDocuments))
	b.WriteString(fmt.Sprintf("- 片段数量: %d\n", doc.Summary.FragmentCount))
	b.WriteString(fmt.Sprintf("- 正文数量: %d\n\n", doc.Summary.MainTextCount))

	b.WriteString("## 片段详细分析\n\n")
	for i, f := range doc.Fragments {
		b.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, f.Title))
		b.WriteString(fmt.Sprintf("- 字数: %d | 段落: %d | 对话: %d\n", f.WordCount, f.ParagraphCount, f.DialogueCount))
		b.WriteString(fmt.Sprintf("- 关键词: %s\n", joinOr(f.Keywords, "无")))
		b.WriteString(fmt.Sprintf("- 地点: %s\n", joinOr(f.Locations, "无")))
		if tone := formatTone(f.EmotionalTone); tone != "" {
			b.WriteString(fmt.Sprintf("- 情感: %s\n", tone))
		}

		if len(f.Dialogues) > 0 {
			b.WriteString("\n对话示例:\n\n")
			for _, d := range f.Dialogues {
				b.WriteString(fmt.Sprintf("- \"%s\" (%s)\n", d.Text, d.Speaker))
			}
		}

		if len(f.BestMatches) == 0 {
			b.WriteString("\n最佳匹配: 无\n\n")
			continue
		}
		b.WriteString("\n| 正文 | 总分 | 关键词 | 对话 | 地点 | 主题 | 情感 |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, m := range f.BestMatches {
			b.WriteString(fmt.Sprintf("| %s | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
				m.Title, m.Score, m.KeywordOverlap, m.DialogueSimilarity,
				m.LocationMatch, m.ThemeSimilarity, m.EmotionSimilarity))
		}
		b.WriteString("\n")
	}

	b.WriteString("## 组织模式总结\n\n")
	for _, p := range doc.Patterns {
		b.WriteString(fmt.Sprintf("- **%s**: %d 个片段. %s\n", p.Name, p.Count, p.Description))
	}

	return b.String()
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

// formatTone lists nonzero categories, highest first, ties by name.
func formatTone(tone map[string]float64) string {
	type kv struct {
		k string
		v float64
	}
	var items []kv
	for k, v := range tone {
		if v > 0 {
			items = append(items, kv{k, v})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].v != items[j].v {
			return items[i].v > items[j].v
		}
		return items[i].k < items[j].k
	})

	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s %.2f", it.k, it.v)
	}
	return strings.Join(parts, ", ")
}
