package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/newsheat/internal/client"
	"github.com/okian/newsheat/internal/domain/categorize"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
)

const (
	titleWidth    = 70
	ruleWidth     = 80
	warmThreshold = 40
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hotStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	coolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= categorize.DefaultHotThreshold:
		return hotStyle
	case score >= warmThreshold:
		return warmStyle
	default:
		return coolStyle
	}
}

func rule() string { return ruleStyle.Render(strings.Repeat("─", ruleWidth)) }

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderResult(w io.Writer, title string, res scoring.Result) {
	fmt.Fprintln(w, rule())
	fmt.Fprintln(w, headerStyle.Render(title))
	fmt.Fprintln(w, rule())
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Score:     "), scoreStyle(res.Score).Render(fmt.Sprintf("%d", res.Score)))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Categories:"), joinCategories(res.Categories))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Triggers:  "), orDash(strings.Join(res.EmotionalTriggers, ", ")))
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("High value:"), res.HighValueCount)
	fmt.Fprintf(w, "%s %t\n", labelStyle.Render("Generic:   "), res.IsGeneric)
}

func renderGroups(w io.Writer, groups categorize.Groups) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No articles.")
		return
	}
	for _, g := range groups {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%d)", g.Label, len(g.Articles))))
		fmt.Fprintln(w, rule())
		for _, a := range g.Articles {
			fmt.Fprintf(w, " %s  %s  %s\n",
				scoreStyle(a.RelevanceScore).Render(fmt.Sprintf("%3d", a.RelevanceScore)),
				shorten(a.Title, titleWidth),
				sourceStyle.Render(a.Source),
			)
		}
		fmt.Fprintln(w)
	}
}

func renderSummary(w io.Writer, s model.Summary) {
	fmt.Fprintf(w, "%s %d articles, mean %.2f, max %d, %d generic\n",
		labelStyle.Render("Summary:"), s.Count, s.MeanScore, s.MaxScore, s.GenericCount)
	if len(s.Triggers) > 0 {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Triggers:"), strings.Join(s.Triggers.Sorted(), ", "))
	}
}

func renderReport(w io.Writer, r client.Report) {
	fmt.Fprintf(w, "%s %d submitted, %d accepted, %d duplicate, %d failed (%.1f/s)\n",
		labelStyle.Render("Submitted:"), r.Submitted, r.Accepted, r.Duplicate, r.Failed, r.PerSecond())
}

func joinCategories(c scoring.CategorySet) string {
	ids := c.Sorted()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return orDash(strings.Join(names, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
