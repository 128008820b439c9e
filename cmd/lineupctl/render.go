package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/validate"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	headStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AAAAAA"))
	outStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// positionAbbrev keeps chart columns narrow.
var positionAbbrev = map[lineup.PositionCode]string{
	lineup.Pitcher:          "P",
	lineup.Catcher:          "C",
	lineup.FirstBase:        "1B",
	lineup.SecondBase:       "2B",
	lineup.ThirdBase:        "3B",
	lineup.Shortstop:        "SS",
	lineup.LeftField:        "LF",
	lineup.LeftCenterField:  "LCF",
	lineup.RightCenterField: "RCF",
	lineup.RightField:       "RF",
	lineup.Out:              "-",
}

func abbrev(pos lineup.PositionCode) string {
	if short, ok := positionAbbrev[pos]; ok {
		return short
	}
	return string(pos)
}

func renderLineup(team lineup.Team, l lineup.Lineup) string {
	labels := make(map[string]string, len(team.Players))
	nameWidth := len("Player")
	for _, p := range team.Players {
		label := p.Name()
		if p.Gender.IsMale() {
			label += " (M)"
		}
		labels[p.ID] = label
		if w := lipgloss.Width(label); w > nameWidth {
			nameWidth = w
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-*s", "#", nameWidth, "Player")
	for i := 1; i <= l.Innings; i++ {
		fmt.Fprintf(&b, " %4d", i)
	}
	rows := []string{headStyle.Render(b.String())}

	for i, id := range l.BattingOrder {
		b.Reset()
		label, ok := labels[id]
		if !ok {
			label = id
		}
		fmt.Fprintf(&b, "%-3d %-*s", i+1, nameWidth, label)
		for _, pos := range l.Fielding[id] {
			cell := fmt.Sprintf(" %4s", abbrev(pos))
			if pos == lineup.Out {
				cell = outStyle.Render(cell)
			}
			b.WriteString(cell)
		}
		rows = append(rows, b.String())
	}

	sections := []string{
		titleStyle.Render(fmt.Sprintf("%s: %d innings", team.Name, l.Innings)),
		boxStyle.Render(strings.Join(rows, "\n")),
	}
	if len(l.Warnings) > 0 {
		sections = append(sections, renderIssues(l.Warnings))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderReport(report validate.Report) string {
	if len(report.Issues) == 0 {
		return titleStyle.Render("lineup accepted")
	}
	status := titleStyle.Render("lineup accepted with warnings")
	if !report.Accepted() {
		status = errorStyle.Render(fmt.Sprintf("lineup rejected: %d error(s)", len(report.Errors())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, renderIssues(report.Issues))
}

func renderIssues(issues []lineup.Issue) string {
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		style := warnStyle
		if issue.Severity == lineup.SeverityError {
			style = errorStyle
		}
		line := fmt.Sprintf("%-7s %-20s %s", issue.Severity, issue.Code, issue.Message)
		if issue.Inning > 0 {
			line += fmt.Sprintf(" (inning %d)", issue.Inning)
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}
