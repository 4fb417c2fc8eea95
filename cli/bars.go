package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

var barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9dd4dd"))

// renderBars draws a server chart as horizontal bars scaled to its axis
// maximum, or to the largest value when the axis is open
func renderBars(spec ChartSpec) string {
	if len(spec.Datasets) == 0 {
		return ""
	}
	values := spec.Datasets[0].Values

	max := spec.YAxis.Max
	if max <= 0 {
		for _, v := range values {
			if v > max {
				max = v
			}
		}
	}

	labelWidth := 0
	for _, l := range spec.Labels {
		if w := lipgloss.Width(l); w > labelWidth {
			labelWidth = w
		}
	}

	var b strings.Builder
	if spec.Title != "" {
		b.WriteString(infoStyle.Render(spec.Title) + "\n")
	}
	for i, label := range spec.Labels {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		b.WriteString(fmt.Sprintf("%-*s %s %s\n", labelWidth, label, barStyle.Render(bar(v, max)), formatValue(v)))
	}
	return b.String()
}

// bar returns a run of blocks proportional to v/max, clamped to the width
func bar(v, max float64) string {
	if max <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(v / max * barWidth))
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("█", n)
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
