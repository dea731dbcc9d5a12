package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/telemetry"
)

var (
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var summaryMetrics = []string{"collisions", "wall_hits", "energy", "energy_drift", "momentum", "speed", "containment"}

func renderSummary(meta storage.RunMetadata, tel telemetry.Stats) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render("run " + meta.ID))
	b.WriteString("\n")
	row("duration", fmt.Sprintf("%.2fs", meta.Duration))
	row("ticks", fmt.Sprintf("%d", meta.Ticks))
	row("balls", fmt.Sprintf("%d", meta.Balls))
	row("table", fmt.Sprintf("%gx%g", meta.Width, meta.Height))
	row("seed", fmt.Sprintf("%d", meta.Seed))

	for _, name := range summaryMetrics {
		if v, ok := meta.Metrics[name]; ok {
			row(name, fmt.Sprintf("%.6g", v))
		}
	}

	if meta.Diagnostics != "" {
		row("diagnostics", fmt.Sprintf("%d written", tel.Written))
		if tel.Failures > 0 || tel.Dropped > 0 {
			b.WriteString(warnStyle.Render(fmt.Sprintf("%d failed appends, %d records dropped", tel.Failures, tel.Dropped)))
			b.WriteString("\n")
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
