package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matthewsawatzky/whitelabel/internal/generate"
	"github.com/matthewsawatzky/whitelabel/internal/pipeline"
	"github.com/matthewsawatzky/whitelabel/internal/theme"
)

const swatchWidth = 10

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Width(swatchWidth).Align(lipgloss.Center)
	roleStyle   = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
	emptyStyle  = lipgloss.NewStyle().Width(swatchWidth).Align(lipgloss.Center).Foreground(lipgloss.Color("240"))
	footerStyle = lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("245"))
)

// swatch renders hex on its own color with readable text.
func swatch(hex string) string {
	fg := "#FFFFFF"
	if c, err := colorful.Hex(hex); err == nil {
		if l, _, _ := c.Lab(); l > 0.6 {
			fg = "#000000"
		}
	}
	return lipgloss.NewStyle().
		Width(swatchWidth).
		Align(lipgloss.Center).
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(fg)).
		Render(hex)
}

func renderPreview(out *pipeline.Output) string {
	m := out.Extracted.Model
	rows := make([]string, 0, len(theme.Roles())+1)

	header := []string{roleStyle.Render("")}
	for _, t := range theme.Tints() {
		header = append(header, headerStyle.Render(t.String()))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for _, r := range theme.Roles() {
		tints := m.Role(r)
		cells := []string{roleStyle.Render(r.String())}
		for _, t := range theme.Tints() {
			if hex, ok := tints.Get(t); ok {
				cells = append(cells, swatch(hex))
			} else {
				cells = append(cells, emptyStyle.Render("·"))
			}
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if def := tints.Default(); def != "" {
			line += "  " + generate.ColorName(def, out.Brand)
		}
		rows = append(rows, line)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s theme", out.Brand)))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	s := out.Summary()
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d applied, %d skipped, collections: %s",
		s.Applied, s.Skipped, strings.Join(s.Collections, ", "))))
	return b.String()
}
