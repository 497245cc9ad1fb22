package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
)

var (
	nameStyle   = lipgloss.NewStyle().Bold(true)
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	futureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	todayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	pastStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func countdownStyle(c engine.Category) lipgloss.Style {
	switch c {
	case engine.CategoryFuture:
		return futureStyle
	case engine.CategoryToday:
		return todayStyle
	default:
		return pastStyle
	}
}

// RenderList writes the ranked records, one per line, or the empty state.
func (p *Presenter) RenderList(w io.Writer, ranked []engine.Ranked) error {
	var b strings.Builder

	if len(ranked) == 0 {
		b.WriteString("📅 " + p.Msg(config.TKeyListEmpty) + "\n")
		b.WriteString(hintStyle.Render(p.Msg(config.TKeyListEmptyHint)) + "\n")
		return write(w, b.String())
	}

	// Pad on display width: names mix CJK, emoji and latin text.
	nameWidth, dateWidth := 0, 0
	for _, r := range ranked {
		nameWidth = max(nameWidth, lipgloss.Width(r.Name))
		dateWidth = max(dateWidth, lipgloss.Width(p.DateLabel(r.Anniversary)))
	}

	for _, r := range ranked {
		b.WriteString(p.renderRow(r, nameWidth, dateWidth))
		b.WriteString("\n")
	}
	return write(w, b.String())
}

func (p *Presenter) renderRow(r engine.Ranked, nameWidth, dateWidth int) string {
	icon := r.Icon
	if icon == "" {
		icon = config.DefaultIcon
	}

	badges := "[" + p.Badge(r.Anniversary) + "]"
	if r.Repeats {
		badges += " [" + p.Msg(config.TKeyBadgeRepeats) + "]"
	}

	desc := engine.Describe(r.Offset)
	return strings.Join([]string{
		icon,
		nameStyle.Render(pad(r.Name, nameWidth)),
		pad(p.DateLabel(r.Anniversary), dateWidth),
		countdownStyle(desc.Category).Render(p.Countdown(desc)),
		badgeStyle.Render(badges),
		idStyle.Render(r.ID),
	}, "  ")
}

// RenderRecord writes one record with its countdown, used after add/edit.
func (p *Presenter) RenderRecord(w io.Writer, r engine.Ranked) error {
	return write(w, p.renderRow(r, 0, 0)+"\n")
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("%s: %w", config.ErrRenderOutput, err)
	}
	return nil
}
