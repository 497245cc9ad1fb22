package ui

import (
	"time"

	"github.com/tartampluch/go-anniversary/internal/config"
	"github.com/tartampluch/go-anniversary/internal/engine"
	"github.com/tartampluch/go-anniversary/internal/server"
)

// Countdown words an offset: "还有 N 天", "就是今天！" or "已过去 N 天".
func (p *Presenter) Countdown(d engine.OffsetDescription) string {
	switch d.Category {
	case engine.CategoryFuture:
		return p.MsgCount(config.TKeyOffsetFuture, d.Abs(), map[string]any{"Days": d.Abs()})
	case engine.CategoryToday:
		return p.Msg(config.TKeyOffsetToday)
	case engine.CategoryPast:
		return p.MsgCount(config.TKeyOffsetPast, d.Abs(), map[string]any{"Days": d.Abs()})
	default:
		return p.Msg(config.TKeyOffsetUnknown)
	}
}

// DateLabel is the stored date as shown to users: the traditional month and
// day names for lunar records, a localized full date for solar ones.
func (p *Presenter) DateLabel(rec engine.Anniversary) string {
	y, m, d, err := rec.Parts()
	if err != nil {
		return p.Msg(config.TKeyDateUnknown)
	}

	if rec.IsLunar() {
		label := engine.FormatLunarLabel(m, d)
		if label.Empty() {
			return p.Msg(config.TKeyDateUnknown)
		}
		return label.String()
	}

	layout := p.Msg(config.TKeyFormatDate)
	if layout == config.TKeyFormatDate {
		layout = config.DateLayout
	}
	return engine.DateAt(y, m, d, time.UTC).Format(layout)
}

// Badge names the calendar system of a record.
func (p *Presenter) Badge(rec engine.Anniversary) string {
	if rec.IsLunar() {
		return p.Msg(config.TKeyBadgeLunar)
	}
	return p.Msg(config.TKeyBadgeSolar)
}

// Summary is the calendar event title of a record; it matches the
// engine.Generator FormatSummary hook.
func (p *Presenter) Summary(rec engine.Anniversary) string {
	name := rec.Name
	if rec.Icon != "" {
		name = rec.Icon + " " + name
	}
	return p.MsgData(config.TKeyEvtSummary, map[string]any{"Name": name})
}

// Entries builds the JSON listing rows.
func (p *Presenter) Entries(ranked []engine.Ranked) []server.Entry {
	out := make([]server.Entry, 0, len(ranked))
	for _, r := range ranked {
		desc := engine.Describe(r.Offset)
		e := server.Entry{
			ID:           r.ID,
			Name:         r.Name,
			Date:         r.Date,
			CalendarType: string(r.CalendarType),
			Icon:         r.Icon,
			Repeats:      r.Repeats,
			Category:     string(desc.Category),
			Countdown:    p.Countdown(desc),
			DateLabel:    p.DateLabel(r.Anniversary),
		}
		if desc.Category != engine.CategoryUnknown {
			off := r.Offset
			e.Offset = &off
		}
		out = append(out, e)
	}
	return out
}
