package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
	"github.com/tartampluch/go-anniversary/internal/config"
)

// Generator renders anniversaries as an iCalendar feed.
type Generator struct {
	Clock     Clock     // Interface for time mocking.
	Converter Converter // Lunar to solar mapping for lunar records.

	// FormatSummary allows the presentation layer to inject localized summaries.
	FormatSummary func(rec Anniversary) string
}

// Generate encodes the records into an iCalendar document.
// Records with unparsable dates are skipped. reminderTrigger, when not
// empty, attaches a DISPLAY alarm to every event.
func (g *Generator) Generate(ctx context.Context, records []Anniversary, reminderTrigger string) ([]byte, error) {
	start := time.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	now := g.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	skipped := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		events, err := g.createEvents(rec, now, reminderTrigger)
		if err != nil {
			skipped++
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyID, rec.ID,
				config.LogKeyValue, rec.Date)
			continue
		}
		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		var buf bytes.Buffer
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, len(records)),
			slog.Int(config.LogKeySkipped, skipped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// createEvents builds the VEVENTs of one record:
//   - one dated event for a non-repeating record,
//   - one event with a yearly RRULE for a repeating solar record,
//   - previous, current and next year for a repeating lunar record, since a
//     lunar date has no fixed solar recurrence.
func (g *Generator) createEvents(rec Anniversary, now time.Time, reminderTrigger string) ([]*ical.Event, error) {
	y, m, d, err := rec.Parts()
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf(config.FallbackSummary, rec.Name)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(rec)
	}

	if !rec.IsLunar() {
		start := DateAt(y, m, d, time.UTC)
		event := g.newEvent(fmt.Sprintf(config.FormatUIDOnce, rec.ID, config.UIDDomain), summary, rec, start)
		if rec.Repeats {
			rule, err := yearlyRule(start)
			if err != nil {
				return nil, err
			}
			rruleProp := ical.NewProp(config.PropRRule)
			rruleProp.Value = rule
			event.Props.Set(rruleProp)
		}
		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		return []*ical.Event{event}, nil
	}

	years := []int{y}
	uidFormat := func(int) string { return fmt.Sprintf(config.FormatUIDOnce, rec.ID, config.UIDDomain) }
	if rec.Repeats {
		years, err = expansionYears(now, config.LunarYearSpan)
		if err != nil {
			return nil, err
		}
		uidFormat = func(yy int) string { return fmt.Sprintf(config.FormatUID, rec.ID, yy, config.UIDDomain) }
	}

	label := FormatLunarLabel(m, d).String()
	var events []*ical.Event
	for _, yy := range years {
		solar := g.lunarToSolar(yy, m, d)
		event := g.newEvent(uidFormat(yy), summary, rec, solar)
		event.Props.SetText(config.PropDescription, label)
		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events, nil
}

// yearlyRule is the RRULE value repeating start on its month and day every year.
func yearlyRule(start time.Time) (string, error) {
	opt := rrule.ROption{
		Freq:       rrule.YEARLY,
		Dtstart:    start,
		Bymonth:    []int{int(start.Month())},
		Bymonthday: []int{start.Day()},
	}
	if _, err := rrule.NewRRule(opt); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return opt.RRuleString(), nil
}

// expansionYears lists the years from span before now to span after it.
func expansionYears(now time.Time, span int) ([]int, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.YEARLY,
		Count:   2*span + 1,
		Dtstart: time.Date(now.Year()-span, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	var years []int
	for _, t := range r.All() {
		years = append(years, t.Year())
	}
	return years, nil
}

// lunarToSolar converts with the configured converter, falling back to the
// raw numbers read as a solar date.
func (g *Generator) lunarToSolar(year, month, day int) time.Time {
	conv := g.Converter
	if conv == nil {
		conv = NewAnchoredConverter()
	}
	solar, _, err := conv.LunarToSolar(year, month, day)
	if err != nil {
		slog.Debug(config.MsgConvFallback,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyDate, FormatDate(year, month, day),
			config.LogKeyError, err)
		return DateAt(year, month, day, time.UTC)
	}
	return solar
}

func (g *Generator) newEvent(uid, summary string, rec Anniversary, date time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropCategories, string(rec.CalendarType))

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(date)
	event.Props.Set(dtStartProp)
	return event
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
