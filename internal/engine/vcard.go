package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-anniversary/internal/config"
)

// importNamespace seeds the deterministic IDs of imported records, so that
// importing the same address book twice yields the same IDs.
var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.AppID))

// ImportStats summarizes one vCard import.
type ImportStats struct {
	Cards    int
	Imported int
	Skipped  int
}

// ImportVCards reads a vCard stream and returns one repeating solar
// anniversary per BDAY or ANNIVERSARY property. Dates without a year are
// placed in now's year. Malformed cards and dates are skipped.
func ImportVCards(ctx context.Context, r io.Reader, now time.Time) ([]Anniversary, ImportStats, error) {
	decoder := vcard.NewDecoder(r)
	var stats ImportStats
	var out []Anniversary

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Keep going to recover as many cards as possible.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, fmt.Errorf("%s: %w", config.ErrVCardParse, err))
			stats.Skipped++
			continue
		}
		stats.Cards++

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		for _, prop := range []struct{ field, icon string }{
			{config.VCardBDAY, config.IconBirthday},
			{config.VCardAnniversary, config.IconAnniversary},
		} {
			f := card.Get(prop.field)
			if f == nil || f.Value == "" {
				continue
			}

			date, yearKnown, err := parseDate(f.Value)
			if err != nil {
				slog.Debug(config.MsgSkippedDate,
					config.LogKeyComponent, config.CompEngine,
					config.LogKeyValue, f.Value)
				stats.Skipped++
				continue
			}

			year := date.Year()
			if !yearKnown {
				year = now.Year()
			}
			dateStr := FormatDate(year, int(date.Month()), date.Day())

			out = append(out, Anniversary{
				ID:           importID(name, prop.field, dateStr),
				Name:         name,
				Date:         dateStr,
				CalendarType: CalendarSolar,
				Icon:         prop.icon,
				Repeats:      true,
			})
			stats.Imported++
		}
	}

	slog.Info(config.MsgImportFinished,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Cards),
			slog.Int(config.LogKeyImported, stats.Imported),
			slog.Int(config.LogKeySkipped, stats.Skipped),
		),
	)
	return out, stats, nil
}

// importID derives a stable UUID from the card name, property and date.
func importID(name, field, date string) string {
	return uuid.NewSHA1(importNamespace, []byte(fmt.Sprintf("%s|%s|%s", name, field, date))).String()
}

// parseDate handles the vCard date formats found in the wild.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (Year unknown). Leap year keeps --02-29 intact.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(2000, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
