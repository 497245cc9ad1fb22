package engine

import (
	"fmt"
	"time"

	"github.com/6tail/lunar-go/calendar"
	"github.com/tartampluch/go-anniversary/internal/config"
)

// LunarTable answers "which lunar month/day is this solar date".
// It is treated as an opaque, possibly imprecise oracle.
type LunarTable interface {
	SolarToLunarMonthDay(year, month, day int) (lunarMonth, lunarDay int, err error)
}

// LunarGoTable is the LunarTable backed by the lunar-go lunisolar tables.
type LunarGoTable struct{}

// SolarToLunarMonthDay looks the date up in the lunisolar table.
// Leap months are reported with their base month number.
func (LunarGoTable) SolarToLunarMonthDay(year, month, day int) (lunarMonth, lunarDay int, err error) {
	err = guardTable(func() {
		l := calendar.NewSolarFromYmd(year, month, day).GetLunar()
		lunarMonth, lunarDay = l.GetMonth(), l.GetDay()
	})
	if err != nil {
		return 0, 0, err
	}
	if lunarMonth < 0 {
		lunarMonth = -lunarMonth
	}
	return lunarMonth, lunarDay, nil
}

// TableConverter is the Converter backed by the lunar-go tables.
// Dates the table rejects (e.g. day 30 of a 29-day month) fail with an error.
type TableConverter struct{}

func (TableConverter) LunarToSolar(lunarYear, lunarMonth, lunarDay int) (time.Time, Precision, error) {
	var out time.Time
	err := guardTable(func() {
		s := calendar.NewLunarFromYmd(lunarYear, lunarMonth, lunarDay).GetSolar()
		out = time.Date(s.GetYear(), time.Month(s.GetMonth()), s.GetDay(), 0, 0, 0, 0, time.UTC)
	})
	if err != nil {
		return time.Time{}, PrecisionExact, err
	}
	return out, PrecisionExact, nil
}

// guardTable turns a panic raised inside the table library into an error.
func guardTable(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", config.ErrLunarTable, r)
		}
	}()
	fn()
	return nil
}

// NewConverter returns the Converter selected by the settings name.
func NewConverter(name string) (Converter, error) {
	switch name {
	case config.ConverterAnchored, "":
		return NewAnchoredConverter(), nil
	case config.ConverterTable:
		return TableConverter{}, nil
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrConverter, name)
	}
}
