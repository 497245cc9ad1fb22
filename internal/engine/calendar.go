package engine

import (
	"time"

	"github.com/tartampluch/go-anniversary/internal/config"
)

// Precision tells how trustworthy a lunar-to-solar conversion is.
type Precision int

const (
	// PrecisionExact comes from a real lunisolar table, or from a solar record
	// that needed no conversion.
	PrecisionExact Precision = iota
	// PrecisionApproximate comes from the anchored linear model.
	PrecisionApproximate
)

func (p Precision) String() string {
	if p == PrecisionApproximate {
		return "approximate"
	}
	return "exact"
}

// Converter maps a lunar date to a solar date.
// Implementations may fail; callers degrade to a solar reading of the raw numbers.
type Converter interface {
	LunarToSolar(lunarYear, lunarMonth, lunarDay int) (time.Time, Precision, error)
}

// Anchor is a verified lunar/solar pair the linear model is built around.
type Anchor struct {
	LunarYear, LunarMonth, LunarDay int
	Solar                           time.Time
}

// DefaultAnchor: lunar 2026-10-09 is solar 2026-11-18.
var DefaultAnchor = Anchor{
	LunarYear:  config.AnchorLunarYear,
	LunarMonth: config.AnchorLunarMonth,
	LunarDay:   config.AnchorLunarDay,
	Solar:      time.Date(config.AnchorSolarYear, config.AnchorSolarMonth, config.AnchorSolarDay, 0, 0, 0, 0, time.UTC),
}

// LunarToSolar approximates the solar date of a lunar date by offsetting the
// anchor by whole years, 30 days per lunar month and the day difference.
// It is not astronomically exact. Inputs are not validated; overflow is
// normalized by day arithmetic.
func (a Anchor) LunarToSolar(lunarYear, lunarMonth, lunarDay int) time.Time {
	year := a.Solar.Year() + (lunarYear - a.LunarYear)
	days := (lunarMonth-a.LunarMonth)*config.LunarMonthDays + (lunarDay - a.LunarDay)
	return time.Date(year, a.Solar.Month(), a.Solar.Day()+days, 0, 0, 0, 0, a.Solar.Location())
}

// LunarToSolar converts with DefaultAnchor.
func LunarToSolar(lunarYear, lunarMonth, lunarDay int) time.Time {
	return DefaultAnchor.LunarToSolar(lunarYear, lunarMonth, lunarDay)
}

// AnchoredConverter is the Converter backed by the linear anchor model. It never fails.
type AnchoredConverter struct {
	Anchor Anchor
}

// NewAnchoredConverter returns a converter using DefaultAnchor.
func NewAnchoredConverter() AnchoredConverter {
	return AnchoredConverter{Anchor: DefaultAnchor}
}

func (c AnchoredConverter) LunarToSolar(lunarYear, lunarMonth, lunarDay int) (time.Time, Precision, error) {
	return c.Anchor.LunarToSolar(lunarYear, lunarMonth, lunarDay), PrecisionApproximate, nil
}

// LunarLabel is the traditional display form of a lunar month and day.
type LunarLabel struct {
	Month string
	Day   string
}

func (l LunarLabel) String() string {
	return l.Month + l.Day
}

// Empty reports whether neither part could be resolved.
func (l LunarLabel) Empty() bool {
	return l.Month == "" && l.Day == ""
}

// Index 0 is the "no value" sentinel.
var (
	lunarMonthNames = [...]string{"", "正月", "二月", "三月", "四月", "五月", "六月", "七月", "八月", "九月", "十月", "冬月", "腊月"}
	lunarDayNames   = [...]string{"",
		"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
		"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
		"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十"}
)

// FormatLunarLabel returns the traditional names of a lunar month and day.
// A zero or out-of-range component yields an empty part.
func FormatLunarLabel(month, day int) LunarLabel {
	var l LunarLabel
	if month > 0 && month < len(lunarMonthNames) {
		l.Month = lunarMonthNames[month]
	}
	if day > 0 && day < len(lunarDayNames) {
		l.Day = lunarDayNames[day]
	}
	return l
}
