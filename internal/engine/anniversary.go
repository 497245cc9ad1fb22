package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-anniversary/internal/config"
)

// ErrInvalidDate is returned when a stored date string is not a YYYY-MM-DD triple.
var ErrInvalidDate = errors.New(config.ErrDateParse)

// CalendarType tells how the numbers of Anniversary.Date are interpreted.
type CalendarType string

const (
	CalendarSolar CalendarType = "solar"
	CalendarLunar CalendarType = "lunar"
)

// Valid reports whether c is one of the known calendar systems.
func (c CalendarType) Valid() bool {
	return c == CalendarSolar || c == CalendarLunar
}

// Anniversary is one recurring or one-off commemorative date.
type Anniversary struct {
	// ID is opaque and immutable; it is the only unique key of a collection.
	ID string `json:"id"`

	Name string `json:"name"`

	// Date is always a zero-padded YYYY-MM-DD string, whatever the calendar.
	Date string `json:"date"`

	CalendarType CalendarType `json:"calendarType"`

	Icon string `json:"icon"`

	// Repeats marks an annual event whose stored year is advanced once it lapses.
	Repeats bool `json:"repeats"`
}

// UnmarshalJSON decodes a record, also accepting the "type" and "repeat"
// keys written by the first version of the web app. New keys win.
func (a *Anniversary) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string        `json:"id"`
		Name         string        `json:"name"`
		Date         string        `json:"date"`
		CalendarType *CalendarType `json:"calendarType"`
		Icon         string        `json:"icon"`
		Repeats      *bool         `json:"repeats"`
		LegacyType   *CalendarType `json:"type"`
		LegacyRepeat *bool         `json:"repeat"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Anniversary{
		ID:           raw.ID,
		Name:         raw.Name,
		Date:         raw.Date,
		CalendarType: CalendarSolar,
		Icon:         raw.Icon,
	}

	switch {
	case raw.CalendarType != nil:
		a.CalendarType = *raw.CalendarType
	case raw.LegacyType != nil:
		a.CalendarType = *raw.LegacyType
	}

	switch {
	case raw.Repeats != nil:
		a.Repeats = *raw.Repeats
	case raw.LegacyRepeat != nil:
		a.Repeats = *raw.LegacyRepeat
	}

	if raw.LegacyType != nil || raw.LegacyRepeat != nil {
		slog.Debug(config.MsgLegacyRecord,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyID, a.ID)
	}
	return nil
}

// Parts returns the numeric (year, month, day) of the stored date.
func (a Anniversary) Parts() (year, month, day int, err error) {
	return ParseDate(a.Date)
}

// IsLunar reports whether the stored date is a lunar calendar date.
func (a Anniversary) IsLunar() bool {
	return a.CalendarType == CalendarLunar
}

// ParseDate splits a "YYYY-MM-DD" string into numbers.
// Components are not range-checked; only their numeric form is.
func ParseDate(value string) (year, month, day int, err error) {
	fields := strings.Split(strings.TrimSpace(value), "-")
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	var nums [3]int
	for i, f := range fields {
		n, convErr := strconv.Atoi(f)
		if convErr != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, value)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// FormatDate renders the persisted zero-padded form of a date triple.
func FormatDate(year, month, day int) string {
	return fmt.Sprintf(config.FormatDate, year, month, day)
}

// DateAt builds the date at midnight in loc, normalizing overflowing
// components by day arithmetic (day 32 rolls into the next month).
func DateAt(year, month, day int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

// DaysInMonth returns the number of days of a solar month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidateDate checks a date triple against the data model invariants for
// the given calendar. Lunar days are bounded by 30, solar days by the month.
func ValidateDate(ct CalendarType, year, month, day int, now time.Time) error {
	if !ct.Valid() {
		return fmt.Errorf("%s: %q", config.ErrCalendarType, ct)
	}
	if year < now.Year()-config.YearWindow || year > now.Year()+config.YearWindow {
		return fmt.Errorf("%s: %d", config.ErrYearRange, year)
	}
	if month < 1 || month > config.MaxMonth {
		return fmt.Errorf("%s: %d", config.ErrMonthRange, month)
	}

	maxDay := config.LunarMaxDay
	if ct == CalendarSolar {
		maxDay = DaysInMonth(year, month)
	}
	if day < 1 || day > maxDay {
		return fmt.Errorf("%s: %d", config.ErrDayRange, day)
	}
	return nil
}

// Validate checks the invariants a record must hold before it is stored.
func (a Anniversary) Validate(now time.Time) error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New(config.ErrNameEmpty)
	}
	y, m, d, err := a.Parts()
	if err != nil {
		return err
	}
	return ValidateDate(a.CalendarType, y, m, d, now)
}
