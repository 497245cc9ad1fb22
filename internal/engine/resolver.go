package engine

import "time"

// State is the derived lifecycle of a repeating anniversary. It is never persisted.
type State int

const (
	// StateCurrent means the stored occurrence is today or later.
	StateCurrent State = iota
	// StateLapsed means the stored occurrence is strictly before today.
	StateLapsed
	// StateUnknown means the stored date could not be parsed.
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateCurrent:
		return "current"
	case StateLapsed:
		return "lapsed"
	default:
		return "unknown"
	}
}

// State compares the stored occurrence with today, both at local midnight.
// The stored numbers are read as a date in today's location whatever the
// calendar type, matching how the resolver decides to advance.
func (a Anniversary) State(today time.Time) State {
	y, m, d, err := a.Parts()
	if err != nil {
		return StateUnknown
	}
	start := Midnight(today)
	if DateAt(y, m, d, start.Location()).Before(start) {
		return StateLapsed
	}
	return StateCurrent
}

// ResolveRecurrences advances every lapsed repeating anniversary by exactly
// one year. Non-repeating records and unparsable dates pass through
// untouched. Month and day keep their stored numbers.
//
// The input is not modified. changed is false when nothing was advanced, in
// which case the caller has nothing to persist.
func ResolveRecurrences(today time.Time, records []Anniversary) ([]Anniversary, bool) {
	out := make([]Anniversary, len(records))
	copy(out, records)

	changed := false
	for i, rec := range out {
		if !rec.Repeats || rec.State(today) != StateLapsed {
			continue
		}
		y, m, d, _ := rec.Parts()
		out[i].Date = FormatDate(y+1, m, d)
		changed = true
	}
	return out, changed
}

// Advanced lists the records whose date differs between before and after,
// matched by position. It is used for logging what a pass did.
func Advanced(before, after []Anniversary) []Anniversary {
	var moved []Anniversary
	for i := range after {
		if i < len(before) && before[i].Date != after[i].Date {
			moved = append(moved, after[i])
		}
	}
	return moved
}
