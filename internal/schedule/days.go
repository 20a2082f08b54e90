package schedule

import (
	"encoding/json"
	"strings"
	"time"
)

// Days is a set of weekdays. The zero value means every day.
type Days uint8

// AllDays is the empty set, it matches every weekday
const AllDays Days = 0

// weekday names accepted from the order catalog
var dayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sun":       time.Sunday,
	"Mon":       time.Monday,
	"Tue":       time.Tuesday,
	"Wed":       time.Wednesday,
	"Thu":       time.Thursday,
	"Fri":       time.Friday,
	"Sat":       time.Saturday,
}

// NewDays creates a set from weekdays, duplicates collapse
func NewDays(days ...time.Weekday) Days {
	var d Days
	for _, wd := range days {
		d |= 1 << uint(wd)
	}
	return d
}

// ParseDay returns weekday by its English name or three-letter abbreviation.
// Matching is case-sensitive.
func ParseDay(name string) (time.Weekday, bool) {
	wd, ok := dayNames[name]
	return wd, ok
}

// ParseDays normalizes a raw selected_days value into a set.
//
// The value may be a JSON array ("[\"Monday\",\"Friday\"]") or a comma
// delimited string ("Mon, Wed,,Fri"). Tokens are trimmed, empty and
// unrecognized tokens are dropped. When the raw value is not blank but no
// token is a weekday, the result is AllDays: ambiguous legacy data must not
// suppress deliveries.
func ParseDays(raw string) Days {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AllDays
	}

	var tokens []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
			// not valid JSON, fall back to delimiter split
			tokens = strings.Split(strings.Trim(raw, "[]"), ",")
		}
	} else {
		tokens = strings.Split(raw, ",")
	}

	return parseTokens(tokens)
}

// ParseDayList normalizes a list of weekday names, see ParseDays.
func ParseDayList(names []string) Days {
	return parseTokens(names)
}

func parseTokens(tokens []string) Days {
	var d Days
	for _, tok := range tokens {
		tok = strings.Trim(strings.TrimSpace(tok), `"'`)
		if tok == "" {
			continue
		}
		if wd, ok := ParseDay(tok); ok {
			d |= 1 << uint(wd)
		}
	}
	return d
}

// IsAll reports whether the set matches every day
func (d Days) IsAll() bool {
	return d == AllDays
}

// Has reports whether the set contains weekday
func (d Days) Has(wd time.Weekday) bool {
	if d == AllDays {
		return true
	}
	return d&(1<<uint(wd)) != 0
}

// Len returns the number of weekdays matched in one week
func (d Days) Len() int {
	if d == AllDays {
		return 7
	}
	n := 0
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if d&(1<<uint(wd)) != 0 {
			n++
		}
	}
	return n
}

// Names returns canonical weekday names starting from Monday.
// An empty slice means every day.
func (d Days) Names() []string {
	names := []string{}
	if d == AllDays {
		return names
	}
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		if d&(1<<uint(wd)) != 0 {
			names = append(names, wd.String())
		}
	}
	return names
}

// String returns comma delimited canonical names, the storage form
func (d Days) String() string {
	return strings.Join(d.Names(), ",")
}
