package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Weekday mirrors time.Weekday (0=Sunday). It is stored as an integer so that
// matching never depends on a display locale.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var englishNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var spanishNames = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

// Accent-free spellings clients commonly send.
var spanishAliases = map[string]Weekday{
	"miercoles": Wednesday,
	"sabado":    Saturday,
}

func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return englishNames[d]
}

// Display renders the day name for a presentation locale ("en" or "es").
func (d Weekday) Display(locale string) string {
	if !d.Valid() {
		return d.String()
	}
	name := englishNames[d]
	if strings.HasPrefix(strings.ToLower(locale), "es") {
		name = spanishNames[d]
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseWeekday accepts English or Spanish day names in any case, or the
// numbers 0-6.
func ParseWeekday(s string) (Weekday, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		d := Weekday(n)
		return d, d.Valid()
	}
	for i := range englishNames {
		if englishNames[i] == v || spanishNames[i] == v {
			return Weekday(i), true
		}
	}
	if d, ok := spanishAliases[v]; ok {
		return d, true
	}
	return 0, false
}
