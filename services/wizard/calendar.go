package wizard

import (
	"fmt"
	"strconv"
	"time"
)

// CalendarCells is the size of the month grid: six weeks of seven days.
const CalendarCells = 42

const dayLayout = "2006-01-02"

var monthNames = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// WeekdayLabels are the column headers, Sunday first.
var WeekdayLabels = []string{"Paz", "Pzt", "Sal", "Çar", "Per", "Cum", "Cmt"}

// MonthName returns the Turkish name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// MonthGrid returns the 42 days shown for the given month, starting on the
// Sunday on or before the 1st. Every value is midnight in loc.
func MonthGrid(year int, month time.Month, loc *time.Location) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := int(first.Weekday())

	days := make([]time.Time, CalendarCells)
	for i := range days {
		days[i] = time.Date(year, month, 1-offset+i, 0, 0, 0, 0, loc)
	}
	return days
}

// FormatDay renders t as a calendar day in its own location, never UTC-shifted.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD string as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsPastDay reports whether day is strictly before now's calendar day.
func IsPastDay(day, now time.Time) bool {
	return startOfDay(day.In(now.Location())).Before(startOfDay(now))
}

// SameDay compares two instants by calendar date only.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDisplayDay renders an ISO day as "15 Mart 2024". Unparseable input is returned as is.
func FormatDisplayDay(iso string) string {
	t, err := time.Parse(dayLayout, iso)
	if err != nil {
		return iso
	}
	return strconv.Itoa(t.Day()) + " " + MonthName(t.Month()) + " " + strconv.Itoa(t.Year())
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	InMonth  bool   `json:"inMonth"`
	Past     bool   `json:"past"`
	Today    bool   `json:"today"`
	Selected bool   `json:"selected"`
}

// Calendar is the rendered month view.
type Calendar struct {
	Year     int           `json:"year"`
	Month    time.Month    `json:"month"`
	Title    string        `json:"title"`
	Weekdays []string      `json:"weekdays"`
	Days     []CalendarDay `json:"days"`
}

// BuildCalendar lays out the anchor month and classifies each cell against
// now and the selected ISO day.
func BuildCalendar(year int, month time.Month, now time.Time, selected string) Calendar {
	loc := now.Location()
	var sel time.Time
	hasSel := false
	if selected != "" {
		if t, err := ParseDay(selected, loc); err == nil {
			sel, hasSel = t, true
		}
	}

	grid := MonthGrid(year, month, loc)
	days := make([]CalendarDay, len(grid))
	for i, d := range grid {
		days[i] = CalendarDay{
			Date:     FormatDay(d),
			Day:      d.Day(),
			InMonth:  d.Month() == month,
			Past:     IsPastDay(d, now),
			Today:    SameDay(d, now),
			Selected: hasSel && SameDay(d, sel),
		}
	}

	return Calendar{
		Year:     year,
		Month:    month,
		Title:    MonthName(month) + " " + strconv.Itoa(year),
		Weekdays: WeekdayLabels,
		Days:     days,
	}
}

// ShiftMonth moves an anchor month by delta months.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
