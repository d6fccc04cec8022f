package booking

import "time"

// Weekdays are the calendar column headers, Sunday first.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Day is one cell of the month grid.
type Day struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	Disabled bool   `json:"disabled"`
	Today    bool   `json:"today"`
	Selected bool   `json:"selected"`
}

// Month is a calendar page. Leading is the number of blank cells before the
// 1st so that it lands under its weekday.
type Month struct {
	Year     int        `json:"year"`
	Month    time.Month `json:"month"`
	Title    string     `json:"title"`
	Weekdays []string   `json:"weekdays"`
	Leading  int        `json:"leading"`
	Days     []Day      `json:"days"`
}

// BuildMonth lays out the given month. Days strictly before today are
// disabled; selected is a DateLayout date or empty.
func BuildMonth(year int, month time.Month, today time.Time, selected string) Month {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	todayStart := startOfDay(today)
	m := Month{
		Year:     first.Year(),
		Month:    first.Month(),
		Title:    first.Format("January 2006"),
		Weekdays: Weekdays,
		Leading:  int(first.Weekday()),
	}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		m.Days = append(m.Days, Day{
			Date:     date,
			Day:      d.Day(),
			Disabled: d.Before(todayStart),
			Today:    d.Equal(todayStart),
			Selected: date == selected,
		})
	}
	return m
}

// Prev returns the year and month before m. Navigation is unbounded.
func (m Month) Prev() (int, time.Month) {
	p := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return p.Year(), p.Month()
}

// Next returns the year and month after m.
func (m Month) Next() (int, time.Month) {
	n := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return n.Year(), n.Month()
}

// ParseMonth reads "YYYY-MM". An empty string yields the month of now.
func ParseMonth(s string, now time.Time) (int, time.Month, bool) {
	if s == "" {
		return now.Year(), now.Month(), true
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}
