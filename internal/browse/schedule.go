package browse

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/mizunime/mizunime/internal/catalog"
)

// WeekDays are the schedule's day labels, indexed like time.Weekday
var WeekDays = [7]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// unknownOffset sorts unrecognized day labels after the whole week
const unknownOffset = 7

// DayIndex returns the label's position in WeekDays, or -1
func DayIndex(day string) int {
	return lo.IndexOf(WeekDays[:], day)
}

// DayName returns the label for a weekday
func DayName(d time.Weekday) string {
	return WeekDays[int(d)%7]
}

// Offset is the number of days from today until day, in [0,6]. Unknown
// labels return 7.
func Offset(day string, today time.Weekday) int {
	idx := DayIndex(day)
	if idx < 0 {
		return unknownOffset
	}
	return (idx - int(today) + 7) % 7
}

// DayGroup is one rendered schedule day
type DayGroup struct {
	Day    string
	Offset int
	Today  bool
	Items  []catalog.AnimeItem
}

// SortDays orders every day of m starting from today, wrapping around the
// week. Ties (only possible among unknown labels) sort by name.
func SortDays(m catalog.ScheduleMap, today time.Weekday) []string {
	days := lo.Keys(map[string][]catalog.AnimeItem(m))
	sort.SliceStable(days, func(i, j int) bool {
		oi, oj := Offset(days[i], today), Offset(days[j], today)
		if oi != oj {
			return oi < oj
		}
		return days[i] < days[j]
	})
	return days
}

// Group de-duplicates every day of m and returns the days to render in
// today-first order. Days left empty are skipped; exactly the day at offset
// 0 is flagged as today.
func Group(m catalog.ScheduleMap, now time.Time) []DayGroup {
	today := now.Weekday()
	var groups []DayGroup
	for _, day := range SortDays(m, today) {
		items := Dedupe(m[day])
		if len(items) == 0 {
			continue
		}
		offset := Offset(day, today)
		groups = append(groups, DayGroup{
			Day:    day,
			Offset: offset,
			Today:  offset == 0,
			Items:  items,
		})
	}
	return groups
}
