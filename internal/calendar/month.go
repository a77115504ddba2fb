package calendar

import (
	"sort"
	"time"
)

type Day struct {
	Date    time.Time
	InMonth bool
	Today   bool
	Events  []Event
}

// Month is a Monday-first grid covering whole weeks.
type Month struct {
	First time.Time
	Weeks [][]Day
}

func (m Month) Prev() time.Time { return m.First.AddDate(0, -1, 0) }
func (m Month) Next() time.Time { return m.First.AddDate(0, 1, 0) }

// WeekdayNames are Monday-first Vietnamese short names.
var WeekdayNames = []string{"T2", "T3", "T4", "T5", "T6", "T7", "CN"}

// BuildMonth lays events out on the days of the month containing first.
func BuildMonth(first time.Time, events []Event, now time.Time) Month {
	loc := first.Location()
	first = time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, loc)

	byDay := make(map[string][]Event)
	for _, ev := range events {
		k := ev.Start.In(loc).Format("2006-01-02")
		byDay[k] = append(byDay[k], ev)
	}
	for k := range byDay {
		evs := byDay[k]
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].Start.Before(evs[j].Start) })
	}

	// Monday = 0
	offset := (int(first.Weekday()) + 6) % 7
	cur := first.AddDate(0, 0, -offset)
	today := now.In(loc).Format("2006-01-02")

	m := Month{First: first}
	for {
		week := make([]Day, 7)
		for i := range week {
			k := cur.Format("2006-01-02")
			week[i] = Day{
				Date:    cur,
				InMonth: cur.Month() == first.Month(),
				Today:   k == today,
				Events:  byDay[k],
			}
			cur = cur.AddDate(0, 0, 1)
		}
		m.Weeks = append(m.Weeks, week)
		if cur.Month() != first.Month() {
			break
		}
	}
	return m
}
