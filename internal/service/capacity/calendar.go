package capacity

import (
	"time"

	"printshop/internal/storage"
)

const DateLayout = "2006-01-02"

type Day struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	IsHoliday bool   `json:"is_holiday"`
	Note      string `json:"note,omitempty"`
}

// WeekStart - понедельник недели, в которую попадает t.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// Days строит список дней [from, to]. Выходные по умолчанию нерабочие,
// записи заводского календаря имеют приоритет. skipHolidays убирает нерабочие дни.
func Days(from, to time.Time, overrides []storage.CalendarOverride, skipHolidays bool) []Day {
	byDate := make(map[string]storage.CalendarOverride, len(overrides))
	for _, o := range overrides {
		byDate[o.Date] = o
	}

	var days []Day
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		day := Day{
			Date:      date,
			Weekday:   d.Weekday().String(),
			IsHoliday: d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
		}
		if o, ok := byDate[date]; ok {
			day.IsHoliday = o.IsHoliday
			day.Note = o.Note
		}

		if skipHolidays && day.IsHoliday {
			continue
		}
		days = append(days, day)
	}

	return days
}

func Dates(days []Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Date
	}
	return out
}
