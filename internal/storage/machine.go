package storage

type Machine struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	StationType  string  `json:"station_type"`
	DailyMinutes float64 `json:"daily_minutes"`
	IsActive     bool    `json:"is_active"`
}

type CalendarOverride struct {
	Date      string `json:"date"`
	IsHoliday bool   `json:"is_holiday"`
	Note      string `json:"note"`
}
