package capacity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/storage"
)

func scheduled(id int64, machine int64, date string, minutes float64) storage.ConvertedOperation {
	return storage.ConvertedOperation{ID: id, ProductionMachineID: &machine, ScheduledDate: &date, TotalTimeMin: minutes}
}

func TestSnapshot(t *testing.T) {
	a := NewAggregator(480)
	m := storage.Machine{ID: 1, DailyMinutes: 300}

	ops := []storage.ConvertedOperation{
		scheduled(1, 1, "2026-10-19", 120.5),
		scheduled(2, 1, "2026-10-19", 200.25),
		scheduled(3, 1, "2026-10-20", 999),
		scheduled(4, 2, "2026-10-19", 999),
		{ID: 5, TotalTimeMin: 999},
	}

	u := a.Snapshot(m, "2026-10-19", ops)

	assert.Equal(t, 320.75, u.Used)
	assert.Equal(t, -20.75, u.Remaining)
	assert.True(t, u.Overloaded)
	assert.Equal(t, 2, u.Operations)
}

func TestSnapshot_DefaultCapacity(t *testing.T) {
	a := NewAggregator(0)

	u := a.Snapshot(storage.Machine{ID: 3}, "2026-10-19", []storage.ConvertedOperation{scheduled(1, 3, "2026-10-19", 480)})

	assert.Equal(t, DefaultDailyMinutes, u.Capacity)
	assert.Equal(t, 0.0, u.Remaining)
	assert.False(t, u.Overloaded)
}

func TestSnapshot_FloatSumsDoNotDrift(t *testing.T) {
	a := NewAggregator(480)
	var ops []storage.ConvertedOperation
	for i := 0; i < 10; i++ {
		ops = append(ops, scheduled(int64(i), 1, "2026-10-19", 0.1))
	}

	u := a.Snapshot(storage.Machine{ID: 1, DailyMinutes: 1}, "2026-10-19", ops)

	assert.Equal(t, 1.0, u.Used)
	assert.False(t, u.Overloaded)
}

func TestAggregate(t *testing.T) {
	a := NewAggregator(480)
	machines := []storage.Machine{{ID: 1, DailyMinutes: 100}, {ID: 2}}
	dates := []string{"2026-10-19", "2026-10-20"}
	ops := []storage.ConvertedOperation{
		scheduled(1, 1, "2026-10-19", 60),
		scheduled(2, 1, "2026-10-19", 60),
		scheduled(3, 2, "2026-10-20", 30),
		scheduled(4, 2, "2026-12-01", 30),
	}

	grid := a.Aggregate(machines, dates, ops)

	require.Len(t, grid, 4)
	assert.Equal(t, Usage{MachineID: 1, Date: "2026-10-19", Capacity: 100, Used: 120, Remaining: -20, Overloaded: true, Operations: 2}, grid[0])
	assert.Equal(t, Usage{MachineID: 1, Date: "2026-10-20", Capacity: 100, Used: 0, Remaining: 100}, grid[1])
	assert.Equal(t, 30.0, grid[3].Used)
	assert.Equal(t, 450.0, grid[3].Remaining)

	for _, u := range grid {
		m := machines[0]
		if u.MachineID == 2 {
			m = machines[1]
		}
		assert.Equal(t, a.Snapshot(m, u.Date, ops), u)
	}
}

func TestReassignmentChangesOnlyTwoCells(t *testing.T) {
	a := NewAggregator(480)
	machines := []storage.Machine{{ID: 1}, {ID: 2}, {ID: 3}}
	dates := []string{"2026-10-19", "2026-10-20", "2026-10-21"}

	ops := []storage.ConvertedOperation{
		scheduled(1, 1, "2026-10-19", 100),
		scheduled(2, 2, "2026-10-20", 50),
		scheduled(3, 3, "2026-10-21", 70),
	}
	before := a.Aggregate(machines, dates, ops)

	moved := scheduled(1, 3, "2026-10-20", 100)
	keys := Affected(ops[0], moved)
	ops[0] = moved
	after := a.Aggregate(machines, dates, ops)

	changed := map[Key]bool{}
	for i := range before {
		if before[i] != after[i] {
			changed[Key{MachineID: after[i].MachineID, Date: after[i].Date}] = true
		}
	}

	assert.Len(t, changed, 2)
	require.Len(t, keys, 2)
	for _, k := range keys {
		assert.True(t, changed[k], "%v", k)
	}
}

func TestAffected(t *testing.T) {
	assert.Empty(t, Affected(storage.ConvertedOperation{}, storage.ConvertedOperation{}))

	op := scheduled(1, 1, "2026-10-19", 10)
	assert.Equal(t, []Key{{MachineID: 1, Date: "2026-10-19"}}, Affected(op, op))
	assert.Equal(t, []Key{{MachineID: 1, Date: "2026-10-19"}}, Affected(op, storage.ConvertedOperation{}))
}

func TestWeekStartAndDays(t *testing.T) {
	wed := time.Date(2026, 10, 21, 15, 0, 0, 0, time.UTC)
	mon := WeekStart(wed)
	assert.Equal(t, "2026-10-19", mon.Format(DateLayout))
	assert.Equal(t, "2026-10-19", WeekStart(mon).Format(DateLayout))

	sun := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-19", WeekStart(sun).Format(DateLayout))

	overrides := []storage.CalendarOverride{
		{Date: "2026-10-20", IsHoliday: true, Note: "設備保養"},
		{Date: "2026-10-24", IsHoliday: false, Note: "補班"},
	}
	days := Days(mon, mon.AddDate(0, 0, 13), overrides, false)
	require.Len(t, days, 14)
	assert.True(t, days[1].IsHoliday)
	assert.Equal(t, "設備保養", days[1].Note)
	assert.False(t, days[5].IsHoliday) // суббота-отработка
	assert.True(t, days[6].IsHoliday)

	working := Days(mon, mon.AddDate(0, 0, 13), overrides, true)
	assert.Len(t, working, 10)
	assert.NotContains(t, Dates(working), "2026-10-20")
	assert.Contains(t, Dates(working), "2026-10-24")
}
