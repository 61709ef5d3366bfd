// Package capacity считает загрузку станков по дням.
// Загрузка только отображается и никогда не блокирует планирование.
package capacity

import (
	"sort"

	"github.com/shopspring/decimal"

	"printshop/internal/storage"
)

// DefaultDailyMinutes - мощность станка, у которого она не задана.
const DefaultDailyMinutes = 480.0

type Key struct {
	MachineID int64  `json:"machine_id"`
	Date      string `json:"date"`
}

type Usage struct {
	MachineID  int64   `json:"machine_id"`
	Date       string  `json:"date"`
	Capacity   float64 `json:"capacity"`
	Used       float64 `json:"used"`
	Remaining  float64 `json:"remaining"`
	Overloaded bool    `json:"overloaded"`
	Operations int     `json:"operations"`
}

// Aggregator пересчитывает загрузку с нуля при каждом вызове.
type Aggregator struct {
	defaultMinutes float64
}

func NewAggregator(defaultMinutes float64) *Aggregator {
	if defaultMinutes <= 0 {
		defaultMinutes = DefaultDailyMinutes
	}
	return &Aggregator{defaultMinutes: defaultMinutes}
}

// CapacityOf - дневная мощность станка, 0 трактуется как "не задано".
func (a *Aggregator) CapacityOf(m storage.Machine) float64 {
	if m.DailyMinutes > 0 {
		return m.DailyMinutes
	}
	return a.defaultMinutes
}

// Snapshot - загрузка одного станка за один день.
func (a *Aggregator) Snapshot(m storage.Machine, date string, ops []storage.ConvertedOperation) Usage {
	used := decimal.Zero
	n := 0

	for _, o := range ops {
		if !matches(o, m.ID, date) {
			continue
		}
		used = used.Add(decimal.NewFromFloat(o.TotalTimeMin))
		n++
	}

	return a.usage(m, date, used, n)
}

// Aggregate - сетка станки × даты в порядке входных списков.
func (a *Aggregator) Aggregate(machines []storage.Machine, dates []string, ops []storage.ConvertedOperation) []Usage {
	sums := make(map[Key]decimal.Decimal)
	counts := make(map[Key]int)

	for _, o := range ops {
		if !o.Scheduled() {
			continue
		}
		k := Key{MachineID: *o.ProductionMachineID, Date: *o.ScheduledDate}
		sums[k] = sums[k].Add(decimal.NewFromFloat(o.TotalTimeMin))
		counts[k]++
	}

	out := make([]Usage, 0, len(machines)*len(dates))
	for _, m := range machines {
		for _, d := range dates {
			k := Key{MachineID: m.ID, Date: d}
			out = append(out, a.usage(m, d, sums[k], counts[k]))
		}
	}

	return out
}

// Affected - ячейки, которые меняются при переносе операции из before в after.
// Это старая и новая ячейка, без повторов и без пустых.
func Affected(before, after storage.ConvertedOperation) []Key {
	var keys []Key

	add := func(o storage.ConvertedOperation) {
		if !o.Scheduled() {
			return
		}
		k := Key{MachineID: *o.ProductionMachineID, Date: *o.ScheduledDate}
		for _, existing := range keys {
			if existing == k {
				return
			}
		}
		keys = append(keys, k)
	}

	add(before)
	add(after)

	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].MachineID < keys[j].MachineID
	})

	return keys
}

func (a *Aggregator) usage(m storage.Machine, date string, used decimal.Decimal, n int) Usage {
	capacity := decimal.NewFromFloat(a.CapacityOf(m))
	remaining := capacity.Sub(used)

	usedF, _ := used.Round(2).Float64()
	remF, _ := remaining.Round(2).Float64()
	capF, _ := capacity.Float64()

	return Usage{
		MachineID:  m.ID,
		Date:       date,
		Capacity:   capF,
		Used:       usedF,
		Remaining:  remF,
		Overloaded: remaining.IsNegative(),
		Operations: n,
	}
}

func matches(o storage.ConvertedOperation, machineID int64, date string) bool {
	return o.Scheduled() && *o.ProductionMachineID == machineID && *o.ScheduledDate == date
}
