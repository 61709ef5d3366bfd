// Package schedule распределяет операции по участкам, станкам и дням
// и отдаёт загрузку станков.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"printshop/internal/constants"
	"printshop/internal/service/capacity"
	"printshop/internal/storage"
)

const (
	defaultWindowDays = 14
	maxWindowDays     = 92
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidWindow  = errors.New("invalid date window")
	ErrNoOperations   = errors.New("no operations selected")
)

type Store interface {
	ListUnassignedOperations(ctx context.Context) ([]storage.ConvertedOperation, error)
	ListSectionOperations(ctx context.Context, section string) ([]storage.ConvertedOperation, error)
	AssignSection(ctx context.Context, ids []int64, section *string) (int64, error)
	GetConvertedOperation(ctx context.Context, id int64) (storage.ConvertedOperation, error)
	SetSchedule(ctx context.Context, id int64, date *string, machineID *int64) error
	ListScheduledOperations(ctx context.Context, filter storage.ScheduleFilter) ([]storage.ConvertedOperation, error)
	ListMachines(ctx context.Context, activeOnly bool) ([]storage.Machine, error)
	GetMachine(ctx context.Context, id int64) (storage.Machine, error)
	SaveMachines(ctx context.Context, machines []storage.Machine) error
	ListCalendar(ctx context.Context, from, to string) ([]storage.CalendarOverride, error)
	SaveCalendar(ctx context.Context, days []storage.CalendarOverride) error
}

// Slot - станок и день, nil в любом поле снимает операцию с плана.
type Slot struct {
	MachineID *int64  `json:"production_machine_id"`
	Date      *string `json:"scheduled_date"`
}

type ScheduleResult struct {
	Operation storage.ConvertedOperation `json:"operation"`
	Capacity  []capacity.Usage           `json:"capacity"`
}

type Board struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Days     []capacity.Day    `json:"days"`
	Machines []storage.Machine `json:"machines"`
	Usage    []capacity.Usage  `json:"usage"`
}

type Service struct {
	log   *slog.Logger
	store Store
	agg   *capacity.Aggregator
	now   func() time.Time
}

func NewService(log *slog.Logger, store Store, agg *capacity.Aggregator) *Service {
	return &Service{log: log, store: store, agg: agg, now: time.Now}
}

func (s *Service) Unassigned(ctx context.Context) ([]storage.ConvertedOperation, error) {
	const op = "service.schedule.Unassigned"

	ops, err := s.store.ListUnassignedOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ops, nil
}

// Section - операции участка, ещё не поставленные на станок.
func (s *Service) Section(ctx context.Context, section string) ([]storage.ConvertedOperation, error) {
	const op = "service.schedule.Section"

	if !constants.Sections[section] {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownSection, section)
	}

	ops, err := s.store.ListSectionOperations(ctx, section)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ops, nil
}

// Assign раскладывает операции по участкам: section -> id операций.
// Все участки проверяются до первой записи.
func (s *Service) Assign(ctx context.Context, bySection map[string][]int64) (int64, error) {
	const op = "service.schedule.Assign"

	total := 0
	for section, ids := range bySection {
		if !constants.Sections[section] {
			return 0, fmt.Errorf("%s: %w: %q", op, ErrUnknownSection, section)
		}
		total += len(ids)
	}
	if total == 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrNoOperations)
	}

	var updated int64
	for section, ids := range bySection {
		if len(ids) == 0 {
			continue
		}
		n, err := s.store.AssignSection(ctx, ids, &section)
		if err != nil {
			return updated, fmt.Errorf("%s: section %s: %w", op, section, err)
		}
		updated += n
	}

	s.log.Info("operations assigned to sections", slog.Int64("updated", updated))

	return updated, nil
}

// Unassign возвращает операции в общий пул.
func (s *Service) Unassign(ctx context.Context, ids []int64) (int64, error) {
	const op = "service.schedule.Unassign"

	if len(ids) == 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrNoOperations)
	}

	n, err := s.store.AssignSection(ctx, ids, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// Schedule ставит операцию на станок и день или снимает её с плана
// и возвращает пересчитанную загрузку старой и новой ячейки.
func (s *Service) Schedule(ctx context.Context, id int64, slot Slot) (ScheduleResult, error) {
	const op = "service.schedule.Schedule"

	before, err := s.store.GetConvertedOperation(ctx, id)
	if err != nil {
		return ScheduleResult{}, fmt.Errorf("%s: %w", op, err)
	}

	after := before
	if slot.MachineID == nil || slot.Date == nil || *slot.Date == "" {
		after.ProductionMachineID = nil
		after.ScheduledDate = nil
	} else {
		if _, err := parseDate(*slot.Date); err != nil {
			return ScheduleResult{}, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := s.store.GetMachine(ctx, *slot.MachineID); err != nil {
			return ScheduleResult{}, fmt.Errorf("%s: %w", op, err)
		}
		after.ProductionMachineID = slot.MachineID
		after.ScheduledDate = slot.Date
	}

	if err := s.store.SetSchedule(ctx, id, after.ScheduledDate, after.ProductionMachineID); err != nil {
		return ScheduleResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := ScheduleResult{Operation: after, Capacity: []capacity.Usage{}}
	for _, k := range capacity.Affected(before, after) {
		u, err := s.CapacitySnapshot(ctx, k.MachineID, k.Date)
		if err != nil {
			return ScheduleResult{}, fmt.Errorf("%s: %w", op, err)
		}
		res.Capacity = append(res.Capacity, u)
	}

	return res, nil
}

// CapacitySnapshot - загрузка одного станка за один день.
func (s *Service) CapacitySnapshot(ctx context.Context, machineID int64, date string) (capacity.Usage, error) {
	const op = "service.schedule.CapacitySnapshot"

	if _, err := parseDate(date); err != nil {
		return capacity.Usage{}, fmt.Errorf("%s: %w", op, err)
	}

	m, err := s.store.GetMachine(ctx, machineID)
	if errors.Is(err, storage.ErrMachineNotFound) {
		// станок удалён, а операции на нём остались
		m = storage.Machine{ID: machineID}
	} else if err != nil {
		return capacity.Usage{}, fmt.Errorf("%s: %w", op, err)
	}

	ops, err := s.store.ListScheduledOperations(ctx, storage.ScheduleFilter{From: date, To: date, MachineID: &machineID})
	if err != nil {
		return capacity.Usage{}, fmt.Errorf("%s: %w", op, err)
	}

	return s.agg.Snapshot(m, date, ops), nil
}

// Board - загрузка активных станков за окно дат. Пустые from/to дают
// две недели с понедельника текущей недели.
func (s *Service) Board(ctx context.Context, from, to string, skipHolidays bool) (Board, error) {
	const op = "service.schedule.Board"

	start, end, err := s.Window(from, to)
	if err != nil {
		return Board{}, fmt.Errorf("%s: %w", op, err)
	}
	fromS, toS := start.Format(capacity.DateLayout), end.Format(capacity.DateLayout)

	machines, err := s.store.ListMachines(ctx, true)
	if err != nil {
		return Board{}, fmt.Errorf("%s: machines: %w", op, err)
	}

	overrides, err := s.store.ListCalendar(ctx, fromS, toS)
	if err != nil {
		return Board{}, fmt.Errorf("%s: calendar: %w", op, err)
	}

	ops, err := s.store.ListScheduledOperations(ctx, storage.ScheduleFilter{From: fromS, To: toS})
	if err != nil {
		return Board{}, fmt.Errorf("%s: operations: %w", op, err)
	}

	days := capacity.Days(start, end, overrides, skipHolidays)

	return Board{
		From:     fromS,
		To:       toS,
		Days:     days,
		Machines: machines,
		Usage:    s.agg.Aggregate(machines, capacity.Dates(days), ops),
	}, nil
}

// Window разбирает окно дат отчёта.
func (s *Service) Window(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if from == "" {
		start = capacity.WeekStart(s.now())
	} else if start, err = parseDate(from); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if to == "" {
		end = start.AddDate(0, 0, defaultWindowDays-1)
	} else if end, err = parseDate(to); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if end.Before(start) || end.Sub(start) > maxWindowDays*24*time.Hour {
		return time.Time{}, time.Time{}, ErrInvalidWindow
	}

	return start, end, nil
}

// Operations - поставленные на план операции окна, для отчёта.
func (s *Service) Operations(ctx context.Context, from, to string) ([]storage.ConvertedOperation, error) {
	const op = "service.schedule.Operations"

	ops, err := s.store.ListScheduledOperations(ctx, storage.ScheduleFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ops, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(capacity.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
