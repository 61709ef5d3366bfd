package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"printshop/internal/constants"
	"printshop/internal/service/capacity"
	"printshop/internal/storage"
)

var ErrInvalidMachine = errors.New("invalid machine")

func (s *Service) Machines(ctx context.Context) ([]storage.Machine, error) {
	const op = "service.schedule.Machines"

	machines, err := s.store.ListMachines(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return machines, nil
}

// SaveMachines сохраняет станки, id 0 - новый станок.
// Тип станции должен принадлежать категории станка.
func (s *Service) SaveMachines(ctx context.Context, machines []storage.Machine) error {
	const op = "service.schedule.SaveMachines"

	for i := range machines {
		m := &machines[i]
		m.Name = strings.TrimSpace(m.Name)
		m.Category = strings.TrimSpace(m.Category)
		m.StationType = strings.TrimSpace(m.StationType)

		if m.Name == "" {
			return fmt.Errorf("%s: %w: empty name", op, ErrInvalidMachine)
		}
		if m.DailyMinutes < 0 {
			return fmt.Errorf("%s: %w: %s: negative daily minutes", op, ErrInvalidMachine, m.Name)
		}
		stations, ok := constants.StationMapping[m.Category]
		if !ok {
			return fmt.Errorf("%s: %w: %s: unknown category %q", op, ErrInvalidMachine, m.Name, m.Category)
		}
		if m.StationType != "" && !slices.Contains(stations, m.StationType) {
			return fmt.Errorf("%s: %w: %s: station %q is not in category %q", op, ErrInvalidMachine, m.Name, m.StationType, m.Category)
		}
	}

	if err := s.store.SaveMachines(ctx, machines); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("machines saved", slog.Int("count", len(machines)))

	return nil
}

func (s *Service) Calendar(ctx context.Context, from, to string) ([]storage.CalendarOverride, error) {
	const op = "service.schedule.Calendar"

	start, end, err := s.Window(from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	days, err := s.store.ListCalendar(ctx, start.Format(capacity.DateLayout), end.Format(capacity.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return days, nil
}

func (s *Service) SaveCalendar(ctx context.Context, days []storage.CalendarOverride) error {
	const op = "service.schedule.SaveCalendar"

	for _, d := range days {
		if _, err := parseDate(d.Date); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := s.store.SaveCalendar(ctx, days); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
