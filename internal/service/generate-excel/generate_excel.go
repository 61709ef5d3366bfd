package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"printshop/internal/constants"
	"printshop/internal/service/capacity"
	"printshop/internal/service/schedule"
	"printshop/internal/storage"
)

const (
	scheduleSheet = "排程"
	capacitySheet = "產能"
)

type Filter struct {
	From string
	To   string
}

type GenerateExcelStorage interface {
	Board(ctx context.Context, from, to string, skipHolidays bool) (schedule.Board, error)
	Operations(ctx context.Context, from, to string) ([]storage.ConvertedOperation, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

// GenerateExcel строит книгу из двух листов: операции на плане и сетка загрузки станков.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter Filter) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	board, err := g.storage.Board(ctx, filter.From, filter.To, false)
	if err != nil {
		return nil, fmt.Errorf("%s: board: %w", op, err)
	}

	ops, err := g.storage.Operations(ctx, board.From, board.To)
	if err != nil {
		return nil, fmt.Errorf("%s: operations: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", scheduleSheet)
	if _, err := f.NewSheet(capacitySheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: styles: %w", op, err)
	}

	machineNames := make(map[int64]string, len(board.Machines))
	for _, m := range board.Machines {
		machineNames[m.ID] = m.Name
	}

	writeSchedule(f, st, ops, machineNames)
	writeCapacity(f, st, board)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

type styles struct {
	header     int
	holiday    int
	overloaded int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return s, err
	}

	s.holiday, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "808080"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
	})
	if err != nil {
		return s, err
	}

	s.overloaded, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})

	return s, err
}

func writeSchedule(f *excelize.File, st styles, ops []storage.ConvertedOperation, machineNames map[int64]string) {
	headers := []string{"日期", "機台", "製程區", "單號", "品號", "品名", "序", "站點", "工序", "計算基準", "標準工時", "總工時(分)"}
	for i, name := range headers {
		f.SetCellValue(scheduleSheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(scheduleSheet, "A1", cellName(len(headers), 1), st.header)

	for i, o := range ops {
		row := i + 2

		section := ""
		if o.AssignedSection != nil {
			section = constants.SectionLabels[*o.AssignedSection]
		}
		machine := ""
		if o.ProductionMachineID != nil {
			machine = machineNames[*o.ProductionMachineID]
			if machine == "" {
				machine = fmt.Sprintf("#%d", *o.ProductionMachineID)
			}
		}

		values := []any{
			deref(o.ScheduledDate), machine, section, o.OrderNumber, o.ItemCode, o.ItemName,
			o.Sequence, o.Station, o.OpName, o.BasisText, o.StdTime, o.TotalTimeMin,
		}
		for col, v := range values {
			f.SetCellValue(scheduleSheet, cellName(col+1, row), v)
		}
	}

	f.SetPanes(scheduleSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	f.SetColWidth(scheduleSheet, "A", "L", 14)
}

// writeCapacity - станки по строкам, дни по колонкам, в ячейке "занято / мощность".
func writeCapacity(f *excelize.File, st styles, board schedule.Board) {
	f.SetCellValue(capacitySheet, "A1", "機台")
	f.SetCellStyle(capacitySheet, "A1", "A1", st.header)

	for i, d := range board.Days {
		cell := cellName(i+2, 1)
		f.SetCellValue(capacitySheet, cell, d.Date)
		if d.IsHoliday {
			f.SetCellStyle(capacitySheet, cell, cell, st.holiday)
		} else {
			f.SetCellStyle(capacitySheet, cell, cell, st.header)
		}
	}

	byKey := make(map[capacity.Key]capacity.Usage, len(board.Usage))
	for _, u := range board.Usage {
		byKey[capacity.Key{MachineID: u.MachineID, Date: u.Date}] = u
	}

	for r, m := range board.Machines {
		row := r + 2
		f.SetCellValue(capacitySheet, cellName(1, row), m.Name)

		for c, d := range board.Days {
			u, ok := byKey[capacity.Key{MachineID: m.ID, Date: d.Date}]
			if !ok {
				continue
			}
			cell := cellName(c+2, row)
			f.SetCellValue(capacitySheet, cell, fmt.Sprintf("%.2f / %.0f", u.Used, u.Capacity))
			if u.Overloaded {
				f.SetCellStyle(capacitySheet, cell, cell, st.overloaded)
			}
		}
	}

	f.SetPanes(capacitySheet, &excelize.Panes{Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"})
	f.SetColWidth(capacitySheet, "A", "A", 18)
	if len(board.Days) > 0 {
		last, _ := excelize.ColumnNumberToName(len(board.Days) + 1)
		f.SetColWidth(capacitySheet, "B", last, 14)
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
