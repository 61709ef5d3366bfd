// Package convert превращает заказ в список операций с расчётным временем.
package convert

import (
	"fmt"
	"strings"

	"printshop/internal/constants"
	"printshop/internal/service/normalize"
	"printshop/internal/storage"
)

type FailureKind string

const (
	FailureNoRoute      FailureKind = "no_route"
	FailureNoOperations FailureKind = "no_operations"
	FailureMissingTimes FailureKind = "missing_times"
)

// Failure - причина, по которой заказ не сконвертирован целиком.
type Failure struct {
	Kind     FailureKind `json:"kind"`
	ItemCode string      `json:"item_code,omitempty"`
	RouteID  string      `json:"route_id,omitempty"`
	Missing  []string    `json:"missing,omitempty"`
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureNoRoute:
		return fmt.Sprintf("no matching route for item code %q", f.ItemCode)
	case FailureNoOperations:
		return fmt.Sprintf("route exists but has no operations (route %q)", f.RouteID)
	case FailureMissingTimes:
		return "missing standard time: " + strings.Join(f.Missing, ", ")
	default:
		return string(f.Kind)
	}
}

// Index - то, что конвертации нужно от снимка справочников.
type Index interface {
	RouteFor(itemCode string) (string, bool)
	Operations(routeID string) []storage.RouteOperation
	TimeFor(opName string) (storage.OperationTime, bool)
}

// Convert раскладывает заказ по операциям маршрута.
// Если хотя бы у одной операции нет нормы, результат пустой, а Failure
// перечисляет все такие операции.
func Convert(o storage.OrderRecord, idx Index) ([]storage.ConvertedOperation, error) {
	o = normalize.Order(o)

	routeID, ok := idx.RouteFor(o.ItemCode)
	if !ok {
		return nil, &Failure{Kind: FailureNoRoute, ItemCode: o.ItemCode}
	}

	ops := idx.Operations(routeID)
	if len(ops) == 0 {
		return nil, &Failure{Kind: FailureNoOperations, ItemCode: o.ItemCode, RouteID: routeID}
	}

	plates := normalize.Number(o.PlateCount)
	rows := make([]storage.ConvertedOperation, 0, len(ops))
	var missing []string

	for _, op := range ops {
		t, ok := idx.TimeFor(op.OpName)
		if !ok {
			missing = append(missing, op.OpName)
			continue
		}

		station := t.Station
		if station == "" {
			station = constants.UnknownStation
		}

		total, basisText := Calculate(station, t.StdTimeMin, o.Quantity, plates)

		row := Carry(o)
		row.Sequence = op.Sequence
		row.Station = station
		row.OpName = op.OpName
		row.BasisText = basisText
		row.StdTime = t.StdTimeMin
		row.TotalTimeMin = total
		rows = append(rows, row)
	}

	if len(missing) > 0 {
		return nil, &Failure{Kind: FailureMissingTimes, ItemCode: o.ItemCode, RouteID: routeID, Missing: missing}
	}

	return rows, nil
}

// Carry переносит поля заказа в строку операции.
func Carry(o storage.OrderRecord) storage.ConvertedOperation {
	return storage.ConvertedOperation{
		SourceOrderID: o.ID,
		OrderNumber:   o.OrderNumber,
		DocType:       o.DocType,
		ItemCode:      o.ItemCode,
		ItemName:      o.ItemName,
		Quantity:      o.Quantity,
		PlateCount:    o.PlateCount,
		DeliveryDate:  o.DeliveryDate,
		Designer:      o.Designer,
		Customer:      o.Customer,
		Handler:       o.Handler,
		Issuer:        o.Issuer,
	}
}
