package masterdata

import (
	"errors"
	"fmt"

	"printshop/internal/service/normalize"
	"printshop/internal/storage"
)

var ErrInvalidMasterData = errors.New("invalid master data")

// Prepare нормализует набор перед записью: ключи приводятся к каноническому виду,
// повторы item_code и op_name схлопываются (последняя запись побеждает),
// повтор sequence внутри маршрута - ошибка.
func Prepare(set storage.MasterDataSet) (storage.MasterDataSet, error) {
	var out storage.MasterDataSet

	routeIdx := make(map[string]int)
	for _, r := range set.ItemRoutes {
		code := normalize.ItemCode(r.ItemCode)
		routeID := normalize.Text(r.RouteID)
		if code == "" || routeID == "" {
			continue
		}

		row := storage.ItemRoute{ItemCode: code, RouteID: routeID}
		if i, ok := routeIdx[code]; ok {
			out.ItemRoutes[i] = row
			continue
		}
		routeIdx[code] = len(out.ItemRoutes)
		out.ItemRoutes = append(out.ItemRoutes, row)
	}

	type seqKey struct {
		route string
		seq   int
	}
	seen := make(map[seqKey]string)
	for _, o := range set.RouteOperations {
		routeID := normalize.Text(o.RouteID)
		name := normalize.Text(o.OpName)
		if routeID == "" || name == "" {
			continue
		}
		if o.Sequence <= 0 {
			return storage.MasterDataSet{}, fmt.Errorf("%w: route %q op %q: sequence must be positive", ErrInvalidMasterData, routeID, name)
		}

		key := seqKey{route: routeID, seq: o.Sequence}
		if prev, ok := seen[key]; ok {
			return storage.MasterDataSet{}, fmt.Errorf("%w: route %q sequence %d used by %q and %q",
				ErrInvalidMasterData, routeID, o.Sequence, prev, name)
		}
		seen[key] = name

		out.RouteOperations = append(out.RouteOperations, storage.RouteOperation{RouteID: routeID, Sequence: o.Sequence, OpName: name})
	}

	timeIdx := make(map[string]int)
	for _, t := range set.OperationTimes {
		name := normalize.Text(t.OpName)
		if name == "" {
			continue
		}
		if t.StdTimeMin < 0 {
			return storage.MasterDataSet{}, fmt.Errorf("%w: op %q: negative standard time", ErrInvalidMasterData, name)
		}

		row := storage.OperationTime{OpName: name, Station: normalize.Text(t.Station), StdTimeMin: t.StdTimeMin}
		if row.Station == "" {
			row.Station = "未知"
		}
		if i, ok := timeIdx[name]; ok {
			out.OperationTimes[i] = row
			continue
		}
		timeIdx[name] = len(out.OperationTimes)
		out.OperationTimes = append(out.OperationTimes, row)
	}

	return out, nil
}
