// Package masterdata держит неизменяемый снимок справочников:
// изделие -> маршрут, маршрут -> упорядоченные операции, операция -> (станция, норма).
package masterdata

import (
	"sort"
	"time"

	"printshop/internal/service/normalize"
	"printshop/internal/storage"
)

// Snapshot не меняется после Build, его можно читать из любых горутин.
type Snapshot struct {
	itemRoutes map[string]string
	routeOps   map[string][]storage.RouteOperation
	opTimes    map[string]storage.OperationTime
	loadedAt   time.Time
}

type Stats struct {
	Items      int       `json:"items"`
	Routes     int       `json:"routes"`
	Operations int       `json:"operations"`
	OpTimes    int       `json:"op_times"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// Build собирает снимок. Ключи нормализуются, операции сортируются по sequence,
// при повторе op_name или item_code побеждает последняя запись.
func Build(routes []storage.ItemRoute, ops []storage.RouteOperation, times []storage.OperationTime) *Snapshot {
	s := &Snapshot{
		itemRoutes: make(map[string]string, len(routes)),
		routeOps:   make(map[string][]storage.RouteOperation),
		opTimes:    make(map[string]storage.OperationTime, len(times)),
		loadedAt:   time.Now(),
	}

	// строки с пустым ключом пропускаются так же, как в Prepare
	for _, r := range routes {
		code := normalize.ItemCode(r.ItemCode)
		routeID := normalize.Text(r.RouteID)
		if code == "" || routeID == "" {
			continue
		}
		s.itemRoutes[code] = routeID
	}

	for _, o := range ops {
		routeID := normalize.Text(o.RouteID)
		name := normalize.Text(o.OpName)
		if routeID == "" || name == "" {
			continue
		}
		s.routeOps[routeID] = append(s.routeOps[routeID], storage.RouteOperation{
			RouteID:  routeID,
			Sequence: o.Sequence,
			OpName:   name,
		})
	}
	for id := range s.routeOps {
		list := s.routeOps[id]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Sequence < list[j].Sequence })
	}

	for _, t := range times {
		name := normalize.Text(t.OpName)
		if name == "" {
			continue
		}
		s.opTimes[name] = storage.OperationTime{
			OpName:     name,
			Station:    normalize.Text(t.Station),
			StdTimeMin: t.StdTimeMin,
		}
	}

	return s
}

// Empty - снимок без данных, пока справочники не загружены.
func Empty() *Snapshot {
	return Build(nil, nil, nil)
}

// RouteFor ищет маршрут по коду изделия.
func (s *Snapshot) RouteFor(itemCode string) (string, bool) {
	id, ok := s.itemRoutes[normalize.ItemCode(itemCode)]
	return id, ok
}

// Operations возвращает копию списка операций маршрута в порядке выполнения.
func (s *Snapshot) Operations(routeID string) []storage.RouteOperation {
	list := s.routeOps[normalize.Text(routeID)]
	out := make([]storage.RouteOperation, len(list))
	copy(out, list)
	return out
}

func (s *Snapshot) TimeFor(opName string) (storage.OperationTime, bool) {
	t, ok := s.opTimes[normalize.Text(opName)]
	return t, ok
}

func (s *Snapshot) Stats() Stats {
	n := 0
	for _, list := range s.routeOps {
		n += len(list)
	}

	return Stats{
		Items:      len(s.itemRoutes),
		Routes:     len(s.routeOps),
		Operations: n,
		OpTimes:    len(s.opTimes),
		LoadedAt:   s.loadedAt,
	}
}
