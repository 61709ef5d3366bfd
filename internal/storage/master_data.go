package storage

type ItemRoute struct {
	ItemCode string `json:"item_code"`
	RouteID  string `json:"route_id"`
}

type RouteOperation struct {
	RouteID  string `json:"route_id"`
	Sequence int    `json:"sequence"`
	OpName   string `json:"op_name"`
}

type OperationTime struct {
	OpName     string  `json:"op_name"`
	Station    string  `json:"station"`
	StdTimeMin float64 `json:"std_time_min"`
}

// MasterDataSet - полный набор справочников для перезаписи
type MasterDataSet struct {
	ItemRoutes      []ItemRoute      `json:"item_routes"`
	RouteOperations []RouteOperation `json:"route_operations"`
	OperationTimes  []OperationTime  `json:"operation_times"`
}
