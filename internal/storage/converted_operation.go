package storage

// ConvertedOperation - строка station_time_summary, одна операция маршрута заказа.
type ConvertedOperation struct {
	ID            int64   `json:"id"`
	SourceOrderID int64   `json:"source_order_id"`
	OrderNumber   string  `json:"order_number"`
	DocType       string  `json:"doc_type"`
	ItemCode      string  `json:"item_code"`
	ItemName      string  `json:"item_name"`
	Quantity      float64 `json:"quantity"`
	PlateCount    string  `json:"plate_count"`
	DeliveryDate  string  `json:"delivery_date"`
	Designer      string  `json:"designer"`
	Customer      string  `json:"customer"`
	Handler       string  `json:"handler"`
	Issuer        string  `json:"issuer"`
	Sequence      int     `json:"sequence"`
	Station       string  `json:"station"`
	OpName        string  `json:"op_name"`
	BasisText     string  `json:"basis_text"`
	StdTime       float64 `json:"std_time"`
	TotalTimeMin  float64 `json:"total_time_min"`

	AssignedSection     *string `json:"assigned_section"`
	ScheduledDate       *string `json:"scheduled_date"`
	ProductionMachineID *int64  `json:"production_machine_id"`
}

// Scheduled - стоит ли операция на конкретном станке и дне
func (c ConvertedOperation) Scheduled() bool {
	return c.ScheduledDate != nil && *c.ScheduledDate != "" && c.ProductionMachineID != nil
}

type ScheduleFilter struct {
	From      string
	To        string
	MachineID *int64
}

type SequenceUpdate struct {
	ID       int64 `json:"id"`
	Sequence int   `json:"sequence"`
}
