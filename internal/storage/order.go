package storage

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusOK        Status = "OK"
	StatusError     Status = "Error"
	StatusMissRoute Status = "Miss_Route"
)

const (
	ConversionPending    = "pending"
	ConversionInProgress = "converting"
	ConversionReverting  = "reverting"
	ConversionSuccess    = "success"
	ConversionFailed     = "failed"
)

// OrderRecord - строка заказа во временной зоне импорта (temp_orders)
// или в постоянной таблице (daily_orders).
type OrderRecord struct {
	ID           int64   `json:"id"`
	OrderNumber  string  `json:"order_number"`
	DocType      string  `json:"doc_type"`
	ItemCode     string  `json:"item_code"`
	ItemName     string  `json:"item_name"`
	Quantity     float64 `json:"quantity"`
	DeliveryDate string  `json:"delivery_date"`
	PlateCount   string  `json:"plate_count"`
	Designer     string  `json:"designer"`
	Customer     string  `json:"customer"`
	Handler      string  `json:"handler"`
	Issuer       string  `json:"issuer"`
	Status       Status  `json:"status"`
	LogMsg       string  `json:"log_msg"`
	ErrorReason  string  `json:"error_reason"`

	// только daily_orders
	IsConverted      bool   `json:"is_converted"`
	ConversionStatus string `json:"conversion_status,omitempty"`
	ConversionNote   string `json:"conversion_note,omitempty"`
}

// RawOrder - строка как она пришла из загрузки, все поля текстом.
type RawOrder struct {
	OrderNumber  string     `json:"order_number"`
	DocType      string     `json:"doc_type"`
	ItemCode     string     `json:"item_code"`
	ItemName     string     `json:"item_name"`
	Quantity     LooseValue `json:"quantity"`
	DeliveryDate string     `json:"delivery_date"`
	PlateCount   LooseValue `json:"plate_count"`
	Designer     string     `json:"designer"`
	Customer     string     `json:"customer"`
	Handler      string     `json:"handler"`
	Issuer       string     `json:"issuer"`
}

// OrderPatch - правка строки из интерфейса, nil означает "не менять".
type OrderPatch struct {
	OrderNumber  *string     `json:"order_number"`
	DocType      *string     `json:"doc_type"`
	ItemCode     *string     `json:"item_code"`
	ItemName     *string     `json:"item_name"`
	Quantity     *LooseValue `json:"quantity"`
	DeliveryDate *string     `json:"delivery_date"`
	PlateCount   *LooseValue `json:"plate_count"`
	Designer     *string     `json:"designer"`
	Customer     *string     `json:"customer"`
	Handler      *string     `json:"handler"`
	Issuer       *string     `json:"issuer"`
}

// LooseValue принимает из JSON и число, и строку.
type LooseValue string

func (v *LooseValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = LooseValue(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = LooseValue(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}
