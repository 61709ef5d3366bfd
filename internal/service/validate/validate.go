// Package validate классифицирует заказ по правилам цеха.
package validate

import (
	"fmt"
	"strings"

	"printshop/internal/constants"
	"printshop/internal/service/normalize"
	"printshop/internal/storage"
)

const (
	MsgMissingItemCode  = "missing item code"
	MsgItemNotFound     = "item not found in master data"
	MsgQuantity         = "quantity must be positive"
	MsgDeliveryDate     = "delivery date required"
	MsgCPrefixedDocType = "C-prefixed items require outsourced or steady-state doc type"
	MsgAcrylicPlates    = "acrylic items require plate count"
	MsgNoOperations     = "route has no operations"

	reasonSeparator = "; "
)

// Index - то, что проверке нужно от снимка справочников.
type Index interface {
	RouteFor(itemCode string) (string, bool)
	Operations(routeID string) []storage.RouteOperation
}

type Result struct {
	Status  storage.Status `json:"status"`
	Reasons []string       `json:"reasons"`
	Note    string         `json:"note,omitempty"`
	RouteID string         `json:"route_id,omitempty"`
}

// Message - строка для log_msg.
func (r Result) Message() string {
	if len(r.Reasons) > 0 {
		return strings.Join(r.Reasons, reasonSeparator)
	}
	return r.Note
}

// ErrorReason заполняется только для статуса Error.
func (r Result) ErrorReason() string {
	if r.Status != storage.StatusError {
		return ""
	}
	return strings.Join(r.Reasons, reasonSeparator)
}

// Validate проверяет заказ, собирая все нарушенные правила.
// Функция чистая: ни заказ, ни индекс не меняются.
func Validate(o storage.OrderRecord, idx Index) Result {
	o = normalize.Order(o)
	res := Result{Status: storage.StatusOK, Reasons: []string{}}

	if IsExempt(o.DocType) {
		res.Note = fmt.Sprintf("[%s] exempted", o.DocType)
		return res
	}

	routeID, routeFound := "", false
	if o.ItemCode == "" {
		res.Reasons = append(res.Reasons, MsgMissingItemCode)
	} else if routeID, routeFound = idx.RouteFor(o.ItemCode); !routeFound {
		res.Reasons = append(res.Reasons, fmt.Sprintf("%s [%s]", MsgItemNotFound, o.ItemCode))
	}

	if !(o.Quantity > 0) {
		res.Reasons = append(res.Reasons, MsgQuantity)
	}

	if o.DeliveryDate == "" {
		res.Reasons = append(res.Reasons, MsgDeliveryDate)
	}

	cPrefixed := strings.HasPrefix(o.ItemCode, constants.CPrefixedItemPrefix)
	if cPrefixed && !containsAny(o.DocType, constants.CPrefixDocTypes) {
		res.Reasons = append(res.Reasons, MsgCPrefixedDocType)
	}

	if strings.Contains(o.ItemName, constants.AcrylicItemKeyword) && o.PlateCount == "" && !cPrefixed {
		res.Reasons = append(res.Reasons, MsgAcrylicPlates)
	}

	if len(res.Reasons) > 0 {
		res.Status = storage.StatusError
		return res
	}

	res.RouteID = routeID
	if len(idx.Operations(routeID)) == 0 {
		res.Status = storage.StatusMissRoute
		res.Note = fmt.Sprintf("%s [%s]", MsgNoOperations, routeID)
	}

	return res
}

// Annotate возвращает копию заказа со статусом и сообщениями проверки.
func Annotate(o storage.OrderRecord, idx Index) storage.OrderRecord {
	res := Validate(o, idx)

	o = normalize.Order(o)
	o.Status = res.Status
	o.LogMsg = res.Message()
	o.ErrorReason = res.ErrorReason()

	return o
}

// IsExempt - тип документа из списка исключений.
func IsExempt(docType string) bool {
	return containsAny(docType, constants.ExemptDocTypes)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
