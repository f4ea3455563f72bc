package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationStatus 操作状态
type OperationStatus string

const (
	OperationStatusDone     OperationStatus = "Done"
	OperationStatusDecline  OperationStatus = "Decline"
	OperationStatusProgress OperationStatus = "Progress"
)

// OperationTrade 操作对应的成交
type OperationTrade struct {
	TradeID  string          `json:"tradeId"`
	Date     time.Time       `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Operation 账户操作（买卖、入金、手续费、分红等）
type Operation struct {
	ID               string           `json:"id"`
	Status           OperationStatus  `json:"status"`
	Trades           []OperationTrade `json:"trades,omitempty"`
	Commission       *MoneyAmount     `json:"commission,omitempty"`
	Currency         Currency         `json:"currency"`
	Payment          decimal.Decimal  `json:"payment"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	Quantity         int              `json:"quantity,omitempty"`
	QuantityExecuted int              `json:"quantityExecuted,omitempty"`
	Figi             string           `json:"figi,omitempty"`
	InstrumentType   InstrumentType   `json:"instrumentType,omitempty"`
	IsMarginCall     bool             `json:"isMarginCall"`
	Date             time.Time        `json:"date"`
	OperationType    string           `json:"operationType,omitempty"`
}

// Operations 操作列表
type Operations struct {
	Operations []Operation `json:"operations"`
}
