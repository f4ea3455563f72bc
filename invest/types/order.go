package types

import "github.com/shopspring/decimal"

// OperationType 买卖方向
type OperationType string

const (
	OperationTypeBuy  OperationType = "Buy"
	OperationTypeSell OperationType = "Sell"
)

// Valid 是否为合法方向
func (o OperationType) Valid() bool {
	return o == OperationTypeBuy || o == OperationTypeSell
}

// OrderType 订单类型
type OrderType string

const (
	OrderTypeLimit  OrderType = "Limit"
	OrderTypeMarket OrderType = "Market"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "New"
	OrderStatusPartiallyFill  OrderStatus = "PartiallyFill"
	OrderStatusFill           OrderStatus = "Fill"
	OrderStatusCancelled      OrderStatus = "Cancelled"
	OrderStatusReplaced       OrderStatus = "Replaced"
	OrderStatusPendingCancel  OrderStatus = "PendingCancel"
	OrderStatusRejected       OrderStatus = "Rejected"
	OrderStatusPendingReplace OrderStatus = "PendingReplace"
	OrderStatusPendingNew     OrderStatus = "PendingNew"
)

// Order 活跃订单
type Order struct {
	OrderID       string          `json:"orderId"`
	Figi          string          `json:"figi"`
	Operation     OperationType   `json:"operation"`
	Status        OrderStatus     `json:"status"`
	RequestedLots int             `json:"requestedLots"`
	ExecutedLots  int             `json:"executedLots"`
	Type          OrderType       `json:"type"`
	Price         decimal.Decimal `json:"price"`
}

// LimitOrderRequest 限价单请求
type LimitOrderRequest struct {
	Lots      int             `json:"lots"`
	Operation OperationType   `json:"operation"`
	Price     decimal.Decimal `json:"price"`
}

// MarketOrderRequest 市价单请求
type MarketOrderRequest struct {
	Lots      int           `json:"lots"`
	Operation OperationType `json:"operation"`
}

// PlacedOrder 下单结果
type PlacedOrder struct {
	OrderID       string        `json:"orderId"`
	Operation     OperationType `json:"operation"`
	Status        OrderStatus   `json:"status"`
	RejectReason  string        `json:"rejectReason,omitempty"`
	Message       string        `json:"message,omitempty"`
	RequestedLots int           `json:"requestedLots"`
	ExecutedLots  int           `json:"executedLots"`
	Commission    *MoneyAmount  `json:"commission,omitempty"`
}
