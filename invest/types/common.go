// Package types 定义 OpenAPI 请求和响应的数据结构
package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Currency 币种
type Currency string

const (
	CurrencyRUB Currency = "RUB"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyHKD Currency = "HKD"
	CurrencyCHF Currency = "CHF"
	CurrencyJPY Currency = "JPY"
	CurrencyCNY Currency = "CNY"
	CurrencyTRY Currency = "TRY"
)

// InstrumentType 金融工具类型
type InstrumentType string

const (
	InstrumentTypeStock    InstrumentType = "Stock"
	InstrumentTypeCurrency InstrumentType = "Currency"
	InstrumentTypeBond     InstrumentType = "Bond"
	InstrumentTypeEtf      InstrumentType = "Etf"
)

// BrokerAccountType 经纪账户类型
type BrokerAccountType string

const (
	BrokerAccountTypeTinkoff    BrokerAccountType = "Tinkoff"
	BrokerAccountTypeTinkoffIis BrokerAccountType = "TinkoffIis"
)

// MoneyAmount 金额
type MoneyAmount struct {
	Currency Currency        `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

// 响应状态
const (
	StatusOk    = "Ok"
	StatusError = "Error"
)

// Envelope 所有 REST 响应的外层结构
type Envelope struct {
	TrackingID string          `json:"trackingId"`
	Status     string          `json:"status"`
	Payload    json.RawMessage `json:"payload"`
}

// ErrorPayload Status=Error 时的 payload
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Empty 无内容的 payload
type Empty struct{}
