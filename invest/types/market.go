package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandleResolution K 线周期
type CandleResolution string

const (
	CandleResolution1Min  CandleResolution = "1min"
	CandleResolution2Min  CandleResolution = "2min"
	CandleResolution3Min  CandleResolution = "3min"
	CandleResolution5Min  CandleResolution = "5min"
	CandleResolution10Min CandleResolution = "10min"
	CandleResolution15Min CandleResolution = "15min"
	CandleResolution30Min CandleResolution = "30min"
	CandleResolutionHour  CandleResolution = "hour"
	CandleResolutionDay   CandleResolution = "day"
	CandleResolutionWeek  CandleResolution = "week"
	CandleResolutionMonth CandleResolution = "month"
)

var validResolutions = map[CandleResolution]bool{
	CandleResolution1Min: true, CandleResolution2Min: true, CandleResolution3Min: true,
	CandleResolution5Min: true, CandleResolution10Min: true, CandleResolution15Min: true,
	CandleResolution30Min: true, CandleResolutionHour: true, CandleResolutionDay: true,
	CandleResolutionWeek: true, CandleResolutionMonth: true,
}

// Valid 是否为接口支持的周期
func (r CandleResolution) Valid() bool {
	return validResolutions[r]
}

// TradeStatus 交易状态
type TradeStatus string

const (
	TradeStatusNormalTrading TradeStatus = "NormalTrading"
	TradeStatusNotAvailable  TradeStatus = "NotAvailableForTrading"
)

// 订单簿深度范围
const (
	MinOrderbookDepth = 1
	MaxOrderbookDepth = 20
)

// MarketInstrument 市场金融工具
type MarketInstrument struct {
	Figi              string           `json:"figi"`
	Ticker            string           `json:"ticker"`
	Isin              string           `json:"isin,omitempty"`
	MinPriceIncrement *decimal.Decimal `json:"minPriceIncrement,omitempty"`
	Lot               int              `json:"lot"`
	MinQuantity       int              `json:"minQuantity,omitempty"`
	Currency          Currency         `json:"currency,omitempty"`
	Name              string           `json:"name"`
	Type              InstrumentType   `json:"type"`
}

// MarketInstrumentList 金融工具列表
type MarketInstrumentList struct {
	Total       int                `json:"total"`
	Instruments []MarketInstrument `json:"instruments"`
}

// SearchMarketInstrument 按 FIGI 查询的结果
type SearchMarketInstrument struct {
	Figi              string           `json:"figi"`
	Ticker            string           `json:"ticker"`
	Isin              string           `json:"isin,omitempty"`
	MinPriceIncrement *decimal.Decimal `json:"minPriceIncrement,omitempty"`
	Lot               int              `json:"lot"`
	Currency          Currency         `json:"currency,omitempty"`
	Name              string           `json:"name"`
	Type              InstrumentType   `json:"type"`
}

// OrderResponse 订单簿档位
type OrderResponse struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Orderbook 订单簿快照
type Orderbook struct {
	Figi              string           `json:"figi"`
	Depth             int              `json:"depth"`
	Bids              []OrderResponse  `json:"bids"`
	Asks              []OrderResponse  `json:"asks"`
	TradeStatus       TradeStatus      `json:"tradeStatus"`
	MinPriceIncrement decimal.Decimal  `json:"minPriceIncrement"`
	FaceValue         *decimal.Decimal `json:"faceValue,omitempty"`
	LastPrice         *decimal.Decimal `json:"lastPrice,omitempty"`
	ClosePrice        *decimal.Decimal `json:"closePrice,omitempty"`
	LimitUp           *decimal.Decimal `json:"limitUp,omitempty"`
	LimitDown         *decimal.Decimal `json:"limitDown,omitempty"`
}

// Candle K 线
type Candle struct {
	Figi     string           `json:"figi"`
	Interval CandleResolution `json:"interval"`
	O        decimal.Decimal  `json:"o"`
	C        decimal.Decimal  `json:"c"`
	H        decimal.Decimal  `json:"h"`
	L        decimal.Decimal  `json:"l"`
	V        int64            `json:"v"`
	Time     time.Time        `json:"time"`
}

// Candles K 线列表
type Candles struct {
	Figi     string           `json:"figi"`
	Interval CandleResolution `json:"interval"`
	Candles  []Candle         `json:"candles"`
}
