// Package streaming 提供行情推送 WebSocket 客户端
// 按 FIGI 把订阅分散到多条连接上，单个 FIGI 的事件总是来自同一条连接
package streaming

import (
	"encoding/json"
	"time"

	"github.com/betbot/investapi/invest/types"
	"github.com/shopspring/decimal"
)

const (
	defaultParallelism       = 1
	defaultReconnectDelay    = 2 * time.Second
	defaultMaxReconnectDelay = 30 * time.Second
	defaultPingInterval      = 15 * time.Second
	defaultHandshakeTimeout  = 10 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultEventBufferSize   = 1000
	defaultErrorBufferSize   = 100
	defaultDialRetries       = 3
	defaultStopTimeout       = 5 * time.Second
)

// EventType 推送事件类型
type EventType string

const (
	EventCandle         EventType = "candle"
	EventOrderbook      EventType = "orderbook"
	EventInstrumentInfo EventType = "instrument_info"
	EventError          EventType = "error"
)

// 请求事件名
const (
	actionCandleSubscribe           = "candle:subscribe"
	actionCandleUnsubscribe         = "candle:unsubscribe"
	actionOrderbookSubscribe        = "orderbook:subscribe"
	actionOrderbookUnsubscribe      = "orderbook:unsubscribe"
	actionInstrumentInfoSubscribe   = "instrument_info:subscribe"
	actionInstrumentInfoUnsubscribe = "instrument_info:unsubscribe"
)

// Request 订阅/取消订阅请求
type Request struct {
	Event     string                 `json:"event"`
	Figi      string                 `json:"figi"`
	Interval  types.CandleResolution `json:"interval,omitempty"`
	Depth     int                    `json:"depth,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// Event 推送事件，具体类型为 *CandleEvent / *OrderbookEvent / *InstrumentInfoEvent / *ErrorEvent
type Event interface {
	EventType() EventType
}

// CandleEvent K 线推送
type CandleEvent struct {
	EventTime time.Time
	types.Candle
}

func (*CandleEvent) EventType() EventType { return EventCandle }

// OrderbookEvent 订单簿推送，每档为 [价格, 数量]
type OrderbookEvent struct {
	EventTime time.Time            `json:"-"`
	Figi      string               `json:"figi"`
	Depth     int                  `json:"depth"`
	Bids      [][2]decimal.Decimal `json:"bids"`
	Asks      [][2]decimal.Decimal `json:"asks"`
}

func (*OrderbookEvent) EventType() EventType { return EventOrderbook }

// InstrumentInfoEvent 金融工具交易状态推送
type InstrumentInfoEvent struct {
	EventTime         time.Time         `json:"-"`
	Figi              string            `json:"figi"`
	TradeStatus       types.TradeStatus `json:"trade_status"`
	MinPriceIncrement decimal.Decimal   `json:"min_price_increment"`
	Lot               int               `json:"lot"`
	AccruedInterest   *decimal.Decimal  `json:"accrued_interest,omitempty"`
	LimitUp           *decimal.Decimal  `json:"limit_up,omitempty"`
	LimitDown         *decimal.Decimal  `json:"limit_down,omitempty"`
}

func (*InstrumentInfoEvent) EventType() EventType { return EventInstrumentInfo }

// ErrorEvent 服务端对请求的错误回复
type ErrorEvent struct {
	EventTime time.Time `json:"-"`
	Error     string    `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

func (*ErrorEvent) EventType() EventType { return EventError }

// rawEvent 服务端消息外层结构
type rawEvent struct {
	Event   EventType       `json:"event"`
	Time    time.Time       `json:"time"`
	Payload json.RawMessage `json:"payload"`
}

// Config 推送客户端配置
type Config struct {
	URL         string // WebSocket 地址
	AuthToken   string // 完整的 Authorization 头，例如 "Bearer xxx"
	Parallelism int    // 连接数

	// 重连设置
	ReconnectEnabled     bool
	ReconnectDelay       time.Duration // 第 n 次重连等待 n*ReconnectDelay
	MaxReconnectDelay    time.Duration
	MaxReconnectAttempts int // 连续失败上限，0 表示不限

	PingInterval     time.Duration
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	DialRetries      int // Start 时每条连接的拨号次数

	EventBufferSize int
	ErrorBufferSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Parallelism:          defaultParallelism,
		ReconnectEnabled:     true,
		ReconnectDelay:       defaultReconnectDelay,
		MaxReconnectDelay:    defaultMaxReconnectDelay,
		MaxReconnectAttempts: 10,
		PingInterval:         defaultPingInterval,
		HandshakeTimeout:     defaultHandshakeTimeout,
		WriteTimeout:         defaultWriteTimeout,
		DialRetries:          defaultDialRetries,
		EventBufferSize:      defaultEventBufferSize,
		ErrorBufferSize:      defaultErrorBufferSize,
	}
}

// withDefaults 填充零值字段
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Parallelism <= 0 {
		c.Parallelism = d.Parallelism
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = d.ReconnectDelay
	}
	if c.MaxReconnectDelay <= 0 {
		c.MaxReconnectDelay = d.MaxReconnectDelay
	}
	if c.PingInterval <= 0 {
		c.PingInterval = d.PingInterval
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = d.HandshakeTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.DialRetries <= 0 {
		c.DialRetries = d.DialRetries
	}
	if c.EventBufferSize <= 0 {
		c.EventBufferSize = d.EventBufferSize
	}
	if c.ErrorBufferSize <= 0 {
		c.ErrorBufferSize = d.ErrorBufferSize
	}
	return c
}
