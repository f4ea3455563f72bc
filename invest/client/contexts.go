package client

import (
	"context"
	"io"
	"time"

	"github.com/betbot/investapi/invest/streaming"
	"github.com/betbot/investapi/invest/types"
	"github.com/shopspring/decimal"
)

// OpenAPI SDK 根接口：按业务分组的子上下文和生命周期管理
type OpenAPI interface {
	io.Closer

	IsSandboxMode() bool
	AuthToken() string

	SandboxContext() SandboxContext
	OrdersContext() OrdersContext
	PortfolioContext() PortfolioContext
	MarketContext() MarketContext
	OperationsContext() OperationsContext
	UserContext() UserContext
	StreamingContext() StreamingContext
}

// SandboxContext 沙盒账户管理
type SandboxContext interface {
	Register(ctx context.Context, accountType types.BrokerAccountType) (*types.SandboxAccount, error)
	SetCurrencyBalance(ctx context.Context, currency types.Currency, balance decimal.Decimal, accountID string) error
	SetPositionBalance(ctx context.Context, figi string, balance decimal.Decimal, accountID string) error
	Remove(ctx context.Context, accountID string) error
	Clear(ctx context.Context, accountID string) error
}

// OrdersContext 订单操作
type OrdersContext interface {
	GetOrders(ctx context.Context, accountID string) ([]types.Order, error)
	PlaceLimitOrder(ctx context.Context, figi string, req types.LimitOrderRequest, accountID string) (*types.PlacedOrder, error)
	PlaceMarketOrder(ctx context.Context, figi string, req types.MarketOrderRequest, accountID string) (*types.PlacedOrder, error)
	CancelOrder(ctx context.Context, orderID, accountID string) error
}

// PortfolioContext 持仓和余额
type PortfolioContext interface {
	GetPortfolio(ctx context.Context, accountID string) (*types.Portfolio, error)
	GetPortfolioCurrencies(ctx context.Context, accountID string) (*types.Currencies, error)
}

// MarketContext 行情和金融工具查询
type MarketContext interface {
	GetMarketStocks(ctx context.Context) (*types.MarketInstrumentList, error)
	GetMarketBonds(ctx context.Context) (*types.MarketInstrumentList, error)
	GetMarketEtfs(ctx context.Context) (*types.MarketInstrumentList, error)
	GetMarketCurrencies(ctx context.Context) (*types.MarketInstrumentList, error)
	GetMarketOrderbook(ctx context.Context, figi string, depth int) (*types.Orderbook, error)
	GetMarketCandles(ctx context.Context, figi string, from, to time.Time, interval types.CandleResolution) (*types.Candles, error)
	SearchMarketInstrumentByFigi(ctx context.Context, figi string) (*types.SearchMarketInstrument, error)
	SearchMarketInstrumentsByTicker(ctx context.Context, ticker string) (*types.MarketInstrumentList, error)
}

// OperationsContext 账户操作历史
type OperationsContext interface {
	GetOperations(ctx context.Context, from, to time.Time, figi, accountID string) (*types.Operations, error)
}

// UserContext 用户信息
type UserContext interface {
	GetAccounts(ctx context.Context) (*types.UserAccounts, error)
}

// StreamingContext 行情推送
type StreamingContext interface {
	io.Closer

	Start(ctx context.Context) error
	Events() <-chan streaming.Event
	Errors() <-chan error

	SubscribeCandle(figi string, interval types.CandleResolution) error
	UnsubscribeCandle(figi string, interval types.CandleResolution) error
	SubscribeOrderbook(figi string, depth int) error
	UnsubscribeOrderbook(figi string, depth int) error
	SubscribeInstrumentInfo(figi string) error
	UnsubscribeInstrumentInfo(figi string) error
}

var (
	_ OpenAPI          = (*Client)(nil)
	_ StreamingContext = (*streaming.Client)(nil)
)
