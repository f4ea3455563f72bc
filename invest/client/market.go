package client

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/cache"
	"github.com/betbot/investapi/pkg/ratelimit"
)

const (
	// 金融工具元数据变化很少
	instrumentCacheTTL     = 10 * time.Minute
	instrumentCacheCleanup = time.Minute
)

type marketContext struct {
	t           *transport
	instruments *cache.InMemoryCache[string, types.SearchMarketInstrument]
}

func newMarketContext(t *transport) *marketContext {
	return &marketContext{
		t:           t,
		instruments: cache.NewInMemoryCache[string, types.SearchMarketInstrument](instrumentCacheTTL, instrumentCacheCleanup),
	}
}

func (m *marketContext) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	return m.t.do(ctx, request{
		group:  ratelimit.GroupMarket,
		method: http.MethodGet,
		path:   path,
		params: params,
	}, out)
}

func (m *marketContext) list(ctx context.Context, path string, params map[string]string) (*types.MarketInstrumentList, error) {
	var list types.MarketInstrumentList
	if err := m.get(ctx, path, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetMarketStocks 获取股票列表
func (m *marketContext) GetMarketStocks(ctx context.Context) (*types.MarketInstrumentList, error) {
	return m.list(ctx, EndpointMarketStocks, nil)
}

// GetMarketBonds 获取债券列表
func (m *marketContext) GetMarketBonds(ctx context.Context) (*types.MarketInstrumentList, error) {
	return m.list(ctx, EndpointMarketBonds, nil)
}

// GetMarketEtfs 获取 ETF 列表
func (m *marketContext) GetMarketEtfs(ctx context.Context) (*types.MarketInstrumentList, error) {
	return m.list(ctx, EndpointMarketEtfs, nil)
}

// GetMarketCurrencies 获取外汇列表
func (m *marketContext) GetMarketCurrencies(ctx context.Context) (*types.MarketInstrumentList, error) {
	return m.list(ctx, EndpointMarketCurrencies, nil)
}

// GetMarketOrderbook 获取订单簿快照
func (m *marketContext) GetMarketOrderbook(ctx context.Context, figi string, depth int) (*types.Orderbook, error) {
	if figi == "" {
		return nil, invalidArgument("figi 为空")
	}
	if depth < types.MinOrderbookDepth || depth > types.MaxOrderbookDepth {
		return nil, invalidArgument("depth %d 超出范围 [%d, %d]", depth, types.MinOrderbookDepth, types.MaxOrderbookDepth)
	}

	var book types.Orderbook
	err := m.get(ctx, EndpointMarketOrderbook, map[string]string{
		paramFigi:  figi,
		paramDepth: strconv.Itoa(depth),
	}, &book)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetMarketCandles 获取 [from, to) 区间的 K 线
func (m *marketContext) GetMarketCandles(ctx context.Context, figi string, from, to time.Time, interval types.CandleResolution) (*types.Candles, error) {
	if figi == "" {
		return nil, invalidArgument("figi 为空")
	}
	if !from.Before(to) {
		return nil, invalidArgument("from %s 必须早于 to %s", from, to)
	}
	if !interval.Valid() {
		return nil, invalidArgument("interval %q", interval)
	}

	var candles types.Candles
	err := m.get(ctx, EndpointMarketCandles, map[string]string{
		paramFigi:     figi,
		paramFrom:     formatTime(from),
		paramTo:       formatTime(to),
		paramInterval: string(interval),
	}, &candles)
	if err != nil {
		return nil, err
	}
	return &candles, nil
}

// SearchMarketInstrumentByFigi 按 FIGI 查询，结果缓存 instrumentCacheTTL
func (m *marketContext) SearchMarketInstrumentByFigi(ctx context.Context, figi string) (*types.SearchMarketInstrument, error) {
	if figi == "" {
		return nil, invalidArgument("figi 为空")
	}
	if cached, ok := m.instruments.Get(figi); ok {
		return &cached, nil
	}

	var instrument types.SearchMarketInstrument
	if err := m.get(ctx, EndpointMarketSearchByFigi, map[string]string{paramFigi: figi}, &instrument); err != nil {
		return nil, err
	}
	m.instruments.Set(figi, instrument, 0)
	return &instrument, nil
}

// SearchMarketInstrumentsByTicker 按代码查询，可能返回多个交易所的同名工具
func (m *marketContext) SearchMarketInstrumentsByTicker(ctx context.Context, ticker string) (*types.MarketInstrumentList, error) {
	if ticker == "" {
		return nil, invalidArgument("ticker 为空")
	}
	return m.list(ctx, EndpointMarketSearchByTicker, map[string]string{paramTicker: ticker})
}

func (m *marketContext) close() {
	m.instruments.Close()
}
