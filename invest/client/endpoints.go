package client

// API 端点常量
const (
	// Sandbox
	EndpointSandboxRegister        = "/sandbox/register"
	EndpointSandboxCurrencyBalance = "/sandbox/currencies/balance"
	EndpointSandboxPositionBalance = "/sandbox/positions/balance"
	EndpointSandboxRemove          = "/sandbox/remove"
	EndpointSandboxClear           = "/sandbox/clear"

	// Orders
	EndpointOrders      = "/orders"
	EndpointOrderLimit  = "/orders/limit-order"
	EndpointOrderMarket = "/orders/market-order"
	EndpointOrderCancel = "/orders/cancel"

	// Portfolio
	EndpointPortfolio           = "/portfolio"
	EndpointPortfolioCurrencies = "/portfolio/currencies"

	// Market
	EndpointMarketStocks         = "/market/stocks"
	EndpointMarketBonds          = "/market/bonds"
	EndpointMarketEtfs           = "/market/etfs"
	EndpointMarketCurrencies     = "/market/currencies"
	EndpointMarketOrderbook      = "/market/orderbook"
	EndpointMarketCandles        = "/market/candles"
	EndpointMarketSearchByFigi   = "/market/search/by-figi"
	EndpointMarketSearchByTicker = "/market/search/by-ticker"

	// Operations
	EndpointOperations = "/operations"

	// User
	EndpointUserAccounts = "/user/accounts"
)

// 查询参数
const (
	paramBrokerAccountID = "brokerAccountId"
	paramFigi            = "figi"
	paramTicker          = "ticker"
	paramOrderID         = "orderId"
	paramDepth           = "depth"
	paramFrom            = "from"
	paramTo              = "to"
	paramInterval        = "interval"
)
