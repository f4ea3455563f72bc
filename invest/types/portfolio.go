package types

import "github.com/shopspring/decimal"

// PortfolioPosition 持仓
type PortfolioPosition struct {
	Figi                      string          `json:"figi"`
	Ticker                    string          `json:"ticker,omitempty"`
	Isin                      string          `json:"isin,omitempty"`
	InstrumentType            InstrumentType  `json:"instrumentType"`
	Balance                   decimal.Decimal `json:"balance"`
	Blocked                   decimal.Decimal `json:"blocked"`
	ExpectedYield             *MoneyAmount    `json:"expectedYield,omitempty"`
	Lots                      int             `json:"lots"`
	AveragePositionPrice      *MoneyAmount    `json:"averagePositionPrice,omitempty"`
	AveragePositionPriceNoNkd *MoneyAmount    `json:"averagePositionPriceNoNkd,omitempty"`
	Name                      string          `json:"name"`
}

// Portfolio 投资组合
type Portfolio struct {
	Positions []PortfolioPosition `json:"positions"`
}

// CurrencyPosition 币种余额
type CurrencyPosition struct {
	Currency Currency        `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Blocked  decimal.Decimal `json:"blocked"`
}

// Currencies 各币种余额
type Currencies struct {
	Currencies []CurrencyPosition `json:"currencies"`
}
