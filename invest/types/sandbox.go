package types

import "github.com/shopspring/decimal"

// SandboxRegisterRequest 注册沙盒账户
type SandboxRegisterRequest struct {
	BrokerAccountType BrokerAccountType `json:"brokerAccountType,omitempty"`
}

// SandboxAccount 沙盒账户
type SandboxAccount struct {
	BrokerAccountType BrokerAccountType `json:"brokerAccountType"`
	BrokerAccountID   string            `json:"brokerAccountId"`
}

// SandboxSetCurrencyBalanceRequest 设置沙盒币种余额
type SandboxSetCurrencyBalanceRequest struct {
	Currency Currency        `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// SandboxSetPositionBalanceRequest 设置沙盒持仓数量
type SandboxSetPositionBalanceRequest struct {
	Figi    string          `json:"figi"`
	Balance decimal.Decimal `json:"balance"`
}
