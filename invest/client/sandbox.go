package client

import (
	"context"
	"net/http"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/ratelimit"
	"github.com/shopspring/decimal"
)

// sandboxContext 沙盒接口，仅在沙盒模式下可用
type sandboxContext struct {
	t       *transport
	enabled bool
}

func (s *sandboxContext) do(ctx context.Context, path string, params map[string]string, body, out interface{}) error {
	if !s.enabled {
		return ErrSandboxDisabled
	}
	return s.t.do(ctx, request{
		group:  ratelimit.GroupSandbox,
		method: http.MethodPost,
		path:   path,
		params: params,
		body:   body,
	}, out)
}

// Register 注册沙盒账户
func (s *sandboxContext) Register(ctx context.Context, accountType types.BrokerAccountType) (*types.SandboxAccount, error) {
	var account types.SandboxAccount
	err := s.do(ctx, EndpointSandboxRegister, nil, types.SandboxRegisterRequest{BrokerAccountType: accountType}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// SetCurrencyBalance 设置币种余额
func (s *sandboxContext) SetCurrencyBalance(ctx context.Context, currency types.Currency, balance decimal.Decimal, accountID string) error {
	if currency == "" {
		return invalidArgument("currency 为空")
	}
	if balance.IsNegative() {
		return invalidArgument("balance %s 不能为负", balance)
	}
	return s.do(ctx, EndpointSandboxCurrencyBalance, accountParams(accountID),
		types.SandboxSetCurrencyBalanceRequest{Currency: currency, Balance: balance}, nil)
}

// SetPositionBalance 设置持仓数量
func (s *sandboxContext) SetPositionBalance(ctx context.Context, figi string, balance decimal.Decimal, accountID string) error {
	if figi == "" {
		return invalidArgument("figi 为空")
	}
	if balance.IsNegative() {
		return invalidArgument("balance %s 不能为负", balance)
	}
	return s.do(ctx, EndpointSandboxPositionBalance, accountParams(accountID),
		types.SandboxSetPositionBalanceRequest{Figi: figi, Balance: balance}, nil)
}

// Remove 删除沙盒账户
func (s *sandboxContext) Remove(ctx context.Context, accountID string) error {
	return s.do(ctx, EndpointSandboxRemove, accountParams(accountID), nil, nil)
}

// Clear 清空沙盒账户的持仓和余额
func (s *sandboxContext) Clear(ctx context.Context, accountID string) error {
	return s.do(ctx, EndpointSandboxClear, accountParams(accountID), nil, nil)
}

// accountParams 只携带 brokerAccountId 的查询参数
func accountParams(accountID string) map[string]string {
	return map[string]string{paramBrokerAccountID: accountID}
}
