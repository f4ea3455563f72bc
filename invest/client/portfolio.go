package client

import (
	"context"
	"net/http"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/ratelimit"
)

type portfolioContext struct {
	t *transport
}

// GetPortfolio 获取持仓
func (p *portfolioContext) GetPortfolio(ctx context.Context, accountID string) (*types.Portfolio, error) {
	var portfolio types.Portfolio
	if err := p.get(ctx, EndpointPortfolio, accountID, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// GetPortfolioCurrencies 获取各币种余额
func (p *portfolioContext) GetPortfolioCurrencies(ctx context.Context, accountID string) (*types.Currencies, error) {
	var currencies types.Currencies
	if err := p.get(ctx, EndpointPortfolioCurrencies, accountID, &currencies); err != nil {
		return nil, err
	}
	return &currencies, nil
}

func (p *portfolioContext) get(ctx context.Context, path, accountID string, out interface{}) error {
	return p.t.do(ctx, request{
		group:  ratelimit.GroupPortfolio,
		method: http.MethodGet,
		path:   path,
		params: accountParams(accountID),
	}, out)
}
