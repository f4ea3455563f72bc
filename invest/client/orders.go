package client

import (
	"context"
	"net/http"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/ratelimit"
)

type ordersContext struct {
	t *transport
}

// GetOrders 获取活跃订单
func (o *ordersContext) GetOrders(ctx context.Context, accountID string) ([]types.Order, error) {
	var orders []types.Order
	err := o.t.do(ctx, request{
		group:  ratelimit.GroupOrders,
		method: http.MethodGet,
		path:   EndpointOrders,
		params: accountParams(accountID),
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceLimitOrder 下限价单
func (o *ordersContext) PlaceLimitOrder(ctx context.Context, figi string, req types.LimitOrderRequest, accountID string) (*types.PlacedOrder, error) {
	if err := validateOrder(figi, req.Lots, req.Operation); err != nil {
		return nil, err
	}
	if !req.Price.IsPositive() {
		return nil, invalidArgument("price %s 必须大于 0", req.Price)
	}
	return o.place(ctx, EndpointOrderLimit, figi, req, accountID)
}

// PlaceMarketOrder 下市价单
func (o *ordersContext) PlaceMarketOrder(ctx context.Context, figi string, req types.MarketOrderRequest, accountID string) (*types.PlacedOrder, error) {
	if err := validateOrder(figi, req.Lots, req.Operation); err != nil {
		return nil, err
	}
	return o.place(ctx, EndpointOrderMarket, figi, req, accountID)
}

func (o *ordersContext) place(ctx context.Context, path, figi string, body interface{}, accountID string) (*types.PlacedOrder, error) {
	var placed types.PlacedOrder
	err := o.t.do(ctx, request{
		group:  ratelimit.GroupOrders,
		method: http.MethodPost,
		path:   path,
		params: map[string]string{paramFigi: figi, paramBrokerAccountID: accountID},
		body:   body,
	}, &placed)
	if err != nil {
		return nil, err
	}
	return &placed, nil
}

// CancelOrder 撤单
func (o *ordersContext) CancelOrder(ctx context.Context, orderID, accountID string) error {
	if orderID == "" {
		return invalidArgument("orderId 为空")
	}
	return o.t.do(ctx, request{
		group:  ratelimit.GroupOrders,
		method: http.MethodPost,
		path:   EndpointOrderCancel,
		params: map[string]string{paramOrderID: orderID, paramBrokerAccountID: accountID},
	}, nil)
}

func validateOrder(figi string, lots int, op types.OperationType) error {
	if figi == "" {
		return invalidArgument("figi 为空")
	}
	if lots <= 0 {
		return invalidArgument("lots %d 必须大于 0", lots)
	}
	if !op.Valid() {
		return invalidArgument("operation %q", op)
	}
	return nil
}
