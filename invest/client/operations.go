package client

import (
	"context"
	"net/http"
	"time"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/ratelimit"
)

type operationsContext struct {
	t *transport
}

// GetOperations 获取 [from, to) 区间内的账户操作，figi 为空时返回全部
func (o *operationsContext) GetOperations(ctx context.Context, from, to time.Time, figi, accountID string) (*types.Operations, error) {
	if !from.Before(to) {
		return nil, invalidArgument("from %s 必须早于 to %s", from, to)
	}

	var operations types.Operations
	err := o.t.do(ctx, request{
		group:  ratelimit.GroupOperations,
		method: http.MethodGet,
		path:   EndpointOperations,
		params: map[string]string{
			paramFrom:            formatTime(from),
			paramTo:              formatTime(to),
			paramFigi:            figi,
			paramBrokerAccountID: accountID,
		},
	}, &operations)
	if err != nil {
		return nil, err
	}
	return &operations, nil
}

// formatTime 接口要求 RFC3339 带时区
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
