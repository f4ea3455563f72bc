package client

import (
	"context"
	"net/http"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/ratelimit"
)

type userContext struct {
	t *transport
}

// GetAccounts 获取用户的经纪账户
func (u *userContext) GetAccounts(ctx context.Context) (*types.UserAccounts, error) {
	var accounts types.UserAccounts
	err := u.t.do(ctx, request{
		group:  ratelimit.GroupUser,
		method: http.MethodGet,
		path:   EndpointUserAccounts,
	}, &accounts)
	if err != nil {
		return nil, err
	}
	return &accounts, nil
}
