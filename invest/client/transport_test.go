package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/betbot/investapi/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLimiter 统计 Wait 调用次数，从不阻塞
type countingLimiter struct {
	waits atomic.Int32
}

func (l *countingLimiter) Wait(context.Context) error {
	l.waits.Add(1)
	return nil
}

func (l *countingLimiter) Allow() bool       { return true }
func (l *countingLimiter) GetRemaining() int { return 1 }

func TestTransport_RetriesPassThroughLimiter(t *testing.T) {
	srv := newAPIServer(t)
	srv.handle(http.MethodGet, "/openapi/market/stocks", http.StatusServiceUnavailable, `unavailable`)

	limiter := &countingLimiter{}
	manager := ratelimit.NewManager()
	manager.Set(ratelimit.GroupMarket, limiter)

	tr := newTransport(transportConfig{
		host:         srv.URL + "/openapi/",
		authToken:    "Bearer " + testToken,
		retryCount:   2,
		retryWait:    time.Millisecond,
		retryMaxWait: 5 * time.Millisecond,
		limiter:      manager,
	})
	defer tr.close()

	err := tr.do(testContext(t), request{
		group:  ratelimit.GroupMarket,
		method: http.MethodGet,
		path:   EndpointMarketStocks,
	}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.HTTPStatus)
	assert.Equal(t, 3, srv.count(), "首次请求加两次重试")
	assert.EqualValues(t, 3, limiter.waits.Load(), "每次重试都应经过限流器")
}

func TestTransport_UnknownGroupUsesGeneralLimiter(t *testing.T) {
	srv := newAPIServer(t)
	srv.ok(http.MethodGet, "/openapi/user/accounts", `{"accounts":[]}`)

	general := &countingLimiter{}
	manager := ratelimit.NewManager()
	manager.Set(ratelimit.GroupGeneral, general)

	tr := newTransport(transportConfig{host: srv.URL + "/openapi/", limiter: manager})
	defer tr.close()

	require.NoError(t, tr.do(testContext(t), request{method: http.MethodGet, path: EndpointUserAccounts}, nil))
	assert.EqualValues(t, 1, general.waits.Load())
}
