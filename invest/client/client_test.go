package client

import (
	"testing"
	"testing/fstest"

	"github.com/betbot/investapi/invest/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_BundledConfig(t *testing.T) {
	c, err := NewClient("t-secret", false)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.SandboxContext())
	assert.NotNil(t, c.OrdersContext())
	assert.NotNil(t, c.PortfolioContext())
	assert.NotNil(t, c.MarketContext())
	assert.NotNil(t, c.OperationsContext())
	assert.NotNil(t, c.UserContext())
	assert.NotNil(t, c.StreamingContext())

	// 子上下文每次返回同一实例
	assert.Same(t, c.OrdersContext(), c.OrdersContext())
	assert.Same(t, c.StreamingContext(), c.StreamingContext())

	cfg := c.Config()
	assert.NotEmpty(t, cfg.Host)
	assert.Positive(t, cfg.StreamingParallelism)
}

func TestNewClient_AuthTokenAndSandbox(t *testing.T) {
	for _, token := range []string{"t-secret", " spaced token ", "Bearer already"} {
		for _, sandbox := range []bool{true, false} {
			c, err := NewClient(token, sandbox)
			require.NoError(t, err)
			assert.Equal(t, "Bearer "+token, c.AuthToken())
			assert.Equal(t, sandbox, c.IsSandboxMode())
			require.NoError(t, c.Close())
		}
	}
}

func TestNewClient_Errors(t *testing.T) {
	c, err := NewClient("", false)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrEmptyToken)

	c, err = NewClient("t", false, WithConfigFS(fstest.MapFS{}, "config.yaml"))
	assert.Nil(t, c)
	assert.ErrorIs(t, err, config.ErrConfigNotFound)

	fsys := fstest.MapFS{"config.yaml": {Data: []byte(`
invest.openapi.host: https://h/
invest.openapi.host-sandbox: https://s/
invest.openapi.streaming: wss://w/
invest.openapi.streaming-parallelism: many
`)}}
	c, err = NewClient("t", false, WithConfigFS(fsys, "config.yaml"))
	assert.Nil(t, c)
	assert.ErrorIs(t, err, config.ErrInvalidParallelism)

	c, err = NewClient("t", false, WithConfig(&config.Config{
		Host: "https://h/", SandboxHost: "https://s/", StreamingHost: "wss://w/", StreamingParallelism: 0,
	}))
	assert.Nil(t, c)
	assert.ErrorIs(t, err, config.ErrInvalidParallelism)

	c, err = NewClient("t", false, WithConfig(&config.Config{Host: "https://h/", StreamingParallelism: 1}))
	assert.Nil(t, c)
	assert.ErrorIs(t, err, config.ErrMissingKey)
}

func TestNewClient_ConfigFS(t *testing.T) {
	fsys := fstest.MapFS{"custom.yaml": {Data: []byte(`
invest.openapi.host: https://h/
invest.openapi.host-sandbox: https://s/
invest.openapi.streaming: wss://w/
invest.openapi.streaming-parallelism: "4"
`)}}
	c, err := NewClient("t", true, WithConfigFS(fsys, "custom.yaml"))
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "https://s/", c.Config().RESTHost(c.IsSandboxMode()))
	assert.Equal(t, 4, c.streaming.Parallelism())
}

func TestClient_CloseTwice(t *testing.T) {
	c, err := NewClient("t", false)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
