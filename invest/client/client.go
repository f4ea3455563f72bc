// Package client OpenAPI REST 客户端及各业务子上下文
//
// 所有带 accountID 参数的方法在 accountID 为空时使用默认经纪账户。
package client

import (
	"io/fs"
	"sync"
	"time"

	"github.com/betbot/investapi/invest/config"
	"github.com/betbot/investapi/invest/streaming"
	"github.com/betbot/investapi/pkg/logger"
	"github.com/betbot/investapi/pkg/ratelimit"
	"github.com/pkg/errors"
)

// bearerPrefix Authorization 头前缀
const bearerPrefix = "Bearer "

// Client OpenAPI 客户端
// 子上下文在构造时创建，每次访问返回同一个实例
type Client struct {
	config      *config.Config
	sandboxMode bool
	authToken   string

	transport *transport

	sandbox    *sandboxContext
	orders     *ordersContext
	portfolio  *portfolioContext
	market     *marketContext
	operations *operationsContext
	user       *userContext
	streaming  *streaming.Client

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	config     *config.Config
	configFS   fs.FS
	configName string
	timeout    time.Duration
	retryCount int
	limiter    *ratelimit.Manager
	streaming  *streaming.Config
}

// Option 客户端构造选项
type Option func(*options)

// WithConfig 使用给定配置，跳过内置配置文件
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithConfigFS 从 fsys 中的 name 读取配置
func WithConfigFS(fsys fs.FS, name string) Option {
	return func(o *options) {
		o.configFS = fsys
		o.configName = name
	}
}

// WithTimeout REST 请求超时
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetryCount GET 请求遇到 429/5xx 时的重试次数
func WithRetryCount(n int) Option {
	return func(o *options) { o.retryCount = n }
}

// WithRateLimiter 替换默认的分组限流器
func WithRateLimiter(m *ratelimit.Manager) Option {
	return func(o *options) { o.limiter = m }
}

// WithStreamingConfig 推送客户端的重连/缓冲配置
// URL、AuthToken、Parallelism 总是取自客户端配置
func WithStreamingConfig(cfg *streaming.Config) Option {
	return func(o *options) { o.streaming = cfg }
}

// NewClient 创建客户端
// sandbox 为 true 时所有 REST 请求发往沙盒地址
func NewClient(token string, sandbox bool, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	o := &options{retryCount: defaultRetryCount}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := resolveConfig(o)
	if err != nil {
		return nil, errors.Wrap(err, "无法读取内置配置")
	}

	authToken := bearerPrefix + token
	c := &Client{
		config:      cfg,
		sandboxMode: sandbox,
		authToken:   authToken,
	}

	c.transport = newTransport(transportConfig{
		host:       cfg.RESTHost(sandbox),
		authToken:  authToken,
		timeout:    o.timeout,
		retryCount: o.retryCount,
		limiter:    o.limiter,
	})

	c.sandbox = &sandboxContext{t: c.transport, enabled: sandbox}
	c.orders = &ordersContext{t: c.transport}
	c.portfolio = &portfolioContext{t: c.transport}
	c.market = newMarketContext(c.transport)
	c.operations = &operationsContext{t: c.transport}
	c.user = &userContext{t: c.transport}

	streamCfg := streaming.DefaultConfig()
	if o.streaming != nil {
		copied := *o.streaming
		streamCfg = &copied
	}
	streamCfg.URL = cfg.StreamingHost
	streamCfg.AuthToken = authToken
	streamCfg.Parallelism = cfg.StreamingParallelism
	c.streaming = streaming.NewClient(streamCfg)

	logger.WithField("component", "client").Infof("客户端已创建 (host=%s, sandbox=%v, streaming=%d)",
		cfg.RESTHost(sandbox), sandbox, cfg.StreamingParallelism)
	return c, nil
}

func resolveConfig(o *options) (*config.Config, error) {
	switch {
	case o.config != nil:
		cfg := *o.config
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	case o.configFS != nil:
		return config.LoadFS(o.configFS, o.configName)
	default:
		return config.Load()
	}
}

// Config 返回客户端配置的副本
func (c *Client) Config() config.Config {
	return *c.config
}

// IsSandboxMode 是否处于沙盒模式
func (c *Client) IsSandboxMode() bool {
	return c.sandboxMode
}

// AuthToken 返回 Authorization 头的值
func (c *Client) AuthToken() string {
	return c.authToken
}

func (c *Client) SandboxContext() SandboxContext {
	return c.sandbox
}

func (c *Client) OrdersContext() OrdersContext {
	return c.orders
}

func (c *Client) PortfolioContext() PortfolioContext {
	return c.portfolio
}

func (c *Client) MarketContext() MarketContext {
	return c.market
}

func (c *Client) OperationsContext() OperationsContext {
	return c.operations
}

func (c *Client) UserContext() UserContext {
	return c.user
}

func (c *Client) StreamingContext() StreamingContext {
	return c.streaming
}

// Close 关闭推送连接并释放 HTTP 连接
// 只有第一次调用会执行关闭，之后返回 nil
func (c *Client) Close() error {
	first := false
	c.closeOnce.Do(func() {
		first = true
		c.closeErr = c.streaming.Close()
		c.market.close()
		c.transport.close()
		logger.WithField("component", "client").Infof("客户端已关闭")
	})
	if !first {
		return nil
	}
	return c.closeErr
}
