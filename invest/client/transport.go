package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/logger"
	"github.com/betbot/investapi/pkg/ratelimit"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRetryCount    = 3
	defaultRetryWait     = 1 * time.Second
	defaultRetryMaxWait  = 10 * time.Second
	defaultRateLimitWait = 10 * time.Second
	userAgent            = "investapi-go"
)

// transport REST 请求封装：鉴权头、限流、重试和响应外层解析
type transport struct {
	client  *resty.Client
	limiter *ratelimit.Manager
}

type transportConfig struct {
	host         string
	authToken    string
	timeout      time.Duration
	retryCount   int
	retryWait    time.Duration
	retryMaxWait time.Duration
	limiter      *ratelimit.Manager
}

// limiterGroupKey 请求所属限流分组在 context 中的键
type limiterGroupKey struct{}

func newTransport(cfg transportConfig) *transport {
	if cfg.timeout <= 0 {
		cfg.timeout = defaultTimeout
	}
	if cfg.limiter == nil {
		cfg.limiter = ratelimit.NewManager()
	}
	if cfg.retryWait <= 0 {
		cfg.retryWait = defaultRetryWait
	}
	if cfg.retryMaxWait <= 0 {
		cfg.retryMaxWait = defaultRetryMaxWait
	}

	t := &transport{limiter: cfg.limiter}

	// resty 会自动从环境变量读取代理配置（HTTP_PROXY, HTTPS_PROXY）
	t.client = resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.host, "/")).
		SetTimeout(cfg.timeout).
		SetHeader("Authorization", cfg.authToken).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(cfg.retryCount).
		SetRetryWaitTime(cfg.retryWait).
		SetRetryMaxWaitTime(cfg.retryMaxWait).
		AddRetryCondition(retryCondition).
		SetRetryAfter(retryAfter).
		OnBeforeRequest(t.waitLimiter)

	return t
}

// waitLimiter 每次发送（包括重试）前占用一个限流名额
func (t *transport) waitLimiter(_ *resty.Client, r *resty.Request) error {
	group, _ := r.Context().Value(limiterGroupKey{}).(string)
	if err := t.limiter.Wait(r.Context(), group); err != nil {
		return errors.Wrapf(err, "%s %s 限流等待", r.Method, r.URL)
	}
	return nil
}

// retryCondition 只重试 GET 的 429/5xx，下单等写操作不重试
func retryCondition(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// retryAfter 429 时优先使用 Retry-After 头
func retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	if resp != nil && resp.StatusCode() == http.StatusTooManyRequests {
		if v := resp.Header().Get("Retry-After"); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
				return time.Duration(seconds) * time.Second, nil
			}
		}
		return defaultRateLimitWait, nil
	}
	return 0, nil
}

// request 单次请求参数
type request struct {
	group  string
	method string
	path   string
	params map[string]string
	body   interface{}
}

// do 发送请求并把 payload 解析到 out（out 可为 nil）
func (t *transport) do(ctx context.Context, req request, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := t.client.R().SetContext(context.WithValue(ctx, limiterGroupKey{}, req.group))
	for k, v := range req.params {
		if v != "" {
			r.SetQueryParam(k, v)
		}
	}
	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}

	start := time.Now()
	resp, err := r.Execute(req.method, req.path)
	if err != nil {
		return errors.Wrapf(err, "%s %s 请求失败", req.method, req.path)
	}

	var (
		env       types.Envelope
		decodeErr error
	)
	if body := resp.Body(); len(body) > 0 {
		decodeErr = json.Unmarshal(body, &env)
	}

	logger.WithFields(logrus.Fields{
		"component":  "transport",
		"method":     req.method,
		"path":       req.path,
		"status":     resp.StatusCode(),
		"trackingId": env.TrackingID,
		"elapsed":    time.Since(start),
	}).Debug("request done")

	if !resp.IsSuccess() || env.Status == types.StatusError {
		return newAPIError(resp.StatusCode(), env, resp.Body())
	}
	if decodeErr != nil {
		return errors.Wrapf(decodeErr, "%s %s 解析响应失败", req.method, req.path)
	}
	if out != nil && len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, out); err != nil {
			return errors.Wrapf(err, "%s %s 解析 payload 失败", req.method, req.path)
		}
	}
	return nil
}

func newAPIError(status int, env types.Envelope, body []byte) *APIError {
	apiErr := &APIError{
		HTTPStatus: status,
		TrackingID: env.TrackingID,
		Status:     env.Status,
	}
	var payload types.ErrorPayload
	if len(env.Payload) > 0 && json.Unmarshal(env.Payload, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	if apiErr.Message == "" && env.Status == "" && len(body) > 0 {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		apiErr.Message = msg
	}
	return apiErr
}

// close 释放空闲连接
func (t *transport) close() {
	if hc := t.client.GetClient(); hc != nil {
		hc.CloseIdleConnections()
	}
}
