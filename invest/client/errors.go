package client

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrEmptyToken      = errors.New("token 不能为空")
	ErrSandboxDisabled = errors.New("客户端未处于沙盒模式")
	ErrUnauthorized    = errors.New("token 无效或已过期")
	ErrRateLimited     = errors.New("请求过于频繁")
	ErrInvalidArgument = errors.New("参数无效")
)

// APIError 服务端返回的错误（Status=Error 或非 2xx 状态码）
type APIError struct {
	HTTPStatus int
	TrackingID string
	Status     string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.HTTPStatus)
	}
	if e.Code != "" {
		return fmt.Sprintf("API 错误 %d [%s]: %s (trackingId=%s)", e.HTTPStatus, e.Code, msg, e.TrackingID)
	}
	return fmt.Sprintf("API 错误 %d: %s (trackingId=%s)", e.HTTPStatus, msg, e.TrackingID)
}

// Is 让 errors.Is(err, ErrUnauthorized) / errors.Is(err, ErrRateLimited) 按状态码匹配
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.HTTPStatus == http.StatusUnauthorized
	case ErrRateLimited:
		return e.HTTPStatus == http.StatusTooManyRequests
	}
	return false
}

func invalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
