// Package config 加载 SDK 内置的接口地址配置
package config

import (
	"embed"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile 内置配置文件名
const DefaultFile = "config.yaml"

// 配置键
const (
	KeyHost                 = "invest.openapi.host"
	KeySandboxHost          = "invest.openapi.host-sandbox"
	KeyStreamingHost        = "invest.openapi.streaming"
	KeyStreamingParallelism = "invest.openapi.streaming-parallelism"
)

//go:embed config.yaml
var bundled embed.FS

var (
	ErrConfigNotFound     = errors.New("配置文件不存在")
	ErrMissingKey         = errors.New("缺少配置项")
	ErrInvalidParallelism = errors.New("streaming-parallelism 必须是正整数")
)

// Config 客户端配置，加载后只读
type Config struct {
	Host                 string // 生产环境 REST 地址
	SandboxHost          string // 沙盒 REST 地址
	StreamingHost        string // 行情推送 WebSocket 地址
	StreamingParallelism int    // 推送连接数
}

// envOverrides 配置键 -> 环境变量
var envOverrides = []struct{ key, env string }{
	{KeyHost, "INVEST_OPENAPI_HOST"},
	{KeySandboxHost, "INVEST_OPENAPI_HOST_SANDBOX"},
	{KeyStreamingHost, "INVEST_OPENAPI_STREAMING"},
	{KeyStreamingParallelism, "INVEST_OPENAPI_STREAMING_PARALLELISM"},
}

// Load 读取内置配置
func Load() (*Config, error) {
	return LoadFS(bundled, DefaultFile)
}

// LoadFS 从 fsys 读取名为 name 的配置
func LoadFS(fsys fs.FS, name string) (*Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(ErrConfigNotFound, name)
		}
		return nil, errors.Wrapf(err, "读取配置 %s 失败", name)
	}
	return Parse(data)
}

// Parse 解析扁平的 key: value 配置，环境变量优先
func Parse(data []byte) (*Config, error) {
	props := make(map[string]string)
	if err := yaml.Unmarshal(data, &props); err != nil {
		return nil, errors.Wrap(err, "解析配置失败")
	}

	for _, o := range envOverrides {
		if v := os.Getenv(o.env); v != "" {
			props[o.key] = v
		}
	}

	get := func(key string) (string, error) {
		v := strings.TrimSpace(props[key])
		if v == "" {
			return "", errors.Wrap(ErrMissingKey, key)
		}
		return v, nil
	}

	raw, err := get(KeyStreamingParallelism)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidParallelism, "%q", raw)
	}

	cfg := &Config{
		Host:                 strings.TrimSpace(props[KeyHost]),
		SandboxHost:          strings.TrimSpace(props[KeySandboxHost]),
		StreamingHost:        strings.TrimSpace(props[KeyStreamingHost]),
		StreamingParallelism: n,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查所有地址已填写且推送连接数为正
func (c Config) Validate() error {
	for _, f := range []struct{ key, value string }{
		{KeyHost, c.Host},
		{KeySandboxHost, c.SandboxHost},
		{KeyStreamingHost, c.StreamingHost},
	} {
		if strings.TrimSpace(f.value) == "" {
			return errors.Wrap(ErrMissingKey, f.key)
		}
	}
	if c.StreamingParallelism <= 0 {
		return errors.Wrapf(ErrInvalidParallelism, "%d", c.StreamingParallelism)
	}
	return nil
}

// RESTHost 根据沙盒模式选择 REST 地址
func (c Config) RESTHost(sandbox bool) string {
	if sandbox {
		return c.SandboxHost
	}
	return c.Host
}
