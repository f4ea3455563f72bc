package streaming

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrAlreadyRunning = errors.New("推送客户端已在运行")
	ErrClosed         = errors.New("推送客户端已关闭")
	ErrNotConnected   = errors.New("未连接")
	ErrInvalidRequest = errors.New("无效的订阅请求")
)

// Client 行情推送客户端
// 持有 Parallelism 条独立连接，订阅按 FIGI 哈希固定到其中一条
type Client struct {
	config Config
	shards []*shard

	events chan Event
	errs   chan error

	stateMu sync.Mutex
	running bool
	closed  bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewClient 创建推送客户端，cfg 为 nil 时使用默认配置
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	conf := cfg.withDefaults()

	c := &Client{
		config: conf,
		events: make(chan Event, conf.EventBufferSize),
		errs:   make(chan error, conf.ErrorBufferSize),
	}
	c.shards = make([]*shard, conf.Parallelism)
	for i := range c.shards {
		c.shards[i] = &shard{id: i, client: c, subs: make(map[string]Request)}
	}
	return c
}

// Start 建立所有连接并开始读取
// Start 之前记录的订阅会在连接建立后发送
func (c *Client) Start(ctx context.Context) error {
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return ErrClosed
	}
	if c.running {
		c.stateMu.Unlock()
		return ErrAlreadyRunning
	}
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.running = true
	c.cancel = cancel
	c.stateMu.Unlock()

	for _, s := range c.shards {
		if err := s.dial(runCtx, c.config.DialRetries); err != nil {
			cancel()
			c.closeShards(false)
			c.stateMu.Lock()
			c.running = false
			closed := c.closed
			c.stateMu.Unlock()
			if closed {
				return ErrClosed
			}
			return errors.Wrapf(err, "连接 %d 初始化失败", s.id)
		}
	}

	// 拨号期间可能已被 Close，此时新连接由这里关闭
	// wg.Add 与 closed 检查须在同一临界区
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		cancel()
		c.closeShards(false)
		return ErrClosed
	}
	c.wg.Add(2 * len(c.shards))
	c.stateMu.Unlock()

	for _, s := range c.shards {
		if err := s.replay(); err != nil {
			s.log().Warnf("发送订阅失败: %v", err)
		}
		go s.readLoop(runCtx)
		go s.pingLoop(runCtx)
	}

	logger.WithField("component", "streaming").Infof("已连接 %s (%d 条连接)", c.config.URL, len(c.shards))
	return nil
}

// Close 关闭所有连接并等待读取循环退出，可重复调用
// 正常退出后 Events 通道会被关闭
func (c *Client) Close() error {
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return nil
	}
	c.closed = true
	c.running = false
	cancel := c.cancel
	c.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.closeShards(true)

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		close(c.events)
		return nil
	case <-time.After(defaultStopTimeout):
		return errors.New("等待推送连接关闭超时")
	}
}

func (c *Client) closeShards(graceful bool) {
	for _, s := range c.shards {
		s.closeConn(graceful)
	}
}

// Events 返回事件通道
func (c *Client) Events() <-chan Event {
	return c.events
}

// Errors 返回错误通道
func (c *Client) Errors() <-chan error {
	return c.errs
}

// IsRunning 是否已启动且未关闭
func (c *Client) IsRunning() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.running
}

// Parallelism 连接数
func (c *Client) Parallelism() int {
	return len(c.shards)
}

// SubscriptionCount 返回所有连接上的订阅总数
func (c *Client) SubscriptionCount() int {
	n := 0
	for _, s := range c.shards {
		s.subMu.RLock()
		n += len(s.subs)
		s.subMu.RUnlock()
	}
	return n
}

// ShardFor 返回 figi 所在的连接序号
func (c *Client) ShardFor(figi string) int {
	h := fnv.New32a()
	h.Write([]byte(figi))
	return int(h.Sum32() % uint32(len(c.shards)))
}

// SubscribeCandle 订阅 K 线
func (c *Client) SubscribeCandle(figi string, interval types.CandleResolution) error {
	if !interval.Valid() {
		return errors.Wrapf(ErrInvalidRequest, "interval %q", interval)
	}
	return c.subscribe(candleKey(figi, interval), Request{Event: actionCandleSubscribe, Figi: figi, Interval: interval})
}

// UnsubscribeCandle 取消订阅 K 线
func (c *Client) UnsubscribeCandle(figi string, interval types.CandleResolution) error {
	return c.unsubscribe(candleKey(figi, interval), Request{Event: actionCandleUnsubscribe, Figi: figi, Interval: interval})
}

// SubscribeOrderbook 订阅订单簿，depth 取值 1..20
func (c *Client) SubscribeOrderbook(figi string, depth int) error {
	if depth < types.MinOrderbookDepth || depth > types.MaxOrderbookDepth {
		return errors.Wrapf(ErrInvalidRequest, "depth %d", depth)
	}
	return c.subscribe(orderbookKey(figi, depth), Request{Event: actionOrderbookSubscribe, Figi: figi, Depth: depth})
}

// UnsubscribeOrderbook 取消订阅订单簿
func (c *Client) UnsubscribeOrderbook(figi string, depth int) error {
	return c.unsubscribe(orderbookKey(figi, depth), Request{Event: actionOrderbookUnsubscribe, Figi: figi, Depth: depth})
}

// SubscribeInstrumentInfo 订阅交易状态
func (c *Client) SubscribeInstrumentInfo(figi string) error {
	return c.subscribe(instrumentInfoKey(figi), Request{Event: actionInstrumentInfoSubscribe, Figi: figi})
}

// UnsubscribeInstrumentInfo 取消订阅交易状态
func (c *Client) UnsubscribeInstrumentInfo(figi string) error {
	return c.unsubscribe(instrumentInfoKey(figi), Request{Event: actionInstrumentInfoUnsubscribe, Figi: figi})
}

func candleKey(figi string, interval types.CandleResolution) string {
	return "candle:" + figi + ":" + string(interval)
}

func orderbookKey(figi string, depth int) string {
	return "orderbook:" + figi + ":" + strconv.Itoa(depth)
}

func instrumentInfoKey(figi string) string {
	return "instrument_info:" + figi
}

func (c *Client) isClosed() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.closed
}

// subscribe 记录订阅并在已连接时立即发送
func (c *Client) subscribe(key string, req Request) error {
	if req.Figi == "" {
		return errors.Wrap(ErrInvalidRequest, "figi 为空")
	}
	if c.isClosed() {
		return ErrClosed
	}
	req.RequestID = uuid.NewString()

	s := c.shards[c.ShardFor(req.Figi)]
	s.subMu.Lock()
	s.subs[key] = req
	s.subMu.Unlock()

	if err := s.send(req); err != nil && !errors.Is(err, ErrNotConnected) {
		return errors.Wrapf(err, "发送 %s 失败", req.Event)
	}
	return nil
}

// unsubscribe 删除订阅，只有已订阅时才发送取消请求
func (c *Client) unsubscribe(key string, req Request) error {
	if req.Figi == "" {
		return errors.Wrap(ErrInvalidRequest, "figi 为空")
	}
	if c.isClosed() {
		return ErrClosed
	}

	s := c.shards[c.ShardFor(req.Figi)]
	s.subMu.Lock()
	_, ok := s.subs[key]
	delete(s.subs, key)
	s.subMu.Unlock()
	if !ok {
		return nil
	}

	req.RequestID = uuid.NewString()
	if err := s.send(req); err != nil && !errors.Is(err, ErrNotConnected) {
		return errors.Wrapf(err, "发送 %s 失败", req.Event)
	}
	return nil
}

// reportError 非阻塞地写入错误通道
func (c *Client) reportError(err error) {
	select {
	case c.errs <- err:
	default:
	}
}

// handleMessage 解析服务端消息并投递
func (c *Client) handleMessage(data []byte) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		c.reportError(errors.Wrapf(err, "解析消息失败，数据: %s", truncate(data, 100)))
		return
	}

	ev, err := decodeEvent(raw)
	if err != nil {
		c.reportError(err)
		return
	}

	select {
	case c.events <- ev:
	default:
		c.reportError(errors.Errorf("事件通道已满，丢弃 %s 事件", raw.Event))
	}
}

func decodeEvent(raw rawEvent) (Event, error) {
	var (
		ev  Event
		err error
	)
	switch raw.Event {
	case EventCandle:
		e := &CandleEvent{EventTime: raw.Time}
		err = json.Unmarshal(raw.Payload, &e.Candle)
		ev = e
	case EventOrderbook:
		e := &OrderbookEvent{}
		err = json.Unmarshal(raw.Payload, e)
		e.EventTime = raw.Time
		ev = e
	case EventInstrumentInfo:
		e := &InstrumentInfoEvent{}
		err = json.Unmarshal(raw.Payload, e)
		e.EventTime = raw.Time
		ev = e
	case EventError:
		e := &ErrorEvent{}
		err = json.Unmarshal(raw.Payload, e)
		e.EventTime = raw.Time
		ev = e
	default:
		return nil, errors.Errorf("未知事件类型: %q", raw.Event)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "解析 %s 事件失败", raw.Event)
	}
	return ev, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// shard 单条 WebSocket 连接及其订阅
type shard struct {
	id     int
	client *Client

	conn   *websocket.Conn
	connMu sync.Mutex // 保护 conn，同时串行化写操作

	subs  map[string]Request
	subMu sync.RWMutex
}

func (s *shard) log() *logrus.Entry {
	return logger.WithFields(logrus.Fields{"component": "streaming", "shard": s.id})
}

// dial 建立连接（最多 retries 次）
func (s *shard) dial(ctx context.Context, retries int) error {
	cfg := s.client.config
	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.HandshakeTimeout,
		Proxy:            http.ProxyFromEnvironment,
	}
	header := make(http.Header)
	header.Set("Authorization", cfg.AuthToken)

	var (
		conn *websocket.Conn
		err  error
	)
	for i := 0; i < retries; i++ {
		conn, _, err = dialer.DialContext(ctx, cfg.URL, header)
		if err == nil {
			break
		}
		if i < retries-1 {
			s.log().Warnf("连接尝试 %d/%d 失败: %v, 重试中...", i+1, retries, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * time.Second):
			}
		}
	}
	if err != nil {
		return errors.Wrap(err, "连接失败")
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// send 写入一条请求
func (s *shard) send(req Request) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return ErrNotConnected
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.client.config.WriteTimeout))
	return s.conn.WriteJSON(req)
}

// replay 重新发送该连接上的所有订阅（连接建立后调用）
func (s *shard) replay() error {
	s.subMu.RLock()
	reqs := make([]Request, 0, len(s.subs))
	for _, req := range s.subs {
		reqs = append(reqs, req)
	}
	s.subMu.RUnlock()

	for _, req := range reqs {
		if err := s.send(req); err != nil {
			return err
		}
	}
	if len(reqs) > 0 {
		s.log().Debugf("已发送 %d 个订阅", len(reqs))
	}
	return nil
}

func (s *shard) currentConn() *websocket.Conn {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn
}

// dropConn 丢弃出错的连接，conn 已被替换时不做处理
func (s *shard) dropConn(conn *websocket.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == conn {
		s.conn.Close()
		s.conn = nil
	}
}

// closeConn 关闭当前连接，graceful 时先发送关闭帧
func (s *shard) closeConn(graceful bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return
	}
	if graceful {
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}
	s.conn.Close()
	s.conn = nil
}

// readLoop 读取循环，连接断开时按退避策略重连
func (s *shard) readLoop(ctx context.Context) {
	defer s.client.wg.Done()
	cfg := s.client.config

	attempts := 0
	for {
		if ctx.Err() != nil {
			return
		}

		conn := s.currentConn()
		if conn == nil {
			if !cfg.ReconnectEnabled {
				return
			}
			attempts++
			if cfg.MaxReconnectAttempts > 0 && attempts > cfg.MaxReconnectAttempts {
				s.client.reportError(errors.Errorf("连接 %d 达到最大重连次数 (%d)", s.id, cfg.MaxReconnectAttempts))
				return
			}

			delay := cfg.ReconnectDelay * time.Duration(attempts)
			if delay > cfg.MaxReconnectDelay {
				delay = cfg.MaxReconnectDelay
			}
			s.log().Infof("%v 后重连 (尝试 %d)", delay, attempts)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			if err := s.dial(ctx, 1); err != nil {
				s.log().Warnf("重连失败: %v", err)
				continue
			}
			if ctx.Err() != nil {
				s.closeConn(false)
				return
			}
			attempts = 0
			if err := s.replay(); err != nil {
				s.log().Warnf("重新订阅失败: %v", err)
			}
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			s.dropConn(conn)
			if ctx.Err() != nil {
				return
			}
			s.client.reportError(errors.Wrapf(err, "连接 %d 读取失败", s.id))
			continue
		}

		s.client.handleMessage(message)
	}
}

// pingLoop 心跳循环，ping 失败时关闭连接交给 readLoop 重连
func (s *shard) pingLoop(ctx context.Context) {
	defer s.client.wg.Done()
	ticker := time.NewTicker(s.client.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.connMu.Lock()
			conn := s.conn
			var err error
			if conn != nil {
				err = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.client.config.WriteTimeout))
			}
			s.connMu.Unlock()

			if err != nil {
				s.log().Debugf("PING 发送失败: %v", err)
				conn.Close()
			}
		}
	}
}
