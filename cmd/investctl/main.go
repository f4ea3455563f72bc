package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/betbot/investapi/invest/client"
	"github.com/betbot/investapi/invest/types"
	"github.com/betbot/investapi/pkg/logger"
	"github.com/betbot/investapi/pkg/shutdown"
	"github.com/joho/godotenv"
)

type options struct {
	command  string
	figi     string
	interval string
	lookback time.Duration
	account  string
	verbose  bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("investctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.command, "cmd", "accounts", "命令: accounts|portfolio|stocks|candles|stream")
	fs.StringVar(&o.figi, "figi", "", "金融工具 FIGI (candles/stream 必填)")
	fs.StringVar(&o.interval, "interval", string(types.CandleResolutionHour), "K 线周期")
	fs.DurationVar(&o.lookback, "lookback", 24*time.Hour, "candles 查询的时间跨度")
	fs.StringVar(&o.account, "account", "", "经纪账户 ID，为空时使用默认账户")
	fs.BoolVar(&o.verbose, "verbose", false, "显示详细日志")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain 返回退出码，保证 defer 中的关闭逻辑在退出前执行
// stdout 只输出 JSON 结果，日志写到 stderr
func realMain(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(stderr, "未找到 .env 文件，使用环境变量")
	}

	logLevel := "info"
	if opts.verbose {
		logLevel = "debug"
	}
	if err := logger.Init(logger.Config{Level: logLevel, Quiet: true}); err != nil {
		fmt.Fprintf(stderr, "初始化日志失败: %v\n", err)
		return 1
	}
	logger.SetOutput(stderr)

	token := os.Getenv("INVEST_TOKEN")
	sandbox, _ := strconv.ParseBool(os.Getenv("INVEST_SANDBOX"))

	c, err := client.NewClient(token, sandbox)
	if err != nil {
		logger.Errorf("创建客户端失败: %v", err)
		return 1
	}

	shutdownManager := shutdown.NewManager()
	shutdownManager.OnShutdown("client", func(context.Context) error { return c.Close() })
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownManager.Shutdown(ctx); err != nil {
			logger.Warnf("关闭失败: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c, opts, stdout); err != nil {
		logger.Errorf("%s 失败: %v", opts.command, err)
		return 1
	}
	return 0
}

func run(ctx context.Context, c *client.Client, opts *options, out io.Writer) error {
	switch opts.command {
	case "accounts":
		accounts, err := c.UserContext().GetAccounts(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, accounts)
	case "portfolio":
		portfolio, err := c.PortfolioContext().GetPortfolio(ctx, opts.account)
		if err != nil {
			return err
		}
		return printJSON(out, portfolio)
	case "stocks":
		stocks, err := c.MarketContext().GetMarketStocks(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, stocks)
	case "candles":
		to := time.Now()
		candles, err := c.MarketContext().GetMarketCandles(ctx, opts.figi, to.Add(-opts.lookback), to, types.CandleResolution(opts.interval))
		if err != nil {
			return err
		}
		return printJSON(out, candles)
	case "stream":
		return stream(ctx, c, opts, out)
	default:
		return fmt.Errorf("未知命令 %q", opts.command)
	}
}

// stream 订阅 K 线并打印推送，直到收到 SIGINT/SIGTERM
func stream(ctx context.Context, c *client.Client, opts *options, out io.Writer) error {
	s := c.StreamingContext()
	if err := s.SubscribeCandle(opts.figi, types.CandleResolution(opts.interval)); err != nil {
		return err
	}
	if err := s.Start(ctx); err != nil {
		return err
	}
	logger.Infof("已订阅 %s %s，按 Ctrl+C 退出", opts.figi, opts.interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-s.Errors():
			logger.Warnf("推送错误: %v", err)
		case ev, ok := <-s.Events():
			if !ok {
				return nil
			}
			if err := printJSON(out, ev); err != nil {
				return err
			}
		}
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
