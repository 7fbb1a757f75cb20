package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/hle0/rdap-bootstrap/internal/bootstrap"
	"github.com/hle0/rdap-bootstrap/internal/config"
	"github.com/hle0/rdap-bootstrap/internal/logging"
	"github.com/hle0/rdap-bootstrap/internal/metrics"
	"github.com/hle0/rdap-bootstrap/internal/server"
	"github.com/hle0/rdap-bootstrap/internal/source"
	"github.com/hle0/rdap-bootstrap/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
	serve       bool
	fetchName   string
	pretty      bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// deps 聚合一次运行中共享的依赖。
type deps struct {
	cfg      *config.Config
	logger   *logrus.Logger
	sources  *source.Registry
	cache    *bootstrap.Cache
	registry *prometheus.Registry
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	sources, err := source.NewRegistry(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "构建源注册表失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["sources"] = len(sources.List())
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	root, err := config.ResolveCacheDir(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "无法确定缓存目录: %v\n", err)
		return 1
	}

	promRegistry := prometheus.NewRegistry()
	cache, err := bootstrap.NewCache(bootstrap.Options{
		Root:     root,
		Client:   server.NewUpstreamClient(cfg),
		Logger:   logger,
		Observer: metrics.New(promRegistry),
	})
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存目录失败: %v\n", err)
		return 1
	}

	rt := &deps{
		cfg:      cfg,
		logger:   logger,
		sources:  sources,
		cache:    cache,
		registry: promRegistry,
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["cache_dir"] = root
	fields["sources"] = sources.List()
	fields["version"] = version.Full()
	logger.WithFields(fields).Debug("配置加载完成")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.fetchName != "":
		return fetchOne(ctx, rt, opts.fetchName, opts.pretty)
	case opts.serve:
		if err := startHTTPServer(rt); err != nil {
			fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
			return 1
		}
		return 0
	default:
		return warmAll(ctx, rt)
	}
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("rdap-bootstrap", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opts cliOptions
	var configFlag string

	fs.StringVar(&configFlag, "config", "", "配置文件路径（可被 RDAP_BOOTSTRAP_CONFIG 覆盖，留空时仅使用默认值）")
	fs.BoolVar(&opts.checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&opts.showVersion, "version", false, "显示版本信息")
	fs.BoolVar(&opts.serve, "serve", false, "启动 HTTP 服务")
	fs.StringVar(&opts.fetchName, "fetch", "", "拉取指定 bootstrap 源并输出 JSON，例如 dns")
	fs.BoolVar(&opts.pretty, "pretty", false, "配合 -fetch 使用，缩进输出")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	if opts.serve && opts.fetchName != "" {
		return cliOptions{}, errors.New("-serve 与 -fetch 不能同时使用")
	}

	opts.configPath = os.Getenv("RDAP_BOOTSTRAP_CONFIG")
	if configFlag != "" {
		opts.configPath = configFlag
	}
	return opts, nil
}

// fetchOne 拉取单个源并把原始 JSON 写到 stdout。
func fetchOne(ctx context.Context, rt *deps, name string, pretty bool) int {
	src, ok := rt.sources.Lookup(name)
	if !ok {
		fmt.Fprintf(stdErr, "未知的 bootstrap 源: %s\n", name)
		return 1
	}

	doc, err := rt.cache.Fetch(ctx, src.File, src.URL)
	if err != nil {
		fmt.Fprintf(stdErr, "获取 %s 失败: %v\n", src.Name, err)
		return 1
	}

	if pretty {
		enc := json.NewEncoder(stdOut)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc.Value); err != nil {
			fmt.Fprintf(stdErr, "输出失败: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprintln(stdOut, string(doc.Raw))
	return 0
}

// warmAll 并发预热全部源，任一失败则返回非零退出码。
func warmAll(ctx context.Context, rt *deps) int {
	results, err := rt.cache.FetchAll(ctx, rt.sources.Requests(), rt.cfg.Global.FetchConcurrency)
	if err != nil {
		fmt.Fprintf(stdErr, "预热失败: %v\n", err)
		return 1
	}

	failed := 0
	for _, res := range results {
		src, _ := rt.sources.Lookup(res.File)
		fields := logging.SourceFields(src.Name, res.File, res.URL)
		fields["action"] = "warm"
		if res.Err != nil {
			failed++
			rt.logger.WithFields(fields).WithError(res.Err).Error("bootstrap 预热失败")
			fmt.Fprintf(stdErr, "%s: %v\n", res.File, res.Err)
			continue
		}
		fields["bytes"] = len(res.Document.Raw)
		rt.logger.WithFields(fields).Info("bootstrap 已就绪")
	}

	if failed > 0 {
		return 1
	}
	return 0
}

func startHTTPServer(rt *deps) error {
	app, err := server.NewApp(server.AppOptions{
		Logger:   rt.logger,
		Cache:    rt.cache,
		Sources:  rt.sources,
		Gatherer: rt.registry,
	})
	if err != nil {
		return err
	}

	port := rt.cfg.Global.ListenPort
	rt.logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
