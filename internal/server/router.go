package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/hle0/rdap-bootstrap/internal/bootstrap"
	"github.com/hle0/rdap-bootstrap/internal/logging"
	"github.com/hle0/rdap-bootstrap/internal/source"
)

// BootstrapFetcher 是 HTTP 层依赖的缓存能力，*bootstrap.Cache 天然满足，测试中可注入假实现。
type BootstrapFetcher interface {
	Fetch(ctx context.Context, filename, sourceURL string) (*bootstrap.Document, error)
	Slot(filename string) (bootstrap.Slot, error)
}

// AppOptions 汇总构建 Fiber 应用所需的依赖。Gatherer 为空时不注册 /-/metrics。
type AppOptions struct {
	Logger   *logrus.Logger
	Cache    BootstrapFetcher
	Sources  *source.Registry
	Gatherer prometheus.Gatherer
}

const contextKeyRequestID = "_rdap_request_id"

// NewApp builds the Fiber application with request ids, panic recovery and
// the bootstrap/diagnostics routes.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Cache == nil {
		return nil, errors.New("bootstrap cache is required")
	}
	if opts.Sources == nil {
		return nil, errors.New("source registry is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestIDMiddleware())

	app.Get("/bootstrap/:name", bootstrapHandler(opts, &singleflight.Group{}))
	registerDiagnostics(app, opts)

	return app, nil
}

func requestIDMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)
		return c.Next()
	}
}

// RequestID returns the request identifier stored by the middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

// bootstrapHandler 以 slot 文件名为 key 合并并发请求：缓存核心不协调同名 slot
// 的写入，同一时刻只允许一个 Fetch 在途，其余请求共享其结果。
func bootstrapHandler(opts AppOptions, flights *singleflight.Group) fiber.Handler {
	return func(c fiber.Ctx) error {
		started := time.Now()
		name := c.Params("name")
		src, ok := opts.Sources.Lookup(name)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "source_not_found"})
		}

		ctx := c.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		fields := logging.SourceFields(src.Name, src.File, src.URL)
		fields["action"] = "bootstrap_request"
		fields["request_id"] = RequestID(c)

		// 共享的拉取不随单个连接取消，超时由上游 client 约束。
		flightCtx := context.WithoutCancel(ctx)
		value, err, shared := flights.Do(src.File, func() (interface{}, error) {
			return opts.Cache.Fetch(flightCtx, src.File, src.URL)
		})
		fields["elapsed_ms"] = time.Since(started).Milliseconds()
		fields["shared"] = shared
		if err != nil {
			status, code := statusForError(err)
			opts.Logger.WithFields(fields).WithError(err).Warn("bootstrap_fetch_failed")
			return c.Status(status).JSON(fiber.Map{
				"error":   code,
				"message": err.Error(),
			})
		}

		doc := value.(*bootstrap.Document)
		opts.Logger.WithFields(fields).Debug("bootstrap_served")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(doc.Raw)
	}
}

// statusForError 将缓存错误类别映射为 HTTP 状态码与错误码。
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, bootstrap.ErrInvalidSlot):
		return fiber.StatusNotFound, "invalid_slot"
	case errors.Is(err, bootstrap.ErrNetwork):
		return fiber.StatusBadGateway, "upstream_unavailable"
	case errors.Is(err, bootstrap.ErrParse):
		return fiber.StatusBadGateway, "upstream_malformed"
	default:
		return fiber.StatusInternalServerError, "cache_io"
	}
}
