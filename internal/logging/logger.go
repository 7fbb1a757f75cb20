package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hle0/rdap-bootstrap/internal/config"
	"github.com/hle0/rdap-bootstrap/internal/version"
)

// InitLogger 根据全局配置初始化 JSON 结构化日志，每条记录都带 app/version。
func InitLogger(cfg config.GlobalConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("无法解析日志级别: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.AddHook(newAppHook())

	out, outErr := openOutput(cfg)
	logger.SetOutput(out)
	if outErr != nil {
		fmt.Fprintf(os.Stderr, "logger_fallback: %v\n", outErr)
		logger.WithFields(logrus.Fields{
			"action": "logger_fallback",
			"path":   cfg.LogFilePath,
		}).Warn(outErr.Error())
	}
	return logger, nil
}

// openOutput 未配置 LogFilePath 时写 stdout；目录无法创建时降级到 stdout 并返回原因。
func openOutput(cfg config.GlobalConfig) (io.Writer, error) {
	if cfg.LogFilePath == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
		return os.Stdout, fmt.Errorf("创建日志目录失败: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	}, nil
}

// appHook 为每条日志补充应用名与版本，调用方显式设置的同名字段优先。
type appHook struct {
	fields logrus.Fields
}

func newAppHook() *appHook {
	return &appHook{fields: logrus.Fields{
		"app":     config.AppName,
		"version": version.Version,
	}}
}

func (h *appHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
