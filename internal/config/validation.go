package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/hle0/rdap-bootstrap/internal/bootstrap"
)

// Validate 针对语义级别做进一步校验，防止非法配置进入运行阶段。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("Global.LogLevel", err.Error())
	}
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.UpstreamTimeout.DurationValue() <= 0 {
		return newFieldError("Global.UpstreamTimeout", "必须大于 0")
	}
	if g.FetchConcurrency < 0 {
		return newFieldError("Global.FetchConcurrency", "不能为负数")
	}

	seenNames := map[string]struct{}{}
	seenFiles := map[string]struct{}{}
	for i := range c.Sources {
		src := &c.Sources[i]
		if src.Name == "" {
			return newFieldError("Source[].Name", "不能为空")
		}
		if _, exists := seenNames[src.Name]; exists {
			return newFieldError(sourceField(src.Name, "Name"), "重复")
		}
		seenNames[src.Name] = struct{}{}

		if err := bootstrap.ValidateSlotName(src.File); err != nil {
			return fmt.Errorf("%s: %w", sourceField(src.Name, "File"), err)
		}
		if _, exists := seenFiles[src.File]; exists {
			return newFieldError(sourceField(src.Name, "File"), "与其它源共用同一缓存文件")
		}
		seenFiles[src.File] = struct{}{}

		if err := validateSourceURL(src.URL); err != nil {
			return fmt.Errorf("%s: %w", sourceField(src.Name, "URL"), err)
		}
	}

	return nil
}

func validateSourceURL(raw string) error {
	if raw == "" {
		return errors.New("缺少上游地址")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https，上游: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("上游缺少 Host: %s", raw)
	}
	return nil
}
