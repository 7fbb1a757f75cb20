package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// SourceFields 描述单个 bootstrap 源，供拉取/预热日志复用。
func SourceFields(name, file, url string) logrus.Fields {
	return logrus.Fields{
		"source": name,
		"slot":   file,
		"url":    url,
	}
}
