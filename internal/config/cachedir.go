package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/hle0/rdap-bootstrap/internal/bootstrap"
)

// AppName 用于拼接平台缓存目录，例如 ~/.cache/rdap-bootstrap。
const AppName = "rdap-bootstrap"

var userCacheDir = os.UserCacheDir

// ResolveCacheDir 返回缓存根目录：优先使用配置的 CacheDir，否则落到平台缓存目录。
// 两者都不可用时返回 bootstrap.ErrDirectory 类别的错误。
func ResolveCacheDir(g GlobalConfig) (string, error) {
	dir := strings.TrimSpace(g.CacheDir)
	if dir == "" {
		base, err := userCacheDir()
		if err != nil {
			return "", &bootstrap.Error{Kind: bootstrap.KindDirectory, Op: "resolve", Err: err}
		}
		if base == "" {
			return "", &bootstrap.Error{Kind: bootstrap.KindDirectory, Op: "resolve", Err: errors.New("platform cache dir is empty")}
		}
		dir = filepath.Join(base, AppName)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &bootstrap.Error{Kind: bootstrap.KindDirectory, Op: "resolve", Path: dir, Err: err}
	}
	return abs, nil
}
