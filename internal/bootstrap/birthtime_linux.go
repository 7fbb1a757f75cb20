//go:build linux

package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// statx 可在测试中替换，用于模拟旧内核 (ENOSYS) 或 seccomp 拦截 (EPERM)。
var statx = unix.Statx

// fileCreationTime 通过 statx(STATX_BTIME) 读取创建时间。内核或文件系统
// 未填充 btime 时返回 ErrCreationTimeUnavailable，不回退到 mtime。
// statx 本身不可用时改用 stat 判断文件是否存在：不存在仍按缺失处理。
func fileCreationTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	err := statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if err != nil {
		if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) {
			if _, statErr := os.Stat(path); statErr != nil {
				return time.Time{}, &statError{path: path, err: statErr}
			}
			return time.Time{}, fmt.Errorf("%w: statx: %v", ErrCreationTimeUnavailable, err)
		}
		return time.Time{}, &statError{path: path, err: err}
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrCreationTimeUnavailable, path)
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), nil
}
