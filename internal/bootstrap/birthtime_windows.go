//go:build windows

package bootstrap

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

func fileCreationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, &statError{path: path, err: err}
	}
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrCreationTimeUnavailable, path)
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), nil
}
