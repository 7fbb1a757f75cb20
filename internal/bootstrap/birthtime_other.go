//go:build !linux && !darwin && !windows

package bootstrap

import (
	"fmt"
	"os"
	"time"
)

func fileCreationTime(path string) (time.Time, error) {
	if _, err := os.Stat(path); err != nil {
		return time.Time{}, &statError{path: path, err: err}
	}
	return time.Time{}, fmt.Errorf("%w: unsupported platform", ErrCreationTimeUnavailable)
}
