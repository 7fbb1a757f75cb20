//go:build darwin

package bootstrap

import (
	"time"

	"golang.org/x/sys/unix"
)

func fileCreationTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, &statError{path: path, err: err}
	}
	return time.Unix(st.Birthtimespec.Unix()), nil
}
