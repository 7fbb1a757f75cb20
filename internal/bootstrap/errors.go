package bootstrap

import (
	"errors"
	"fmt"
)

// Kind 区分失败所在的阶段类别，调用方据此决定展示或映射状态码。
type Kind int

const (
	KindIO Kind = iota
	KindNetwork
	KindParse
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindDirectory:
		return "directory"
	default:
		return "io"
	}
}

// 每个 Kind 对应一个哨兵错误，errors.Is(err, ErrNetwork) 即可判断类别。
var (
	ErrIO        = errors.New("bootstrap: io error")
	ErrNetwork   = errors.New("bootstrap: network error")
	ErrParse     = errors.New("bootstrap: parse error")
	ErrDirectory = errors.New("bootstrap: cannot find cache dir")

	// ErrInvalidSlot 表示文件名不能作为缓存 slot 使用。
	ErrInvalidSlot = errors.New("bootstrap: invalid slot name")

	// ErrCreationTimeUnavailable 表示平台或文件系统无法提供文件创建时间。
	ErrCreationTimeUnavailable = errors.New("bootstrap: file creation time unavailable")
)

// Error 记录失败阶段（Op）、涉及的路径或 URL，以及底层原因。
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s error: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is 可以按类别匹配哨兵错误。
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindParse:
		return ErrParse
	case KindDirectory:
		return ErrDirectory
	default:
		return ErrIO
	}
}

// KindOf 返回 err 链中第一个 *Error 的类别；非本包错误视为 KindIO。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}
