package bootstrap

import (
	"fmt"
	"path/filepath"
	"strings"
)

// tempSuffix 标记暂存文件，带该后缀的路径永远不会被当作缓存读取。
const tempSuffix = ".tmp"

// Slot 将逻辑文件名映射到 <root>/<name> 与 <root>/<name>.tmp 两个物理路径。
type Slot struct {
	Name      string
	FinalPath string
	TempPath  string
}

// NewSlot 校验文件名并在 root 下派生最终路径与暂存路径。
func NewSlot(root, name string) (Slot, error) {
	if err := ValidateSlotName(name); err != nil {
		return Slot{}, err
	}
	final := filepath.Join(root, name)
	return Slot{
		Name:      name,
		FinalPath: final,
		TempPath:  final + tempSuffix,
	}, nil
}

// ValidateSlotName 拒绝空名、路径穿越以及以 .tmp 结尾的名称，
// 后者会与其它 slot 的暂存文件重名。
func ValidateSlotName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidSlot)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidSlot, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidSlot, name)
	case strings.HasSuffix(name, tempSuffix):
		return fmt.Errorf("%w: %q collides with a staging file name", ErrInvalidSlot, name)
	}
	return nil
}
