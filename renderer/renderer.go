package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ByLCY/quire/layout"
)

// ErrOutputWrite 表示输出文件无法写入。
var ErrOutputWrite = errors.New("无法写入输出文件")

// Renderer 在 layout.Sink 之上增加收尾：Bytes 结束文档并返回生成的二进制数据（例如 PDF）。
type Renderer interface {
	layout.Sink
	Bytes() ([]byte, error)
}

// WriteFile 结束文档并写入 path，必要时创建目录。
func WriteFile(r Renderer, path string) error {
	data, err := r.Bytes()
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}
	return nil
}
