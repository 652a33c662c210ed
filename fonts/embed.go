package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinFamily 是内置字体的家族名，仅覆盖拉丁字母。
const BuiltinFamily = "Go"

var builtinFonts = map[string][]byte{
	"go-regular": goregular.TTF,
	"go-bold":    gobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:go-regular" 或直接 "go-bold"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(strings.ToLower(name), "embed:")
	data, ok := builtinFonts[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在", name)
	}
	return data, nil
}
