package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font/sfnt"
)

// Catalog 按家族名查找已安装字体的文件路径。
type Catalog interface {
	Lookup(family string) (path string, ok bool)
}

// MapCatalog 是静态的家族名到路径映射，查找时忽略大小写与空格。
type MapCatalog map[string]string

func (m MapCatalog) Lookup(family string) (string, bool) {
	key := catalogKey(family)
	for name, path := range m {
		if catalogKey(name) == key {
			return path, true
		}
	}
	return "", false
}

// SystemCatalog 扫描主机字体目录建立索引。扫描在首次 Lookup 时进行且只进行一次。
type SystemCatalog struct {
	dirs []string

	once  sync.Once
	index map[string]string
}

// NewSystemCatalog 创建目录索引；dirs 为空时使用当前平台的默认字体目录。
func NewSystemCatalog(dirs ...string) *SystemCatalog {
	if len(dirs) == 0 {
		dirs = DefaultFontDirs()
	}
	return &SystemCatalog{dirs: dirs}
}

// DefaultFontDirs 返回当前平台常见的字体安装目录。
func DefaultFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		dirs := []string{filepath.Join(os.Getenv("WINDIR"), "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		return []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(home, "Library", "Fonts")}
	default:
		return []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts")}
	}
}

func (c *SystemCatalog) Lookup(family string) (string, bool) {
	c.once.Do(c.scan)
	path, ok := c.index[catalogKey(family)]
	return path, ok
}

// Len 返回索引中的名称数量，触发扫描。
func (c *SystemCatalog) Len() int {
	c.once.Do(c.scan)
	return len(c.index)
}

func (c *SystemCatalog) scan() {
	c.index = map[string]string{}
	var buf sfnt.Buffer
	for _, dir := range c.dirs {
		if dir == "" {
			continue
		}
		// 目录不存在或不可读时跳过，字体目录缺失是常态。
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !HasFontExt(path) {
				return nil
			}
			for _, name := range familyNames(path, &buf) {
				c.add(name, path)
			}
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			c.add(base, path)
			return nil
		})
	}
}

// add 先到先得：同名字体保留扫描顺序中的第一个。
func (c *SystemCatalog) add(name, path string) {
	key := catalogKey(name)
	if key == "" {
		return
	}
	if _, ok := c.index[key]; !ok {
		c.index[key] = path
	}
}

// familyNames 读取字体 name 表中的家族名、排版家族名与全名。
func familyNames(path string, buf *sfnt.Buffer) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()
	f, err := sfnt.ParseReaderAt(file)
	if err != nil {
		return nil
	}
	var names []string
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDTypographicFamily, sfnt.NameIDFull} {
		if name, err := f.Name(buf, id); err == nil && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// HasFontExt 报告路径是否为可识别的字体文件扩展名（.ttf / .otf）。
func HasFontExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

func catalogKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}
