package fonts

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font/sfnt"
)

var (
	// ErrFontResolution 表示整条回退链都没有找到可用字体。
	ErrFontResolution = errors.New("找不到可用字体")
	// ErrFontRead 表示字体路径已确定，但文件无法读取或不是有效字体。
	ErrFontRead = errors.New("字体文件无法读取")
)

// Descriptor 描述解析出的字体。Path 为空表示使用内置字体。
type Descriptor struct {
	Family  string `json:"family"`
	Path    string `json:"path,omitempty"`
	Builtin bool   `json:"builtin"`
	// SupportsScript 只用于诊断，不参与排版计算。
	SupportsScript bool   `json:"supportsScript"`
	Source         string `json:"source"`
	Regular        []byte `json:"-"`
	// Bold 对外部字体与 Regular 相同，外部字体通常没有配套粗体。
	Bold []byte `json:"-"`
}

// Request 是调用方的字体选择，两项均可为空。
type Request struct {
	Family string
	Path   string
}

// FallbackPolicy 是有序的回退配置：先查家族名，再查固定路径，最后使用内置字体。
type FallbackPolicy struct {
	Families       []string
	Paths          []string
	DisableBuiltin bool
}

// DefaultPolicy 返回面向韩文稿件的回退配置。
func DefaultPolicy() FallbackPolicy {
	return FallbackPolicy{
		Families: []string{
			"Malgun Gothic",
			"맑은 고딕",
			"NanumGothic",
			"나눔고딕",
			"Noto Sans KR",
			"Pretendard",
		},
		Paths: []string{
			`C:\Windows\Fonts\malgun.ttf`,
			`C:\Windows\Fonts\NanumGothic.ttf`,
			"/usr/share/fonts/truetype/nanum/NanumGothic.ttf",
			"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.otf",
			"/Library/Fonts/NanumGothic.ttf",
		},
	}
}

// Script 描述目标文字，Samples 中的字符全部有字形才算支持。
type Script struct {
	Name    string
	Samples []rune
}

// Hangul 是默认的目标文字。
var Hangul = Script{Name: "hangul", Samples: []rune("한글")}

// Resolver 按回退链解析字体。零值可用：不查系统目录，也不检查文字覆盖。
type Resolver struct {
	Policy  FallbackPolicy
	Catalog Catalog
	Script  Script
	Logger  *slog.Logger
}

// NewResolver 返回使用默认回退配置与系统字体目录的 Resolver。
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		Policy:  DefaultPolicy(),
		Catalog: NewSystemCatalog(),
		Script:  Hangul,
		Logger:  logger,
	}
}

// Resolve 依次尝试：调用方路径、调用方家族名、回退家族名、固定路径、内置字体。
// 找到的文件读取失败即为致命错误，不再继续回退。
func (r *Resolver) Resolve(req Request) (*Descriptor, error) {
	log := r.logger()
	path, source := r.locate(req)
	if path == "" {
		if r.Policy.DisableBuiltin {
			return nil, fmt.Errorf("%w: 回退链已用尽 (family=%q path=%q)", ErrFontResolution, req.Family, req.Path)
		}
		desc, err := r.builtin()
		if err != nil {
			return nil, err
		}
		log.Info("使用内置字体", "family", desc.Family, "script", r.Script.Name, "supportsScript", desc.SupportsScript)
		return desc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFontRead, path, err)
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFontRead, path, err)
	}
	var buf sfnt.Buffer
	family, _ := f.Name(&buf, sfnt.NameIDFamily)
	if family == "" {
		family = req.Family
	}
	desc := &Descriptor{
		Family:         family,
		Path:           path,
		SupportsScript: covers(f, &buf, r.Script.Samples),
		Source:         source,
		Regular:        data,
		Bold:           data,
	}
	log.Info("字体解析完成", "family", desc.Family, "path", path, "source", source, "script", r.Script.Name, "supportsScript", desc.SupportsScript)
	if !desc.SupportsScript {
		log.Warn("字体不包含目标文字的字形", "family", desc.Family, "script", r.Script.Name)
	}
	return desc, nil
}

// locate 返回第一个可用的字体路径及其来源；全部落空时返回空串。
func (r *Resolver) locate(req Request) (string, string) {
	log := r.logger()
	if req.Path != "" {
		if usable(req.Path) {
			return req.Path, "path"
		}
		log.Debug("忽略不可用的字体路径", "path", req.Path)
	}
	if req.Family != "" {
		if path, ok := r.lookup(req.Family); ok {
			return path, "family"
		}
		log.Debug("系统中未找到字体家族", "family", req.Family)
	}
	for _, family := range r.Policy.Families {
		if path, ok := r.lookup(family); ok {
			return path, "fallback-family"
		}
	}
	for _, path := range r.Policy.Paths {
		if usable(path) {
			return path, "fallback-path"
		}
	}
	return "", ""
}

func (r *Resolver) lookup(family string) (string, bool) {
	if r.Catalog == nil {
		return "", false
	}
	path, ok := r.Catalog.Lookup(family)
	if !ok || !HasFontExt(path) {
		return "", false
	}
	return path, true
}

func (r *Resolver) builtin() (*Descriptor, error) {
	regular, err := Load("embed:go-regular")
	if err != nil {
		return nil, err
	}
	bold, err := Load("embed:go-bold")
	if err != nil {
		return nil, err
	}
	supports := false
	if f, err := sfnt.Parse(regular); err == nil {
		var buf sfnt.Buffer
		supports = covers(f, &buf, r.Script.Samples)
	}
	return &Descriptor{
		Family:         BuiltinFamily,
		Builtin:        true,
		SupportsScript: supports,
		Source:         "builtin",
		Regular:        regular,
		Bold:           bold,
	}, nil
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// usable 报告路径存在且扩展名可识别。
func usable(path string) bool {
	if !HasFontExt(path) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// covers 报告 samples 中的每个字符都有非 .notdef 字形；samples 为空视为支持。
func covers(f *sfnt.Font, buf *sfnt.Buffer, samples []rune) bool {
	for _, r := range samples {
		idx, err := f.GlyphIndex(buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}
