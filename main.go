package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/quire/binding"
	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/manuscript"
	"github.com/ByLCY/quire/renderer"
	canvasrenderer "github.com/ByLCY/quire/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/quire/renderer/fpdf"
)

// options 汇总命令行参数。
type options struct {
	input, output, debug string
	backend              string
	configPath           string
	dataJSON             string
	font                 fonts.Request
	noBuiltin            bool
	verbose              bool
	overrides            layoutFlags
}

// layoutFlags 保存显式给出的排版参数，未给出的保持配置文件或默认值。
type layoutFlags struct {
	margins    map[string]string
	bodySize   string
	lineHeight string
	budget     int
	measure    bool
}

func main() {
	var opts options
	opts.overrides.margins = map[string]string{}
	flag.StringVar(&opts.input, "in", "examples/book.hype", "稿件路径（.hype / .json / .quire）")
	flag.StringVar(&opts.output, "out", "output/book.pdf", "PDF 输出路径")
	flag.StringVar(&opts.debug, "debug", "", "排版调试 JSON 输出路径")
	flag.StringVar(&opts.backend, "backend", "canvas", "PDF 后端：canvas 或 fpdf")
	flag.StringVar(&opts.configPath, "config", "", "排版配置 JSON 路径")
	flag.StringVar(&opts.dataJSON, "data", "", "绑定到稿件占位符的 JSON 数据")
	flag.StringVar(&opts.font.Family, "font", "", "字体家族名，优先于稿件中的设置")
	flag.StringVar(&opts.font.Path, "font-path", "", "字体文件路径（.ttf / .otf）")
	flag.BoolVar(&opts.noBuiltin, "no-builtin-font", false, "回退链用尽时报错而不是使用内置字体")
	flag.BoolVar(&opts.verbose, "v", false, "输出字体解析等诊断日志")
	for _, side := range []string{"top", "bottom", "left", "right"} {
		flag.Func("margin-"+side, side+" 边距，例如 25mm", func(v string) error {
			opts.overrides.margins[side] = v
			return nil
		})
	}
	flag.StringVar(&opts.overrides.bodySize, "body-size", "", "正文字号，例如 11pt")
	flag.StringVar(&opts.overrides.lineHeight, "line-height", "", "行高，例如 6mm 或 1.6x")
	flag.IntVar(&opts.overrides.budget, "budget", 0, "每行字符数，0 表示按文字宽窄自动选择")
	flag.BoolVar(&opts.overrides.measure, "measure", false, "按字体实际宽度折行（仅 canvas 后端）")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", opts.output)
}

// run 串联读取稿件、解析字体、排版与写出。
func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts.configPath, opts.overrides)
	if err != nil {
		return err
	}

	src, err := loadSource(opts.input)
	if err != nil {
		return err
	}
	m := &src.Manuscript
	if opts.dataJSON != "" {
		var data any
		if err := json.Unmarshal([]byte(opts.dataJSON), &data); err != nil {
			return fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		m = binding.Apply(m, data)
	}

	logger := slog.New(slog.DiscardHandler)
	if opts.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	resolver := fonts.NewResolver(logger)
	resolver.Policy.DisableBuiltin = opts.noBuiltin
	req := opts.font
	if req.Family == "" {
		req.Family = src.FontFamily
	}
	if req.Path == "" {
		req.Path = src.FontPath
	}
	font, err := resolver.Resolve(req)
	if err != nil {
		return err
	}

	r, err := newRenderer(opts.backend, font, cfg, renderer.MetaFor(m))
	if err != nil {
		return err
	}
	var sink layout.Sink = r
	var tee *renderer.Tee
	if opts.debug != "" {
		tee = &renderer.Tee{Next: r}
		sink = tee
	}

	summary, err := layout.Export(ctx, m, cfg, sink)
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}
	logger.Info("排版完成", "pages", summary.Pages, "blocks", summary.Blocks, "footnotes", m.FootnoteCount(), "font", font.Family)

	if tee != nil {
		if err := writeDebug(&layout.DebugTrace{Config: cfg, Summary: summary, Placements: tee.Record.Placements}, opts.debug); err != nil {
			return err
		}
	}
	return renderer.WriteFile(r, opts.output)
}

func newRenderer(backend string, font *fonts.Descriptor, cfg layout.LayoutConfig, meta renderer.Meta) (renderer.Renderer, error) {
	switch strings.ToLower(backend) {
	case "canvas", "":
		return canvasrenderer.New(canvasrenderer.Options{Font: font, Meta: meta})
	case "fpdf":
		if cfg.Measure {
			return nil, fmt.Errorf("fpdf 后端不支持 -measure")
		}
		return fpdfrenderer.New(fpdfrenderer.Options{Font: font, Meta: meta, PageWidth: cfg.PageWidth, PageHeight: cfg.PageHeight})
	default:
		return nil, fmt.Errorf("未知的后端 %q", backend)
	}
}

// loadSource 按扩展名选择稿件格式。
func loadSource(path string) (*manuscript.Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开稿件 %s: %w", path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".quire", ".txt":
		return dsl.Load(file)
	default:
		return manuscript.DecodeJSON(file)
	}
}

func loadConfig(path string, fl layoutFlags) (layout.LayoutConfig, error) {
	cfg := layout.DefaultConfig()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("无法打开排版配置 %s: %w", path, err)
		}
		defer file.Close()
		if cfg, err = layout.LoadConfig(file); err != nil {
			return cfg, err
		}
	}
	targets := map[string]*float64{
		"top": &cfg.MarginTop, "bottom": &cfg.MarginBottom,
		"left": &cfg.MarginLeft, "right": &cfg.MarginRight,
	}
	for side, v := range fl.margins {
		l, err := layout.ParseRawLengthStr(v)
		if err != nil {
			return cfg, fmt.Errorf("margin-%s: %w", side, err)
		}
		*targets[side] = l.MM()
	}
	if fl.bodySize != "" {
		l, err := layout.ParseRawLengthStr(fl.bodySize)
		if err != nil {
			return cfg, fmt.Errorf("body-size: %w", err)
		}
		cfg.BodySize = l.PT()
	}
	if fl.lineHeight != "" {
		lh, err := layout.ParseLineHeight(fl.lineHeight)
		if err != nil {
			return cfg, fmt.Errorf("line-height: %w", err)
		}
		cfg.LineHeight = lh.MM(cfg.BodySize)
	}
	if fl.budget > 0 {
		cfg.Budget = fl.budget
	}
	if fl.measure {
		cfg.Measure = true
	}
	return cfg, cfg.Validate()
}

func writeDebug(trace *layout.DebugTrace, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(trace, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
