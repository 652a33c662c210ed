package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
)

func TestLoadConfigAppliesFlags(t *testing.T) {
	fl := layoutFlags{
		margins:    map[string]string{"top": "1in", "left": "20mm"},
		bodySize:   "12pt",
		lineHeight: "2x",
		budget:     30,
	}
	cfg, err := loadConfig("", fl)
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.MarginTop != 25.4 || cfg.MarginLeft != 20 || cfg.BodySize != 12 || cfg.Budget != 30 {
		t.Fatalf("命令行参数未生效: %+v", cfg)
	}
	if want := 12 * layout.PtToMm * 2; cfg.LineHeight != want {
		t.Fatalf("行高应为 %g，实际 %g", want, cfg.LineHeight)
	}

	if _, err := loadConfig("", layoutFlags{margins: map[string]string{"bottom": "wide"}}); err == nil {
		t.Fatalf("非法边距应返回错误")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte(`{"marginTop": 30}`), 0o644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	cfg, err := loadConfig(path, layoutFlags{margins: map[string]string{"top": "35mm"}})
	if err != nil {
		t.Fatalf("loadConfig error: %v", err)
	}
	if cfg.MarginTop != 35 {
		t.Fatalf("命令行参数应覆盖配置文件，实际 %g", cfg.MarginTop)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	// 固定使用临时目录中的字体，避免受主机字体影响。
	fontPath := filepath.Join(dir, "go.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o644); err != nil {
		t.Fatalf("写入字体失败: %v", err)
	}
	for _, backend := range []string{"canvas", "fpdf"} {
		out := filepath.Join(dir, backend, "book.pdf")
		debug := filepath.Join(dir, backend, "layout.json")
		opts := options{
			input:     filepath.Join("examples", "book.quire"),
			output:    out,
			debug:     debug,
			backend:   backend,
			dataJSON:  `{"author": {"name": "Lee"}}`,
			font:      fonts.Request{Path: fontPath},
			overrides: layoutFlags{margins: map[string]string{}},
		}
		if err := run(context.Background(), opts); err != nil {
			t.Fatalf("%s: run error: %v", backend, err)
		}
		data, err := os.ReadFile(out)
		if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Fatalf("%s: 未生成 PDF: %v", backend, err)
		}

		raw, err := os.ReadFile(debug)
		if err != nil {
			t.Fatalf("%s: 未生成调试 JSON: %v", backend, err)
		}
		var trace struct {
			Summary layout.Summary `json:"summary"`
		}
		if err := json.Unmarshal(raw, &trace); err != nil {
			t.Fatalf("%s: 调试 JSON 无法解析: %v", backend, err)
		}
		if trace.Summary.Pages != 1 || trace.Summary.Blocks == 0 {
			t.Fatalf("%s: 调试信息不符: %+v", backend, trace.Summary)
		}
		if !bytes.Contains(raw, []byte("It was written for Lee.")) {
			t.Fatalf("%s: 占位符未替换", backend)
		}
	}
}

func TestRunRejectsUnknownBackend(t *testing.T) {
	opts := options{
		input:     filepath.Join("examples", "book.hype"),
		output:    filepath.Join(t.TempDir(), "x.pdf"),
		backend:   "typst",
		overrides: layoutFlags{margins: map[string]string{}},
	}
	if err := run(context.Background(), opts); err == nil {
		t.Fatalf("未知后端应返回错误")
	}
}
