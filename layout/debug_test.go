package layout

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteDebugRemaining(t *testing.T) {
	res := &Result{
		Geometry: Geometry{PageWidth: 100, PageHeight: 200, Margin: Margin{Top: 20, Bottom: 30}},
		Pages: []Page{
			{Number: 1, Used: 100, Placements: []Placement{{Kind: KindParagraph, Height: 100, Lines: []string{"a"}}}},
			{Number: 2, Break: BreakExplicit, Used: 25},
		},
	}
	var buf bytes.Buffer
	if err := WriteDebug(&buf, res); err != nil {
		t.Fatalf("输出失败: %v", err)
	}
	var got struct {
		Pages     []Page    `json:"pages"`
		Remaining []float64 `json:"remaining"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("调试输出不是合法 JSON: %v", err)
	}
	if len(got.Pages) != 2 || got.Pages[1].Break != BreakExplicit || got.Pages[0].Placements[0].Lines[0] != "a" {
		t.Fatalf("页面信息丢失：%+v", got.Pages)
	}
	if len(got.Remaining) != 2 || got.Remaining[0] != 50 || got.Remaining[1] != 125 {
		t.Fatalf("剩余高度错误：%v", got.Remaining)
	}
}

func TestWriteDebugJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("nil 结果不应报错: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("nil 结果不应创建文件")
	}
	res := &Result{Geometry: Geometry{PageWidth: 10, PageHeight: 10}}
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	if err := WriteDebugJSON(res, filepath.Join(path, "nested", "x.json")); err == nil {
		t.Fatalf("无效路径应当报错")
	}
}

func TestBreakKindTextRoundTrip(t *testing.T) {
	for _, kind := range []BreakKind{BreakNone, BreakNatural, BreakExplicit, BreakOverflow} {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("序列化 %s 失败: %v", kind, err)
		}
		var got BreakKind
		if err := got.UnmarshalText(text); err != nil || got != kind {
			t.Fatalf("%s 读回为 %s，错误 %v", text, got, err)
		}
	}
	var bad BreakKind
	if err := bad.UnmarshalText([]byte("sideways")); err == nil {
		t.Fatalf("未知名称应当报错")
	}
}
