package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// debugDump 在结果之外附带每页剩余高度，便于对照 Word 的实际分页。
type debugDump struct {
	*Result
	Remaining []float64 `json:"remaining"`
}

// WriteDebug 将布局结果以缩进 JSON 写入 w。res 为 nil 时不输出。
func WriteDebug(w io.Writer, res *Result) error {
	if res == nil {
		return nil
	}
	dump := debugDump{Result: res, Remaining: make([]float64, len(res.Pages))}
	for i, page := range res.Pages {
		dump.Remaining[i] = res.Geometry.Height() - page.Used
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("输出调试 JSON 失败：%w", err)
	}
	return nil
}

// WriteDebugJSON 将布局结果写入 path 指向的文件。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建调试文件失败：%w", err)
	}
	if err := WriteDebug(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
