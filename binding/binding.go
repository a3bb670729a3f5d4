// Package binding fills ${path} placeholders in document text from a data
// tree loaded from YAML or JSON.
package binding

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// exprPattern 匹配 ${path} 与 ${path|默认值}。
var exprPattern = regexp.MustCompile(`\$\{([^}|]*)(?:\|([^}]*))?\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 路径不存在时使用 | 之后的默认值；没有默认值则保留原占位符。
func Interpolate(text string, data any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		path := strings.TrimSpace(groups[1])
		if path != "" {
			if val, ok := Lookup(data, path); ok && val != nil {
				return fmt.Sprint(val)
			}
		}
		if strings.Contains(match, "|") {
			return groups[2]
		}
		return match
	})
}

// LoadData 读取 YAML 或 JSON 数据文件（JSON 是 YAML 的子集）。
// 空文件返回 nil。
func LoadData(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败：%w", err)
	}
	return ParseData(raw)
}

// ParseData 解析 YAML 或 JSON 数据。
func ParseData(raw []byte) (any, error) {
	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据失败：%w", err)
	}
	return data, nil
}

// step 是路径中的一级：键名或下标。
type step struct {
	key   string
	index int
	isIdx bool
}

// Lookup 返回路径对应的值，例如 "project.authors[1]"。
// 支持任意以字符串为键的 map 与切片，不限于 YAML 解码出的类型。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	steps, ok := parsePath(strings.TrimSpace(path))
	if !ok {
		return nil, false
	}
	current := reflect.ValueOf(data)
	for _, s := range steps {
		for current.Kind() == reflect.Interface || current.Kind() == reflect.Pointer {
			if current.IsNil() {
				return nil, false
			}
			current = current.Elem()
		}
		if current, ok = descend(current, s); !ok {
			return nil, false
		}
	}
	return current.Interface(), true
}

func descend(v reflect.Value, s step) (reflect.Value, bool) {
	switch {
	case s.isIdx && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array):
		if s.index < 0 || s.index >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(s.index), true
	case !s.isIdx && v.Kind() == reflect.Map:
		key := reflect.ValueOf(s.key)
		switch kt := v.Type().Key(); {
		case kt.Kind() == reflect.String:
			key = key.Convert(kt)
		case kt.Kind() != reflect.Interface:
			return reflect.Value{}, false
		}
		val := v.MapIndex(key)
		return val, val.IsValid()
	}
	return reflect.Value{}, false
}

// parsePath 把 "a.b[0][1]" 拆成 a、b、0、1 四级。
func parsePath(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if rest == "" {
			if name == "" {
				return nil, false
			}
			continue
		}
		for _, part := range strings.Split("["+rest, "[")[1:] {
			idx, err := strconv.Atoi(strings.TrimSuffix(part, "]"))
			if err != nil || !strings.HasSuffix(part, "]") {
				return nil, false
			}
			steps = append(steps, step{index: idx, isIdx: true})
		}
	}
	return steps, true
}
