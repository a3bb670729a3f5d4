package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 该文件定义长度与行距的单位换算。布局内部统一使用 pt。

// Unit 表示长度在配置或 DSL 中书写时的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位数字（倍数）
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 的换算常量。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// UnitToString 返回单位的简写。
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length 保留数值及其原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// To 将长度换算到目标单位（UnitMM 或 UnitPT）。无单位数值原样返回。
func (l Length) To(target Unit) float64 {
	var mm float64
	switch l.Unit {
	case UnitMM:
		mm = l.Value
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		return l.Value * PtToMm
	default:
		return l.Value
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseRawLengthStr 解析长度字符串并保留单位；无法解析时返回零值。
func ParseRawLengthStr(value string) Length {
	l, err := ParseLength(value)
	if err != nil {
		return Length{}
	}
	return l
}

// ParseLength 与 ParseRawLengthStr 相同，但会报告格式错误。空串视为 0。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, nil
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// parsePT 解析绝对长度并换算为 pt；无单位的数值按 pt 处理。
func parsePT(value string) (float64, error) {
	l, err := ParseLength(value)
	if err != nil {
		return 0, err
	}
	if l.Unit == UnitNone {
		return l.Value, nil
	}
	return l.ToPT(), nil
}

// LineHeightKind 区分倍数行距与固定行距。
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec 保留作者的原始意图：倍数（如 1.5）或固定值（如 18pt）。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 解析行距：无单位为倍数，带单位为固定值。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	l, err := ParseLength(value)
	if err != nil {
		return LineHeightSpec{}, err
	}
	if l.Unit == UnitNone {
		if l.Value <= 0 {
			return LineHeightSpec{}, fmt.Errorf("行距倍数必须为正数：%q", value)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: l.Value}, nil
	}
	if l.Value <= 0 {
		return LineHeightSpec{}, fmt.Errorf("行距必须为正数：%q", value)
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Resolve 根据单倍行高（pt）计算实际行高（pt）。
func (s LineHeightSpec) Resolve(single float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		if s.Factor == 0 {
			return single
		}
		return single * s.Factor
	case LineHeightAbsolute:
		return s.Len.ToPT()
	default:
		return single
	}
}
