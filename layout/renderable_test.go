package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/wordml"
)

func stateAt(remaining, height float64) State {
	return State{Remaining: remaining, Width: 100, Height: height, AtPageTop: remaining == height}
}

func TestSplitUnitsOrphanMovesWholeBlock(t *testing.T) {
	// 当前页只放得下 1 行，但首段至少需要 2 行：整段移到下一页。
	chunks := splitUnits(repeat(10, 3), 0, 0, 0, stateAt(15, 50), 2, 2)
	if len(chunks) != 1 {
		t.Fatalf("期望 1 段，实际 %d 段", len(chunks))
	}
	if c := chunks[0]; c.start != 0 || c.end != 3 || c.height != 30 || c.brk != BreakNatural {
		t.Fatalf("整段应在下一页：%+v", c)
	}
}

func TestSplitUnitsTruncatesTrailingSpacing(t *testing.T) {
	// 段后距放不下时在页底截断，不引起分页。
	chunks := splitUnits(repeat(10, 2), 0, 0, 5, stateAt(20, 50), 1, 1)
	if len(chunks) != 1 || chunks[0].height != 20 || chunks[0].brk != BreakNone {
		t.Fatalf("段后距应被截断：%+v", chunks)
	}
}

func TestSplitUnitsTallUnitAtPageTop(t *testing.T) {
	// 页首连一个单元都放不下时仍然放置，避免死循环。
	chunks := splitUnits([]float64{80, 10}, 0, 0, 0, stateAt(50, 50), 1, 1)
	if len(chunks) != 2 || chunks[0].end != 1 || chunks[1].start != 1 {
		t.Fatalf("过高的单元应单独成段：%+v", chunks)
	}
}

func TestSplitUnitsContinuationOverhead(t *testing.T) {
	chunks := splitUnits(repeat(10, 8), 10, 10, 0, stateAt(50, 50), 1, 1)
	var total int
	for i, c := range chunks {
		total += c.end - c.start
		if c.height > 50 {
			t.Fatalf("第 %d 段高度 %g 超过整页", i, c.height)
		}
		if i > 0 && c.brk != BreakNatural {
			t.Fatalf("续段应以自然分页开始：%+v", c)
		}
	}
	if total != 8 {
		t.Fatalf("所有单元都应被放置，实际 %d 个", total)
	}
	if chunks[0].end != 4 {
		t.Fatalf("首段含题注 10，应放 4 个单元，实际 %d 个", chunks[0].end)
	}
}

func TestSplitUnitsEmpty(t *testing.T) {
	chunks := splitUnits(nil, 3, 0, 4, stateAt(50, 50), 1, 1)
	if len(chunks) != 1 || chunks[0].height != 7 {
		t.Fatalf("空内容应只占附加高度：%+v", chunks)
	}
}

func TestParagraphEstimates(t *testing.T) {
	env := stubEnv(5)
	st := env.Settings.Style(config.StyleBody)
	st.SpacingBefore, st.SpacingAfter = 3, 4
	p := NewParagraph(env, st, Text(words(3)))

	if got := p.EstimateHeight(100); got != 37 {
		t.Fatalf("高度应为 3+30+4，实际 %g", got)
	}
	if got := p.LeadHeight(2, 100); got != 23 {
		t.Fatalf("前两行高度应为 3+20，实际 %g", got)
	}
	if got := p.LeadHeight(9, 100); got != 33 {
		t.Fatalf("行数不足时按全部行计算，实际 %g", got)
	}
}

func TestParagraphEstimateIsDeterministic(t *testing.T) {
	env := stubEnv(5)
	p := body(env, 4)
	first := p.EstimateHeight(100)
	for range 3 {
		if got := p.EstimateHeight(100); got != first {
			t.Fatalf("重复估算结果不一致：%g != %g", got, first)
		}
	}
	if p.EstimateHeight(50) < first {
		t.Fatalf("宽度变小时高度不应减少")
	}
}

func TestInlineFormatting(t *testing.T) {
	env := stubEnv(5)
	p := NewParagraph(env, env.Settings.Style(config.StyleBody),
		Text("plain "), Styled("bold", true, false), Code(" x", "Mono"))
	frags, err := p.Render(nil, NewTracker(env.Settings.Geometry).State())
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	xml, err := wordml.Marshal(frags[0].Object)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	for _, want := range []string{`w:val="Body"`, "<w:b>", `w:ascii="Mono"`} {
		if !strings.Contains(xml, want) {
			t.Fatalf("输出缺少 %s：%s", want, xml)
		}
	}
	if wordml.PlainText(frags[0].Object) != "plain bold x" {
		t.Fatalf("文字内容错误：%q", wordml.PlainText(frags[0].Object))
	}
}
