package layout

import (
	"testing"

	"github.com/ByLCY/vellum/markup"
)

// TestUnderlineSpanMerge 验证连续下划线字符（含空格）合并为一条。
func TestUnderlineSpanMerge(t *testing.T) {
	res := Layout(parseChars(t, "<u>ab cd</u>e"), Config{Fonts: stubFonts{}})
	spans := Decorations(res)
	var underlines []Span
	for _, s := range spans {
		if s.Kind == SpanUnderline {
			underlines = append(underlines, s)
		}
	}
	if len(underlines) != 1 {
		t.Fatalf("下划线条数错误: %d", len(underlines))
	}
	r := underlines[0].Rect
	if r.X != 0 || r.W != 50 {
		t.Fatalf("下划线区间错误: %+v", r)
	}
	if r.H != decorationThicknessFactor*16 {
		t.Fatalf("下划线厚度错误: %g", r.H)
	}
}

// TestSpanSplitsAcrossLines 验证装饰条跨行时每行各自成条。
func TestSpanSplitsAcrossLines(t *testing.T) {
	res := Layout(parseChars(t, "<u>aa bb</u>"), Config{Fonts: stubFonts{}, Width: 25, Wrap: true})
	if res.LineCount() != 2 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	spans := Decorations(res)
	count := 0
	for _, s := range spans {
		if s.Kind == SpanUnderline {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("跨行下划线条数错误: %d", count)
	}
}

// TestHighlightSpan 验证文字底色取标记色并覆盖整行高度区间。
func TestHighlightSpan(t *testing.T) {
	res := Layout(parseChars(t, "a<mark=#ffff0080>bc</mark>"), Config{Fonts: stubFonts{}})
	spans := Decorations(res)
	var hl *Span
	for i := range spans {
		if spans[i].Kind == SpanHighlight {
			hl = &spans[i]
		}
	}
	if hl == nil {
		t.Fatalf("未生成底色条")
	}
	if hl.Color != (markup.Color{R: 0xff, G: 0xff, B: 0x00, A: 0x80}) {
		t.Fatalf("底色错误: %+v", hl.Color)
	}
	ln := res.Lines[0]
	if hl.Rect.X != 10 || hl.Rect.W != 20 || hl.Rect.H != ln.Ascent+ln.Descent {
		t.Fatalf("底色矩形错误: %+v", hl.Rect)
	}
}

// TestStrikeSpanPosition 验证删除线位于基线上方。
func TestStrikeSpanPosition(t *testing.T) {
	res := Layout(parseChars(t, "<s>ab</s>"), Config{Fonts: stubFonts{}})
	spans := Decorations(res)
	var strike *Span
	for i := range spans {
		if spans[i].Kind == SpanStrike {
			strike = &spans[i]
		}
	}
	if strike == nil {
		t.Fatalf("未生成删除线")
	}
	baseline := res.Lines[0].Baseline
	if strike.Rect.Y >= baseline {
		t.Fatalf("删除线应在基线上方: y=%g baseline=%g", strike.Rect.Y, baseline)
	}
}

// TestColorChangeSplitsSpan 验证装饰色变化切断装饰条。
func TestColorChangeSplitsSpan(t *testing.T) {
	res := Layout(parseChars(t, "<u>a<color=red>b</color></u>"), Config{Fonts: stubFonts{}})
	spans := Decorations(res)
	count := 0
	for _, s := range spans {
		if s.Kind == SpanUnderline {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("变色应切断下划线: %d", count)
	}
}
