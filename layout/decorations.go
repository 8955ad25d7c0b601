package layout

import "github.com/ByLCY/vellum/markup"

// 装饰条与链接区域都是布局结果上的派生几何：装饰条按需重算，不随
// Result 持久化；链接区域在布局收尾时提取一次，供命中测试使用。

// SpanKind 区分装饰条种类。
type SpanKind int

const (
	SpanUnderline SpanKind = iota
	SpanStrike
	SpanHighlight
)

// Span 是一段连续同属性字符共享的装饰矩形。
type Span struct {
	Kind  SpanKind
	Rect  Rect
	Color markup.Color
	Line  int
}

// Decorations 扫描布局结果，为下划线、删除线与文字底色生成装饰条。
// 同一属性的连续记录合并为一条；跨行时每行各自成条。下划线与删除线
// 取文本色，底色取标记色。
func Decorations(res *Result) []Span {
	var spans []Span
	spans = appendSpans(spans, res, SpanUnderline, func(st *markup.Style) (bool, markup.Color) {
		return st.Underline, st.Color
	})
	spans = appendSpans(spans, res, SpanStrike, func(st *markup.Style) (bool, markup.Color) {
		return st.Strike, st.Color
	})
	spans = appendSpans(spans, res, SpanHighlight, func(st *markup.Style) (bool, markup.Color) {
		return st.Mark, st.MarkColor
	})
	return spans
}

type spanState struct {
	active bool
	line   int
	color  markup.Color
	size   float64
	x0, x1 float64
	base   float64
}

func appendSpans(spans []Span, res *Result, kind SpanKind, attr func(*markup.Style) (bool, markup.Color)) []Span {
	var cur spanState
	flush := func() []Span {
		if !cur.active || cur.x1 <= cur.x0 {
			cur.active = false
			return spans
		}
		cur.active = false
		return append(spans, Span{
			Kind:  kind,
			Rect:  spanRect(kind, &cur, res),
			Color: cur.color,
			Line:  cur.line,
		})
	}
	for _, rec := range res.Records {
		on, color := attr(&rec.Style)
		// 换行、属性关闭或颜色变化都会结束当前条
		if !on || (cur.active && (rec.Line != cur.line || color != cur.color)) {
			spans = flush()
		}
		if !on {
			continue
		}
		if !cur.active {
			cur = spanState{
				active: true,
				line:   rec.Line,
				color:  color,
				size:   rec.Style.Size,
				x0:     rec.X,
				x1:     rec.X,
				base:   rec.Y,
			}
		}
		if right := rec.X + rec.Advance; right > cur.x1 {
			cur.x1 = right
		}
		if rec.Style.Size > cur.size {
			cur.size = rec.Style.Size
		}
	}
	return flush()
}

// spanRect 计算装饰条矩形。下划线/删除线为相对字号的细条；底色覆盖
// 所在行的上伸与下延整个区间。
func spanRect(kind SpanKind, s *spanState, res *Result) Rect {
	w := s.x1 - s.x0
	switch kind {
	case SpanUnderline:
		return Rect{X: s.x0, Y: s.base + underlineOffsetFactor*s.size, W: w, H: decorationThicknessFactor * s.size}
	case SpanStrike:
		return Rect{X: s.x0, Y: s.base - strikeOffsetFactor*s.size, W: w, H: decorationThicknessFactor * s.size}
	default:
		ln := &res.Lines[s.line]
		return Rect{X: s.x0, Y: ln.Baseline - ln.Ascent, W: w, H: ln.Ascent + ln.Descent}
	}
}

// buildLinks 提取链接区域：链接标识相同的连续记录归并为一个区域，
// 跨行时每行一个矩形。
func (e *engine) buildLinks() {
	res := e.res
	recs := res.Records
	i := 0
	for i < len(recs) {
		id := recs[i].Style.Link
		if id == "" {
			i++
			continue
		}
		j := i + 1
		for j < len(recs) && recs[j].Style.Link == id {
			j++
		}
		region := LinkRegion{ID: id, Start: i, End: j}
		k := i
		for k < j {
			line := recs[k].Line
			x0, x1 := recs[k].X, recs[k].X
			for k < j && recs[k].Line == line {
				if right := recs[k].X + recs[k].Advance; right > x1 {
					x1 = right
				}
				k++
			}
			ln := &res.Lines[line]
			region.Rects = append(region.Rects, Rect{
				X: x0,
				Y: ln.Baseline - ln.Ascent,
				W: x1 - x0,
				H: ln.Ascent + ln.Descent,
			})
		}
		res.Links = append(res.Links, region)
		i = j
	}
}
