package layout

import (
	"math"
	"testing"

	"github.com/ByLCY/vellum/markup"
)

// stubFonts 是测试用的等宽字体源：所有字形步进 10、上伸 8、下延 2。
type stubFonts struct{}

func (stubFonts) Glyph(family string, r rune, size float64, weight int, italic bool) Glyph {
	return Glyph{Advance: 10, Ascent: 8, Descent: 2, OK: true}
}

func (stubFonts) Kern(family string, prev, next rune, size float64, weight int, italic bool) float64 {
	return 0
}

func (stubFonts) Line(family string, size float64) LineMetrics {
	return LineMetrics{Ascent: 8, Descent: 2, LineHeight: 12, CapHeight: 6, XHeight: 4}
}

// kernFonts 在 stubFonts 基础上为所有相邻字符对返回固定负字距。
type kernFonts struct{ stubFonts }

func (kernFonts) Kern(family string, prev, next rune, size float64, weight int, italic bool) float64 {
	return -2
}

// stubSprites 只认识 emotes 图集里的 smile。
type stubSprites struct{}

func (stubSprites) Sprite(atlas, name string) (Sprite, bool) {
	if atlas == "emotes" && name == "smile" {
		return Sprite{Atlas: atlas, Name: name, Width: 32, Height: 32, BaseSize: 32}, true
	}
	return Sprite{}, false
}

func (s stubSprites) SpriteAt(atlas string, index int) (Sprite, bool) {
	if atlas == "emotes" && index == 0 {
		return s.Sprite(atlas, "smile")
	}
	return Sprite{}, false
}

func (s stubSprites) Find(name string) (Sprite, bool) { return s.Sprite("emotes", name) }
func (s stubSprites) FindAt(index int) (Sprite, bool) { return s.SpriteAt("emotes", index) }

func parseChars(t *testing.T, src string) []markup.Char {
	t.Helper()
	return markup.Parse(src, markup.Options{Size: 16})
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// TestEmptyInput 验证空输入产出零记录、零行、零宽高。
func TestEmptyInput(t *testing.T) {
	res := Layout(nil, Config{Fonts: stubFonts{}})
	if res.CharCount() != 0 || res.LineCount() != 0 || res.Width != 0 || res.Height != 0 {
		t.Fatalf("空输入结果应全零: %+v", res)
	}
}

// TestWrapTwoWords 验证按词折行与行宽统计（行尾空白不计入行宽）。
func TestWrapTwoWords(t *testing.T) {
	res := Layout(parseChars(t, "Hello World"), Config{Fonts: stubFonts{}, Width: 60, Wrap: true})
	if res.LineCount() != 2 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	if res.WordCount() != 2 {
		t.Fatalf("词数错误: %d", res.WordCount())
	}
	if !near(res.Lines[0].Width, 50) || !near(res.Lines[1].Width, 50) {
		t.Fatalf("行宽错误: %g %g", res.Lines[0].Width, res.Lines[1].Width)
	}
	// 行高取行内可见字形的实际上伸+下延
	if !near(res.Lines[0].Height, 10) {
		t.Fatalf("行高错误: %g", res.Lines[0].Height)
	}
	if !near(res.Lines[1].Baseline, 18) {
		t.Fatalf("第二行基线错误: %g", res.Lines[1].Baseline)
	}
	if res.Words[1].Line != 1 {
		t.Fatalf("第二个词应落在第二行: %d", res.Words[1].Line)
	}
	first := res.Records[res.Lines[1].Start]
	if first.Rune != 'W' || !near(first.X, 0) {
		t.Fatalf("折行后的词应从行首开始: %c %g", first.Rune, first.X)
	}
}

// TestNoWrap 验证关闭折行时内容保持单行。
func TestNoWrap(t *testing.T) {
	res := Layout(parseChars(t, "Hello World"), Config{Fonts: stubFonts{}, Width: 60})
	if res.LineCount() != 1 {
		t.Fatalf("不折行时应为单行: %d", res.LineCount())
	}
	if !near(res.Lines[0].Width, 110) {
		t.Fatalf("行宽错误: %g", res.Lines[0].Width)
	}
}

// TestExplicitBreak 验证显式换行记录归属前一行并标记 ExplicitBreak。
func TestExplicitBreak(t *testing.T) {
	res := Layout(parseChars(t, "a\nb"), Config{Fonts: stubFonts{}})
	if res.LineCount() != 2 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	if !res.Lines[0].ExplicitBreak || res.Lines[1].ExplicitBreak {
		t.Fatalf("显式换行标记错误: %+v", res.Lines)
	}
	brk := res.Records[res.Lines[0].End-1]
	if brk.Kind != markup.KindLineBreak {
		t.Fatalf("换行记录应归属前一行: %v", brk.Kind)
	}
}

// TestBreakWords 验证超长词的强制词内断行。
func TestBreakWords(t *testing.T) {
	res := Layout(parseChars(t, "abcdefgh"), Config{Fonts: stubFonts{}, Width: 35, Wrap: true, BreakWords: true})
	if res.LineCount() != 3 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	if !near(res.Lines[0].Width, 30) || !near(res.Lines[2].Width, 20) {
		t.Fatalf("断行行宽错误: %g %g", res.Lines[0].Width, res.Lines[2].Width)
	}
}

// TestBreakWordsDisabled 验证不允许词内断行时超长词整体溢出。
func TestBreakWordsDisabled(t *testing.T) {
	res := Layout(parseChars(t, "abcdefgh"), Config{Fonts: stubFonts{}, Width: 35, Wrap: true})
	if res.LineCount() != 1 {
		t.Fatalf("无断点的超长词应整体保留: %d 行", res.LineCount())
	}
}

// TestSoftHyphen 验证软连字符断点优先，并合成可见连字符。
func TestSoftHyphen(t *testing.T) {
	res := Layout(parseChars(t, "foo<shy>bar"), Config{Fonts: stubFonts{}, Width: 45, Wrap: true, BreakWords: true})
	if res.LineCount() != 2 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	ln := res.Lines[0]
	hyphen := res.Records[ln.End-1]
	if hyphen.Rune != '-' || !hyphen.Visible {
		t.Fatalf("断点处应合成可见连字符: %+v", hyphen)
	}
	if !near(ln.Width, 40) {
		t.Fatalf("首行宽度应含连字符: %g", ln.Width)
	}
	second := res.Records[res.Lines[1].Start]
	if second.Rune != 'b' || !near(second.X, 0) {
		t.Fatalf("词尾部分应移到下一行行首: %c %g", second.Rune, second.X)
	}
}

// TestSoftHyphenUnusedInvisible 验证未触发断行的软连字符不可见且零宽。
func TestSoftHyphenUnusedInvisible(t *testing.T) {
	res := Layout(parseChars(t, "foo<shy>bar"), Config{Fonts: stubFonts{}, Width: 200, Wrap: true})
	if res.LineCount() != 1 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	for _, rec := range res.Records {
		if rec.Kind == markup.KindSoftHyphen {
			if rec.Visible || rec.Advance != 0 {
				t.Fatalf("未使用的软连字符应不可见零宽: %+v", rec)
			}
			return
		}
	}
	t.Fatalf("未找到软连字符记录")
}

// TestJustifiedLine 验证两端对齐把富余摊到词间隙与字符间隙，末行跳过。
func TestJustifiedLine(t *testing.T) {
	res := Layout(parseChars(t, "<align=justified>aa bb cc"), Config{Fonts: stubFonts{}, Width: 55, Wrap: true})
	if res.LineCount() != 2 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	ln := res.Lines[0]
	var lastVis *Record
	for i := ln.End - 1; i >= ln.Start; i-- {
		if res.Records[i].Visible {
			lastVis = res.Records[i]
			break
		}
	}
	if lastVis == nil || !near(lastVis.X+lastVis.Advance, 55) {
		t.Fatalf("两端对齐后行右缘应贴住容器: %+v", lastVis)
	}
	// 末行不拉伸
	last := res.Records[res.Lines[1].Start]
	if !near(last.X, 0) {
		t.Fatalf("末行不应拉伸: %g", last.X)
	}
}

// TestFlushAlignStretchesLastLine 验证 flush 对齐对末行同样拉伸。
func TestFlushAlignStretchesLastLine(t *testing.T) {
	res := Layout(parseChars(t, "<align=flush>aa bb"), Config{Fonts: stubFonts{}, Width: 60, Wrap: true})
	if res.LineCount() != 1 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	ln := res.Lines[0]
	last := res.Records[ln.End-1]
	if !near(last.X+last.Advance, 60) {
		t.Fatalf("flush 末行右缘应贴住容器: %g", last.X+last.Advance)
	}
	if !near(ln.Width, 60) {
		t.Fatalf("拉伸后行宽应等于容器宽: %g", ln.Width)
	}
}

// TestJustifiedWrapTolerance 验证两端对齐允许行宽少量超出容器再折行。
func TestJustifiedWrapTolerance(t *testing.T) {
	left := Layout(parseChars(t, "aaaaa bbbb"), Config{Fonts: stubFonts{}, Width: 97, Wrap: true})
	if left.LineCount() != 2 {
		t.Fatalf("左对齐超宽应折行: %d", left.LineCount())
	}
	just := Layout(parseChars(t, "<align=justified>aaaaa bbbb"), Config{Fonts: stubFonts{}, Width: 97, Wrap: true})
	if just.LineCount() != 1 {
		t.Fatalf("容差内的词不应折行: %d", just.LineCount())
	}
}

// TestCenterAlign 验证居中行整体平移。
func TestCenterAlign(t *testing.T) {
	res := Layout(parseChars(t, "<align=center>ab"), Config{Fonts: stubFonts{}, Width: 100})
	if !near(res.Records[0].X, 40) {
		t.Fatalf("居中平移错误: %g", res.Records[0].X)
	}
}

// TestOverflowTruncate 验证限高截断丢弃放不下的整行。
func TestOverflowTruncate(t *testing.T) {
	res := Layout(parseChars(t, "a\nb\nc"), Config{
		Fonts: stubFonts{}, Width: 100, Height: 15, Overflow: OverflowTruncate,
	})
	if res.LineCount() != 1 {
		t.Fatalf("截断后行数错误: %d", res.LineCount())
	}
	if res.CharCount() != res.Lines[0].End {
		t.Fatalf("截断后记录应同步收缩: %d", res.CharCount())
	}
}

// TestOverflowEllipsis 验证省略号追加在末个保留行的行尾。
func TestOverflowEllipsis(t *testing.T) {
	res := Layout(parseChars(t, "aa\nbb"), Config{
		Fonts: stubFonts{}, Width: 100, Height: 15, Overflow: OverflowEllipsis,
	})
	if res.LineCount() != 1 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	last := res.Records[res.CharCount()-1]
	if last.Rune != '…' || !last.Visible {
		t.Fatalf("行尾应为省略号: %+v", last)
	}
	if !near(res.Lines[0].Width, 30) {
		t.Fatalf("省略号应计入行宽: %g", res.Lines[0].Width)
	}
}

// TestVAlignBottom 验证底部对齐整体下移。
func TestVAlignBottom(t *testing.T) {
	res := Layout(parseChars(t, "a"), Config{
		Fonts: stubFonts{}, Width: 100, Height: 100, VAlign: VAlignBottom,
	})
	if !near(res.Lines[0].Baseline, 98) {
		t.Fatalf("底部对齐基线错误: %g", res.Lines[0].Baseline)
	}
}

// TestVAlignMiddle 验证垂直居中偏移量。
func TestVAlignMiddle(t *testing.T) {
	res := Layout(parseChars(t, "a"), Config{
		Fonts: stubFonts{}, Width: 100, Height: 100, VAlign: VAlignMiddle,
	})
	if !near(res.Lines[0].Y, 45) {
		t.Fatalf("垂直居中行顶错误: %g", res.Lines[0].Y)
	}
}

// TestCarriageReturn 验证回车只回到行首，不另起新行。
func TestCarriageReturn(t *testing.T) {
	res := Layout(parseChars(t, "ab<cr>c"), Config{Fonts: stubFonts{}})
	if res.LineCount() != 1 {
		t.Fatalf("回车不应产生新行: %d", res.LineCount())
	}
	var c *Record
	for _, rec := range res.Records {
		if rec.Rune == 'c' {
			c = rec
		}
	}
	if c == nil || !near(c.X, 0) {
		t.Fatalf("回车后字符应回到行首: %+v", c)
	}
}

// TestTabStops 验证制表位按空格步进的整数倍推进。
func TestTabStops(t *testing.T) {
	res := Layout(parseChars(t, "a\tb"), Config{Fonts: stubFonts{}})
	var b *Record
	for _, rec := range res.Records {
		if rec.Rune == 'b' {
			b = rec
		}
	}
	if b == nil || !near(b.X, 40) {
		t.Fatalf("制表位错误: %+v", b)
	}
}

// TestFixedPos 验证 <pos> 绝对定位。
func TestFixedPos(t *testing.T) {
	res := Layout(parseChars(t, "a<pos=50>b"), Config{Fonts: stubFonts{}})
	var b *Record
	for _, rec := range res.Records {
		if rec.Rune == 'b' {
			b = rec
		}
	}
	if b == nil || !near(b.X, 50) {
		t.Fatalf("绝对定位错误: %+v", b)
	}
}

// TestIndent 验证首行缩进只作用于段首。
func TestIndent(t *testing.T) {
	res := Layout(parseChars(t, "<indent=20>aaaa bb"), Config{Fonts: stubFonts{}, Width: 60, Wrap: true})
	if res.LineCount() != 2 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	if !near(res.Records[res.Lines[0].Start].X, 20) {
		t.Fatalf("段首缩进错误: %g", res.Records[res.Lines[0].Start].X)
	}
	if !near(res.Records[res.Lines[1].Start].X, 0) {
		t.Fatalf("折行后的行不应带首行缩进: %g", res.Records[res.Lines[1].Start].X)
	}
}

// TestMonospace 验证 mspace 强制步进覆盖字形步进。
func TestMonospace(t *testing.T) {
	res := Layout(parseChars(t, "<mspace=14>ab"), Config{Fonts: stubFonts{}})
	if !near(res.Records[1].X, 14) {
		t.Fatalf("等宽步进错误: %g", res.Records[1].X)
	}
}

// TestSpriteScaling 验证精灵图按 字号/基准字号 缩放步进。
func TestSpriteScaling(t *testing.T) {
	res := Layout(parseChars(t, `a<sprite="emotes" name="smile">b`), Config{
		Fonts: stubFonts{}, Sprites: stubSprites{},
	})
	sp := res.Records[1]
	if sp.Sprite == nil {
		t.Fatalf("精灵图未解析: %+v", sp)
	}
	// 基准 32、字号 16 → 缩放 0.5
	if !near(sp.Advance, 16) || !near(sp.Sprite.Height, 16) {
		t.Fatalf("精灵图缩放错误: advance=%g height=%g", sp.Advance, sp.Sprite.Height)
	}
	if !near(res.Records[2].X, 26) {
		t.Fatalf("精灵图后字符位置错误: %g", res.Records[2].X)
	}
}

// TestUnresolvedSprite 验证无法解析的精灵图不可见且零步进。
func TestUnresolvedSprite(t *testing.T) {
	res := Layout(parseChars(t, `a<sprite=unknown>b`), Config{
		Fonts: stubFonts{}, Sprites: stubSprites{},
	})
	sp := res.Records[1]
	if sp.Visible || sp.Advance != 0 || sp.Sprite != nil {
		t.Fatalf("未解析精灵图处理错误: %+v", sp)
	}
	if !near(res.Records[2].X, 10) {
		t.Fatalf("后续字符不应受影响: %g", res.Records[2].X)
	}
}

// TestLinkRegions 验证链接区域提取与命中测试。
func TestLinkRegions(t *testing.T) {
	res := Layout(parseChars(t, `x<link="doc">ab</link>y`), Config{Fonts: stubFonts{}})
	if len(res.Links) != 1 {
		t.Fatalf("链接区域数错误: %d", len(res.Links))
	}
	region := res.Links[0]
	if region.ID != "doc" || len(region.Rects) != 1 {
		t.Fatalf("链接区域错误: %+v", region)
	}
	r := region.Rects[0]
	if !near(r.X, 10) || !near(r.W, 20) {
		t.Fatalf("链接矩形错误: %+v", r)
	}
	if !region.Hit(15, r.Y+1) || region.Hit(5, r.Y+1) {
		t.Fatalf("命中测试错误")
	}
}

// TestNbspKeepsWordTogether 验证不可断空格把两段文字粘成一个词。
func TestNbspKeepsWordTogether(t *testing.T) {
	res := Layout(parseChars(t, "aa<nbsp>bb cc"), Config{Fonts: stubFonts{}, Width: 55, Wrap: true})
	if res.LineCount() != 2 {
		t.Fatalf("行数错误: %d", res.LineCount())
	}
	// aa+nbsp+bb 是一个词（宽 50），cc 折到第二行
	if res.Words[0].Width != 50 {
		t.Fatalf("nbsp 词宽错误: %g", res.Words[0].Width)
	}
}

// TestNoBreakRunKeepsKerning 验证 nobr 区段内普通字符仍参与字距，
// 只有不可断空格会重置字距上下文。
func TestNoBreakRunKeepsKerning(t *testing.T) {
	plain := Layout(parseChars(t, "AVA"), Config{Fonts: kernFonts{}})
	if !near(plain.Records[2].X, 18) {
		t.Fatalf("基准字距错误: %g", plain.Records[2].X)
	}
	nobr := Layout(parseChars(t, "<nobr>AVA</nobr>"), Config{Fonts: kernFonts{}})
	if !near(nobr.Records[2].X, plain.Records[2].X) {
		t.Fatalf("nobr 区段不应丢失字距: %g", nobr.Records[2].X)
	}
	// 不可断空格本身仍重置：其后的字符不带字距
	mixed := Layout(parseChars(t, "a<nbsp>b"), Config{Fonts: kernFonts{}})
	if !near(mixed.Records[2].X, 18) {
		t.Fatalf("nbsp 后字符不应带字距: %g", mixed.Records[2].X)
	}
}

// TestVOffsetBaseline 验证基线偏移向上为正、落位时反向。
func TestVOffsetBaseline(t *testing.T) {
	res := Layout(parseChars(t, "a<voffset=4>b</voffset>"), Config{Fonts: stubFonts{}})
	a, b := res.Records[0], res.Records[1]
	if !near(a.Y-b.Y, 4) {
		t.Fatalf("基线偏移错误: a=%g b=%g", a.Y, b.Y)
	}
}
