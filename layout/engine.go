package layout

import (
	"math"

	"github.com/ByLCY/vellum/markup"
)

// 布局引擎对字符记录做单趟前向扫描：可见字符先进入词缓冲，遇到可断
// 空白/显式换行/制表/零宽空格或输入结束时冲刷；冲刷时做折行判定，必
// 要时先换行再放置。软连字符作为词内潜在断点记录，仅在实际断行时合
// 成可见连字符。之后依次做溢出裁剪、水平对齐、垂直对齐与链接提取。

// Layout 将解析产出的字符序列排成可渲染的几何结果。
// 任何输入都能得到内部一致的结果；空输入产出零记录、零行、零宽高。
func Layout(chars []markup.Char, cfg Config) *Result {
	if cfg.Fonts == nil {
		cfg.Fonts = emptyFonts{}
	}
	res := &Result{}
	if len(chars) == 0 {
		return res
	}
	e := &engine{cfg: &cfg, res: res}
	e.begin(chars[0].Style)
	e.runForward(chars)
	e.applyOverflow()
	e.computeTotals()
	e.applyAlignment()
	e.applyVerticalAlign()
	e.buildLinks()
	return res
}

type engine struct {
	cfg *Config
	res *Result

	x, y           float64
	paragraphStart bool

	// 当前行状态；lineStart 指向行内第一条记录
	lineStart   int
	lineStyle   markup.Style
	lineHasWord bool
	lineDirty   bool
	lineSpaces  int
	lineVisible int
	lineAscent  float64
	lineDescent float64
	lineMaxAdv  float64

	// 词缓冲：records[wordStart:] 的 X 为相对词首的偏移
	wordStart int
	wordWidth float64
	shy       []int // 词内软连字符记录下标，rec.X 即断点前的词宽

	// 紧邻的前一个已渲染字符，用于字距查询；不可断空格与合成标记会重置
	prev    rune
	hasPrev bool
}

func (e *engine) begin(st markup.Style) {
	e.lineStyle = st
	e.paragraphStart = true
	e.x = e.lineOrigin(&st)
}

// lineOrigin 返回当前行的起始横坐标：左边距加换行缩进，段首再加首行缩进。
func (e *engine) lineOrigin(st *markup.Style) float64 {
	o := st.MarginLeft + st.LineIndent
	if e.paragraphStart {
		o += st.Indent
	}
	return o
}

// effWidth 返回有效折行宽度：容器宽度与行内宽度约束取较紧者，再扣右边距。
// 返回 0 表示不限宽。
func (e *engine) effWidth(st *markup.Style) float64 {
	w := e.cfg.Width
	if st.Width > 0 && (w <= 0 || st.Width < w) {
		w = st.Width
	}
	if w <= 0 {
		return 0
	}
	if w -= st.MarginRight; w < 0 {
		w = 0
	}
	return w
}

func weightOf(st *markup.Style) int {
	if st.Bold && st.Weight < 700 {
		return 700
	}
	return st.Weight
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == ' ' || r == ' '
}

func (e *engine) runForward(chars []markup.Char) {
	for i := range chars {
		c := &chars[i]
		e.lineStyle = c.Style
		if c.HasFixedX {
			// 绝对定位只作用于本字符：冲刷词缓冲后移动游标
			e.flushWord()
			e.x = c.FixedX
			e.hasPrev = false
		}
		switch c.Kind {
		case markup.KindLineBreak:
			e.flushWord()
			e.placeInvisible(c)
			e.finalizeLine(c.Style, true)
		case markup.KindCarriageReturn:
			e.flushWord()
			e.placeInvisible(c)
			e.x = e.lineOrigin(&c.Style)
			e.hasPrev = false
		case markup.KindTab:
			e.flushWord()
			e.placeTab(c)
		case markup.KindZeroWidthSpace:
			e.flushWord()
			e.placeInvisible(c)
			e.hasPrev = false
		case markup.KindZeroWidthJoiner:
			e.addMarkToWord(c)
			e.hasPrev = false
		case markup.KindSoftHyphen:
			idx := e.addMarkToWord(c)
			e.shy = append(e.shy, idx)
			e.hasPrev = false
		case markup.KindSprite:
			e.addSprite(c)
		default:
			if isSpaceRune(c.Rune) && !c.NoBreak {
				e.flushWord()
				e.placeSpace(c)
			} else {
				e.addChar(c)
			}
		}
	}
	e.flushWord()
	if e.lineDirty || len(e.res.Lines) == 0 {
		e.finalizeLine(e.lineStyle, false)
	}
}

func (e *engine) acquire() *Record {
	var rec *Record
	if e.cfg.Pool != nil {
		rec = e.cfg.Pool.Get()
	} else {
		rec = &Record{}
	}
	rec.Word = -1
	return rec
}

func (e *engine) release(rec *Record) {
	if e.cfg.Pool != nil {
		e.cfg.Pool.Put(rec)
	}
}

func (e *engine) fill(rec *Record, c *markup.Char) {
	rec.Rune = c.Rune
	rec.Kind = c.Kind
	rec.Style = c.Style
	rec.Source = c.Source
}

// charAdvance 计算单字符步进：(字形步进+字距+字符间距)×缩放+伪粗体附加；
// 设置了等宽强制步进时直接取之。
func (e *engine) charAdvance(st *markup.Style, g Glyph, kern float64) float64 {
	if st.Mono > 0 {
		return st.Mono
	}
	adv := (g.Advance + kern + st.CharSpacing) * st.Scale
	if st.Bold {
		adv += boldExtraFactor * st.Size
	}
	return adv
}

// addChar 将可见字符追加进词缓冲。
func (e *engine) addChar(c *markup.Char) {
	st := &c.Style
	rec := e.acquire()
	e.fill(rec, c)
	g := e.cfg.Fonts.Glyph(st.Family, c.Rune, st.Size, weightOf(st), st.Italic)
	kern := 0.0
	if e.hasPrev {
		kern = e.cfg.Fonts.Kern(st.Family, e.prev, c.Rune, st.Size, weightOf(st), st.Italic)
	}
	rec.Visible = g.OK
	rec.Ascent = g.Ascent * st.Scale
	rec.Descent = g.Descent * st.Scale
	rec.Advance = e.charAdvance(st, g, kern)
	rec.X = e.wordWidth + c.ExtraSpace
	e.wordWidth += c.ExtraSpace + rec.Advance
	e.res.Records = append(e.res.Records, rec)
	if c.NoBreak && isSpaceRune(c.Rune) {
		// 不可断空格不参与后续字距；nobr 区段内的普通字符照常参与
		e.hasPrev = false
	} else {
		e.prev = c.Rune
		e.hasPrev = true
	}
}

// addMarkToWord 把零宽标记作为不可见零步进记录放入词缓冲，返回其下标。
func (e *engine) addMarkToWord(c *markup.Char) int {
	rec := e.acquire()
	e.fill(rec, c)
	rec.Visible = false
	rec.X = e.wordWidth + c.ExtraSpace
	e.wordWidth += c.ExtraSpace
	e.res.Records = append(e.res.Records, rec)
	return len(e.res.Records) - 1
}

// addSprite 解析并放置内联精灵图；解析失败时记录不可见且零步进。
func (e *engine) addSprite(c *markup.Char) {
	st := &c.Style
	rec := e.acquire()
	e.fill(rec, c)
	if sp, ok := e.resolveSprite(c.Sprite); ok {
		scale := st.Scale
		if sp.BaseSize > 0 {
			scale *= st.Size / sp.BaseSize
		}
		sp.Width *= scale
		sp.Height *= scale
		sp.YOffset *= scale
		rec.Sprite = &sp
		rec.Visible = true
		rec.Advance = sp.Width
		rec.Ascent = sp.Height + sp.YOffset
		if rec.Ascent < 0 {
			rec.Ascent = 0
		}
		if sp.YOffset < 0 {
			rec.Descent = -sp.YOffset
		}
	}
	rec.X = e.wordWidth + c.ExtraSpace
	e.wordWidth += c.ExtraSpace + rec.Advance
	e.res.Records = append(e.res.Records, rec)
	e.hasPrev = false
}

func (e *engine) resolveSprite(ref markup.SpriteRef) (Sprite, bool) {
	src := e.cfg.Sprites
	if src == nil {
		return Sprite{}, false
	}
	switch {
	case ref.Atlas != "" && ref.Name != "":
		return src.Sprite(ref.Atlas, ref.Name)
	case ref.Atlas != "" && ref.HasIndex:
		return src.SpriteAt(ref.Atlas, ref.Index)
	case ref.Name != "":
		return src.Find(ref.Name)
	case ref.HasIndex:
		return src.FindAt(ref.Index)
	default:
		return Sprite{}, false
	}
}

// placeLineRec 将记录直接放到当前行（绕过词缓冲）并同步词起点。
func (e *engine) placeLineRec(rec *Record) {
	e.res.Records = append(e.res.Records, rec)
	e.wordStart = len(e.res.Records)
	e.lineDirty = true
}

func (e *engine) placeInvisible(c *markup.Char) {
	rec := e.acquire()
	e.fill(rec, c)
	rec.Visible = false
	rec.X = e.x + c.ExtraSpace
	e.x += c.ExtraSpace
	e.placeLineRec(rec)
}

// placeSpace 放置可断行空格：不产生字形但贡献步进与词间隙计数。
func (e *engine) placeSpace(c *markup.Char) {
	st := &c.Style
	rec := e.acquire()
	e.fill(rec, c)
	g := e.cfg.Fonts.Glyph(st.Family, c.Rune, st.Size, weightOf(st), st.Italic)
	adv := g.Advance
	if !g.OK {
		// en/em 空格字形缺失时按字号折算
		switch c.Rune {
		case ' ':
			adv = st.Size / 2
		case ' ':
			adv = st.Size
		}
	}
	if st.Mono > 0 {
		rec.Advance = st.Mono
	} else {
		rec.Advance = (adv + st.CharSpacing + st.WordSpacing) * st.Scale
	}
	rec.Visible = false
	rec.X = e.x + c.ExtraSpace
	e.x += c.ExtraSpace + rec.Advance
	e.lineSpaces++
	e.placeLineRec(rec)
	e.prev = c.Rune
	e.hasPrev = true
}

// placeTab 将游标推进到下一个制表位。
func (e *engine) placeTab(c *markup.Char) {
	st := &c.Style
	rec := e.acquire()
	e.fill(rec, c)
	g := e.cfg.Fonts.Glyph(st.Family, ' ', st.Size, weightOf(st), st.Italic)
	tab := g.Advance * e.cfg.tabSize()
	if tab <= 0 {
		tab = st.Size * e.cfg.tabSize() / 2
	}
	origin := st.MarginLeft
	next := origin + (math.Floor((e.x-origin)/tab)+1)*tab
	rec.Visible = false
	rec.X = e.x + c.ExtraSpace
	rec.Advance = next - e.x
	e.x = next + c.ExtraSpace
	e.placeLineRec(rec)
	e.hasPrev = false
}

// accountLineRec 把已放置记录计入当前行的聚合量。
func (e *engine) accountLineRec(rec *Record) {
	if rec.Visible {
		e.lineVisible++
		v := rec.Style.VOffset
		if a := rec.Ascent + v; a > e.lineAscent {
			e.lineAscent = a
		}
		if d := rec.Descent - v; d > e.lineDescent {
			e.lineDescent = d
		}
	}
	if rec.Advance > e.lineMaxAdv {
		e.lineMaxAdv = rec.Advance
	}
	e.lineDirty = true
}

// flushWord 结束词缓冲：先做折行判定，必要时换行或词内断行，再放置。
func (e *engine) flushWord() {
	recs := e.res.Records
	if e.wordStart >= len(recs) {
		return
	}
	st := recs[e.wordStart].Style
	effW := e.effWidth(&st)
	limit := effW
	if st.Align == markup.AlignJustified || st.Align == markup.AlignFlush {
		limit *= wrapOverflowTolerance
	}
	if e.cfg.Wrap && effW > 0 && e.lineHasWord && e.x+e.wordWidth > limit {
		e.finalizeLine(st, false)
	}
	// 词本身超出整行宽度时的词内断行；软连字符断点优先于无条件断行
	for e.cfg.Wrap && effW > 0 && e.x+e.wordWidth > limit &&
		(e.cfg.BreakWords || len(e.shy) > 0) {
		if !e.splitWordOnce(limit, &st) {
			break
		}
	}
	e.placeWord()
}

// splitWordOnce 在词缓冲内找一个断点：优先取放得下的最靠右软连字符
// （合成可见连字符），否则按宽度扫描强制断行。前半段落位后换行，
// 余下部分成为新的词缓冲。无法再分时返回 false。
func (e *engine) splitWordOnce(limit float64, st *markup.Style) bool {
	recs := e.res.Records
	cut, cutWidth := -1, 0.0

	for i := len(e.shy) - 1; i >= 0; i-- {
		idx := e.shy[i]
		hst := recs[idx].Style
		hg := e.cfg.Fonts.Glyph(hst.Family, '-', hst.Size, weightOf(&hst), hst.Italic)
		hadv := e.charAdvance(&hst, hg, 0)
		if e.x+recs[idx].X+hadv > limit {
			continue
		}
		// 合成连字符，插到断点记录之后
		hr := e.acquire()
		hr.Rune = '-'
		hr.Kind = markup.KindChar
		hr.Style = hst
		hr.Source = recs[idx].Source
		hr.Visible = hg.OK
		hr.Ascent = hg.Ascent * hst.Scale
		hr.Descent = hg.Descent * hst.Scale
		hr.Advance = hadv
		hr.X = recs[idx].X
		cut = idx + 1
		e.res.Records = append(recs[:cut:cut], append([]*Record{hr}, recs[cut:]...)...)
		recs = e.res.Records
		cutWidth = hr.X + hadv
		cut++
		break
	}

	if cut < 0 {
		if !e.cfg.BreakWords {
			return false
		}
		// 宽度扫描，前半段至少保留一个记录
		for i := e.wordStart; i < len(recs); i++ {
			right := recs[i].X + recs[i].Advance
			if i > e.wordStart && e.x+right > limit {
				break
			}
			cut = i + 1
			cutWidth = right
		}
		if cut <= e.wordStart || cut >= len(recs) {
			return false
		}
	}

	// 放置前半段
	word := len(e.res.Words)
	for i := e.wordStart; i < cut; i++ {
		rec := recs[i]
		rec.X += e.x
		rec.Word = word
		e.accountLineRec(rec)
	}
	e.res.Words = append(e.res.Words, Word{Start: e.wordStart, End: cut, Width: cutWidth, Line: len(e.res.Lines)})
	e.x += cutWidth
	e.lineHasWord = true

	// 余下部分重新归零为新词缓冲
	delta := 0.0
	if cut < len(recs) {
		delta = recs[cut].X
	}
	for i := cut; i < len(recs); i++ {
		recs[i].X -= delta
	}
	e.wordWidth -= delta
	e.wordStart = cut
	e.shy = e.shy[:0]
	for i := cut; i < len(recs); i++ {
		if recs[i].Kind == markup.KindSoftHyphen {
			e.shy = append(e.shy, i)
		}
	}

	e.finalizeLine(*st, false)
	return true
}

// placeWord 把词缓冲落到当前行：相对坐标换算为绝对坐标并登记词条目。
func (e *engine) placeWord() {
	recs := e.res.Records
	if e.wordStart >= len(recs) {
		e.wordWidth = 0
		e.shy = e.shy[:0]
		return
	}
	word := len(e.res.Words)
	for i := e.wordStart; i < len(recs); i++ {
		rec := recs[i]
		rec.X += e.x
		rec.Word = word
		e.accountLineRec(rec)
	}
	e.res.Words = append(e.res.Words, Word{
		Start: e.wordStart,
		End:   len(recs),
		Width: e.wordWidth,
		Line:  len(e.res.Lines),
	})
	e.x += e.wordWidth
	e.lineHasWord = true
	e.wordStart = len(recs)
	e.wordWidth = 0
	e.shy = e.shy[:0]
}

// finalizeLine 结束当前行：定行高与基线、为行内记录赋行号与纵坐标，
// 然后重置行状态。explicit 表示由显式换行触发（影响段距与两端对齐）。
func (e *engine) finalizeLine(fallback markup.Style, explicit bool) {
	end := e.wordStart
	recs := e.res.Records
	st := fallback
	if end > e.lineStart {
		st = recs[e.lineStart].Style
	}
	lm := e.cfg.Fonts.Line(st.Family, st.Size)

	ascent, descent := e.lineAscent, e.lineDescent
	if e.lineVisible == 0 {
		ascent, descent = lm.Ascent, lm.Descent
	}
	var height float64
	switch {
	case st.LineHeight > 0:
		height = st.LineHeight
	case e.lineVisible > 0:
		height = ascent + descent
	default:
		height = lm.LineHeight
	}
	if height < 0 {
		height = 0
	}
	if height += e.cfg.LineSpacing; height < 0 {
		height = 0
	}
	baseline := e.y + ascent

	// 行宽不计行尾空白
	right := e.x
	for i := end - 1; i >= e.lineStart; i-- {
		if recs[i].Visible {
			break
		}
		right = recs[i].X
	}

	idx := len(e.res.Lines)
	for i := e.lineStart; i < end; i++ {
		rec := recs[i]
		rec.Line = idx
		rec.Y = baseline - rec.Style.VOffset
		if rec.Sprite != nil {
			rec.Y -= rec.Sprite.YOffset
		}
	}

	e.res.Lines = append(e.res.Lines, Line{
		Start:         e.lineStart,
		End:           end,
		Y:             e.y,
		Baseline:      baseline,
		Width:         right,
		Height:        height,
		Align:         st.Align,
		Spaces:        e.lineSpaces,
		Visible:       e.lineVisible,
		Ascent:        ascent,
		Descent:       descent,
		MaxAdvance:    e.lineMaxAdv,
		ExplicitBreak: explicit,
	})

	e.y += height
	if explicit {
		e.y += e.cfg.ParagraphSpacing * st.Size
		e.paragraphStart = true
	} else {
		e.paragraphStart = false
	}

	e.lineStart = end
	e.lineHasWord = false
	e.lineDirty = false
	e.lineSpaces, e.lineVisible = 0, 0
	e.lineAscent, e.lineDescent, e.lineMaxAdv = 0, 0, 0
	e.x = e.lineOrigin(&e.lineStyle)
	e.hasPrev = false
}

func (e *engine) computeTotals() {
	res := e.res
	res.Width, res.Height = 0, 0
	for i := range res.Lines {
		ln := &res.Lines[i]
		if ln.Width > res.Width {
			res.Width = ln.Width
		}
		if b := ln.Y + ln.Height; b > res.Height {
			res.Height = b
		}
	}
}

// applyOverflow 在容器限高且启用截断/省略号策略时丢弃放不下的整行。
func (e *engine) applyOverflow() {
	cfg := e.cfg
	res := e.res
	if cfg.Height <= 0 || cfg.Overflow == OverflowVisible || len(res.Lines) == 0 {
		return
	}
	const eps = 1e-9
	keep := 0
	for i := range res.Lines {
		if res.Lines[i].Y+res.Lines[i].Height <= cfg.Height+eps {
			keep = i + 1
		} else {
			break
		}
	}
	if keep == len(res.Lines) {
		return
	}
	cut := 0
	if keep > 0 {
		cut = res.Lines[keep-1].End
	}
	for _, rec := range res.Records[cut:] {
		e.release(rec)
	}
	res.Records = res.Records[:cut]
	res.Lines = res.Lines[:keep]
	words := res.Words[:0]
	for _, w := range res.Words {
		if w.End <= cut {
			words = append(words, w)
		}
	}
	res.Words = words
	if cfg.Overflow == OverflowEllipsis && keep > 0 {
		e.applyEllipsis(&res.Lines[keep-1])
	}
}

// applyEllipsis 从末行行尾回退，为单个省略号字形腾出空间后追加之。
func (e *engine) applyEllipsis(ln *Line) {
	res := e.res
	if ln.End <= ln.Start {
		return
	}
	st := res.Records[ln.End-1].Style
	for i := ln.End - 1; i >= ln.Start; i-- {
		if res.Records[i].Visible {
			st = res.Records[i].Style
			break
		}
	}
	g := e.cfg.Fonts.Glyph(st.Family, '…', st.Size, weightOf(&st), st.Italic)
	eadv := e.charAdvance(&st, g, 0)
	limit := e.effWidth(&st)
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	end := ln.End
	for end > ln.Start {
		last := res.Records[end-1]
		if last.X+last.Advance+eadv <= limit {
			break
		}
		if last.Visible {
			ln.Visible--
		}
		if isSpaceRune(last.Rune) && last.Kind == markup.KindChar && !last.Visible {
			ln.Spaces--
		}
		e.release(last)
		end--
	}
	res.Records = res.Records[:end]

	x := 0.0
	if end > ln.Start {
		last := res.Records[end-1]
		x = last.X + last.Advance
	}
	rec := e.acquire()
	rec.Rune = '…'
	rec.Kind = markup.KindChar
	rec.Style = st
	rec.Source = -1
	rec.Visible = g.OK
	rec.Ascent = g.Ascent * st.Scale
	rec.Descent = g.Descent * st.Scale
	rec.Advance = eadv
	rec.X = x
	rec.Y = ln.Baseline
	rec.Line = len(res.Lines) - 1
	res.Records = append(res.Records, rec)
	if rec.Visible {
		ln.Visible++
	}
	ln.End = len(res.Records)
	ln.Width = x + eadv

	// 被裁掉的词条目同步收缩
	words := res.Words[:0]
	for _, w := range res.Words {
		if w.Start >= end {
			continue
		}
		if w.End > end {
			w.End = end
		}
		words = append(words, w)
	}
	res.Words = words
}

// applyAlignment 逐行套用水平对齐。居中/右对齐整体平移；两端对齐把
// 富余按比例摊到词间隙与字符间隙上，justified 跳过末行与显式换行结
// 尾的行（除非该行本身已溢出容器），flush 对所有行生效。
func (e *engine) applyAlignment() {
	res := e.res
	for li := range res.Lines {
		ln := &res.Lines[li]
		cw := e.cfg.Width
		if cw <= 0 {
			cw = res.Width
		}
		slack := cw - ln.Width
		switch ln.Align {
		case markup.AlignCenter:
			e.shiftLine(ln, slack/2)
		case markup.AlignRight:
			e.shiftLine(ln, slack)
		case markup.AlignJustified, markup.AlignFlush:
			last := li == len(res.Lines)-1
			if ln.Align == markup.AlignJustified && (last || ln.ExplicitBreak) && ln.Width <= cw {
				continue
			}
			e.justifyLine(ln, slack)
		}
	}
}

func (e *engine) shiftLine(ln *Line, dx float64) {
	if dx == 0 {
		return
	}
	for i := ln.Start; i < ln.End; i++ {
		e.res.Records[i].X += dx
	}
}

func (e *engine) justifyLine(ln *Line, slack float64) {
	recs := e.res.Records
	lastVis := -1
	for i := ln.End - 1; i >= ln.Start; i-- {
		if recs[i].Visible {
			lastVis = i
			break
		}
	}
	if lastVis < 0 {
		return
	}
	spaces, visible := 0, 0
	for i := ln.Start; i <= lastVis; i++ {
		rec := recs[i]
		if rec.Visible {
			visible++
		} else if rec.Kind == markup.KindChar && isSpaceRune(rec.Rune) {
			spaces++
		}
	}
	ratio := e.cfg.wordWrapRatio()
	var wordShare, charShare float64
	switch {
	case spaces > 0 && visible > 1:
		wordShare = slack * ratio / float64(spaces)
		charShare = slack * (1 - ratio) / float64(visible-1)
	case spaces > 0:
		wordShare = slack / float64(spaces)
	case visible > 1:
		charShare = slack / float64(visible-1)
	default:
		return
	}
	offset := 0.0
	for i := ln.Start; i <= lastVis; i++ {
		rec := recs[i]
		rec.X += offset
		if rec.Visible {
			if i != lastVis {
				offset += charShare
			}
		} else if rec.Kind == markup.KindChar && isSpaceRune(rec.Rune) {
			offset += wordShare
		}
	}
	ln.Width += slack
}

// applyVerticalAlign 计算一个统一的纵向偏移并套用到所有记录与行。
func (e *engine) applyVerticalAlign() {
	res := e.res
	if e.cfg.VAlign == VAlignTop || len(res.Lines) == 0 {
		return
	}
	h := e.cfg.Height
	if h <= 0 {
		h = res.Height
	}
	first := res.Lines[0]
	st := e.lineStyle
	if first.End > first.Start {
		st = res.Records[first.Start].Style
	}
	var off float64
	switch e.cfg.VAlign {
	case VAlignMiddle:
		off = (h - res.Height) / 2
	case VAlignBottom:
		off = h - res.Height
	case VAlignBaseline:
		off = h/2 - first.Baseline
	case VAlignMidline:
		lm := e.cfg.Fonts.Line(st.Family, st.Size)
		off = h/2 - (first.Baseline - lm.XHeight/2)
	case VAlignCapline:
		lm := e.cfg.Fonts.Line(st.Family, st.Size)
		off = h/2 - (first.Baseline - lm.CapHeight/2)
	case VAlignGeometry:
		minY, maxY := math.Inf(1), math.Inf(-1)
		for _, rec := range res.Records {
			if !rec.Visible {
				continue
			}
			if top := rec.Y - rec.Ascent; top < minY {
				minY = top
			}
			if bot := rec.Y + rec.Descent; bot > maxY {
				maxY = bot
			}
		}
		if minY > maxY {
			return
		}
		off = h/2 - (minY+maxY)/2
	}
	if off == 0 {
		return
	}
	for _, rec := range res.Records {
		rec.Y += off
	}
	for i := range res.Lines {
		res.Lines[i].Y += off
		res.Lines[i].Baseline += off
	}
}
