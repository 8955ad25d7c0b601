package markup

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 解析器对输入做单趟从左到右扫描：普通字符携带当前样式快照逐个发射，
// `<...>` 片段按结构标签 → 颜色速记 → 样式预设 → 调度表的顺序解析。
// 无法识别或残缺的标签不会被吞掉，而是按字面字符原样发射，保证排版
// 错误不会造成文本内容丢失。

const (
	// 标签体的最大长度，超出后 '<' 按字面处理
	maxTagLength = 128
	// 样式预设展开的递归深度上限，防止预设相互引用造成死循环
	maxPresetDepth = 8

	smallCapsScale    = 0.8
	scriptScale       = 0.58
	superOffsetFactor = 0.33
	subOffsetFactor   = -0.15
)

// StyleSource 提供命名样式预设的开/闭标记串。assets.StyleRegistry 实现之。
type StyleSource interface {
	Preset(name string) (open, close string, ok bool)
}

// Options 配置一次解析的基准样式与预设来源。
type Options struct {
	Size   float64 // 基准字号（像素），<=0 时取 16
	Color  Color   // 基准颜色，零值取黑色
	Family string  // 基准字体族名
	Align  Align   // 基准对齐方式
	Styles StyleSource
}

// Parse 将富文本标记解析为带样式快照的字符记录序列。
// 任何输入都不会失败：残缺标记按字面发射，非法属性值被忽略。
func Parse(text string, opts Options) []Char {
	p := newParser(opts)
	p.src = []rune(text)
	p.run()
	return p.out
}

type parser struct {
	opts Options
	src  []rune
	pos  int
	out  []Char

	style    Style
	st       attrStacks
	gradient Gradient

	bold, italic, underline, strike toggle

	noParse     bool
	presetDepth int
	presetStack []string

	// <space>/<pos> 自闭合修饰符，只作用于下一个发射的记录
	pendingSpace float64
	pendingX     float64
	hasPendingX  bool

	// 预设展开期间固定的原文位置，-1 表示未启用
	fixedSource int

	upper, lower cases.Caser
}

func newParser(opts Options) *parser {
	p := &parser{
		opts:        opts,
		fixedSource: -1,
		upper:       cases.Upper(language.Und),
		lower:       cases.Lower(language.Und),
	}
	p.style = baseStyle(opts)
	p.st.reset(p.style)
	p.bold.reset()
	p.italic.reset()
	p.underline.reset()
	p.strike.reset()
	return p
}

func (p *parser) run() {
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if p.noParse {
			if r == '<' && p.matchNoParseEnd() {
				continue
			}
			p.emitSource(r)
			continue
		}
		if r == '<' && p.tryTag() {
			continue
		}
		p.emitSource(r)
	}
}

// matchNoParseEnd 在 noparse 模式下匹配字面的 </noparse>（不区分大小写）。
func (p *parser) matchNoParseEnd() bool {
	const end = "</noparse>"
	if p.pos+len(end) > len(p.src) {
		return false
	}
	if !strings.EqualFold(string(p.src[p.pos:p.pos+len(end)]), end) {
		return false
	}
	p.pos += len(end)
	p.noParse = false
	return true
}

// emitSource 发射位于 p.pos 的原文字符并前进游标。
// \r 被丢弃，\n 变为换行记录，\t 变为制表记录。
func (p *parser) emitSource(r rune) {
	src := p.sourceIndex(p.pos)
	p.pos++
	switch r {
	case '\r':
		return
	case '\n':
		p.emit(Char{Rune: '\n', Source: src, Kind: KindLineBreak, Style: p.style})
	case '\t':
		p.emit(Char{Rune: '\t', Source: src, Kind: KindTab, Style: p.style})
	default:
		p.emitChar(r, src)
	}
}

// emitChar 在发射时应用大小写与上/下标变换后追加普通字符记录。
func (p *parser) emitChar(r rune, src int) {
	st := p.style
	text := string(r)
	switch st.Case {
	case CaseUpper:
		text = p.upper.String(text)
	case CaseLower:
		text = p.lower.String(text)
	case CaseSmallCaps:
		// 小型大写：小写来源转大写并缩小字号，原本的大写保持原尺寸
		if unicode.IsLower(r) {
			text = p.upper.String(text)
			st.Size *= smallCapsScale
		}
	}
	if st.Script != ScriptNormal {
		base := st.Size
		if st.Script == ScriptSuper {
			st.VOffset += base * superOffsetFactor
		} else {
			st.VOffset += base * subOffsetFactor
		}
		st.Size *= scriptScale
	}
	for _, rr := range text {
		p.emit(Char{Rune: rr, Source: src, Kind: KindChar, Style: st, NoBreak: st.NoBreak})
	}
}

// emit 是所有记录的唯一出口：在这里消费挂起的 space/pos 修饰符并
// 附加当前渐变端点。
func (p *parser) emit(c Char) {
	if p.pendingSpace != 0 {
		c.ExtraSpace = p.pendingSpace
		p.pendingSpace = 0
	}
	if p.hasPendingX {
		c.FixedX = p.pendingX
		c.HasFixedX = true
		p.hasPendingX = false
	}
	c.Gradient = p.gradient
	p.out = append(p.out, c)
}

// sourceIndex 返回记录应携带的原文位置；预设展开期间固定为标签位置。
func (p *parser) sourceIndex(pos int) int {
	if p.fixedSource >= 0 {
		return p.fixedSource
	}
	return pos
}

// tryTag 尝试把 p.pos 处的 '<' 解析为标签；失败时返回 false，
// 由调用方将 '<' 按字面发射。成功时游标移过整个标签。
func (p *parser) tryTag() bool {
	start := p.pos
	limit := start + maxTagLength
	if limit > len(p.src) {
		limit = len(p.src)
	}
	end := -1
	for i := start + 1; i < limit; i++ {
		if p.src[i] == '>' {
			end = i
			break
		}
		if p.src[i] == '<' {
			break
		}
	}
	if end < 0 {
		return false
	}
	body := string(p.src[start+1 : end])
	if body == "" {
		return false
	}
	closing := false
	if body[0] == '/' {
		closing = true
		body = body[1:]
		if body == "" {
			return false
		}
	}
	name, value := splitTag(body)
	if !p.resolveTag(strings.ToLower(name), value, closing, start) {
		return false
	}
	p.pos = end + 1
	return true
}

// splitTag 在首个 '=' 或首个空格处（取先出现者）切分标签名与值。
func splitTag(body string) (name, value string) {
	eq := strings.IndexByte(body, '=')
	sp := strings.IndexByte(body, ' ')
	cut := eq
	if cut < 0 || (sp >= 0 && sp < cut) {
		cut = sp
	}
	if cut < 0 {
		return body, ""
	}
	return body[:cut], strings.TrimSpace(body[cut+1:])
}

// unquote 去掉值两侧成对的引号。
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// primaryValue 取值串的首个字段并去引号，供只关心单值的处理器使用。
func primaryValue(v string) string {
	if v == "" {
		return ""
	}
	if v[0] == '"' {
		if i := strings.IndexByte(v[1:], '"'); i >= 0 {
			return v[1 : i+1]
		}
		return v[1:]
	}
	if i := strings.IndexByte(v, ' '); i >= 0 {
		return v[:i]
	}
	return v
}

// attrValue 从 `a="x" b=3` 形式的值串中取出命名属性。
func attrValue(v, key string) (string, bool) {
	for _, field := range strings.Fields(v) {
		eq := strings.IndexByte(field, '=')
		if eq < 0 {
			continue
		}
		if strings.EqualFold(field[:eq], key) {
			return unquote(field[eq+1:]), true
		}
	}
	return "", false
}

// resolveTag 按固定顺序解析标签：结构标签 → 颜色速记 → 样式预设 → 调度表。
// 返回 false 表示标签不被认识，应按字面处理。
func (p *parser) resolveTag(name, value string, closing bool, tagStart int) bool {
	if name == "" {
		return false
	}
	if p.structuralTag(name, value, closing, tagStart) {
		return true
	}
	if name[0] == '#' {
		return p.colorShorthand(name, closing)
	}
	if name == "style" {
		return p.styleTag(value, closing)
	}
	def, ok := tagTable[name]
	if !ok {
		return false
	}
	if closing {
		def.close(p)
	} else {
		def.open(p, value)
	}
	return true
}

// structuralTag 处理直接发射记录或只影响下一个字符的自闭合标签。
func (p *parser) structuralTag(name, value string, closing bool, tagStart int) bool {
	if closing {
		// 自闭合标签没有闭形式；唯一的例外是游离的 </noparse>，容忍为空操作。
		return name == "noparse"
	}
	src := p.sourceIndex(tagStart)
	switch name {
	case "br":
		p.emit(Char{Rune: '\n', Source: src, Kind: KindLineBreak, Style: p.style})
	case "cr":
		p.emit(Char{Rune: '\r', Source: src, Kind: KindCarriageReturn, Style: p.style})
	case "nbsp":
		p.emit(Char{Rune: ' ', Source: src, Kind: KindChar, Style: p.style, NoBreak: true})
	case "zwsp":
		p.emit(Char{Rune: '​', Source: src, Kind: KindZeroWidthSpace, Style: p.style})
	case "zwj":
		p.emit(Char{Rune: '‍', Source: src, Kind: KindZeroWidthJoiner, Style: p.style})
	case "shy", "softhyphen":
		p.emit(Char{Rune: '­', Source: src, Kind: KindSoftHyphen, Style: p.style})
	case "ensp":
		p.emit(Char{Rune: ' ', Source: src, Kind: KindChar, Style: p.style})
	case "emsp":
		p.emit(Char{Rune: ' ', Source: src, Kind: KindChar, Style: p.style})
	case "space":
		if l, ok := ParseLength(primaryValue(value)); ok {
			p.pendingSpace += l.Resolve(p.style.Size, p.style.Size)
		}
	case "pos":
		if l, ok := ParseLength(primaryValue(value)); ok {
			p.pendingX = l.Resolve(p.style.Size, p.style.Size)
			p.hasPendingX = true
		}
	case "sprite":
		p.spriteTag(value, src)
	case "noparse":
		p.noParse = true
	default:
		return false
	}
	return true
}

// spriteTag 发射精灵图占位记录。引用方式：图集+名称、图集+序号，
// 或省略图集做全局检索。
func (p *parser) spriteTag(value string, src int) {
	ref := SpriteRef{}
	if value != "" && value[0] == '"' {
		ref.Atlas = primaryValue(value)
	}
	if n, ok := attrValue(value, "name"); ok {
		ref.Name = n
	}
	if idx, ok := attrValue(value, "index"); ok {
		if f, okf := parseFloat(idx); okf {
			ref.Index = int(f)
			ref.HasIndex = true
		}
	}
	if ref.Atlas == "" && ref.Name == "" && !ref.HasIndex {
		// <sprite=name> 简写
		if v := primaryValue(value); v != "" {
			ref.Name = v
		}
	}
	p.emit(Char{Rune: '￼', Source: src, Kind: KindSprite, Style: p.style, Sprite: ref})
}

// colorShorthand 处理 <#RRGGBB[AA]> 与 </#>。
func (p *parser) colorShorthand(name string, closing bool) bool {
	if closing {
		if name != "#" {
			return false
		}
		p.style.Color = p.st.color.pop()
		return true
	}
	c, ok := ParseColor(name)
	if !ok {
		return false
	}
	p.st.color.push(c)
	p.style.Color = c
	return true
}

// styleTag 展开命名样式预设：开标签对预设的 open 标记串重新运行标签
// 解析，闭标签应用栈顶预设的 close 标记串。缺失的预设被静默跳过。
func (p *parser) styleTag(value string, closing bool) bool {
	if p.opts.Styles == nil {
		return true
	}
	if closing {
		if len(p.presetStack) == 0 {
			return true
		}
		name := p.presetStack[len(p.presetStack)-1]
		p.presetStack = p.presetStack[:len(p.presetStack)-1]
		if _, closeMarkup, ok := p.opts.Styles.Preset(name); ok {
			p.expand(closeMarkup)
		}
		return true
	}
	name := unquote(primaryValue(value))
	open, _, ok := p.opts.Styles.Preset(name)
	if !ok {
		return true
	}
	p.presetStack = append(p.presetStack, name)
	p.expand(open)
	return true
}

// expand 将标记串作为子输入重新送入扫描循环，针对当前活动的样式状态。
// 展开出的记录统一携带触发标签的原文位置。
func (p *parser) expand(fragment string) {
	if fragment == "" || p.presetDepth >= maxPresetDepth {
		return
	}
	p.presetDepth++
	savedSrc, savedPos := p.src, p.pos
	savedFixed := p.fixedSource
	if p.fixedSource < 0 {
		p.fixedSource = savedPos
	}
	p.src = []rune(fragment)
	p.pos = 0
	p.run()
	p.src, p.pos = savedSrc, savedPos
	p.fixedSource = savedFixed
	p.presetDepth--
}
