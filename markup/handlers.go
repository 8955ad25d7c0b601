package markup

import "strings"

// 调度表把标签名映射到开/闭处理器。开处理器解析属性值并把新值压入
// 对应属性栈；值非法时压入当前值，保证后续闭标签仍然配平。闭处理器
// 弹栈并把恢复后的值写回样式状态。

type tagDef struct {
	open  func(p *parser, value string)
	close func(p *parser)
}

// markState 在一个栈里同时承载高亮开关与高亮色。
type markState struct {
	on    bool
	color Color
}

// attrStacks 为每个样式属性维护一个独立的栈，使互不相关的标签
// 可以独立嵌套（例如 color 与 size 的嵌套互不干扰），恢复为 O(1)。
type attrStacks struct {
	color       stack[Color]
	alpha       stack[uint8]
	size        stack[float64]
	family      stack[string]
	weight      stack[int]
	mark        stack[markState]
	charSpacing stack[float64]
	wordSpacing stack[float64]
	mono        stack[float64]
	voffset     stack[float64]
	align       stack[Align]
	indent      stack[float64]
	marginLeft  stack[float64]
	marginRight stack[float64]
	lineHeight  stack[float64]
	lineIndent  stack[float64]
	caseMode    stack[CaseMode]
	script      stack[Script]
	scale       stack[float64]
	rotate      stack[float64]
	link        stack[string]
	material    stack[string]
	width       stack[float64]
	gradient    stack[Gradient]
	noBreak     stack[bool]
}

// reset 把所有属性栈重置为基准样式，每次解析开始时调用，调用间不共享。
func (s *attrStacks) reset(base Style) {
	s.color.reset(base.Color)
	s.alpha.reset(base.Alpha)
	s.size.reset(base.Size)
	s.family.reset(base.Family)
	s.weight.reset(base.Weight)
	s.mark.reset(markState{})
	s.charSpacing.reset(0)
	s.wordSpacing.reset(0)
	s.mono.reset(0)
	s.voffset.reset(0)
	s.align.reset(base.Align)
	s.indent.reset(0)
	s.marginLeft.reset(0)
	s.marginRight.reset(0)
	s.lineHeight.reset(0)
	s.lineIndent.reset(0)
	s.caseMode.reset(CaseNone)
	s.script.reset(ScriptNormal)
	s.scale.reset(1)
	s.rotate.reset(0)
	s.link.reset("")
	s.material.reset("")
	s.width.reset(0)
	s.gradient.reset(Gradient{})
	s.noBreak.reset(false)
}

// pushLength 解析长度值并压栈；em 相对当前字号，% 相对 ref。
// 值非法时压入当前值，状态不变。
func (p *parser) pushLength(s *stack[float64], cur *float64, value string, ref float64) {
	if l, ok := ParseLength(primaryValue(value)); ok {
		v := l.Resolve(p.style.Size, ref)
		s.push(v)
		*cur = v
		return
	}
	s.push(*cur)
}

var tagTable map[string]tagDef

// init 中填表以避免处理器引用 tagTable 造成初始化循环（预设展开会重入）。
func init() {
	tagTable = map[string]tagDef{
		"color": {
			open: func(p *parser, value string) {
				if c, ok := ParseColor(unquote(primaryValue(value))); ok {
					p.st.color.push(c)
					p.style.Color = c
					return
				}
				p.st.color.push(p.style.Color)
			},
			close: func(p *parser) { p.style.Color = p.st.color.pop() },
		},
		"alpha": {
			open: func(p *parser, value string) {
				v := primaryValue(value)
				// 形如 #80 的十六进制透明度
				if len(v) == 3 && v[0] == '#' {
					if c, ok := ParseColor("#" + v[1:] + v[1:] + v[1:]); ok {
						p.st.alpha.push(c.R)
						p.style.Alpha = c.R
						return
					}
				}
				if f, ok := parseFloat(v); ok && f >= 0 && f <= 1 {
					a := uint8(f * 255)
					p.st.alpha.push(a)
					p.style.Alpha = a
					return
				}
				p.st.alpha.push(p.style.Alpha)
			},
			close: func(p *parser) { p.style.Alpha = p.st.alpha.pop() },
		},
		"size": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.size, &p.style.Size, value, p.style.Size)
			},
			close: func(p *parser) { p.style.Size = p.st.size.pop() },
		},
		"font": {
			open: func(p *parser, value string) {
				name := unquote(primaryValue(value))
				if name == "" {
					p.st.family.push(p.style.Family)
					return
				}
				p.st.family.push(name)
				p.style.Family = name
			},
			close: func(p *parser) { p.style.Family = p.st.family.pop() },
		},
		"font-weight": {
			open: func(p *parser, value string) {
				if f, ok := parseFloat(primaryValue(value)); ok && f >= 100 && f <= 900 {
					w := int(f)
					p.st.weight.push(w)
					p.style.Weight = w
					return
				}
				p.st.weight.push(p.style.Weight)
			},
			close: func(p *parser) { p.style.Weight = p.st.weight.pop() },
		},
		"b": {
			open:  func(p *parser, _ string) { p.bold.open(); p.style.Bold = true },
			close: func(p *parser) { p.bold.close(); p.style.Bold = p.bold.on() },
		},
		"i": {
			open:  func(p *parser, _ string) { p.italic.open(); p.style.Italic = true },
			close: func(p *parser) { p.italic.close(); p.style.Italic = p.italic.on() },
		},
		"u": {
			open:  func(p *parser, _ string) { p.underline.open(); p.style.Underline = true },
			close: func(p *parser) { p.underline.close(); p.style.Underline = p.underline.on() },
		},
		"s": {
			open:  func(p *parser, _ string) { p.strike.open(); p.style.Strike = true },
			close: func(p *parser) { p.strike.close(); p.style.Strike = p.strike.on() },
		},
		"mark": {
			open: func(p *parser, value string) {
				if c, ok := ParseColor(unquote(primaryValue(value))); ok {
					m := markState{on: true, color: c}
					p.st.mark.push(m)
					p.style.Mark, p.style.MarkColor = true, c
					return
				}
				p.st.mark.push(markState{on: p.style.Mark, color: p.style.MarkColor})
			},
			close: func(p *parser) {
				m := p.st.mark.pop()
				p.style.Mark, p.style.MarkColor = m.on, m.color
			},
		},
		"sub": {
			open:  func(p *parser, _ string) { p.st.script.push(ScriptSub); p.style.Script = ScriptSub },
			close: func(p *parser) { p.style.Script = p.st.script.pop() },
		},
		"sup": {
			open:  func(p *parser, _ string) { p.st.script.push(ScriptSuper); p.style.Script = ScriptSuper },
			close: func(p *parser) { p.style.Script = p.st.script.pop() },
		},
		"cspace": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.charSpacing, &p.style.CharSpacing, value, p.style.Size)
			},
			close: func(p *parser) { p.style.CharSpacing = p.st.charSpacing.pop() },
		},
		"mspace": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.mono, &p.style.Mono, value, p.style.Size)
			},
			close: func(p *parser) { p.style.Mono = p.st.mono.pop() },
		},
		"wspace": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.wordSpacing, &p.style.WordSpacing, value, p.style.Size)
			},
			close: func(p *parser) { p.style.WordSpacing = p.st.wordSpacing.pop() },
		},
		"voffset": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.voffset, &p.style.VOffset, value, p.style.Size)
			},
			close: func(p *parser) { p.style.VOffset = p.st.voffset.pop() },
		},
		"align": {
			open: func(p *parser, value string) {
				if a, ok := ParseAlign(unquote(primaryValue(value))); ok {
					p.st.align.push(a)
					p.style.Align = a
					return
				}
				p.st.align.push(p.style.Align)
			},
			close: func(p *parser) { p.style.Align = p.st.align.pop() },
		},
		"indent": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.indent, &p.style.Indent, value, p.style.Size)
			},
			close: func(p *parser) { p.style.Indent = p.st.indent.pop() },
		},
		"line-indent": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.lineIndent, &p.style.LineIndent, value, p.style.Size)
			},
			close: func(p *parser) { p.style.LineIndent = p.st.lineIndent.pop() },
		},
		"margin": {
			open: func(p *parser, value string) {
				if l, ok := ParseLength(primaryValue(value)); ok {
					v := l.Resolve(p.style.Size, p.style.Size)
					p.st.marginLeft.push(v)
					p.st.marginRight.push(v)
					p.style.MarginLeft, p.style.MarginRight = v, v
					return
				}
				p.st.marginLeft.push(p.style.MarginLeft)
				p.st.marginRight.push(p.style.MarginRight)
			},
			close: func(p *parser) {
				p.style.MarginLeft = p.st.marginLeft.pop()
				p.style.MarginRight = p.st.marginRight.pop()
			},
		},
		"margin-left": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.marginLeft, &p.style.MarginLeft, value, p.style.Size)
			},
			close: func(p *parser) { p.style.MarginLeft = p.st.marginLeft.pop() },
		},
		"margin-right": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.marginRight, &p.style.MarginRight, value, p.style.Size)
			},
			close: func(p *parser) { p.style.MarginRight = p.st.marginRight.pop() },
		},
		"line-height": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.lineHeight, &p.style.LineHeight, value, p.style.Size)
			},
			close: func(p *parser) { p.style.LineHeight = p.st.lineHeight.pop() },
		},
		"link": {
			open: func(p *parser, value string) {
				id := unquote(primaryValue(value))
				p.st.link.push(id)
				p.style.Link = id
			},
			close: func(p *parser) { p.style.Link = p.st.link.pop() },
		},
		"material": {
			open: func(p *parser, value string) {
				name := unquote(primaryValue(value))
				p.st.material.push(name)
				p.style.Material = name
			},
			close: func(p *parser) { p.style.Material = p.st.material.pop() },
		},
		"allcaps": {
			open:  func(p *parser, _ string) { p.st.caseMode.push(CaseUpper); p.style.Case = CaseUpper },
			close: func(p *parser) { p.style.Case = p.st.caseMode.pop() },
		},
		"uppercase": {
			open:  func(p *parser, _ string) { p.st.caseMode.push(CaseUpper); p.style.Case = CaseUpper },
			close: func(p *parser) { p.style.Case = p.st.caseMode.pop() },
		},
		"lowercase": {
			open:  func(p *parser, _ string) { p.st.caseMode.push(CaseLower); p.style.Case = CaseLower },
			close: func(p *parser) { p.style.Case = p.st.caseMode.pop() },
		},
		"smallcaps": {
			open:  func(p *parser, _ string) { p.st.caseMode.push(CaseSmallCaps); p.style.Case = CaseSmallCaps },
			close: func(p *parser) { p.style.Case = p.st.caseMode.pop() },
		},
		"scale": {
			open: func(p *parser, value string) {
				if f, ok := parseFloat(primaryValue(value)); ok && f > 0 {
					p.st.scale.push(f)
					p.style.Scale = f
					return
				}
				p.st.scale.push(p.style.Scale)
			},
			close: func(p *parser) { p.style.Scale = p.st.scale.pop() },
		},
		"rotate": {
			open: func(p *parser, value string) {
				if f, ok := parseFloat(primaryValue(value)); ok {
					p.st.rotate.push(f)
					p.style.Rotate = f
					return
				}
				p.st.rotate.push(p.style.Rotate)
			},
			close: func(p *parser) { p.style.Rotate = p.st.rotate.pop() },
		},
		"width": {
			open: func(p *parser, value string) {
				p.pushLength(&p.st.width, &p.style.Width, value, p.style.Size)
			},
			close: func(p *parser) { p.style.Width = p.st.width.pop() },
		},
		"nobr": {
			open:  func(p *parser, _ string) { p.st.noBreak.push(true); p.style.NoBreak = true },
			close: func(p *parser) { p.style.NoBreak = p.st.noBreak.pop() },
		},
		"gradient": {
			open: func(p *parser, value string) {
				if g, ok := parseGradient(unquote(value)); ok {
					p.st.gradient.push(g)
					p.gradient = g
					return
				}
				p.st.gradient.push(p.gradient)
			},
			close: func(p *parser) { p.gradient = p.st.gradient.pop() },
		},
	}
}

// parseGradient 解析 "#start,#end" 或单个颜色（两端相同）。
func parseGradient(value string) (Gradient, bool) {
	parts := strings.SplitN(value, ",", 2)
	start, ok := ParseColor(strings.TrimSpace(parts[0]))
	if !ok {
		return Gradient{}, false
	}
	end := start
	if len(parts) > 1 {
		end, ok = ParseColor(strings.TrimSpace(parts[1]))
		if !ok {
			return Gradient{}, false
		}
	}
	return Gradient{Start: start, End: end, On: true}, true
}
