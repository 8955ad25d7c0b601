package markup

import "strconv"

// 该文件定义解析输出的基础类型：颜色、枚举与带样式的字符记录。

// Kind 区分字符记录的种类：普通字符、换行、制表、精灵图与零宽标记。
type Kind int

const (
	KindChar Kind = iota
	KindLineBreak
	KindCarriageReturn // 仅回到行首，不另起新行
	KindTab
	KindSprite
	KindZeroWidthSpace // 零宽空格：可断行但无宽度
	KindZeroWidthJoiner
	KindSoftHyphen // 软连字符：潜在断点，断行时才渲染为连字符
)

// Align 表示水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustified // 两端对齐，最后一行除外
	AlignFlush     // 两端对齐，包含最后一行
)

// ParseAlign 将字符串映射为 Align；无法识别时返回 left。
func ParseAlign(s string) (Align, bool) {
	switch s {
	case "left", "start":
		return AlignLeft, true
	case "center":
		return AlignCenter, true
	case "right", "end":
		return AlignRight, true
	case "justified", "justify":
		return AlignJustified, true
	case "flush":
		return AlignFlush, true
	default:
		return AlignLeft, false
	}
}

// CaseMode 表示大小写转换模式，逐字符在发射时应用。
type CaseMode int

const (
	CaseNone CaseMode = iota
	CaseUpper
	CaseLower
	CaseSmallCaps
)

// Script 表示上/下标模式。
type Script int

const (
	ScriptNormal Script = iota
	ScriptSuper
	ScriptSub
)

// Color 为 RGBA 颜色，A=255 表示不透明。
type Color struct {
	R, G, B, A uint8
}

// ARGB 返回 0xAARRGGBB 形式的整数表示，高字节为透明度。
func (c Color) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGB 返回低 24 位的 0xRRGGBB 表示。
func (c Color) RGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBA 实现 image/color.Color 的约定（16 位通道，已预乘透明度）。
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xffff
	g = uint32(c.G) * 0x101 * a / 0xffff
	b = uint32(c.B) * 0x101 * a / 0xffff
	return
}

// RGBu 以 0xRRGGBB 整数构造不透明颜色。
func RGBu(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// namedColors 收录标签值里允许的颜色名（与 hex 形式等价）。
var namedColors = map[string]Color{
	"black":  {0x00, 0x00, 0x00, 0xff},
	"white":  {0xff, 0xff, 0xff, 0xff},
	"red":    {0xff, 0x00, 0x00, 0xff},
	"green":  {0x00, 0x80, 0x00, 0xff},
	"blue":   {0x00, 0x00, 0xff, 0xff},
	"yellow": {0xff, 0xff, 0x00, 0xff},
	"orange": {0xff, 0xa5, 0x00, 0xff},
	"purple": {0x80, 0x00, 0x80, 0xff},
	"grey":   {0x80, 0x80, 0x80, 0xff},
	"gray":   {0x80, 0x80, 0x80, 0xff},
}

// ParseColor 解析 #RGB、#RRGGBB、#RRGGBBAA 或颜色名。
// 解析失败时返回 ok=false，调用方应忽略该指令并保持状态不变。
func ParseColor(s string) (Color, bool) {
	if s == "" {
		return Color{}, false
	}
	if s[0] != '#' {
		if c, ok := namedColors[s]; ok {
			return c, true
		}
		return Color{}, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		r := uint8(v >> 8 & 0xf)
		g := uint8(v >> 4 & 0xf)
		b := uint8(v & 0xf)
		return Color{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 0xff}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
	case 8:
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return Color{}, false
		}
		return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
	default:
		return Color{}, false
	}
}

// Gradient 记录渐变两端的颜色；On=false 表示当前无渐变。
type Gradient struct {
	Start, End Color
	On         bool
}

// SpriteRef 描述内联精灵图的引用方式：图集+名称、图集+序号或全局检索。
type SpriteRef struct {
	Atlas    string
	Name     string
	Index    int
	HasIndex bool
}

// Char 是带完整样式快照的字符记录，由解析器独占产出，布局阶段只读。
// Source 始终指向产生该记录的原文位置，合成记录也不例外。
type Char struct {
	Rune   rune
	Source int
	Kind   Kind
	Style  Style

	// 不可断行（来自 nbsp 或 <nobr> 区段）
	NoBreak bool

	// <space=..> 在本字符之前插入的额外间距
	ExtraSpace float64
	// <pos=..> 指定的绝对横坐标
	FixedX    float64
	HasFixedX bool

	// 精灵图引用，仅 KindSprite 使用
	Sprite SpriteRef

	// 渐变端点，由渐变后处理阶段消费
	Gradient Gradient
}
