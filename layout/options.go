package layout

// 该文件定义布局阶段的配置与外部协作者接口。字体度量与精灵图检索
// 都以显式注入的接口提供，便于测试替身与多实例复用。

// Glyph 是单个字形的度量信息，数值已按请求字号缩放为像素。
type Glyph struct {
	Advance float64
	Ascent  float64 // 基线以上
	Descent float64 // 基线以下，取正值
	OK      bool    // 字形（或其回退）是否存在
}

// LineMetrics 是一款字体在给定字号下的行度量（像素）。
type LineMetrics struct {
	Ascent     float64
	Descent    float64
	LineHeight float64
	CapHeight  float64
	XHeight    float64
}

// FontSource 提供字符度量查询。实现方负责回退字体链与空格兜底
// （参见 assets.FontRegistry）；布局引擎不关心回退细节。
type FontSource interface {
	Glyph(family string, r rune, size float64, weight int, italic bool) Glyph
	Kern(family string, prev, next rune, size float64, weight int, italic bool) float64
	Line(family string, size float64) LineMetrics
}

// Sprite 是已解析的内联精灵图。宽高以图集基准字号下的像素计，
// 布局时按 文本字号/BaseSize 缩放。
type Sprite struct {
	Atlas   string
	Name    string
	Index   int
	Width   float64
	Height  float64
	YOffset float64 // 相对基线的垂直偏移（向上为正）
	// BaseSize 是图集的设计字号；<=0 时精灵不随字号缩放
	BaseSize float64
}

// SpriteSource 按图集+名称、图集+序号或全局检索解析精灵图。
type SpriteSource interface {
	Sprite(atlas, name string) (Sprite, bool)
	SpriteAt(atlas string, index int) (Sprite, bool)
	Find(name string) (Sprite, bool)
	FindAt(index int) (Sprite, bool)
}

// Overflow 是内容超出容器高度时的处理策略。
type Overflow int

const (
	OverflowVisible  Overflow = iota // 照常输出
	OverflowTruncate                 // 丢弃放不下的整行
	OverflowEllipsis                 // 截断并在末行追加省略号
)

// VAlign 是整体垂直对齐方式。
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
	VAlignBottom
	VAlignBaseline // 首行基线对齐容器中线
	VAlignMidline  // 首行 x-height 中线对齐容器中线
	VAlignCapline  // 首行大写高度中线对齐容器中线
	VAlignGeometry // 实际字形包围盒的几何中心对齐容器中线
)

const (
	// 两端对齐/强制两端对齐允许的折行宽度余量（经验常数，保持不变）
	wrapOverflowTolerance = 1.05
	// 对齐富余在词间隙与字符间隙之间的默认分配比例，偏向词间隙
	defaultWordWrapRatio = 0.4
	// 伪粗体的附加步进（相对字号）
	boldExtraFactor = 0.02
	// 下划线/删除线的厚度与位置（相对字号）
	decorationThicknessFactor = 0.05
	underlineOffsetFactor     = 0.1
	strikeOffsetFactor        = 0.3

	defaultTabSize = 4
)

// Config 配置一次布局。零值字段均有合理缺省。
type Config struct {
	Fonts   FontSource   // 必填；为空时所有字形按缺失处理
	Sprites SpriteSource // 可空；为空时精灵图全部无法解析

	Width  float64 // 容器宽度（像素），<=0 表示不限宽
	Height float64 // 容器高度，仅溢出策略使用

	Wrap       bool // 是否自动折行
	BreakWords bool // 超长词是否允许词内强制断行

	LineSpacing      float64 // 行高附加值（像素，可为负）
	ParagraphSpacing float64 // 段落间距（em，仅显式换行后追加）

	// 对齐富余分配给词间隙的比例，0 时取 defaultWordWrapRatio
	WordWrapRatio float64

	Overflow Overflow
	VAlign   VAlign

	TabSize float64 // 制表位宽度（以空格步进计），0 时取 4

	Pool *Pool // 可选的记录复用池
}

func (c *Config) wordWrapRatio() float64 {
	if c.WordWrapRatio <= 0 {
		return defaultWordWrapRatio
	}
	return c.WordWrapRatio
}

func (c *Config) tabSize() float64 {
	if c.TabSize <= 0 {
		return defaultTabSize
	}
	return c.TabSize
}

// emptyFonts 在未注入字体源时兜底：所有字形缺失、零度量。
type emptyFonts struct{}

func (emptyFonts) Glyph(string, rune, float64, int, bool) Glyph        { return Glyph{} }
func (emptyFonts) Kern(string, rune, rune, float64, int, bool) float64 { return 0 }
func (emptyFonts) Line(string, float64) LineMetrics                    { return LineMetrics{} }
