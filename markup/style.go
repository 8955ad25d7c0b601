package markup

// Style 是解析过程中"当前已解析样式"的快照。解析器内部持有一份可变
// 实例并随扫描推进原地修改，发射字符时按值复制到记录上。
type Style struct {
	Color Color
	// Alpha 叠加在 Color 之上，由渲染方在绘制时合成
	Alpha uint8

	Size   float64 // 像素
	Family string
	Weight int // 400 常规 / 700 粗体等

	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool

	Mark      bool
	MarkColor Color

	CharSpacing float64 // 逐字符附加间距（像素）
	WordSpacing float64 // 空格附加间距（像素）
	Mono        float64 // >0 时为等宽强制步进

	VOffset float64 // 基线垂直偏移（像素，向上为正）
	Align   Align

	Indent      float64 // 首行缩进
	MarginLeft  float64
	MarginRight float64
	LineHeight  float64 // <=0 表示使用字体行高
	LineIndent  float64 // 换行后每行的缩进

	Case   CaseMode
	Script Script

	Scale  float64 // 逐字符缩放倍率，1 为原始大小
	Rotate float64 // 逐字符旋转角度（度）

	Link     string // 非空表示处于链接区段
	Material string // 命名材质引用，管线不解释其内容

	Width   float64 // >0 时为行内宽度约束
	NoBreak bool
}

// baseStyle 根据解析选项构造基准样式。
func baseStyle(opts Options) Style {
	family := opts.Family
	size := opts.Size
	if size <= 0 {
		size = 16
	}
	color := opts.Color
	if color == (Color{}) {
		color = Color{0x00, 0x00, 0x00, 0xff}
	}
	align := opts.Align
	return Style{
		Color:  color,
		Alpha:  0xff,
		Size:   size,
		Family: family,
		Weight: 400,
		Align:  align,
		Scale:  1,
	}
}
