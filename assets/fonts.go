package assets

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/vellum/layout"
)

// FontRegistry 管理已注册字体并向布局引擎提供字符度量。
// 回退顺序：请求字体族 → 其配置的回退链（递归，带访问集防环）→
// 缺省字体族；仍然缺字时用请求族的空格字形兜底，但记录为缺失。
type FontRegistry struct {
	mu sync.Mutex

	families map[string]*fontEntry // 键为小写字体族名
	order    []string

	fallbacks map[string][]string
	def       string

	faces map[faceKey]*canvas.FontFace
}

type fontEntry struct {
	name   string
	family *canvas.FontFamily
	styles map[canvas.FontStyle]bool // 已装载的变体
}

type faceKey struct {
	family string
	size   float64
	style  canvas.FontStyle
}

// NewFontRegistry 创建空注册表。
func NewFontRegistry() *FontRegistry {
	return &FontRegistry{
		families:  map[string]*fontEntry{},
		fallbacks: map[string][]string{},
		faces:     map[faceKey]*canvas.FontFace{},
	}
}

// Register 以常规变体装载一份字体数据。首个注册的字体族成为缺省族。
func (r *FontRegistry) Register(name string, data []byte) error {
	return r.RegisterVariant(name, data, 400, false)
}

// RegisterVariant 装载指定字重/斜体变体。同族多次调用会聚合变体。
func (r *FontRegistry) RegisterVariant(name string, data []byte, weight int, italic bool) error {
	if name == "" {
		return fmt.Errorf("字体名不能为空")
	}
	if len(data) == 0 {
		return fmt.Errorf("字体 %s 缺少数据", name)
	}
	key := strings.ToLower(name)
	style := styleFor(weight, italic)

	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.families[key]
	if !ok {
		entry = &fontEntry{
			name:   name,
			family: canvas.NewFontFamily(name),
			styles: map[canvas.FontStyle]bool{},
		}
		r.families[key] = entry
		r.order = append(r.order, key)
		if r.def == "" {
			r.def = key
		}
	}
	if err := entry.family.LoadFont(data, 0, style); err != nil {
		return fmt.Errorf("装载字体 %s 失败: %w", name, err)
	}
	entry.styles[style] = true
	return nil
}

// RegisterPath 从文件装载常规变体。
func (r *FontRegistry) RegisterPath(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
	}
	return r.Register(name, data)
}

// SetFallbacks 配置某字体族的回退链，按给定顺序尝试。
func (r *FontRegistry) SetFallbacks(name string, chain ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lowered := make([]string, 0, len(chain))
	for _, c := range chain {
		lowered = append(lowered, strings.ToLower(c))
	}
	r.fallbacks[strings.ToLower(name)] = lowered
}

// SetDefault 指定缺省字体族（请求族为空或未注册时使用）。
func (r *FontRegistry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = strings.ToLower(name)
}

// Has 报告字体族是否已注册。
func (r *FontRegistry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.families[strings.ToLower(name)]
	return ok
}

// styleFor 把数值字重与斜体位映射到 canvas 的变体样式。
func styleFor(weight int, italic bool) canvas.FontStyle {
	var s canvas.FontStyle
	switch {
	case weight <= 100:
		s = canvas.FontThin
	case weight <= 200:
		s = canvas.FontExtraLight
	case weight <= 300:
		s = canvas.FontLight
	case weight <= 400:
		s = canvas.FontRegular
	case weight <= 500:
		s = canvas.FontMedium
	case weight <= 600:
		s = canvas.FontSemiBold
	case weight <= 700:
		s = canvas.FontBold
	case weight <= 800:
		s = canvas.FontExtraBold
	default:
		s = canvas.FontBlack
	}
	if italic {
		s |= canvas.FontItalic
	}
	return s
}

// face 返回度量用字体面；未装载的变体退回常规变体，族不存在时返回 nil。
// 调用方必须已持有 r.mu。
func (r *FontRegistry) face(key string, size float64, weight int, italic bool) *canvas.FontFace {
	entry, ok := r.families[key]
	if !ok || size <= 0 {
		return nil
	}
	style := styleFor(weight, italic)
	if !entry.styles[style] {
		style = canvas.FontRegular
		if !entry.styles[style] {
			for s := range entry.styles {
				style = s
				break
			}
		}
	}
	ck := faceKey{family: key, size: size, style: style}
	if f, ok := r.faces[ck]; ok {
		return f
	}
	f := entry.family.Face(size, canvas.Black, style, canvas.FontNormal)
	r.faces[ck] = f
	return f
}

func (r *FontRegistry) normalize(family string) string {
	key := strings.ToLower(family)
	if _, ok := r.families[key]; !ok {
		key = r.def
	}
	return key
}

var _ layout.FontSource = (*FontRegistry)(nil)

// Glyph 实现 layout.FontSource：按回退链查找字形度量。
func (r *FontRegistry) Glyph(family string, ch rune, size float64, weight int, italic bool) layout.Glyph {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.normalize(family)
	visited := map[string]bool{}
	if g, ok := r.glyphIn(key, ch, size, weight, italic, visited); ok {
		return g
	}
	if key != r.def {
		if g, ok := r.glyphIn(r.def, ch, size, weight, italic, visited); ok {
			return g
		}
	}
	// 空格兜底：保留步进与行向度量，但标记字形缺失
	face := r.face(key, size, weight, italic)
	if face == nil {
		return layout.Glyph{}
	}
	m := face.Metrics()
	return layout.Glyph{Advance: face.TextWidth(" "), Ascent: m.Ascent, Descent: m.Descent}
}

// glyphIn 在指定族及其回退链内查找；visited 防止回退链成环。
func (r *FontRegistry) glyphIn(key string, ch rune, size float64, weight int, italic bool, visited map[string]bool) (layout.Glyph, bool) {
	if key == "" || visited[key] {
		return layout.Glyph{}, false
	}
	visited[key] = true
	if face := r.face(key, size, weight, italic); face != nil {
		if face.Font != nil && face.Font.GlyphIndex(ch) != 0 {
			m := face.Metrics()
			return layout.Glyph{
				Advance: face.TextWidth(string(ch)),
				Ascent:  m.Ascent,
				Descent: m.Descent,
				OK:      true,
			}, true
		}
	}
	for _, fb := range r.fallbacks[key] {
		if g, ok := r.glyphIn(fb, ch, size, weight, italic, visited); ok {
			return g, true
		}
	}
	return layout.Glyph{}, false
}

// Kern 实现 layout.FontSource：字距取相邻对宽度与单字宽度之差。
func (r *FontRegistry) Kern(family string, prev, next rune, size float64, weight int, italic bool) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	face := r.face(r.normalize(family), size, weight, italic)
	if face == nil {
		return 0
	}
	pair := face.TextWidth(string([]rune{prev, next}))
	return pair - face.TextWidth(string(prev)) - face.TextWidth(string(next))
}

// Line 实现 layout.FontSource：返回字体在给定字号下的行向度量。
func (r *FontRegistry) Line(family string, size float64) layout.LineMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	face := r.face(r.normalize(family), size, 400, false)
	if face == nil {
		return layout.LineMetrics{}
	}
	m := face.Metrics()
	return layout.LineMetrics{
		Ascent:     m.Ascent,
		Descent:    m.Descent,
		LineHeight: m.LineHeight,
		CapHeight:  m.CapHeight,
		XHeight:    m.XHeight,
	}
}

// Face 返回渲染用字体面（带填充色）。未注册的族退回缺省族，没有任何
// 字体时返回 nil。
func (r *FontRegistry) Face(family string, size float64, col color.Color, weight int, italic bool) *canvas.FontFace {
	r.mu.Lock()
	key := r.normalize(family)
	entry, ok := r.families[key]
	r.mu.Unlock()
	if !ok || size <= 0 {
		return nil
	}
	style := styleFor(weight, italic)
	r.mu.Lock()
	if !entry.styles[style] {
		style = canvas.FontRegular
		if !entry.styles[style] {
			for s := range entry.styles {
				style = s
				break
			}
		}
	}
	r.mu.Unlock()
	return entry.family.Face(size, col, style, canvas.FontNormal)
}
