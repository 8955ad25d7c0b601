package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/vellum/assets"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/markup"
	"github.com/ByLCY/vellum/renderer"
)

const linkStrokeWidth = 0.5

// Renderer 通过 github.com/tdewolff/canvas 将布局结果绘制为 PDF。
type Renderer struct {
	fonts *assets.FontRegistry
	opts  Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options 配置画布渲染器。
type Options struct {
	Width  float64 // 画布宽度（像素）；<=0 时取布局结果宽度
	Height float64 // 画布高度；<=0 时取布局结果高度

	Background *markup.Color

	DrawSprites bool // 以占位框绘制精灵图（未接入图集纹理时的退化渲染）
	DrawLinks   bool // 调试：描边链接区域
}

// New 创建渲染器。字形绘制所用的字体面由注册表提供。
func New(fonts *assets.FontRegistry, opts Options) *Renderer {
	return &Renderer{fonts: fonts, opts: opts}
}

// Render 将布局结果渲染为 PDF 字节切片。
func (r *Renderer) Render(res *layout.Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	w, h := r.opts.Width, r.opts.Height
	if w <= 0 {
		w = res.Width
	}
	if h <= 0 {
		h = res.Height
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("缺少可渲染的内容")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if r.opts.Background != nil {
		fillRect(ctx, layout.Rect{W: w, H: h}, *r.opts.Background)
	}

	spans := layout.Decorations(res)
	// 文字底色垫在字形之下，线型装饰压在字形之上
	for _, s := range spans {
		if s.Kind == layout.SpanHighlight {
			fillRect(ctx, s.Rect, s.Color)
		}
	}
	for _, rec := range res.Records {
		r.drawRecord(ctx, rec)
	}
	for _, s := range spans {
		if s.Kind != layout.SpanHighlight {
			fillRect(ctx, s.Rect, s.Color)
		}
	}
	if r.opts.DrawLinks {
		for _, region := range res.Links {
			for _, rect := range region.Rects {
				strokeRect(ctx, rect, markup.Color{B: 0xff, A: 0xff})
			}
		}
	}

	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawRecord(ctx *canvas.Context, rec *layout.Record) {
	if rec.Sprite != nil {
		if r.opts.DrawSprites {
			sp := rec.Sprite
			strokeRect(ctx, layout.Rect{
				X: rec.X,
				Y: rec.Y - sp.Height,
				W: sp.Width,
				H: sp.Height,
			}, rec.Style.Color)
		}
		return
	}
	if !rec.Visible || rec.Kind != markup.KindChar {
		return
	}
	st := &rec.Style
	size := st.Size * st.Scale
	face := r.fonts.Face(st.Family, size, textColor(st), st.Weight, st.Italic)
	if face == nil {
		return
	}
	ctx.DrawText(rec.X, rec.Y, canvas.NewTextLine(face, string(rec.Rune), canvas.Left))
}

func fillRect(ctx *canvas.Context, rect layout.Rect, col markup.Color) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	ctx.SetFillColor(colorOf(col))
	ctx.SetStrokeColor(color.RGBA{})
	ctx.DrawPath(rect.X, rect.Y, canvas.Rectangle(rect.W, rect.H))
}

func strokeRect(ctx *canvas.Context, rect layout.Rect, col markup.Color) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(colorOf(col))
	ctx.SetStrokeWidth(linkStrokeWidth)
	ctx.DrawPath(rect.X, rect.Y, canvas.Rectangle(rect.W, rect.H))
}

// textColor 合成字符的填充色：颜色自带透明度与 alpha 属性相乘。
func textColor(st *markup.Style) color.Color {
	a := float64(st.Color.A) / 255 * float64(st.Alpha) / 255
	return canvas.RGBA(float64(st.Color.R)/255, float64(st.Color.G)/255, float64(st.Color.B)/255, a)
}

func colorOf(c markup.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}
