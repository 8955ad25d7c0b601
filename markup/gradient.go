package markup

import colorful "github.com/lucasb-eyer/go-colorful"

// ApplyGradients 是解析后的第二趟：找出渐变端点完全相同的连续字符段，
// 对长度为 N 的段按 t=i/(N-1) 做线性插值；单字符段精确取起点色。
// 端点对的任何变化（包括渐变关闭）都会切断当前段。
func ApplyGradients(chars []Char) {
	i := 0
	for i < len(chars) {
		g := chars[i].Gradient
		if !g.On {
			i++
			continue
		}
		j := i + 1
		for j < len(chars) && chars[j].Gradient == g {
			j++
		}
		n := j - i
		for k := 0; k < n; k++ {
			t := 0.0
			if n > 1 {
				t = float64(k) / float64(n-1)
			}
			chars[i+k].Style.Color = lerpColor(g.Start, g.End, t)
		}
		i = j
	}
}

// lerpColor 在 sRGB 空间做逐通道插值，t=0/1 时严格返回端点色。
func lerpColor(a, b Color, t float64) Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).RGB255()
	alpha := float64(a.A) + (float64(b.A)-float64(a.A))*t
	return Color{R: r, G: g, B: bl, A: uint8(alpha + 0.5)}
}
