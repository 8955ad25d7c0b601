package markup

import "testing"

// TestGradientEndpoints 验证渐变段首尾精确取端点色。
func TestGradientEndpoints(t *testing.T) {
	chars := Parse("<gradient=#000000,#ffffff>abcde</gradient>", Options{})
	ApplyGradients(chars)
	if chars[0].Style.Color != (Color{0, 0, 0, 0xff}) {
		t.Fatalf("段首应精确取起点色: %+v", chars[0].Style.Color)
	}
	if chars[4].Style.Color != (Color{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("段尾应精确取终点色: %+v", chars[4].Style.Color)
	}
	mid := chars[2].Style.Color
	if mid.R < 0x7e || mid.R > 0x81 || mid.R != mid.G || mid.G != mid.B {
		t.Fatalf("中点应接近灰色中值: %+v", mid)
	}
}

// TestGradientSingleChar 验证单字符段取起点色。
func TestGradientSingleChar(t *testing.T) {
	chars := Parse("<gradient=#ff0000,#0000ff>x</gradient>", Options{})
	ApplyGradients(chars)
	if chars[0].Style.Color != (Color{0xff, 0, 0, 0xff}) {
		t.Fatalf("单字符段应取起点色: %+v", chars[0].Style.Color)
	}
}

// TestGradientRunSplit 验证端点对变化会切断插值段。
func TestGradientRunSplit(t *testing.T) {
	chars := Parse("<gradient=#000000,#ffffff>ab<gradient=#ff0000,#00ff00>cd</gradient>ef</gradient>", Options{})
	ApplyGradients(chars)
	// ab 与 ef 共享端点但不相邻，各自独立成段；段长 2 时首尾即端点
	if chars[0].Style.Color != (Color{0, 0, 0, 0xff}) || chars[1].Style.Color != (Color{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("第一段端点错误: %+v %+v", chars[0].Style.Color, chars[1].Style.Color)
	}
	if chars[2].Style.Color != (Color{0xff, 0, 0, 0xff}) || chars[3].Style.Color != (Color{0, 0xff, 0, 0xff}) {
		t.Fatalf("嵌套段端点错误: %+v %+v", chars[2].Style.Color, chars[3].Style.Color)
	}
	if chars[4].Style.Color != (Color{0, 0, 0, 0xff}) || chars[5].Style.Color != (Color{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("恢复段端点错误: %+v %+v", chars[4].Style.Color, chars[5].Style.Color)
	}
}

// TestGradientAlphaLerp 验证透明度通道独立线性插值。
func TestGradientAlphaLerp(t *testing.T) {
	chars := Parse("<gradient=#ff000000,#ff0000ff>abc</gradient>", Options{})
	ApplyGradients(chars)
	if chars[0].Style.Color.A != 0 || chars[2].Style.Color.A != 0xff {
		t.Fatalf("透明度端点错误: %d %d", chars[0].Style.Color.A, chars[2].Style.Color.A)
	}
	if a := chars[1].Style.Color.A; a < 0x7f || a > 0x80 {
		t.Fatalf("透明度中点错误: %d", a)
	}
}

// TestNoGradientUntouched 验证无渐变字符颜色不被改写。
func TestNoGradientUntouched(t *testing.T) {
	chars := Parse("<color=red>a</color>", Options{})
	ApplyGradients(chars)
	if chars[0].Style.Color != (Color{0xff, 0, 0, 0xff}) {
		t.Fatalf("无渐变字符不应被改写: %+v", chars[0].Style.Color)
	}
}
