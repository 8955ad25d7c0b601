package canvasrenderer

import (
	"testing"

	"github.com/ByLCY/vellum/assets"
	"github.com/ByLCY/vellum/layout"
)

// TestRenderGuards 验证空结果与无尺寸结果的入参校验。
func TestRenderGuards(t *testing.T) {
	r := New(assets.NewFontRegistry(), Options{})
	if _, err := r.Render(nil); err == nil {
		t.Fatalf("空结果应报错")
	}
	if _, err := r.Render(&layout.Result{}); err == nil {
		t.Fatalf("无尺寸结果应报错")
	}
}

// TestRenderDimsFromOptions 验证选项尺寸优先于布局结果尺寸。
func TestRenderDimsFromOptions(t *testing.T) {
	r := New(assets.NewFontRegistry(), Options{Width: 100, Height: 50})
	data, err := r.Render(&layout.Result{})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("应产出 PDF 字节")
	}
}
