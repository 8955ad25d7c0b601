package assets

import "testing"

// TestStylePresetLookup 验证预设登记、覆盖与大小写不敏感检索。
func TestStylePresetLookup(t *testing.T) {
	r := NewStyleRegistry()
	r.Define("Shout", "<b>", "</b>")

	open, closeMarkup, ok := r.Preset("shout")
	if !ok || open != "<b>" || closeMarkup != "</b>" {
		t.Fatalf("预设检索错误: %q %q %v", open, closeMarkup, ok)
	}
	if _, _, ok := r.Preset("nope"); ok {
		t.Fatalf("未知预设不应命中")
	}

	r.Define("SHOUT", "<i>", "</i>")
	if open, _, _ := r.Preset("shout"); open != "<i>" {
		t.Fatalf("重名预设应覆盖: %q", open)
	}
}

// TestMaterialLookup 验证材质登记与参数透传。
func TestMaterialLookup(t *testing.T) {
	r := NewMaterialRegistry()
	r.Define(Material{Name: "Glow", Params: map[string]string{"strength": "0.6"}})

	m, ok := r.Get("glow")
	if !ok || m.Params["strength"] != "0.6" {
		t.Fatalf("材质检索错误: %+v", m)
	}
	if _, ok := r.Get("nope"); ok {
		t.Fatalf("未知材质不应命中")
	}

	r.Define(Material{Name: "bare"})
	if m, _ := r.Get("bare"); m.Params == nil {
		t.Fatalf("空参数应初始化为空表")
	}
}
