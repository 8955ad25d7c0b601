package assets

import (
	"strings"

	"github.com/ByLCY/vellum/markup"
)

// StyleRegistry 存放命名样式预设：一对在标签展开时注入的开/闭标记片段。
// 名称不区分大小写。
type StyleRegistry struct {
	presets map[string]stylePreset
}

type stylePreset struct {
	open  string
	close string
}

// NewStyleRegistry 创建空注册表。
func NewStyleRegistry() *StyleRegistry {
	return &StyleRegistry{presets: map[string]stylePreset{}}
}

// Define 登记一个预设；重名覆盖。
func (r *StyleRegistry) Define(name, open, close string) {
	r.presets[strings.ToLower(name)] = stylePreset{open: open, close: close}
}

var _ markup.StyleSource = (*StyleRegistry)(nil)

// Preset 实现 markup.StyleSource。
func (r *StyleRegistry) Preset(name string) (string, string, bool) {
	p, ok := r.presets[strings.ToLower(name)]
	return p.open, p.close, ok
}
