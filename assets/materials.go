package assets

import "strings"

// Material 是一组不透明的效果参数。解析与布局阶段只透传材质名，
// 参数由渲染端自行解释。
type Material struct {
	Name   string
	Params map[string]string
}

// MaterialRegistry 按名称（不区分大小写）存放材质。
type MaterialRegistry struct {
	materials map[string]Material
}

// NewMaterialRegistry 创建空注册表。
func NewMaterialRegistry() *MaterialRegistry {
	return &MaterialRegistry{materials: map[string]Material{}}
}

// Define 登记材质；重名覆盖。
func (r *MaterialRegistry) Define(m Material) {
	if m.Params == nil {
		m.Params = map[string]string{}
	}
	r.materials[strings.ToLower(m.Name)] = m
}

// Get 按名称取材质。
func (r *MaterialRegistry) Get(name string) (Material, bool) {
	m, ok := r.materials[strings.ToLower(name)]
	return m, ok
}
