package assets

import (
	"strings"

	"github.com/ByLCY/vellum/layout"
)

// SpriteRegistry 管理精灵图集，支持图集+名称、图集+序号与跨图集全局
// 检索四种方式。名称比较不区分大小写；全局检索按图集注册顺序取首个
// 命中。
type SpriteRegistry struct {
	atlases map[string]*Atlas
	order   []string
}

// Atlas 是一组共享基准字号的精灵图。
type Atlas struct {
	Name     string
	BaseSize float64

	sprites []layout.Sprite
	byName  map[string]int
}

// NewSpriteRegistry 创建空注册表。
func NewSpriteRegistry() *SpriteRegistry {
	return &SpriteRegistry{atlases: map[string]*Atlas{}}
}

// AddAtlas 创建（或返回已存在的）图集。baseSize 是图集的设计字号。
func (r *SpriteRegistry) AddAtlas(name string, baseSize float64) *Atlas {
	key := strings.ToLower(name)
	if a, ok := r.atlases[key]; ok {
		return a
	}
	a := &Atlas{Name: name, BaseSize: baseSize, byName: map[string]int{}}
	r.atlases[key] = a
	r.order = append(r.order, key)
	return a
}

// Add 向图集追加一个精灵图并返回其序号。图集名、序号与基准字号由
// 图集统一填写，调用方只需提供名称与几何。
func (a *Atlas) Add(sp layout.Sprite) int {
	idx := len(a.sprites)
	sp.Atlas = a.Name
	sp.Index = idx
	if sp.BaseSize <= 0 {
		sp.BaseSize = a.BaseSize
	}
	a.sprites = append(a.sprites, sp)
	if sp.Name != "" {
		a.byName[strings.ToLower(sp.Name)] = idx
	}
	return idx
}

// Len 返回图集内精灵图数量。
func (a *Atlas) Len() int { return len(a.sprites) }

var _ layout.SpriteSource = (*SpriteRegistry)(nil)

// Sprite 实现 layout.SpriteSource：按图集+名称检索。
func (r *SpriteRegistry) Sprite(atlas, name string) (layout.Sprite, bool) {
	a, ok := r.atlases[strings.ToLower(atlas)]
	if !ok {
		return layout.Sprite{}, false
	}
	idx, ok := a.byName[strings.ToLower(name)]
	if !ok {
		return layout.Sprite{}, false
	}
	return a.sprites[idx], true
}

// SpriteAt 实现 layout.SpriteSource：按图集+序号检索。
func (r *SpriteRegistry) SpriteAt(atlas string, index int) (layout.Sprite, bool) {
	a, ok := r.atlases[strings.ToLower(atlas)]
	if !ok || index < 0 || index >= len(a.sprites) {
		return layout.Sprite{}, false
	}
	return a.sprites[index], true
}

// Find 实现 layout.SpriteSource：跨图集按名称检索。
func (r *SpriteRegistry) Find(name string) (layout.Sprite, bool) {
	key := strings.ToLower(name)
	for _, ak := range r.order {
		a := r.atlases[ak]
		if idx, ok := a.byName[key]; ok {
			return a.sprites[idx], true
		}
	}
	return layout.Sprite{}, false
}

// FindAt 实现 layout.SpriteSource：在首个注册的图集内按序号检索。
func (r *SpriteRegistry) FindAt(index int) (layout.Sprite, bool) {
	if len(r.order) == 0 {
		return layout.Sprite{}, false
	}
	return r.SpriteAt(r.order[0], index)
}
