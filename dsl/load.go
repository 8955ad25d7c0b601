package dsl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ByLCY/vellum/assets"
	"github.com/ByLCY/vellum/layout"
)

// Registries 是一份样式表装载后的全部资产。
type Registries struct {
	Fonts     *assets.FontRegistry
	Sprites   *assets.SpriteRegistry
	Styles    *assets.StyleRegistry
	Materials *assets.MaterialRegistry
}

// NewRegistries 创建一组空注册表，未提供样式表时直接可用。
func NewRegistries() *Registries {
	return &Registries{
		Fonts:     assets.NewFontRegistry(),
		Sprites:   assets.NewSpriteRegistry(),
		Styles:    assets.NewStyleRegistry(),
		Materials: assets.NewMaterialRegistry(),
	}
}

// Load 解析样式表并装载其声明的资产。字体路径相对 baseDir 解析。
func Load(r io.Reader, baseDir string) (*Registries, error) {
	sheet, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析样式表失败: %w", err)
	}
	return Build(sheet, baseDir)
}

// LoadFile 从文件装载样式表，字体路径相对样式表所在目录解析。
func LoadFile(path string) (*Registries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开样式表 %s: %w", path, err)
	}
	defer file.Close()
	return Load(file, filepath.Dir(path))
}

// Build 将已解析的样式表装入注册表。
func Build(sheet *Sheet, baseDir string) (*Registries, error) {
	regs := NewRegistries()
	for _, d := range sheet.Decls {
		var err error
		switch {
		case d.Font != nil:
			err = loadFont(regs.Fonts, d.Font, baseDir)
		case d.Style != nil:
			regs.Styles.Define(d.Style.Name, d.Style.Block.Get("open").Text(), d.Style.Block.Get("close").Text())
		case d.Material != nil:
			loadMaterial(regs.Materials, d.Material)
		case d.Atlas != nil:
			loadAtlas(regs.Sprites, d.Atlas)
		case d.Defaults != nil:
			if v := d.Defaults.Get("font"); v != nil {
				regs.Fonts.SetDefault(v.Text())
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return regs, nil
}

func loadFont(fonts *assets.FontRegistry, decl *NamedBlock, baseDir string) error {
	src := decl.Block.Get("src").Text()
	if src == "" {
		return fmt.Errorf("字体 %s 缺少 src", decl.Name)
	}
	if !filepath.IsAbs(src) {
		src = filepath.Join(baseDir, src)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("读取字体 %s 失败: %w", decl.Name, err)
	}
	weight := 400
	if w, ok := decl.Block.Get("weight").Float(); ok {
		weight = int(w)
	}
	italic := decl.Block.Get("italic").Bool()
	if err := fonts.RegisterVariant(decl.Name, data, weight, italic); err != nil {
		return err
	}
	if v := decl.Block.Get("fallback"); v != nil {
		var chain []string
		for _, item := range v.List() {
			if name := item.Text(); name != "" {
				chain = append(chain, name)
			}
		}
		fonts.SetFallbacks(decl.Name, chain...)
	}
	return nil
}

func loadMaterial(materials *assets.MaterialRegistry, decl *NamedBlock) {
	m := assets.Material{Name: decl.Name, Params: map[string]string{}}
	if decl.Block != nil {
		for _, a := range decl.Block.Assignments {
			m.Params[a.Key] = a.Value.Text()
		}
	}
	materials.Define(m)
}

func loadAtlas(sprites *assets.SpriteRegistry, decl *AtlasDecl) {
	baseSize := 0.0
	for _, item := range decl.Items {
		if item.Assign != nil && item.Assign.Key == "base-size" {
			if f, ok := item.Assign.Value.Float(); ok {
				baseSize = f
			}
		}
	}
	atlas := sprites.AddAtlas(decl.Name, baseSize)
	for _, item := range decl.Items {
		if item.Sprite == nil {
			continue
		}
		sp := layout.Sprite{Name: item.Sprite.Name}
		if f, ok := item.Sprite.Block.Get("width").Float(); ok {
			sp.Width = f
		}
		if f, ok := item.Sprite.Block.Get("height").Float(); ok {
			sp.Height = f
		}
		if f, ok := item.Sprite.Block.Get("y-offset").Float(); ok {
			sp.YOffset = f
		}
		atlas.Add(sp)
	}
}
