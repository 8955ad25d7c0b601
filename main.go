package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/dsl"
	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/markup"
	"github.com/ByLCY/vellum/renderer"
	canvasrenderer "github.com/ByLCY/vellum/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.txt", "标记文本文件路径")
	sheet := flag.String("sheet", "", "样式表文件路径（可选）")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到标记文本的 JSON 数据")
	width := flag.Float64("width", 595, "容器宽度（像素）")
	height := flag.Float64("height", 842, "容器高度（像素），<=0 不限高")
	size := flag.Float64("size", 16, "基准字号（像素）")
	family := flag.String("family", "", "基准字体族名")
	colorHex := flag.String("color", "#000000", "基准颜色")
	align := flag.String("align", "left", "基准对齐方式")
	wrap := flag.Bool("wrap", true, "是否自动折行")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	opts := options{
		input:  *input,
		sheet:  *sheet,
		output: *output,
		debug:  *debug,
		data:   inputData,
		width:  *width,
		height: *height,
		size:   *size,
		family: *family,
		color:  *colorHex,
		align:  *align,
		wrap:   *wrap,
	}
	if err := run(opts); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

type options struct {
	input, sheet, output, debug string
	data                        any
	width, height, size         float64
	family, color, align        string
	wrap                        bool
}

// run 串联绑定、解析、布局与渲染。
func run(opts options) error {
	raw, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("无法读取标记文本 %s: %w", opts.input, err)
	}

	regs := dsl.NewRegistries()
	if opts.sheet != "" {
		if regs, err = dsl.LoadFile(opts.sheet); err != nil {
			return fmt.Errorf("装载样式表失败: %w", err)
		}
	}

	text := binding.Interpolate(string(raw), opts.data)

	baseColor, _ := markup.ParseColor(opts.color)
	baseAlign, _ := markup.ParseAlign(opts.align)
	chars := markup.Parse(text, markup.Options{
		Size:   opts.size,
		Color:  baseColor,
		Family: opts.family,
		Align:  baseAlign,
		Styles: regs.Styles,
	})
	markup.ApplyGradients(chars)

	result := layout.Layout(chars, layout.Config{
		Fonts:   regs.Fonts,
		Sprites: regs.Sprites,
		Width:   opts.width,
		Height:  opts.height,
		Wrap:    opts.wrap,
	})

	if opts.debug != "" {
		if err := writeDebug(result, opts.debug); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	var r renderer.Renderer = canvasrenderer.New(regs.Fonts, canvasrenderer.Options{
		Width:       opts.width,
		Height:      opts.height,
		DrawSprites: true,
	})
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
