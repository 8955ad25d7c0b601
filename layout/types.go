package layout

import "github.com/ByLCY/vellum/markup"

// 该文件定义布局结果类型，供渲染、命中测试与调试 JSON 共用。

// Record 是一个已定位、已定尺寸、可直接渲染的字符布局记录。
// 由布局引擎创建并持有，记录背后是复用池：结果作废时应整体归还，
// 归还后调用方不得再持有引用。
type Record struct {
	Rune rune        `json:"rune"`
	Kind markup.Kind `json:"kind"`

	X       float64 `json:"x"` // 左边缘
	Y       float64 `json:"y"` // 基线纵坐标（向下为正）
	Advance float64 `json:"advance"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`

	Line int `json:"line"`
	Word int `json:"word"` // -1 表示不属于任何词

	// Visible 为 false 的记录（空格、零宽标记、缺字）不产生字形
	Visible bool `json:"visible"`

	Style  markup.Style `json:"style"`
	Source int          `json:"source"`

	// 已解析的精灵图，仅 KindSprite 且解析成功时非空
	Sprite *Sprite `json:"sprite,omitempty"`
}

// reset 清空记录以便复用。
func (r *Record) reset() {
	*r = Record{}
}

// Line 是单行的聚合信息，布局完成后不再变化。
type Line struct {
	Start int `json:"start"` // 记录区间 [Start, End)
	End   int `json:"end"`

	Y        float64 `json:"y"`        // 行顶
	Baseline float64 `json:"baseline"` // 基线纵坐标
	Width    float64 `json:"width"`    // 去除行尾空白后的内容右边缘
	Height   float64 `json:"height"`

	Align markup.Align `json:"align"`

	Spaces  int `json:"spaces"`  // 可断行空格数
	Visible int `json:"visible"` // 可见字形数

	Ascent     float64 `json:"ascent"`
	Descent    float64 `json:"descent"`
	MaxAdvance float64 `json:"maxAdvance"`

	// 该行以显式换行结束（两端对齐时此类行不拉伸）
	ExplicitBreak bool `json:"explicitBreak"`
}

// Word 是单词的聚合信息。
type Word struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Width float64 `json:"width"`
	Line  int     `json:"line"`
}

// Rect 是一个轴对齐矩形，供装饰与链接命中测试使用。
type Rect struct {
	X, Y, W, H float64
}

// LinkRegion 是共享同一链接标识的字符区段；跨行时每行一个矩形。
type LinkRegion struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Rects []Rect `json:"rects"`
}

// Hit 返回包含点 (x,y) 的链接区域，用于指针命中测试。
func (l *LinkRegion) Hit(x, y float64) bool {
	for _, r := range l.Rects {
		if x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H {
			return true
		}
	}
	return false
}

// Result 是一次布局的完整产出。记录数组由复用池支撑，丢弃结果前
// 必须调用 Release 归还。
type Result struct {
	Records []*Record    `json:"records"`
	Lines   []Line       `json:"lines"`
	Words   []Word       `json:"words"`
	Links   []LinkRegion `json:"links"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CharCount 返回字符记录数。
func (r *Result) CharCount() int { return len(r.Records) }

// LineCount 返回行数。
func (r *Result) LineCount() int { return len(r.Lines) }

// WordCount 返回词数。
func (r *Result) WordCount() int { return len(r.Words) }

// Release 将全部记录归还给池并清空结果。pool 为空时仅清空。
func (r *Result) Release(pool *Pool) {
	if pool != nil {
		for _, rec := range r.Records {
			pool.Put(rec)
		}
	}
	r.Records = nil
	r.Lines = nil
	r.Words = nil
	r.Links = nil
	r.Width, r.Height = 0, 0
}
