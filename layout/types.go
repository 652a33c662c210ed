package layout

// 该文件定义排版流水线中流动的块、绘制指令与游标状态。

// BlockKind 标识一个可视块的类型。
type BlockKind int

const (
	KindTitle BlockKind = iota
	KindAuthor
	KindHeading
	KindTextLine
	KindBlankSpacer
	KindFootnoteRule
	KindFootnoteLine
	// KindGap 不绘制任何内容，只让游标下移（标题后的间距、章节分隔）。
	KindGap
)

var kindNames = map[BlockKind]string{
	KindTitle:        "title",
	KindAuthor:       "author",
	KindHeading:      "heading",
	KindTextLine:     "text",
	KindBlankSpacer:  "blank",
	KindFootnoteRule: "footnote-rule",
	KindFootnoteLine: "footnote",
	KindGap:          "gap",
}

func (k BlockKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText 让调试 JSON 输出可读的类型名。
func (k BlockKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Weight 是字重，目前只区分常规与粗体。
type Weight int

const (
	Regular Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "regular"
}

func (w Weight) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Block 是块序列器产出、页面流控制器消费的一条排版单元。
// 所有长度单位为 mm，Size 为 pt。
type Block struct {
	Kind   BlockKind `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Weight Weight    `json:"weight"`
	Size   float64   `json:"size,omitempty"`
	// Before 为块前间距，新页顶部时忽略。
	Before float64 `json:"before,omitempty"`
	// Advance 为放置后游标下移的距离。
	Advance float64 `json:"advance"`
	// Keep 为额外预留的空间，保证标题后至少还能放下一行正文。
	Keep float64 `json:"keep,omitempty"`
}

// draws 报告该块是否会产生绘制指令。
func (b Block) draws() bool {
	switch b.Kind {
	case KindBlankSpacer, KindGap:
		return false
	}
	return b.Text != ""
}

// Placement 是发往渲染端的一条绘制指令。
// 坐标以页面左下角为原点、y 轴向上，单位 mm；Y 为基线位置。
type Placement struct {
	Page   int       `json:"page"`
	Kind   BlockKind `json:"kind"`
	Text   string    `json:"text"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Size   float64   `json:"size"`
	Weight Weight    `json:"weight"`
}

// FlowMode 是页面流控制器的状态。
type FlowMode int

const (
	Flowing FlowMode = iota
	PageBreakPending
)

func (m FlowMode) String() string {
	if m == PageBreakPending {
		return "page-break-pending"
	}
	return "flowing"
}

// State 记录一次导出过程中的游标状态，每次导出重新创建。
type State struct {
	Page int
	Y    float64
	Mode FlowMode
	// fresh 表示当前页尚未放置任何块。
	fresh bool
}

// Summary 汇总一次导出的结果。Blocks 为放置的块数，不含 KindGap 间距。
type Summary struct {
	Pages  int `json:"pages"`
	Blocks int `json:"blocks"`
}
