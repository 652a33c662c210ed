package layout

import (
	"encoding/json"
	"os"
)

// DebugTrace 汇总一次导出的参数、结果与全部绘制指令，便于调试或可视化。
type DebugTrace struct {
	Config     LayoutConfig `json:"config"`
	Summary    Summary      `json:"summary"`
	Placements []Placement  `json:"placements"`
}

// WriteDebugJSON 将调试信息输出为 JSON。
func WriteDebugJSON(trace *DebugTrace, path string) error {
	if trace == nil {
		return nil
	}
	data, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
