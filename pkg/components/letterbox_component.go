package components

import "github.com/tanema/gween"

// LetterboxComponent 过场黑边
// 由 letterbox_open / letterbox_close 副作用驱动，高度通过缓动补间变化
type LetterboxComponent struct {
	// Height 当前每条黑边的高度（像素）
	Height float64

	// MaxHeight 完全展开时的高度（像素）
	MaxHeight float64

	// Duration 展开/收起耗时（秒）
	Duration float32

	// IsOpen 目标状态
	IsOpen bool

	// Tween 正在进行的缓动，nil 表示静止
	Tween *gween.Tween
}
