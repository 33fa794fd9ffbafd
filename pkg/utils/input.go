// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action 序列播放器关心的输入动作
type Action int

const (
	// ActionContinue 继续（满足步骤的 awaitInput 条件）
	ActionContinue Action = iota
	// ActionSkip 跳过当前步骤（仅可跳过的序列响应）
	ActionSkip
)

// String 返回动作名称
func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// ActionInput 动作输入源
// 同一帧内多次查询结果一致
type ActionInput interface {
	IsActionJustPressed(action Action) bool
}

// KeyBindings 动作到按键的映射
type KeyBindings map[Action][]ebiten.Key

// DefaultKeyBindings 默认按键：Space/Enter 继续，Esc 跳过
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		ActionContinue: {ebiten.KeySpace, ebiten.KeyEnter},
		ActionSkip:     {ebiten.KeyEscape},
	}
}

// EbitenActionInput 基于 ebiten 的动作输入
// 继续动作同时接受鼠标点击和触摸
type EbitenActionInput struct {
	bindings KeyBindings
}

// NewEbitenActionInput 创建 ebiten 输入源，bindings 为 nil 时使用默认按键
func NewEbitenActionInput(bindings KeyBindings) *EbitenActionInput {
	if bindings == nil {
		bindings = DefaultKeyBindings()
	}
	return &EbitenActionInput{bindings: bindings}
}

// IsActionJustPressed 检查动作是否在本帧刚被触发
func (in *EbitenActionInput) IsActionJustPressed(action Action) bool {
	for _, key := range in.bindings[action] {
		if inpututil.IsKeyJustPressed(key) {
			return true
		}
	}

	if action == ActionContinue {
		pressed, _, _ := IsJustTouchedOrClicked()
		return pressed
	}
	return false
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	// 检查触摸
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	// 检查鼠标
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// ScriptedActionInput 按帧号回放的动作输入（无窗口运行与测试使用）
type ScriptedActionInput struct {
	tick    uint64
	presses map[uint64][]Action
}

// NewScriptedActionInput 创建脚本输入
func NewScriptedActionInput() *ScriptedActionInput {
	return &ScriptedActionInput{presses: make(map[uint64][]Action)}
}

// PressAt 在第 tick 帧触发动作（帧号从 1 开始，与 Clock.Ticks 一致）
func (in *ScriptedActionInput) PressAt(tick uint64, action Action) {
	in.presses[tick] = append(in.presses[tick], action)
}

// SetTick 设置当前帧号
func (in *ScriptedActionInput) SetTick(tick uint64) {
	in.tick = tick
}

// IsActionJustPressed 当前帧是否触发了动作
func (in *ScriptedActionInput) IsActionJustPressed(action Action) bool {
	for _, a := range in.presses[in.tick] {
		if a == action {
			return true
		}
	}
	return false
}
