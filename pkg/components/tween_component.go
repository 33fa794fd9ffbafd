package components

import (
	"github.com/gonewx/arcade/pkg/tween"
	"github.com/gonewx/arcade/pkg/types"
)

// TweenComponent 实体自身的直接补间（每个轴至多一条轨道）
// 积分结果直接写回 PositionComponent 对应轴。
// 同一 (实体, 轴) 上直接补间与子贡献互斥。
type TweenComponent struct {
	Tracks [types.AxisCount]*tween.Value
}

// Track 返回指定轴的轨道，无轨道时返回 nil
func (c *TweenComponent) Track(axis types.Axis) *tween.Value {
	if !axis.Valid() {
		return nil
	}
	return c.Tracks[axis]
}

// Empty 是否已没有任何轨道
func (c *TweenComponent) Empty() bool {
	for _, t := range c.Tracks {
		if t != nil {
			return false
		}
	}
	return true
}

// ReachedComponent 到达标记
//
// Axes 由检测阶段在补间越过目标的那一帧写入，清理阶段同帧移除，不跨帧存在。
// PropagatedAxes 由子贡献传播而来：父实体自身没有补间轨道，标记保留到
// 下一次为该实体设置新目标时，供下游的步骤完成逻辑观察。
type ReachedComponent struct {
	Axes           [types.AxisCount]bool
	PropagatedAxes [types.AxisCount]bool
}

// AnyDirect 本帧是否有直接补间到达
func (r *ReachedComponent) AnyDirect() bool {
	for _, v := range r.Axes {
		if v {
			return true
		}
	}
	return false
}

// AnyPropagated 是否带有传播而来的到达标记
func (r *ReachedComponent) AnyPropagated() bool {
	for _, v := range r.PropagatedAxes {
		if v {
			return true
		}
	}
	return false
}

// EphemeralTweenComponent 标签：实体只为承载补间而存在，到达后整体移除
type EphemeralTweenComponent struct{}

// RetargetComponent 标签：本实体刚被设置了新目标
// 下一帧的重定向阶段据此清除陈旧的传播到达标记。
type RetargetComponent struct{}

// Composite2DReachComponent 二维组合到达状态
// 两个轴分别到达后才算完全到达；任一轴被重新设置目标时两个标志一起清除。
type Composite2DReachComponent struct {
	ReachedX bool
	ReachedY bool
}

// Mark 标记某轴到达（深度轴不参与二维组合）
func (c *Composite2DReachComponent) Mark(axis types.Axis) {
	switch axis {
	case types.AxisX:
		c.ReachedX = true
	case types.AxisY:
		c.ReachedY = true
	}
}

// Reset 清除两个轴的到达标志
func (c *Composite2DReachComponent) Reset() {
	c.ReachedX = false
	c.ReachedY = false
}

// FullyReached 两个轴是否都已到达
func (c *Composite2DReachComponent) FullyReached() bool {
	return c.ReachedX && c.ReachedY
}
