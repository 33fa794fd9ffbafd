// Package tween 实现按轴标签参数化的线性补间（可选恒定加速度）
//
// 本包只包含纯数据与纯计算：
//   - Value: 单轴补间值（当前值、目标、速度、加速度、方向）
//   - Arena: 子补间贡献的集合，按 (父实体, 轴) 索引
//
// 调度顺序（积分 → 检测 → 传播 → 聚合 → 清理）由 systems 包负责。
package tween

import (
	"github.com/gonewx/arcade/pkg/types"
)

// Value 单轴补间值
//
// Direction 在创建时确定且不再重新计算。到达检测比较 Current 与 Target
// 的先后关系而不是距离，因此创建时已越过目标的值会在第一帧即视为到达。
//
// 前置条件：Target 与 Current 不同时，Speed 与 Acceleration 不能同时为 0，
// 否则补间永远不会完成（属于内容配置错误，不做防御）。
type Value struct {
	Axis         types.Axis
	Current      float64
	Target       float64
	Speed        float64 // 有符号速度（单位/秒）
	Acceleration float64 // 恒定加速度（单位/秒²），0 表示匀速
	Direction    types.Sign
}

// NewValue 创建补间值
// 方向取 speed 的符号；speed 为 0 时取 target-current 的符号。
func NewValue(axis types.Axis, current, target, speed, acceleration float64) Value {
	dir := types.SignOf(target - current)
	if speed != 0 {
		dir = types.SignOf(speed)
	} else if acceleration != 0 {
		dir = types.SignOf(acceleration)
	}
	return Value{
		Axis:         axis,
		Current:      current,
		Target:       target,
		Speed:        speed,
		Acceleration: acceleration,
		Direction:    dir,
	}
}

// Toward 创建朝向目标运动的补间值
// speed 与 acceleration 取绝对值后按目标方向赋予符号。
func Toward(axis types.Axis, current, target, speed, acceleration float64) Value {
	dir := types.SignOf(target - current)
	return NewValue(axis, current, target, float64(dir)*abs(speed), float64(dir)*abs(acceleration))
}

// IsReached 按方向判断当前值是否已到达（或越过）目标
func (v *Value) IsReached() bool {
	if v.Direction == types.SignNegative {
		return v.Current <= v.Target
	}
	return v.Current >= v.Target
}

// Step 推进一帧
//
// 先 speed += acceleration*dt，再 current += speed*dt；越过目标时钳制到
// 精确的 Target 并返回 reached=true。
//
// 返回值 delta 为本帧积分产生的位移（钳制帧为钳制后的实际位移）。
// 创建时已越过目标的值不做任何积分，delta 为 0。
func (v *Value) Step(dt float64) (delta float64, reached bool) {
	if v.IsReached() {
		v.Current = v.Target
		return 0, true
	}

	before := v.Current
	if v.Acceleration != 0 {
		v.Speed += v.Acceleration * dt
	}
	v.Current += v.Speed * dt

	if v.IsReached() {
		v.Current = v.Target
		reached = true
	}
	return v.Current - before, reached
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
