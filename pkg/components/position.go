package components

import "github.com/gonewx/arcade/pkg/types"

// PositionComponent 实体的位置（世界坐标）
// Z 为深度轴（投射物远近层次），不参与屏幕坐标计算
type PositionComponent struct {
	X float64
	Y float64
	Z float64
}

// Get 按轴读取坐标
func (p *PositionComponent) Get(axis types.Axis) float64 {
	switch axis {
	case types.AxisX:
		return p.X
	case types.AxisY:
		return p.Y
	case types.AxisZ:
		return p.Z
	}
	return 0
}

// Set 按轴写入坐标
func (p *PositionComponent) Set(axis types.Axis, v float64) {
	switch axis {
	case types.AxisX:
		p.X = v
	case types.AxisY:
		p.Y = v
	case types.AxisZ:
		p.Z = v
	}
}

// Add 按轴累加坐标
func (p *PositionComponent) Add(axis types.Axis, delta float64) {
	p.Set(axis, p.Get(axis)+delta)
}
