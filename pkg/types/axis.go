// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// Axis 标识补间作用的轴
// 同一套补间逻辑按轴标签分派，而不是为每个轴复制一份
type Axis int

const (
	// AxisX 水平轴
	AxisX Axis = iota
	// AxisY 垂直轴
	AxisY
	// AxisZ 深度轴（投射物的远近层次）
	AxisZ

	// AxisCount 轴的数量，用于定长数组索引
	AxisCount
)

// String 返回轴的字符串表示
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "Unknown"
	}
}

// Valid 检查轴标签是否合法
func (a Axis) Valid() bool {
	return a >= AxisX && a < AxisCount
}

// Sign 补间的行进方向
type Sign int

const (
	// SignPositive 数值递增方向（零距离也视为正方向）
	SignPositive Sign = 1
	// SignNegative 数值递减方向
	SignNegative Sign = -1
)

// SignOf 返回 v 的方向，0 归为正方向
func SignOf(v float64) Sign {
	if v < 0 {
		return SignNegative
	}
	return SignPositive
}

// String 返回方向的字符串表示
func (s Sign) String() string {
	if s == SignNegative {
		return "Negative"
	}
	return "Positive"
}
