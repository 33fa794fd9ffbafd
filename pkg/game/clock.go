package game

import (
	"time"

	"github.com/gonewx/arcade/pkg/types"
)

// Clock 域时钟
//
// 提供每帧的 delta 与单调递增的 elapsed，与墙上时钟及其他子系统的
// 时钟解耦。内部以整数 time.Duration 累加，每帧只由管线的时钟阶段
// 推进一次，其余系统只读。
type Clock struct {
	delta   time.Duration
	elapsed time.Duration
	ticks   uint64
	paused  bool
}

// NewClock 创建从 0 开始的时钟
func NewClock() *Clock {
	return &Clock{}
}

// Tick 推进一帧（dt 单位为秒）
// 暂停时 delta 为 0，elapsed 不变，但帧计数仍然增加
func (c *Clock) Tick(dt float64) {
	c.ticks++
	d := types.SecondsToDuration(dt)
	if c.paused || d <= 0 {
		c.delta = 0
		return
	}
	c.delta = d
	c.elapsed += d
}

// Delta 本帧时间增量（秒），供补间积分使用
func (c *Clock) Delta() float64 {
	return c.delta.Seconds()
}

// Elapsed 累计时间
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// Ticks 已推进的帧数
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Pause 暂停时钟
func (c *Clock) Pause() {
	c.paused = true
}

// Resume 恢复时钟
func (c *Clock) Resume() {
	c.paused = false
}

// IsPaused 是否已暂停
func (c *Clock) IsPaused() bool {
	return c.paused
}
