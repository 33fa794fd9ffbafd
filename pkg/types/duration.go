package types

import (
	"math"
	"time"
)

// DeadlineTolerance 判定期限到达时允许的误差
// 每帧 dt 换算成纳秒时有舍入，累加多帧后可能比期限少几纳秒到几微秒
const DeadlineTolerance = time.Millisecond

// SecondsToDuration 把配置中的秒数换算为 time.Duration（四舍五入到纳秒）
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// DeadlineReached 已累计时间是否到达期限
func DeadlineReached(elapsed, deadline time.Duration) bool {
	return elapsed+DeadlineTolerance >= deadline
}
