package components

import (
	"time"

	"github.com/gonewx/arcade/pkg/config"
)

// PendingSpawn 等待生成的描述
// Delay 相对上一个生成的延迟
type PendingSpawn struct {
	Delay      time.Duration
	Descriptor config.SpawnConfig
}

// SpawnerComponent 步骤内的定时生成器
// 随步骤创建、随步骤移除；已生成的描述被移出列表，不会重新加入
type SpawnerComponent struct {
	// Elapsed 自上一次生成以来累计的时间
	Elapsed time.Duration

	// Pending 剩余的生成描述，按编写顺序排列
	Pending []PendingSpawn

	// Armed 是否已开始计时
	// 步骤应用当帧创建的生成器在第一次处理时只触发零延迟描述，不累计 dt
	Armed bool
}

// NewSpawnerComponent 从生成配置列表创建生成器，秒数在这里一次性换算
func NewSpawnerComponent(spawns []config.SpawnConfig) *SpawnerComponent {
	pending := make([]PendingSpawn, 0, len(spawns))
	for _, s := range spawns {
		pending = append(pending, PendingSpawn{
			Delay:      s.Delay(),
			Descriptor: s,
		})
	}
	return &SpawnerComponent{Pending: pending}
}
