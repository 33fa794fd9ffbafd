package systems

import (
	"log"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/gonewx/arcade/pkg/types"
)

// Spawner 把生成描述变成实体
// 返回 false 表示描述无法识别（未知类型、深度越界等），该生成被静默跳过
type Spawner interface {
	Spawn(desc *config.SpawnConfig) (ecs.EntityID, bool)
}

// SpawnSchedulerSystem 步骤内定时生成系统
//
// 每帧把 dt（换算为 time.Duration）累加到生成器的计时上，然后反复检查队首：
// 累计时间到达队首的相对延迟时生成它、从累计时间中减去它的相对延迟并出队。
// 延迟相对上一个生成，因此同一帧可以连续触发多个（含掉帧时跨越多个期限）。
type SpawnSchedulerSystem struct {
	entityManager *ecs.EntityManager
	events        *game.EventQueue
	spawner       Spawner // 可为 nil：只发出事件，由外部协作者生成
	verbose       bool
}

// NewSpawnSchedulerSystem 创建定时生成系统
func NewSpawnSchedulerSystem(em *ecs.EntityManager, events *game.EventQueue, spawner Spawner) *SpawnSchedulerSystem {
	return &SpawnSchedulerSystem{
		entityManager: em,
		events:        events,
		spawner:       spawner,
	}
}

// SetVerbose 设置是否输出详细日志（被跳过的生成只在此模式下记录）
func (s *SpawnSchedulerSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 推进所有生成器
func (s *SpawnSchedulerSystem) Update(dt float64) {
	delta := types.SecondsToDuration(dt)
	for _, id := range ecs.GetEntitiesWith1[*components.SpawnerComponent](s.entityManager) {
		spawner, _ := ecs.GetComponent[*components.SpawnerComponent](s.entityManager, id)

		if spawner.Armed {
			spawner.Elapsed += delta
		} else {
			// 步骤刚应用：本帧的 dt 属于步骤开始之前
			spawner.Armed = true
		}

		for len(spawner.Pending) > 0 && types.DeadlineReached(spawner.Elapsed, spawner.Pending[0].Delay) {
			next := spawner.Pending[0]
			spawner.Pending = spawner.Pending[1:]
			spawner.Elapsed -= next.Delay

			s.spawn(id, next.Descriptor)
		}
	}
}

// spawn 生成一个描述并发出事件
func (s *SpawnSchedulerSystem) spawn(owner ecs.EntityID, desc config.SpawnConfig) {
	var spawned ecs.EntityID
	if s.spawner != nil {
		id, ok := s.spawner.Spawn(&desc)
		if !ok {
			if s.verbose {
				log.Printf("[SpawnSchedulerSystem] Skipped unrecognized spawn: type=%s depth=%.1f", desc.Type, desc.Depth)
			}
			return
		}
		spawned = id
	}

	event := game.Event{
		Type:   game.EventSpawnRequested,
		Entity: spawned,
		Spawn:  &desc,
	}
	if seq, ok := ecs.GetComponent[*components.SequenceComponent](s.entityManager, owner); ok {
		event.SequenceID = seq.Config.ID
	}
	if current, ok := ecs.GetComponent[*components.CurrentStepComponent](s.entityManager, owner); ok {
		event.StepIndex = current.Index
	}
	s.events.Push(event)
}
