package systems

import (
	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/tween"
)

// ChildTweenAggregationSystem 子补间聚合系统
//
// 对每个 (父实体, 轴)，把全部子贡献本帧的位移求和，一次性加到父实体的
// PositionComponent 上。未到达的贡献位移等于 speed*dt，因此 N 个贡献
// 每帧让父实体移动 (Σspeed)*dt；到达帧只计入钳制后的实际位移。
//
// 父实体已被外部销毁时直接跳过（贡献由清理阶段移除），这是正常的拆除路径。
type ChildTweenAggregationSystem struct {
	entityManager *ecs.EntityManager
	arena         *tween.Arena
}

// NewChildTweenAggregationSystem 创建聚合系统
func NewChildTweenAggregationSystem(em *ecs.EntityManager, arena *tween.Arena) *ChildTweenAggregationSystem {
	return &ChildTweenAggregationSystem{
		entityManager: em,
		arena:         arena,
	}
}

// Update 汇总并应用子贡献位移
func (s *ChildTweenAggregationSystem) Update(dt float64) {
	for _, key := range s.arena.Keys() {
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, key.Parent)
		if !ok {
			continue
		}

		sum := 0.0
		for _, c := range s.arena.For(key.Parent, key.Axis) {
			sum += c.Delta
			c.Delta = 0
		}
		pos.Add(key.Axis, sum)
	}
}
