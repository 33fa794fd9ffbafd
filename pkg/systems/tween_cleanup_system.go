package systems

import (
	"log"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/tween"
	"github.com/gonewx/arcade/pkg/types"
)

// TweenCleanupSystem 到达清理系统
//
// 整个管线中唯一移除补间状态的系统，在积分、检测、传播、聚合之后运行。
// 先计算本帧要处理的实体集合与贡献集合，然后直接修改（不走延迟删除）：
//   - 临时补间实体：全部轨道完成后立即整体删除
//   - 普通实体：移除已到达的轨道，轨道清空后移除 TweenComponent，实体保留
//   - 只带传播到达标记的父实体：保留标记，等待新目标时由重定向阶段清除
//   - 已到达或父实体已不存在的子贡献：从集合中删除
type TweenCleanupSystem struct {
	entityManager *ecs.EntityManager
	arena         *tween.Arena
	verbose       bool
}

// NewTweenCleanupSystem 创建清理系统
func NewTweenCleanupSystem(em *ecs.EntityManager, arena *tween.Arena) *TweenCleanupSystem {
	return &TweenCleanupSystem{
		entityManager: em,
		arena:         arena,
	}
}

// SetVerbose 设置是否输出详细日志
func (s *TweenCleanupSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 执行清理
func (s *TweenCleanupSystem) Update(dt float64) {
	// 先确定处理集合，再开始修改
	reachedEntities := ecs.GetEntitiesWith1[*components.ReachedComponent](s.entityManager)
	finished := make([]tween.ContributionID, 0)
	for _, c := range s.arena.All() {
		if c.Reached || !s.entityManager.EntityExists(c.Parent) {
			finished = append(finished, c.ID)
		}
	}

	for _, id := range reachedEntities {
		s.cleanupEntity(id)
	}

	for _, cid := range finished {
		s.arena.Remove(cid)
	}
}

func (s *TweenCleanupSystem) cleanupEntity(id ecs.EntityID) {
	reached, ok := ecs.GetComponent[*components.ReachedComponent](s.entityManager, id)
	if !ok || !reached.AnyDirect() {
		return
	}

	tc, hasTween := ecs.GetComponent[*components.TweenComponent](s.entityManager, id)
	if hasTween {
		for axis := types.Axis(0); axis < types.AxisCount; axis++ {
			if reached.Axes[axis] {
				tc.Tracks[axis] = nil
			}
		}
	}
	tweenDone := !hasTween || tc.Empty()

	if tweenDone && ecs.HasComponent[*components.EphemeralTweenComponent](s.entityManager, id) {
		s.entityManager.DestroyEntity(id)
		if s.verbose {
			log.Printf("[TweenCleanupSystem] Removed ephemeral tween entity %d", id)
		}
		return
	}

	if tweenDone {
		ecs.RemoveComponent[*components.TweenComponent](s.entityManager, id)
	}

	reached.Axes = [types.AxisCount]bool{}
	if !reached.AnyPropagated() {
		ecs.RemoveComponent[*components.ReachedComponent](s.entityManager, id)
	}
}
