package systems

import (
	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/ecs"
)

// TweenRetargetSystem 重定向阶段
// 被设置了新目标的实体上保留的传播到达标记已经过期，在积分之前清除，
// 避免上一段移动的到达状态泄漏到新一段移动中。
type TweenRetargetSystem struct {
	entityManager *ecs.EntityManager
}

// NewTweenRetargetSystem 创建重定向系统
func NewTweenRetargetSystem(em *ecs.EntityManager) *TweenRetargetSystem {
	return &TweenRetargetSystem{entityManager: em}
}

// Update 清除陈旧到达标记并移除重定向标签
func (s *TweenRetargetSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.RetargetComponent](s.entityManager) {
		ecs.RemoveComponent[*components.ReachedComponent](s.entityManager, id)
		ecs.RemoveComponent[*components.RetargetComponent](s.entityManager, id)
	}
}
