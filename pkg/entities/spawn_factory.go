package entities

import (
	"log"
	"math"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/tween"
	"github.com/gonewx/arcade/pkg/types"
)

// MotionController 生成实体时使用的移动接口（由 TweenSystem 实现）
type MotionController interface {
	MoveTo(id ecs.EntityID, axis types.Axis, target, speed, acceleration float64) error
	AddContribution(parent ecs.EntityID, axis types.Axis, offset, speed, acceleration float64) (tween.ContributionID, error)
}

// SpawnFactory 按生成模板把生成描述变成实体
type SpawnFactory struct {
	entityManager *ecs.EntityManager
	templates     map[string]*config.SpawnTemplate
	motion        MotionController // 可为 nil：生成的实体保持静止
}

// NewSpawnFactory 创建生成工厂
//
// 参数:
//   - em: 实体管理器
//   - templates: 类型 -> 模板，未列出的类型被视为无法识别
//   - motion: 移动接口，可为 nil
func NewSpawnFactory(em *ecs.EntityManager, templates map[string]*config.SpawnTemplate, motion MotionController) *SpawnFactory {
	if templates == nil {
		templates = map[string]*config.SpawnTemplate{}
	}
	return &SpawnFactory{
		entityManager: em,
		templates:     templates,
		motion:        motion,
	}
}

// Spawn 创建生成实体
//
// 返回:
//   - ecs.EntityID: 新实体ID
//   - bool: 类型未知或深度超出模板范围时返回 false，不创建任何实体
//
// 注意：
//   - 模板 speed > 0 且描述声明了目标时实体朝目标移动
//   - ephemeral 模板使用直接补间，到达后整个实体被移除
//   - 其余模板以子贡献方式移动，实体本身保留
func (f *SpawnFactory) Spawn(desc *config.SpawnConfig) (ecs.EntityID, bool) {
	tpl, ok := f.templates[desc.Type]
	if !ok {
		return 0, false
	}
	if !tpl.AcceptsDepth(desc.Depth) {
		return 0, false
	}

	id := f.entityManager.CreateEntity()
	ecs.AddComponent(f.entityManager, id, &components.PositionComponent{
		X: desc.X,
		Y: desc.Y,
		Z: desc.Depth,
	})
	ecs.AddComponent(f.entityManager, id, &components.SpawnedComponent{Type: desc.Type})

	if f.motion == nil || tpl.Speed <= 0 || !desc.HasTarget() {
		return id, true
	}

	start := [types.AxisCount]float64{desc.X, desc.Y, desc.Depth}
	target := start
	if desc.TargetX != nil {
		target[types.AxisX] = *desc.TargetX
	}
	if desc.TargetY != nil {
		target[types.AxisY] = *desc.TargetY
	}
	if desc.TargetDepth != nil {
		target[types.AxisZ] = *desc.TargetDepth
	}

	// 速度沿直线按各轴距离比例分配
	var dist float64
	for axis := range start {
		d := target[axis] - start[axis]
		dist += d * d
	}
	dist = math.Sqrt(dist)
	if dist == 0 {
		return id, true
	}

	if tpl.Ephemeral {
		ecs.AddComponent(f.entityManager, id, &components.EphemeralTweenComponent{})
	}

	for axis := types.Axis(0); axis < types.AxisCount; axis++ {
		offset := target[axis] - start[axis]
		if offset == 0 {
			continue
		}
		speed := tpl.Speed * math.Abs(offset) / dist

		var err error
		if tpl.Ephemeral {
			err = f.motion.MoveTo(id, axis, target[axis], speed, 0)
		} else {
			_, err = f.motion.AddContribution(id, axis, offset, speed, 0)
		}
		if err != nil {
			log.Printf("[SpawnFactory] Warning: %s entity %d cannot move on axis %s: %v", desc.Type, id, axis, err)
		}
	}

	return id, true
}
