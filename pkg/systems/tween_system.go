package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/gonewx/arcade/pkg/tween"
	"github.com/gonewx/arcade/pkg/types"
)

// TweenSystem 补间系统
//
// 职责：
//   - 积分：推进所有直接补间轨道与子贡献
//   - 检测：为本帧越过目标的轨道挂上到达标记
//   - 传播：把逐轴到达写入 Composite2DReach / 父实体，并发出到达事件
//   - 对外提供 MoveTo / MoveTo2D / AddContribution / Stop 接口
//
// 三个阶段在一次 Update 内按顺序执行，中间不会插入其他系统，
// 因此同一帧两个轴同时到达时组合状态在同一帧即为完全到达。
type TweenSystem struct {
	entityManager *ecs.EntityManager
	arena         *tween.Arena
	events        *game.EventQueue

	// hits 本帧积分阶段收集的直接补间到达（检测阶段消费）
	hits []axisHit

	verbose bool
}

// axisHit 某实体某轴的到达
type axisHit struct {
	entity ecs.EntityID
	axis   types.Axis
}

// NewTweenSystem 创建补间系统
func NewTweenSystem(em *ecs.EntityManager, arena *tween.Arena, events *game.EventQueue) *TweenSystem {
	return &TweenSystem{
		entityManager: em,
		arena:         arena,
		events:        events,
		hits:          make([]axisHit, 0, 8),
	}
}

// SetVerbose 设置是否输出详细日志
func (s *TweenSystem) SetVerbose(verbose bool) {
	s.verbose = verbose
}

// Update 按 积分 → 检测 → 传播 顺序执行
func (s *TweenSystem) Update(dt float64) {
	s.integrate(dt)
	s.detect()
	s.propagate()
}

// integrate 推进直接补间轨道与子贡献
func (s *TweenSystem) integrate(dt float64) {
	s.hits = s.hits[:0]

	entities := ecs.GetEntitiesWith2[*components.TweenComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		tc, _ := ecs.GetComponent[*components.TweenComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		for axis := types.Axis(0); axis < types.AxisCount; axis++ {
			track := tc.Tracks[axis]
			if track == nil {
				continue
			}
			_, reached := track.Step(dt)
			pos.Set(axis, track.Current)
			if reached {
				s.hits = append(s.hits, axisHit{entity: id, axis: axis})
			}
		}
	}

	for _, c := range s.arena.All() {
		c.Delta, c.Reached = c.Value.Step(dt)
	}
}

// detect 为本帧到达的直接补间挂上到达标记
func (s *TweenSystem) detect() {
	for _, hit := range s.hits {
		reached := s.ensureReached(hit.entity)
		reached.Axes[hit.axis] = true
	}
}

// propagate 把到达写入组合状态与父实体
func (s *TweenSystem) propagate() {
	for _, hit := range s.hits {
		s.markComposite(hit.entity, hit.axis)
		s.emitReached(hit.entity, hit.axis)
	}

	// 子贡献：(父实体, 轴) 下全部贡献都已到达时，父实体该轴视为到达
	for _, key := range s.arena.Keys() {
		if !s.entityManager.EntityExists(key.Parent) {
			continue
		}
		contributions := s.arena.For(key.Parent, key.Axis)
		allReached := len(contributions) > 0
		anyReached := false
		for _, c := range contributions {
			if c.Reached {
				anyReached = true
			} else {
				allReached = false
			}
		}
		if !anyReached || !allReached {
			continue
		}

		reached := s.ensureReached(key.Parent)
		reached.PropagatedAxes[key.Axis] = true
		s.markComposite(key.Parent, key.Axis)
		s.emitReached(key.Parent, key.Axis)
	}
}

func (s *TweenSystem) ensureReached(id ecs.EntityID) *components.ReachedComponent {
	reached, ok := ecs.GetComponent[*components.ReachedComponent](s.entityManager, id)
	if !ok {
		reached = &components.ReachedComponent{}
		ecs.AddComponent(s.entityManager, id, reached)
	}
	return reached
}

func (s *TweenSystem) markComposite(id ecs.EntityID, axis types.Axis) {
	if composite, ok := ecs.GetComponent[*components.Composite2DReachComponent](s.entityManager, id); ok {
		composite.Mark(axis)
	}
}

func (s *TweenSystem) emitReached(id ecs.EntityID, axis types.Axis) {
	s.events.Push(game.Event{
		Type:   game.EventMovementReached,
		Entity: id,
		Axis:   axis,
	})
	if s.verbose {
		log.Printf("[TweenSystem] Entity %d reached target on axis %s", id, axis)
	}
}

// MoveTo 为实体的某个轴设置直接补间（替换该轴已有轨道）
//
// 参数：
//   - id: 目标实体（没有 PositionComponent 时自动添加）
//   - axis: 轴
//   - target: 目标值
//   - speed: 速度大小（方向自动指向目标）
//   - acceleration: 加速度大小，0 表示匀速
//
// 返回：
//   - ErrEntityNotFound: 实体不存在
//   - ErrAxisBusy: 该轴正由子贡献驱动
func (s *TweenSystem) MoveTo(id ecs.EntityID, axis types.Axis, target, speed, acceleration float64) error {
	if !axis.Valid() {
		return fmt.Errorf("move entity %d: invalid axis %d", id, int(axis))
	}
	if !s.entityManager.EntityExists(id) {
		return fmt.Errorf("move entity %d: %w", id, ErrEntityNotFound)
	}
	if s.arena.Has(id, axis) {
		return fmt.Errorf("move entity %d on axis %s: %w", id, axis, ErrAxisBusy)
	}

	pos := s.ensurePosition(id)
	tc := s.ensureTween(id)

	value := tween.Toward(axis, pos.Get(axis), target, speed, acceleration)
	tc.Tracks[axis] = &value
	if s.verbose {
		log.Printf("[TweenSystem] Entity %d axis %s: %.2f -> %.2f (%s, speed=%.2f)",
			id, axis, value.Current, target, value.Direction, value.Speed)
	}

	s.retarget(id)
	return nil
}

// MoveTo2D 沿直线把实体移动到 (x, y)
//
// x、y 为 nil 的轴保持当前值（该轴第一帧即到达）。速度与加速度按两轴距离
// 比例分配，两轴同时到达。实体会获得 Composite2DReachComponent。
func (s *TweenSystem) MoveTo2D(id ecs.EntityID, x, y *float64, speed, acceleration float64) error {
	if !s.entityManager.EntityExists(id) {
		return fmt.Errorf("move entity %d: %w", id, ErrEntityNotFound)
	}
	if s.arena.Has(id, types.AxisX) || s.arena.Has(id, types.AxisY) {
		return fmt.Errorf("move entity %d: %w", id, ErrAxisBusy)
	}

	pos := s.ensurePosition(id)
	targetX, targetY := pos.X, pos.Y
	if x != nil {
		targetX = *x
	}
	if y != nil {
		targetY = *y
	}

	dx := targetX - pos.X
	dy := targetY - pos.Y
	dist := math.Hypot(dx, dy)

	ratioX, ratioY := 0.0, 0.0
	if dist > 0 {
		ratioX = math.Abs(dx) / dist
		ratioY = math.Abs(dy) / dist
	}

	if _, ok := ecs.GetComponent[*components.Composite2DReachComponent](s.entityManager, id); !ok {
		ecs.AddComponent(s.entityManager, id, &components.Composite2DReachComponent{})
	}

	if err := s.MoveTo(id, types.AxisX, targetX, speed*ratioX, acceleration*ratioX); err != nil {
		return err
	}
	return s.MoveTo(id, types.AxisY, targetY, speed*ratioY, acceleration*ratioY)
}

// AddContribution 为父实体的某个轴添加一个子补间贡献
//
// 贡献从 0 运动到 offset，每帧位移由聚合阶段叠加到父实体上，
// 多个贡献（如基础移动 + 击退）互不覆盖。
//
// 返回：
//   - ErrEntityNotFound: 父实体不存在
//   - ErrAxisBusy: 该轴已有直接补间轨道
func (s *TweenSystem) AddContribution(parent ecs.EntityID, axis types.Axis, offset, speed, acceleration float64) (tween.ContributionID, error) {
	if !axis.Valid() {
		return 0, fmt.Errorf("contribute to entity %d: invalid axis %d", parent, int(axis))
	}
	if !s.entityManager.EntityExists(parent) {
		return 0, fmt.Errorf("contribute to entity %d: %w", parent, ErrEntityNotFound)
	}
	if tc, ok := ecs.GetComponent[*components.TweenComponent](s.entityManager, parent); ok && tc.Track(axis) != nil {
		return 0, fmt.Errorf("contribute to entity %d on axis %s: %w", parent, axis, ErrAxisBusy)
	}

	s.ensurePosition(parent)
	id := s.arena.Add(parent, tween.Toward(axis, 0, offset, speed, acceleration))

	s.retarget(parent)
	return id, nil
}

// Stop 立即移除实体的全部补间状态（直接轨道、到达标记、子贡献）
// 用于步骤被外部中止；位置保持在当前值
func (s *TweenSystem) Stop(id ecs.EntityID) {
	ecs.RemoveComponent[*components.TweenComponent](s.entityManager, id)
	ecs.RemoveComponent[*components.ReachedComponent](s.entityManager, id)
	ecs.RemoveComponent[*components.RetargetComponent](s.entityManager, id)
	if composite, ok := ecs.GetComponent[*components.Composite2DReachComponent](s.entityManager, id); ok {
		composite.Reset()
	}
	if removed := s.arena.RemoveParent(id); removed > 0 && s.verbose {
		log.Printf("[TweenSystem] Stopped entity %d, dropped %d contributions", id, removed)
	}
}

// IsMoving 实体是否还有未完成的直接轨道或子贡献
func (s *TweenSystem) IsMoving(id ecs.EntityID) bool {
	if tc, ok := ecs.GetComponent[*components.TweenComponent](s.entityManager, id); ok && !tc.Empty() {
		return true
	}
	for axis := types.Axis(0); axis < types.AxisCount; axis++ {
		if s.arena.Has(id, axis) {
			return true
		}
	}
	return false
}

// retarget 新目标：立即清除组合到达标志，并标记下一帧清除陈旧到达标记
func (s *TweenSystem) retarget(id ecs.EntityID) {
	if composite, ok := ecs.GetComponent[*components.Composite2DReachComponent](s.entityManager, id); ok {
		composite.Reset()
	}
	ecs.AddComponent(s.entityManager, id, &components.RetargetComponent{})
}

func (s *TweenSystem) ensurePosition(id ecs.EntityID) *components.PositionComponent {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		pos = &components.PositionComponent{}
		ecs.AddComponent(s.entityManager, id, pos)
	}
	return pos
}

func (s *TweenSystem) ensureTween(id ecs.EntityID) *components.TweenComponent {
	tc, ok := ecs.GetComponent[*components.TweenComponent](s.entityManager, id)
	if !ok {
		tc = &components.TweenComponent{}
		ecs.AddComponent(s.entityManager, id, tc)
	}
	return tc
}
