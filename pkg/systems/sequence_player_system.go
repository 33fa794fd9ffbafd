package systems

import (
	"fmt"
	"log"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/gonewx/arcade/pkg/types"
	"github.com/gonewx/arcade/pkg/utils"
)

// 步骤完成原因（仅用于日志）
const (
	completeReasonElapse   = "elapse"
	completeReasonMovement = "movement"
	completeReasonInput    = "input"
	completeReasonAbort    = "abort"
)

// SequencePlayerSystem 序列步骤播放器
//
// 状态流转：
//
//	NoActiveStep → StepActive → StepComplete → NoActiveStep | SequenceComplete
//
//   - NoActiveStep: 序列实体没有 CurrentStepComponent。还有剩余步骤时应用
//     Progress.Index 指向的步骤；否则发出序列完成事件并停止。
//   - StepActive: 同时检查经过时间、移动到达、继续输入，任一满足即完成
//     （同帧多个条件满足只完成一次）。
//   - StepComplete: 移除步骤组件，Index 加 1，下一帧应用下一步。
//
// 移动只在步骤没有声明 elapse 时作为完成条件；声明了 elapse 的步骤
// 移动与计时并行，由 elapse 控制节奏。
type SequencePlayerSystem struct {
	entityManager *ecs.EntityManager
	clock         *game.Clock
	events        *game.EventQueue
	tweens        *TweenSystem
	input         utils.ActionInput           // 可为 nil（不响应输入）
	store         *game.SequenceProgressStore // 可为 nil（不记录完成）
}

// NewSequencePlayerSystem 创建序列播放器
//
// 参数：
//   - em: 实体管理器
//   - clock: 域时钟（只读）
//   - events: 事件队列
//   - tweens: 补间系统（应用步骤移动）
//   - input: 动作输入源，可为 nil
//   - store: 已完成序列存储，可为 nil
func NewSequencePlayerSystem(em *ecs.EntityManager, clock *game.Clock, events *game.EventQueue, tweens *TweenSystem, input utils.ActionInput, store *game.SequenceProgressStore) *SequencePlayerSystem {
	return &SequencePlayerSystem{
		entityManager: em,
		clock:         clock,
		events:        events,
		tweens:        tweens,
		input:         input,
		store:         store,
	}
}

// Play 开始播放一个序列
//
// 参数：
//   - cfg: 序列配置（播放期间只读）
//   - actor: 步骤移动作用的实体，0 表示序列实体自身
//
// 返回：
//   - ecs.EntityID: 序列实体ID，进度从 0 开始
//   - error: actor 不存在
func (s *SequencePlayerSystem) Play(cfg *config.SequenceConfig, actor ecs.EntityID) (ecs.EntityID, error) {
	if cfg == nil {
		return 0, fmt.Errorf("play sequence: nil config")
	}
	if actor != 0 && !s.entityManager.EntityExists(actor) {
		return 0, fmt.Errorf("play sequence %s: actor %d: %w", cfg.ID, actor, ErrEntityNotFound)
	}

	skippable := cfg.Skippable
	if s.store != nil && s.store.HasCompleted(cfg.ID) {
		skippable = true
	}

	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.SequenceComponent{
		Config:    cfg,
		Actor:     actor,
		Skippable: skippable,
	})
	ecs.AddComponent(s.entityManager, id, &components.SequenceProgressComponent{Index: 0})

	log.Printf("[SequencePlayerSystem] Loaded sequence %q (%s, %d steps, skippable=%v) as entity %d",
		cfg.ID, cfg.Kind, len(cfg.Steps), skippable, id)
	return id, nil
}

// Update 推进所有未完成的序列
func (s *SequencePlayerSystem) Update(dt float64) {
	sequences := ecs.GetEntitiesWith2[*components.SequenceComponent, *components.SequenceProgressComponent](s.entityManager)
	for _, id := range sequences {
		seq, _ := ecs.GetComponent[*components.SequenceComponent](s.entityManager, id)
		if seq.IsCompleted {
			continue
		}
		progress, _ := ecs.GetComponent[*components.SequenceProgressComponent](s.entityManager, id)

		current, active := ecs.GetComponent[*components.CurrentStepComponent](s.entityManager, id)
		if !active {
			if progress.Index >= len(seq.Config.Steps) {
				s.completeSequence(id, seq)
				continue
			}
			s.applyStep(id, seq, progress.Index)
			continue
		}

		if seq.Skippable && s.input != nil && s.input.IsActionJustPressed(utils.ActionSkip) {
			s.AbortStep(id)
			continue
		}

		if reason, done := s.checkCompletion(id, seq, current); done {
			s.completeStep(id, seq, progress, current, reason)
		}
	}
}

// applyStep 应用步骤：插入计时、移动、生成器、等待输入，发出副作用与应用事件
func (s *SequencePlayerSystem) applyStep(id ecs.EntityID, seq *components.SequenceComponent, index int) {
	step := &seq.Config.Steps[index]
	current := &components.CurrentStepComponent{
		Index: index,
		Step:  step,
	}

	ecs.AddComponent(s.entityManager, id, &components.StepTimerComponent{
		StartedAt: s.clock.Elapsed(),
		Elapse:    step.ElapseDuration(),
	})

	if step.Movement != nil {
		m := step.Movement
		if err := s.tweens.MoveTo2D(s.actorOf(id, seq), m.X, m.Y, m.Speed, m.Acceleration); err != nil {
			// 移动无法开始时不把到达作为完成条件
			fallback := "completes on the next tick"
			if step.Elapse > 0 {
				fallback = fmt.Sprintf("runs on its %.2fs elapse only", step.Elapse)
			} else if step.AwaitInput {
				fallback = "waits for input only"
			}
			log.Printf("[SequencePlayerSystem] WARNING: %s step %d movement ignored, step %s: %v",
				seq.Config.ID, index, fallback, err)
		} else if step.Elapse == 0 {
			current.AwaitMovement = true
		}
	}

	// 没有声明任何条件的步骤按 elapse=0 处理，下一帧立即完成
	current.AwaitElapse = step.Elapse > 0 || (!current.AwaitMovement && !step.AwaitInput)

	if len(step.Spawns) > 0 {
		ecs.AddComponent(s.entityManager, id, components.NewSpawnerComponent(step.Spawns))
	}

	if step.AwaitInput {
		ecs.AddComponent(s.entityManager, id, &components.AwaitInputComponent{})
	}

	ecs.AddComponent(s.entityManager, id, current)

	for i := range step.Effects {
		s.events.Push(game.Event{
			Type:       game.EventEffectRequested,
			Entity:     id,
			SequenceID: seq.Config.ID,
			StepIndex:  index,
			Effect:     &step.Effects[i],
		})
	}

	s.events.Push(game.Event{
		Type:       game.EventStepApplied,
		Entity:     id,
		SequenceID: seq.Config.ID,
		StepIndex:  index,
	})

	log.Printf("[SequencePlayerSystem] %s: applied step %d/%d %q at t=%.3f (elapse=%.2f, movement=%v, spawns=%d, awaitInput=%v)",
		seq.Config.ID, index+1, len(seq.Config.Steps), step.Name, s.clock.Elapsed().Seconds(),
		step.Elapse, step.Movement != nil, len(step.Spawns), step.AwaitInput)
}

// checkCompletion 检查完成条件（任一满足）
func (s *SequencePlayerSystem) checkCompletion(id ecs.EntityID, seq *components.SequenceComponent, current *components.CurrentStepComponent) (string, bool) {
	if current.AwaitElapse {
		if timer, ok := ecs.GetComponent[*components.StepTimerComponent](s.entityManager, id); ok {
			if types.DeadlineReached(s.clock.Elapsed()-timer.StartedAt, timer.Elapse) {
				return completeReasonElapse, true
			}
		}
	}

	if current.AwaitMovement {
		actor := s.actorOf(id, seq)
		if composite, ok := ecs.GetComponent[*components.Composite2DReachComponent](s.entityManager, actor); ok && composite.FullyReached() {
			return completeReasonMovement, true
		}
	}

	if ecs.HasComponent[*components.AwaitInputComponent](s.entityManager, id) && s.input != nil {
		if s.input.IsActionJustPressed(utils.ActionContinue) {
			return completeReasonInput, true
		}
	}

	return "", false
}

// completeStep 步骤完成：移除步骤组件，进度加 1
func (s *SequencePlayerSystem) completeStep(id ecs.EntityID, seq *components.SequenceComponent, progress *components.SequenceProgressComponent, current *components.CurrentStepComponent, reason string) {
	ecs.RemoveComponent[*components.CurrentStepComponent](s.entityManager, id)
	ecs.RemoveComponent[*components.StepTimerComponent](s.entityManager, id)
	ecs.RemoveComponent[*components.SpawnerComponent](s.entityManager, id)
	ecs.RemoveComponent[*components.AwaitInputComponent](s.entityManager, id)

	progress.Index++

	s.events.Push(game.Event{
		Type:       game.EventStepCompleted,
		Entity:     id,
		SequenceID: seq.Config.ID,
		StepIndex:  current.Index,
	})

	log.Printf("[SequencePlayerSystem] %s: step %d %q completed by %s at t=%.3f",
		seq.Config.ID, current.Index+1, current.Step.Name, reason, s.clock.Elapsed().Seconds())
}

// completeSequence 发出序列完成事件（只发一次）并记录
func (s *SequencePlayerSystem) completeSequence(id ecs.EntityID, seq *components.SequenceComponent) {
	seq.IsCompleted = true

	s.events.Push(game.Event{
		Type:       game.EventSequenceCompleted,
		Entity:     id,
		SequenceID: seq.Config.ID,
		StepIndex:  len(seq.Config.Steps),
	})

	if s.store != nil {
		if err := s.store.MarkCompleted(seq.Config.ID); err != nil {
			log.Printf("[SequencePlayerSystem] Warning: failed to record %s as completed: %v", seq.Config.ID, err)
		}
	}

	log.Printf("[SequencePlayerSystem] Sequence %q completed at t=%.3f", seq.Config.ID, s.clock.Elapsed().Seconds())
}

// AbortStep 从外部中止当前步骤
//
// 立即移除该步骤的补间与生成器状态，并把步骤推进到完成；
// 可在 StepActive 的任意子状态调用。没有激活步骤时返回 false。
func (s *SequencePlayerSystem) AbortStep(id ecs.EntityID) bool {
	seq, ok := ecs.GetComponent[*components.SequenceComponent](s.entityManager, id)
	if !ok || seq.IsCompleted {
		return false
	}
	current, active := ecs.GetComponent[*components.CurrentStepComponent](s.entityManager, id)
	if !active {
		return false
	}
	progress, _ := ecs.GetComponent[*components.SequenceProgressComponent](s.entityManager, id)

	if current.Step.Movement != nil {
		s.tweens.Stop(s.actorOf(id, seq))
	}
	s.completeStep(id, seq, progress, current, completeReasonAbort)
	return true
}

// SkipSequence 中止当前步骤并立即结束整个序列
// 进度索引直接跳到步骤总数。序列已完成或不存在时返回 false
func (s *SequencePlayerSystem) SkipSequence(id ecs.EntityID) bool {
	seq, ok := ecs.GetComponent[*components.SequenceComponent](s.entityManager, id)
	if !ok || seq.IsCompleted {
		return false
	}

	log.Printf("[SequencePlayerSystem] Skipping sequence %q", seq.Config.ID)
	s.AbortStep(id)
	if progress, ok := ecs.GetComponent[*components.SequenceProgressComponent](s.entityManager, id); ok {
		progress.Index = len(seq.Config.Steps)
	}
	s.completeSequence(id, seq)
	return true
}

// IsCompleted 序列是否已完成（不存在的序列视为已完成）
func (s *SequencePlayerSystem) IsCompleted(id ecs.EntityID) bool {
	seq, ok := ecs.GetComponent[*components.SequenceComponent](s.entityManager, id)
	if !ok {
		return true
	}
	return seq.IsCompleted
}

// CurrentIndex 返回序列当前进度索引，序列不存在时返回 -1
func (s *SequencePlayerSystem) CurrentIndex(id ecs.EntityID) int {
	progress, ok := ecs.GetComponent[*components.SequenceProgressComponent](s.entityManager, id)
	if !ok {
		return -1
	}
	return progress.Index
}

// actorOf 步骤移动作用的实体
func (s *SequencePlayerSystem) actorOf(id ecs.EntityID, seq *components.SequenceComponent) ecs.EntityID {
	if seq.Actor != 0 {
		return seq.Actor
	}
	return id
}
