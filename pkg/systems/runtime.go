package systems

import (
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/gonewx/arcade/pkg/tween"
	"github.com/gonewx/arcade/pkg/utils"
)

// RuntimeOptions 运行时可选协作者
type RuntimeOptions struct {
	// Input 动作输入源，nil 表示不响应输入
	Input utils.ActionInput

	// Store 已完成序列存储，nil 表示不记录
	Store *game.SequenceProgressStore

	// Spawner 生成实体的工厂；为 nil 时使用 NewSpawner 基于补间系统创建
	Spawner Spawner

	// NewSpawner 在补间系统创建后构造生成工厂（工厂需要移动接口时使用）
	NewSpawner func(em *ecs.EntityManager, tweens *TweenSystem) Spawner

	// LetterboxHeight 黑边完全展开高度，0 使用默认值
	LetterboxHeight float64

	// Verbose 输出逐帧详细日志
	Verbose bool
}

// SequenceRuntime 组装好的序列运行时
// 持有实体管理器、时钟、事件队列、子贡献集合，以及按固定阶段注册好的全部系统
type SequenceRuntime struct {
	EntityManager *ecs.EntityManager
	Clock         *game.Clock
	Events        *game.EventQueue
	Arena         *tween.Arena
	Pipeline      *Pipeline

	Tweens    *TweenSystem
	Player    *SequencePlayerSystem
	Scheduler *SpawnSchedulerSystem
	Letterbox *LetterboxSystem

	input utils.ActionInput
}

// tickAware 需要知道当前帧号的输入源（脚本输入）
type tickAware interface {
	SetTick(tick uint64)
}

// NewSequenceRuntime 创建并注册全部系统
//
// 阶段顺序：
//
//	Retarget → Tween(积分/检测/传播) → Aggregate → Cleanup → Sequence → Spawn → Presentation
func NewSequenceRuntime(opts RuntimeOptions) *SequenceRuntime {
	em := ecs.NewEntityManager()
	clock := game.NewClock()
	events := game.NewEventQueue()
	arena := tween.NewArena()

	tweens := NewTweenSystem(em, arena, events)
	tweens.SetVerbose(opts.Verbose)

	cleanup := NewTweenCleanupSystem(em, arena)
	cleanup.SetVerbose(opts.Verbose)

	spawner := opts.Spawner
	if spawner == nil && opts.NewSpawner != nil {
		spawner = opts.NewSpawner(em, tweens)
	}
	scheduler := NewSpawnSchedulerSystem(em, events, spawner)
	scheduler.SetVerbose(opts.Verbose)

	player := NewSequencePlayerSystem(em, clock, events, tweens, opts.Input, opts.Store)

	height := opts.LetterboxHeight
	if height <= 0 {
		height = DefaultLetterboxHeight
	}
	letterbox := NewLetterboxSystem(em, events, height, DefaultLetterboxDuration)

	pipeline := NewPipeline(clock, events)
	pipeline.Register(StageRetarget, NewTweenRetargetSystem(em))
	pipeline.Register(StageTween, tweens)
	pipeline.Register(StageAggregate, NewChildTweenAggregationSystem(em, arena))
	pipeline.Register(StageCleanup, cleanup)
	pipeline.Register(StageSequence, player)
	pipeline.Register(StageSpawn, scheduler)
	pipeline.Register(StagePresentation, letterbox)

	return &SequenceRuntime{
		EntityManager: em,
		Clock:         clock,
		Events:        events,
		Arena:         arena,
		Pipeline:      pipeline,
		Tweens:        tweens,
		Player:        player,
		Scheduler:     scheduler,
		Letterbox:     letterbox,
		input:         opts.Input,
	}
}

// Tick 运行一帧
func (r *SequenceRuntime) Tick(dt float64) {
	if in, ok := r.input.(tickAware); ok {
		in.SetTick(r.Clock.Ticks() + 1)
	}
	r.Pipeline.Tick(dt)
}
