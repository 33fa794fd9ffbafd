package systems

import (
	"fmt"

	"github.com/gonewx/arcade/pkg/game"
)

// Stage 管线阶段，按数值递增顺序执行
type Stage int

const (
	// StageRetarget 清除被重新设置目标的实体上的陈旧到达标记
	StageRetarget Stage = iota + 1
	// StageTween 积分 → 逐轴到达检测 → 传播到组合/父实体（链式，同帧可见）
	StageTween
	// StageAggregate 子补间位移汇总到父实体
	StageAggregate
	// StageCleanup 独占的到达清理（整个管线唯一移除补间状态的阶段）
	StageCleanup
	// StageSequence 序列播放器状态检查
	StageSequence
	// StageSpawn 定时生成
	StageSpawn
	// StagePresentation 仓库内的展示协作者（黑边等），读取本帧事件
	StagePresentation

	stageCount
)

// String 返回阶段名称
func (s Stage) String() string {
	switch s {
	case StageRetarget:
		return "Retarget"
	case StageTween:
		return "Tween"
	case StageAggregate:
		return "Aggregate"
	case StageCleanup:
		return "Cleanup"
	case StageSequence:
		return "Sequence"
	case StageSpawn:
		return "Spawn"
	case StagePresentation:
		return "Presentation"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Updater 可被管线调度的系统
type Updater interface {
	Update(dt float64)
}

// Pipeline 单线程固定顺序的帧管线
//
// 每帧先由时钟阶段推进域时钟并清空上一帧事件，然后按阶段顺序运行已注册系统；
// 同一阶段内按注册顺序运行。执行顺序由管线保证，而不是依赖调用方约定。
type Pipeline struct {
	clock  *game.Clock
	events *game.EventQueue
	stages [stageCount][]Updater
}

// NewPipeline 创建帧管线
func NewPipeline(clock *game.Clock, events *game.EventQueue) *Pipeline {
	return &Pipeline{
		clock:  clock,
		events: events,
	}
}

// Register 把系统注册到指定阶段
//
// 注册错误属于编程错误，直接 panic：
//   - 阶段不存在
//   - 清理阶段已经有一个系统（清理必须独占）
func (p *Pipeline) Register(stage Stage, system Updater) {
	if stage < StageRetarget || stage >= stageCount {
		panic(fmt.Sprintf("pipeline: invalid stage %d", int(stage)))
	}
	if system == nil {
		panic(fmt.Sprintf("pipeline: nil system for stage %s", stage))
	}
	if stage == StageCleanup && len(p.stages[stage]) > 0 {
		panic("pipeline: cleanup stage accepts exactly one system")
	}
	p.stages[stage] = append(p.stages[stage], system)
}

// Tick 运行一帧
func (p *Pipeline) Tick(dt float64) {
	// 时钟阶段：必须先于所有系统
	p.clock.Tick(dt)
	p.events.Clear()

	delta := p.clock.Delta()
	for stage := StageRetarget; stage < stageCount; stage++ {
		for _, system := range p.stages[stage] {
			system.Update(delta)
		}
	}
}
