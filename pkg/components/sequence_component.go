package components

import (
	"time"

	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
)

// SequenceComponent 正在播放的序列（过场动画或关卡步骤表）
type SequenceComponent struct {
	// Config 序列配置（只读）
	Config *config.SequenceConfig

	// Actor 步骤移动作用的实体（如镜头），0 表示序列实体自身
	Actor ecs.EntityID

	// Skippable 是否响应跳过输入
	Skippable bool

	// IsCompleted 序列是否已完成（已发出完成事件）
	IsCompleted bool
}

// SequenceProgressComponent 序列进度
// 加载序列时重置为 0，每完成一步加 1，跳过序列时直接置为步骤总数，从不回退
type SequenceProgressComponent struct {
	Index int
}

// CurrentStepComponent 当前激活的步骤
// 实体没有此组件时处于 NoActiveStep 状态
type CurrentStepComponent struct {
	Index int
	Step  *config.StepConfig

	// AwaitMovement 是否把移动到达作为完成条件（仅在未声明 elapse 时）
	AwaitMovement bool

	// AwaitElapse 是否把经过时间作为完成条件
	AwaitElapse bool
}

// StepTimerComponent 步骤计时
// 完成判定：当前域时钟 - StartedAt 到达 Elapse（见 types.DeadlineReached）
type StepTimerComponent struct {
	StartedAt time.Duration
	Elapse    time.Duration
}

// AwaitInputComponent 标签：步骤等待继续输入
type AwaitInputComponent struct{}
