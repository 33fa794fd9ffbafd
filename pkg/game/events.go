package game

import (
	"fmt"

	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/types"
)

// EventType 事件类型
type EventType int

const (
	// EventStepApplied 步骤已应用
	EventStepApplied EventType = iota
	// EventStepCompleted 步骤已完成
	EventStepCompleted
	// EventSequenceCompleted 序列已完成
	EventSequenceCompleted
	// EventSpawnRequested 请求生成（Spawn 字段为描述）
	EventSpawnRequested
	// EventMovementReached 某实体某轴的移动到达目标
	EventMovementReached
	// EventEffectRequested 请求执行副作用（Effect 字段为描述）
	EventEffectRequested
)

// String 返回事件类型的字符串表示
func (t EventType) String() string {
	switch t {
	case EventStepApplied:
		return "StepApplied"
	case EventStepCompleted:
		return "StepCompleted"
	case EventSequenceCompleted:
		return "SequenceCompleted"
	case EventSpawnRequested:
		return "SpawnRequested"
	case EventMovementReached:
		return "MovementReached"
	case EventEffectRequested:
		return "EffectRequested"
	default:
		return "Unknown"
	}
}

// Event 补间/序列核心发出的事件
// 核心只发出事件，不直接调用渲染、音频、生成等外部协作者
type Event struct {
	Type EventType

	// Entity 相关实体：序列实体、到达的实体或新生成的实体
	Entity ecs.EntityID

	// Axis 仅 EventMovementReached 使用
	Axis types.Axis

	// SequenceID、StepIndex 序列事件使用
	SequenceID string
	StepIndex  int

	// Spawn 仅 EventSpawnRequested 使用
	Spawn *config.SpawnConfig

	// Effect 仅 EventEffectRequested 使用
	Effect *config.EffectConfig
}

// String 用于日志
func (e Event) String() string {
	switch e.Type {
	case EventMovementReached:
		return fmt.Sprintf("%s(entity=%d, axis=%s)", e.Type, e.Entity, e.Axis)
	case EventSpawnRequested:
		if e.Spawn != nil {
			return fmt.Sprintf("%s(type=%s, entity=%d)", e.Type, e.Spawn.Type, e.Entity)
		}
	case EventEffectRequested:
		if e.Effect != nil {
			return fmt.Sprintf("%s(%s %s)", e.Type, e.Effect.Kind, e.Effect.Value)
		}
	}
	return fmt.Sprintf("%s(sequence=%s, step=%d)", e.Type, e.SequenceID, e.StepIndex)
}

// EventQueue 单帧事件队列
//
// 生产者系统在本帧追加事件；宿主与展示层在本帧结束后通过 Events() 读取；
// 下一帧开始时由时钟阶段清空。单线程使用，无需加锁。
type EventQueue struct {
	events []Event
}

// NewEventQueue 创建事件队列
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]Event, 0, 16)}
}

// Push 追加事件
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Events 返回本帧事件（按发出顺序），调用方不得修改
func (q *EventQueue) Events() []Event {
	return q.events
}

// Count 统计本帧某类型事件数量
func (q *EventQueue) Count(t EventType) int {
	n := 0
	for _, e := range q.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Clear 清空队列（每帧开始时调用）
func (q *EventQueue) Clear() {
	q.events = q.events[:0]
}
