package systems

import (
	"log"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	// DefaultLetterboxHeight 黑边完全展开的高度（像素）
	DefaultLetterboxHeight = 60.0
	// DefaultLetterboxDuration 黑边展开/收起耗时（秒）
	DefaultLetterboxDuration = 0.4
)

// LetterboxSystem 过场黑边系统
// 展示层协作者：读取本帧的 letterbox_open / letterbox_close 副作用事件，
// 用缓动补间改变黑边高度
type LetterboxSystem struct {
	entityManager   *ecs.EntityManager
	events          *game.EventQueue
	letterboxEntity ecs.EntityID
}

// NewLetterboxSystem 创建黑边系统并创建黑边实体
func NewLetterboxSystem(em *ecs.EntityManager, events *game.EventQueue, maxHeight float64, duration float32) *LetterboxSystem {
	ls := &LetterboxSystem{
		entityManager: em,
		events:        events,
	}

	ls.letterboxEntity = em.CreateEntity()
	ecs.AddComponent(em, ls.letterboxEntity, &components.LetterboxComponent{
		Height:    0,
		MaxHeight: maxHeight,
		Duration:  duration,
		IsOpen:    false,
	})

	return ls
}

// Update 处理副作用事件并推进缓动
func (ls *LetterboxSystem) Update(dt float64) {
	box, ok := ecs.GetComponent[*components.LetterboxComponent](ls.entityManager, ls.letterboxEntity)
	if !ok {
		return
	}

	for _, e := range ls.events.Events() {
		if e.Type != game.EventEffectRequested || e.Effect == nil {
			continue
		}
		switch e.Effect.Kind {
		case config.EffectLetterboxOpen:
			ls.animate(box, true)
		case config.EffectLetterboxClose:
			ls.animate(box, false)
		}
	}

	if box.Tween == nil {
		return
	}
	height, done := box.Tween.Update(float32(dt))
	box.Height = float64(height)
	if done {
		box.Tween = nil
	}
}

// animate 从当前高度开始缓动到展开或收起
func (ls *LetterboxSystem) animate(box *components.LetterboxComponent, open bool) {
	if box.IsOpen == open && box.Tween == nil {
		return
	}
	box.IsOpen = open

	target := 0.0
	fn := ease.InCubic
	if open {
		target = box.MaxHeight
		fn = ease.OutCubic
	}
	box.Tween = gween.New(float32(box.Height), float32(target), box.Duration, fn)

	log.Printf("[LetterboxSystem] Letterbox open=%v (%.0f → %.0f)", open, box.Height, target)
}

// Letterbox 返回黑边组件（渲染层读取）
func (ls *LetterboxSystem) Letterbox() *components.LetterboxComponent {
	box, _ := ecs.GetComponent[*components.LetterboxComponent](ls.entityManager, ls.letterboxEntity)
	return box
}
