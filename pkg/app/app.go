// Package app 提供序列查看器的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端入口和
// cmd/verify_sequence 的窗口模式共用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/entities"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/gonewx/arcade/pkg/systems"
	"github.com/gonewx/arcade/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 800
	ScreenHeight = 600
)

// 主角初始位置
const (
	actorStartX = 100.0
	actorStartY = 300.0
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Sequence 要播放的序列ID，为空时播放目录中的第一个序列
	Sequence string
	// TimeScale 时间倍率，0 表示 1.0
	TimeScale float64
	// Persist 使用 gdata 记录已完成序列（看过的序列可跳过）
	Persist bool
}

// App 是序列查看器，实现 ebiten.Game 接口
type App struct {
	cfg     Config
	catalog *config.Catalog
	store   *game.SequenceProgressStore

	runtime  *systems.SequenceRuntime
	sequence ecs.EntityID
	actor    ecs.EntityID
	current  *config.SequenceConfig

	lastEvents []string
}

// NewApp 创建并初始化查看器
//
// 参数：
//   - cfg: 启动配置
//   - catalog: 已加载的序列与生成模板
func NewApp(cfg Config, catalog *config.Catalog) (*App, error) {
	if catalog == nil || len(catalog.Sequences) == 0 {
		return nil, fmt.Errorf("no sequences to play")
	}

	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if cfg.TimeScale <= 0 {
		cfg.TimeScale = 1.0
	}
	if cfg.Sequence == "" {
		cfg.Sequence = catalog.SequenceIDs()[0]
	}

	var gdataManager *gdata.Manager
	if cfg.Persist {
		m, err := gdata.Open(gdata.Config{AppName: "arcade_sequences"})
		if err != nil {
			// 存储不可用时降级为仅内存记录
			log.Printf("[App] Warning: gdata unavailable: %v", err)
		} else {
			gdataManager = m
		}
	}

	a := &App{
		cfg:     cfg,
		catalog: catalog,
		store:   game.NewSequenceProgressStore(gdataManager),
	}
	if err := a.start(cfg.Sequence); err != nil {
		return nil, err
	}
	return a, nil
}

// start 创建新的运行时并开始播放序列
func (a *App) start(id string) error {
	seq, err := a.catalog.Sequence(id)
	if err != nil {
		return err
	}

	templates := a.catalog.Templates
	rt := systems.NewSequenceRuntime(systems.RuntimeOptions{
		Input: utils.NewEbitenActionInput(utils.DefaultKeyBindings()),
		Store: a.store,
		NewSpawner: func(em *ecs.EntityManager, tweens *systems.TweenSystem) systems.Spawner {
			return entities.NewSpawnFactory(em, templates, tweens)
		},
		Verbose: a.cfg.Verbose,
	})

	actor := rt.EntityManager.CreateEntity()
	ecs.AddComponent(rt.EntityManager, actor, &components.PositionComponent{X: actorStartX, Y: actorStartY})

	entity, err := rt.Player.Play(seq, actor)
	if err != nil {
		return fmt.Errorf("failed to play %s: %w", id, err)
	}

	a.runtime = rt
	a.sequence = entity
	a.actor = actor
	a.current = seq
	a.lastEvents = nil
	log.Printf("[App] Playing sequence %q", id)
	return nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	// R 重新播放，N 切换到下一个序列
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.start(a.current.ID); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := a.start(a.nextSequenceID()); err != nil {
			return err
		}
	}

	// P 暂停/继续域时钟
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if a.runtime.Clock.IsPaused() {
			a.runtime.Clock.Resume()
		} else {
			a.runtime.Clock.Pause()
		}
	}

	deltaTime := 1.0 / 60.0 * a.cfg.TimeScale
	a.runtime.Tick(deltaTime)

	for _, e := range a.runtime.Events.Events() {
		a.lastEvents = append(a.lastEvents, fmt.Sprintf("%6.2f %s", a.runtime.Clock.Elapsed().Seconds(), e))
	}
	if n := len(a.lastEvents); n > 8 {
		a.lastEvents = a.lastEvents[n-8:]
	}
	return nil
}

// nextSequenceID 目录中的下一个序列（循环）
func (a *App) nextSequenceID() string {
	ids := a.catalog.SequenceIDs()
	for i, id := range ids {
		if id == a.current.ID {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 40, G: 44, B: 52, A: 255})
	em := a.runtime.EntityManager

	// 生成的实体：深度越大越暗
	for _, id := range ecs.GetEntitiesWith2[*components.SpawnedComponent, *components.PositionComponent](em) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		shade := uint8(220 - 30*clampDepth(pos.Z))
		clr := color.RGBA{R: shade, G: 90, B: 90, A: 255}
		if ecs.HasComponent[*components.EphemeralTweenComponent](em, id) {
			clr = color.RGBA{R: 250, G: 220, B: 80, A: 255}
		}
		vector.DrawFilledRect(screen, float32(pos.X-8), float32(pos.Y-8), 16, 16, clr, false)
	}

	if pos, ok := ecs.GetComponent[*components.PositionComponent](em, a.actor); ok {
		vector.DrawFilledRect(screen, float32(pos.X-12), float32(pos.Y-24), 24, 48, color.RGBA{R: 90, G: 200, B: 120, A: 255}, false)
	}

	if box := a.runtime.Letterbox.Letterbox(); box != nil && box.Height > 0 {
		h := float32(box.Height)
		vector.DrawFilledRect(screen, 0, 0, ScreenWidth, h, color.Black, false)
		vector.DrawFilledRect(screen, 0, ScreenHeight-h, ScreenWidth, h, color.Black, false)
	}

	status := "playing"
	if a.runtime.Player.IsCompleted(a.sequence) {
		status = "completed"
	} else if a.runtime.Clock.IsPaused() {
		status = "paused"
	} else if a.runtime.Tweens.IsMoving(a.actor) {
		status = "moving"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s [%s] step %d/%d  t=%.2f  %s",
		a.current.ID, a.current.Kind, a.runtime.Player.CurrentIndex(a.sequence), len(a.current.Steps),
		a.runtime.Clock.Elapsed().Seconds(), status), 10, 70)
	ebitenutil.DebugPrintAt(screen, "Space/Enter: continue  Esc: skip  P: pause  R: restart  N: next  F11: fullscreen", 10, 86)
	for i, line := range a.lastEvents {
		ebitenutil.DebugPrintAt(screen, line, 10, 420+i*16)
	}
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func clampDepth(z float64) float64 {
	if z < 0 {
		return 0
	}
	if z > 4 {
		return 4
	}
	return z
}
