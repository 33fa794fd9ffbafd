package systems

import (
	"fmt"
	"testing"
	"time"

	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/game"
)

// fakeSpawner 记录生成请求，拒绝 "unknown" 类型
type fakeSpawner struct {
	em      *ecs.EntityManager
	spawned []string
}

func (f *fakeSpawner) Spawn(desc *config.SpawnConfig) (ecs.EntityID, bool) {
	if desc.Type == "unknown" {
		return 0, false
	}
	f.spawned = append(f.spawned, desc.Type)
	return f.em.CreateEntity(), true
}

func newSpawnerOwner(em *ecs.EntityManager, spawns ...config.SpawnConfig) *components.SpawnerComponent {
	owner := em.CreateEntity()
	spawner := components.NewSpawnerComponent(spawns)
	ecs.AddComponent(em, owner, spawner)
	return spawner
}

func spawnTypes(events *game.EventQueue) []string {
	var types []string
	for _, e := range events.Events() {
		if e.Type == game.EventSpawnRequested {
			types = append(types, e.Spawn.Type)
		}
	}
	return types
}

// TestSpawnScheduler_RelativeDeadlines 延迟相对上一个生成：[1.0, 0.5, 2.0] 在 1.0、1.5、3.5 秒触发，
// 与帧长无关
func TestSpawnScheduler_RelativeDeadlines(t *testing.T) {
	tests := []struct {
		dt   float64
		want map[string]int
	}{
		{dt: 0.25, want: map[string]int{"a": 4, "b": 6, "c": 14}},
		{dt: 0.5, want: map[string]int{"a": 2, "b": 3, "c": 7}},
		{dt: 0.1, want: map[string]int{"a": 10, "b": 15, "c": 35}},
		{dt: 1.0 / 60.0, want: map[string]int{"a": 60, "b": 90, "c": 210}},
		{dt: 1.0 / 144.0, want: map[string]int{"a": 144, "b": 216, "c": 504}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("dt=%.4f", tt.dt), func(t *testing.T) {
			em := ecs.NewEntityManager()
			events := game.NewEventQueue()
			system := NewSpawnSchedulerSystem(em, events, nil)

			newSpawnerOwner(em,
				config.SpawnConfig{Elapsed: 1.0, Type: "a"},
				config.SpawnConfig{Elapsed: 0.5, Type: "b"},
				config.SpawnConfig{Elapsed: 2.0, Type: "c"},
			)

			// 步骤应用帧：只开始计时
			system.Update(tt.dt)
			if len(spawnTypes(events)) != 0 {
				t.Fatal("Nothing should fire on the arming tick")
			}

			fired := map[string]int{}
			for tick := 1; tick <= tt.want["c"]+10; tick++ {
				events.Clear()
				system.Update(tt.dt)
				for _, typ := range spawnTypes(events) {
					fired[typ] = tick
				}
			}

			for typ, want := range tt.want {
				if got, ok := fired[typ]; !ok || got != want {
					t.Errorf("Spawn %s: expected on tick %d, got %d (fired=%v)", typ, want, got, ok)
				}
			}
		})
	}
}

// TestSpawnScheduler_HitchFiresAllInOrder 掉帧时一次触发多个，保持编写顺序
func TestSpawnScheduler_HitchFiresAllInOrder(t *testing.T) {
	em := ecs.NewEntityManager()
	events := game.NewEventQueue()
	system := NewSpawnSchedulerSystem(em, events, nil)

	spawner := newSpawnerOwner(em,
		config.SpawnConfig{Elapsed: 1.0, Type: "a"},
		config.SpawnConfig{Elapsed: 0.5, Type: "b"},
		config.SpawnConfig{Elapsed: 2.0, Type: "c"},
	)

	system.Update(0)
	system.Update(4.0)

	got := spawnTypes(events)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("Expected [a b c] in one tick, got %v", got)
	}
	if len(spawner.Pending) != 0 {
		t.Errorf("Expected no pending spawns, got %d", len(spawner.Pending))
	}
	if spawner.Elapsed != 500*time.Millisecond {
		t.Errorf("Expected leftover elapsed 500ms, got %v", spawner.Elapsed)
	}

	// 已生成的描述不会再次触发
	events.Clear()
	system.Update(10)
	if len(spawnTypes(events)) != 0 {
		t.Error("Spawns must never fire twice")
	}
}

// TestSpawnScheduler_ZeroOffsetOnArmingTick 零延迟描述在应用当帧触发
func TestSpawnScheduler_ZeroOffsetOnArmingTick(t *testing.T) {
	em := ecs.NewEntityManager()
	events := game.NewEventQueue()
	system := NewSpawnSchedulerSystem(em, events, nil)

	newSpawnerOwner(em,
		config.SpawnConfig{Elapsed: 0, Type: "a"},
		config.SpawnConfig{Elapsed: 0, Type: "b"},
		config.SpawnConfig{Elapsed: 0.5, Type: "c"},
	)

	system.Update(0.5)
	got := spawnTypes(events)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Expected [a b] on arming tick, got %v", got)
	}
}

// TestSpawnScheduler_SkipsUnrecognized 无法识别的描述被跳过，不影响后续生成
func TestSpawnScheduler_SkipsUnrecognized(t *testing.T) {
	em := ecs.NewEntityManager()
	events := game.NewEventQueue()
	spawner := &fakeSpawner{em: em}
	system := NewSpawnSchedulerSystem(em, events, spawner)

	newSpawnerOwner(em,
		config.SpawnConfig{Elapsed: 0.5, Type: "unknown"},
		config.SpawnConfig{Elapsed: 0.5, Type: "enemy"},
	)

	system.Update(0)
	system.Update(0.5)
	system.Update(0.5)

	if got := spawnTypes(events); len(got) != 1 || got[0] != "enemy" {
		t.Errorf("Expected only the enemy spawn event, got %v", got)
	}
	if len(spawner.spawned) != 1 {
		t.Errorf("Expected one spawned entity, got %v", spawner.spawned)
	}
	for _, e := range events.Events() {
		if e.Type == game.EventSpawnRequested && e.Entity == 0 {
			t.Error("Spawn event should carry the spawned entity")
		}
	}
}
