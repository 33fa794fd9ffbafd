package systems

import (
	"fmt"
	"testing"
	"time"

	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/gonewx/arcade/pkg/types"
	"github.com/gonewx/arcade/pkg/utils"
)

// tickLog 某一帧的事件快照
type tickLog struct {
	tick    int
	elapsed time.Duration
	events  []game.Event
}

// runTicks 运行 n 帧并收集每帧事件
func runTicks(rt *SequenceRuntime, n int, dt float64) []tickLog {
	logs := make([]tickLog, 0, n)
	for i := 1; i <= n; i++ {
		rt.Tick(dt)
		snapshot := append([]game.Event(nil), rt.Events.Events()...)
		logs = append(logs, tickLog{tick: i, elapsed: rt.Clock.Elapsed(), events: snapshot})
	}
	return logs
}

// firstTick 第一个包含指定事件的帧，没有则返回 nil
func firstTick(logs []tickLog, typ game.EventType, stepIndex int) *tickLog {
	for i := range logs {
		for _, e := range logs[i].events {
			if e.Type == typ && e.StepIndex == stepIndex {
				return &logs[i]
			}
		}
	}
	return nil
}

func countEvents(logs []tickLog, typ game.EventType) int {
	n := 0
	for _, l := range logs {
		for _, e := range l.events {
			if e.Type == typ {
				n++
			}
		}
	}
	return n
}

func elapseSteps(durations ...float64) []config.StepConfig {
	steps := make([]config.StepConfig, 0, len(durations))
	for _, d := range durations {
		steps = append(steps, config.StepConfig{Elapse: d})
	}
	return steps
}

// TestSequencePlayer_ThreeSteps 三个步骤依次推进，序列完成事件只发一次
func TestSequencePlayer_ThreeSteps(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	cfg := &config.SequenceConfig{ID: "three", Steps: elapseSteps(0.5, 0.5, 0.5)}

	seq, err := rt.Player.Play(cfg, 0)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if rt.Player.CurrentIndex(seq) != 0 {
		t.Fatalf("Expected index 0 before first tick, got %d", rt.Player.CurrentIndex(seq))
	}

	seen := []int{rt.Player.CurrentIndex(seq)}
	var logs []tickLog
	for i := 0; i < 20; i++ {
		logs = append(logs, runTicks(rt, 1, 0.25)...)
		idx := rt.Player.CurrentIndex(seq)
		if idx != seen[len(seen)-1] {
			seen = append(seen, idx)
		}
	}

	expected := []int{0, 1, 2, 3}
	if len(seen) != len(expected) {
		t.Fatalf("Expected index progression %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("Expected index progression %v, got %v", expected, seen)
			break
		}
	}

	if n := countEvents(logs, game.EventStepApplied); n != 3 {
		t.Errorf("Expected 3 StepApplied, got %d", n)
	}
	if n := countEvents(logs, game.EventStepCompleted); n != 3 {
		t.Errorf("Expected 3 StepCompleted, got %d", n)
	}
	if n := countEvents(logs, game.EventSequenceCompleted); n != 1 {
		t.Errorf("Expected exactly one SequenceCompleted, got %d", n)
	}
	if !rt.Player.IsCompleted(seq) {
		t.Error("Sequence should be completed")
	}

	// 每步持续 0.5 秒
	for step := 0; step < 3; step++ {
		applied := firstTick(logs, game.EventStepApplied, step)
		completed := firstTick(logs, game.EventStepCompleted, step)
		if applied == nil || completed == nil {
			t.Fatalf("Step %d missing applied/completed events", step)
		}
		if d := completed.elapsed - applied.elapsed; d != 500*time.Millisecond {
			t.Errorf("Step %d lasted %v, expected 500ms", step, d)
		}
	}
}

// TestSequencePlayer_ElapseGovernsMovement 声明了 elapse 的步骤在 elapse 到期时完成，即使移动更早到达
func TestSequencePlayer_ElapseGovernsMovement(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	actor := newActor(rt, 0, 0)

	cfg := &config.SequenceConfig{
		ID: "pan",
		Steps: []config.StepConfig{
			{Elapse: 2, Movement: &config.MovementConfig{X: ptr(10), Speed: 10}},
		},
	}
	if _, err := rt.Player.Play(cfg, actor); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	logs := runTicks(rt, 16, 0.25)

	applied := firstTick(logs, game.EventStepApplied, 0)
	completed := firstTick(logs, game.EventStepCompleted, 0)
	if applied == nil || completed == nil {
		t.Fatal("Step was not applied and completed")
	}
	if d := completed.elapsed - applied.elapsed; d != 2*time.Second {
		t.Errorf("Expected completion 2s after the step started, got %v", d)
	}

	var reachedAt time.Duration = -1
	for _, l := range logs {
		for _, e := range l.events {
			if e.Type == game.EventMovementReached && e.Entity == actor && e.Axis == types.AxisX {
				reachedAt = l.elapsed
			}
		}
	}
	if reachedAt < 0 || reachedAt-applied.elapsed != time.Second {
		t.Errorf("Expected movement to reach 1s after the step started, got %v", reachedAt-applied.elapsed)
	}
	if got := positionOf(t, rt.EntityManager, actor).X; got != 10 {
		t.Errorf("Expected actor at X=10, got %f", got)
	}
}

// TestSequencePlayer_MovementOnlyStep 只有移动的步骤在两个轴都到达的同一帧完成
func TestSequencePlayer_MovementOnlyStep(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	actor := newActor(rt, 0, 0)

	cfg := &config.SequenceConfig{
		ID: "walk",
		Steps: []config.StepConfig{
			{Movement: &config.MovementConfig{X: ptr(10), Speed: 10}},
			{Elapse: 1},
		},
	}
	seq, _ := rt.Player.Play(cfg, actor)

	logs := runTicks(rt, 8, 0.25)

	completed := firstTick(logs, game.EventStepCompleted, 0)
	if completed == nil {
		t.Fatal("Movement step never completed")
	}
	reachedSameTick := false
	for _, e := range completed.events {
		if e.Type == game.EventMovementReached && e.Entity == actor && e.Axis == types.AxisX {
			reachedSameTick = true
		}
	}
	if !reachedSameTick {
		t.Error("Step should complete on the tick the movement reaches")
	}
	if rt.Player.CurrentIndex(seq) != 1 {
		t.Errorf("Expected index 1, got %d", rt.Player.CurrentIndex(seq))
	}
}

// TestSequencePlayer_EmptyStepCompletesNextTick 没有任何条件的步骤下一帧完成
func TestSequencePlayer_EmptyStepCompletesNextTick(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	cfg := &config.SequenceConfig{ID: "empty", Steps: []config.StepConfig{{}}}
	seq, _ := rt.Player.Play(cfg, 0)

	logs := runTicks(rt, 3, 0.25)

	if firstTick(logs, game.EventStepApplied, 0).tick != 1 {
		t.Error("Expected step applied on tick 1")
	}
	if firstTick(logs, game.EventStepCompleted, 0).tick != 2 {
		t.Error("Expected step completed on tick 2")
	}
	if firstTick(logs, game.EventSequenceCompleted, 1).tick != 3 {
		t.Error("Expected sequence completed on tick 3")
	}
	if !rt.Player.IsCompleted(seq) {
		t.Error("Sequence should be completed")
	}
}

// TestSequencePlayer_AwaitInput 等待继续输入
func TestSequencePlayer_AwaitInput(t *testing.T) {
	input := utils.NewScriptedActionInput()
	input.PressAt(5, utils.ActionContinue)

	rt := newTestRuntime(RuntimeOptions{Input: input})
	cfg := &config.SequenceConfig{
		ID:    "talk",
		Steps: []config.StepConfig{{AwaitInput: true}},
	}
	seq, _ := rt.Player.Play(cfg, 0)

	logs := runTicks(rt, 4, 0.25)
	if countEvents(logs, game.EventStepCompleted) != 0 {
		t.Fatal("Step completed without input")
	}

	logs = runTicks(rt, 1, 0.25)
	if countEvents(logs, game.EventStepCompleted) != 1 {
		t.Error("Expected step to complete on the input tick")
	}
	if rt.Player.CurrentIndex(seq) != 1 {
		t.Errorf("Expected index 1, got %d", rt.Player.CurrentIndex(seq))
	}
}

// TestSequencePlayer_SpawnsThroughStep 步骤内生成按相对延迟触发，并带序列与步骤信息
func TestSequencePlayer_SpawnsThroughStep(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	cfg := &config.SequenceConfig{
		ID: "wave",
		Steps: []config.StepConfig{
			{
				Elapse: 5,
				Spawns: []config.SpawnConfig{
					{Elapsed: 1.0, Type: "a"},
					{Elapsed: 0.5, Type: "b"},
				},
			},
		},
	}
	_, _ = rt.Player.Play(cfg, 0)

	logs := runTicks(rt, 12, 0.25)

	applied := firstTick(logs, game.EventStepApplied, 0)
	offsets := map[string]time.Duration{}
	for _, l := range logs {
		for _, e := range l.events {
			if e.Type == game.EventSpawnRequested {
				if e.SequenceID != "wave" || e.StepIndex != 0 {
					t.Errorf("Unexpected spawn event context: %s", e)
				}
				offsets[e.Spawn.Type] = l.elapsed - applied.elapsed
			}
		}
	}
	if offsets["a"] != time.Second || offsets["b"] != 1500*time.Millisecond {
		t.Errorf("Unexpected spawn offsets: %v", offsets)
	}
}

// TestSequencePlayer_EffectsEmitted 步骤应用时发出副作用事件
func TestSequencePlayer_EffectsEmitted(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	cfg := &config.SequenceConfig{
		ID: "fx",
		Steps: []config.StepConfig{
			{Elapse: 1, Effects: []config.EffectConfig{{Kind: config.EffectMusicStart, Value: "boss"}}},
		},
	}
	_, _ = rt.Player.Play(cfg, 0)

	logs := runTicks(rt, 1, 0.25)
	found := false
	for _, e := range logs[0].events {
		if e.Type == game.EventEffectRequested && e.Effect.Kind == config.EffectMusicStart && e.Effect.Value == "boss" {
			found = true
		}
	}
	if !found {
		t.Error("Expected music_start effect on the apply tick")
	}
}

// TestSequencePlayer_AbortStep 外部中止当前步骤
func TestSequencePlayer_AbortStep(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	actor := newActor(rt, 0, 0)
	cfg := &config.SequenceConfig{
		ID: "long",
		Steps: []config.StepConfig{
			{Elapse: 10, Movement: &config.MovementConfig{X: ptr(100), Speed: 1}},
			{Elapse: 10},
		},
	}
	seq, _ := rt.Player.Play(cfg, actor)

	if rt.Player.AbortStep(seq) {
		t.Error("AbortStep should fail before the first step is applied")
	}

	runTicks(rt, 3, 0.25)
	if !rt.Player.AbortStep(seq) {
		t.Fatal("AbortStep failed on an active step")
	}
	if rt.Player.CurrentIndex(seq) != 1 {
		t.Errorf("Expected index 1 after abort, got %d", rt.Player.CurrentIndex(seq))
	}
	if rt.Tweens.IsMoving(actor) {
		t.Error("Aborted step must stop its movement")
	}

	x := positionOf(t, rt.EntityManager, actor).X
	runTicks(rt, 2, 0.25)
	if positionOf(t, rt.EntityManager, actor).X != x {
		t.Error("Actor moved after abort")
	}
}

// TestSequencePlayer_SkipSequence 跳过整个序列
func TestSequencePlayer_SkipSequence(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	cfg := &config.SequenceConfig{ID: "skip", Steps: elapseSteps(10, 10, 10)}
	seq, _ := rt.Player.Play(cfg, 0)

	runTicks(rt, 2, 0.25)
	if !rt.Player.SkipSequence(seq) {
		t.Fatal("SkipSequence failed")
	}
	if !rt.Player.IsCompleted(seq) {
		t.Error("Sequence should be completed after skip")
	}
	if rt.Events.Count(game.EventSequenceCompleted) != 1 {
		t.Error("Expected SequenceCompleted on skip")
	}
	if got := rt.Player.CurrentIndex(seq); got != 3 {
		t.Errorf("Expected index 3 (all steps) after skip, got %d", got)
	}
	if rt.Player.SkipSequence(seq) {
		t.Error("Skipping a completed sequence should fail")
	}

	logs := runTicks(rt, 4, 0.25)
	if countEvents(logs, game.EventSequenceCompleted) != 0 || countEvents(logs, game.EventStepApplied) != 0 {
		t.Error("No further sequence events expected after skip")
	}
}

// TestSequencePlayer_SkipInput 可跳过的序列响应跳过键；看过的序列总是可跳过
func TestSequencePlayer_SkipInput(t *testing.T) {
	tests := []struct {
		name      string
		skippable bool
		seen      bool
		wantIndex int
	}{
		{name: "not skippable", wantIndex: 0},
		{name: "skippable", skippable: true, wantIndex: 1},
		{name: "seen before", seen: true, wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := utils.NewScriptedActionInput()
			input.PressAt(3, utils.ActionSkip)

			store := game.NewSequenceProgressStore(nil)
			if tt.seen {
				_ = store.MarkCompleted("intro")
			}

			rt := newTestRuntime(RuntimeOptions{Input: input, Store: store})
			cfg := &config.SequenceConfig{ID: "intro", Skippable: tt.skippable, Steps: elapseSteps(10, 10)}
			seq, _ := rt.Player.Play(cfg, 0)

			runTicks(rt, 4, 0.25)
			if got := rt.Player.CurrentIndex(seq); got != tt.wantIndex {
				t.Errorf("Expected index %d, got %d", tt.wantIndex, got)
			}
		})
	}
}

// TestSequencePlayer_RecordsCompletion 完成的序列写入存储
func TestSequencePlayer_RecordsCompletion(t *testing.T) {
	store := game.NewSequenceProgressStore(nil)
	rt := newTestRuntime(RuntimeOptions{Store: store})
	cfg := &config.SequenceConfig{ID: "short", Steps: elapseSteps(0.25)}
	_, _ = rt.Player.Play(cfg, 0)

	runTicks(rt, 4, 0.25)
	if !store.HasCompleted("short") {
		t.Error("Completed sequence should be recorded")
	}
}

// TestSequencePlayer_PlayErrors 参数错误
func TestSequencePlayer_PlayErrors(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	if _, err := rt.Player.Play(nil, 0); err == nil {
		t.Error("Expected error for nil config")
	}
	if _, err := rt.Player.Play(&config.SequenceConfig{ID: "x"}, ecs.EntityID(999)); err == nil {
		t.Error("Expected error for missing actor")
	}
	if rt.Player.CurrentIndex(ecs.EntityID(999)) != -1 {
		t.Error("Expected -1 for unknown sequence")
	}
}

// TestSequencePlayer_ElapseTickCounts 常见帧率下步骤持续的帧数精确，不会晚一帧
func TestSequencePlayer_ElapseTickCounts(t *testing.T) {
	tests := []struct {
		dt        float64
		elapse    float64
		wantTicks int
	}{
		{dt: 0.25, elapse: 2.0, wantTicks: 8},
		{dt: 0.1, elapse: 2.0, wantTicks: 20},
		{dt: 1.0 / 60.0, elapse: 2.0, wantTicks: 120},
		{dt: 1.0 / 60.0, elapse: 0.5, wantTicks: 30},
		{dt: 1.0 / 144.0, elapse: 2.0, wantTicks: 288},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("dt=%.4f elapse=%.1f", tt.dt, tt.elapse), func(t *testing.T) {
			rt := newTestRuntime(RuntimeOptions{})
			cfg := &config.SequenceConfig{ID: "timed", Steps: elapseSteps(tt.elapse, tt.elapse)}
			_, _ = rt.Player.Play(cfg, 0)

			logs := runTicks(rt, 3*tt.wantTicks, tt.dt)
			for step := 0; step < 2; step++ {
				applied := firstTick(logs, game.EventStepApplied, step)
				completed := firstTick(logs, game.EventStepCompleted, step)
				if applied == nil || completed == nil {
					t.Fatalf("Step %d missing applied/completed events", step)
				}
				if got := completed.tick - applied.tick; got != tt.wantTicks {
					t.Errorf("Step %d lasted %d ticks, expected %d", step, got, tt.wantTicks)
				}
			}
		})
	}
}

// TestSequencePlayer_SpawnTickCounts 生成延迟 [1.0, 0.5, 2.0] 在各帧率下按精确帧数触发
func TestSequencePlayer_SpawnTickCounts(t *testing.T) {
	tests := []struct {
		dt   float64
		want map[string]int
	}{
		{dt: 0.25, want: map[string]int{"a": 4, "b": 6, "c": 14}},
		{dt: 0.1, want: map[string]int{"a": 10, "b": 15, "c": 35}},
		{dt: 1.0 / 60.0, want: map[string]int{"a": 60, "b": 90, "c": 210}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("dt=%.4f", tt.dt), func(t *testing.T) {
			rt := newTestRuntime(RuntimeOptions{})
			cfg := &config.SequenceConfig{
				ID: "wave",
				Steps: []config.StepConfig{
					{
						Elapse: 10,
						Spawns: []config.SpawnConfig{
							{Elapsed: 1.0, Type: "a"},
							{Elapsed: 0.5, Type: "b"},
							{Elapsed: 2.0, Type: "c"},
						},
					},
				},
			}
			_, _ = rt.Player.Play(cfg, 0)

			logs := runTicks(rt, tt.want["c"]+10, tt.dt)
			applied := firstTick(logs, game.EventStepApplied, 0)
			if applied == nil {
				t.Fatal("Step was not applied")
			}

			got := map[string]int{}
			for _, l := range logs {
				for _, e := range l.events {
					if e.Type == game.EventSpawnRequested {
						got[e.Spawn.Type] = l.tick - applied.tick
					}
				}
			}
			for typ, want := range tt.want {
				if got[typ] != want {
					t.Errorf("Spawn %s: expected %d ticks after the step started, got %d", typ, want, got[typ])
				}
			}
		})
	}
}

// TestSequencePlayer_BlockedMovementFallsBackToElapse 移动无法开始时步骤不会卡住
func TestSequencePlayer_BlockedMovementFallsBackToElapse(t *testing.T) {
	rt := newTestRuntime(RuntimeOptions{})
	actor := newActor(rt, 0, 0)

	// X 轴已被子贡献占用，步骤移动会失败
	if _, err := rt.Tweens.AddContribution(actor, types.AxisX, 100, 1, 0); err != nil {
		t.Fatalf("AddContribution failed: %v", err)
	}

	cfg := &config.SequenceConfig{
		ID: "blocked",
		Steps: []config.StepConfig{
			{Movement: &config.MovementConfig{X: ptr(10), Speed: 10}},
			{Elapse: 10},
		},
	}
	seq, _ := rt.Player.Play(cfg, actor)

	logs := runTicks(rt, 3, 0.25)
	applied := firstTick(logs, game.EventStepApplied, 0)
	completed := firstTick(logs, game.EventStepCompleted, 0)
	if applied == nil || completed == nil {
		t.Fatal("Blocked movement step should still complete")
	}
	if completed.tick != applied.tick+1 {
		t.Errorf("Expected completion on the tick after apply, got apply=%d complete=%d", applied.tick, completed.tick)
	}
	if rt.Player.CurrentIndex(seq) != 1 {
		t.Errorf("Expected index 1, got %d", rt.Player.CurrentIndex(seq))
	}
}
