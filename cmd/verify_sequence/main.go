// Package main provides a sequence verification tool for testing and debugging
// sequence timing without playing through the viewer.
//
// Usage:
//
//	go run cmd/verify_sequence/main.go [flags]
//
// Flags:
//
//	--root <dir>          Project root containing data/ (default: ".")
//	--sequence <id>       Sequence ID to run (default: first sequence)
//	--file <path>         Run a standalone sequence YAML instead of the catalog
//	--dt <seconds>        Fixed tick delta (default: 1/60)
//	--duration <seconds>  Stop after this much domain time (default: 30)
//	--press <list>        Scripted input, e.g. "120:continue,300:skip" (tick:action)
//	--window              Open the viewer window instead of printing a timeline
//	--verbose             Enable verbose logging
//
// Purpose:
//   - Print the event timeline of a sequence tick by tick
//   - Check step durations, spawn offsets and movement arrival
//   - Reproduce input timing with scripted presses
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gonewx/arcade/pkg/app"
	"github.com/gonewx/arcade/pkg/components"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/ecs"
	"github.com/gonewx/arcade/pkg/entities"
	"github.com/gonewx/arcade/pkg/game"
	"github.com/gonewx/arcade/pkg/systems"
	"github.com/gonewx/arcade/pkg/types"
	"github.com/gonewx/arcade/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	rootFlag     = flag.String("root", ".", "Project root containing data/")
	sequenceFlag = flag.String("sequence", "", "Sequence ID to run (default: first sequence)")
	fileFlag     = flag.String("file", "", "Standalone sequence YAML to run")
	dtFlag       = flag.Float64("dt", 1.0/60.0, "Fixed tick delta in seconds")
	durationFlag = flag.Float64("duration", 30, "Maximum domain time in seconds")
	pressFlag    = flag.String("press", "", "Scripted input as tick:action pairs (actions: continue, skip)")
	windowFlag   = flag.Bool("window", false, "Open the viewer window")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	catalog, err := config.LoadCatalog(os.DirFS(*rootFlag))
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	if *fileFlag != "" {
		seq, err := config.LoadSequenceConfig(*fileFlag)
		if err != nil {
			log.Fatalf("Failed to load sequence: %v", err)
		}
		catalog.Sequences[seq.ID] = seq
		*sequenceFlag = seq.ID
	}

	if len(catalog.Sequences) == 0 {
		log.Fatalf("No sequences found under %s", *rootFlag)
	}
	if *sequenceFlag == "" {
		*sequenceFlag = catalog.SequenceIDs()[0]
	}

	if *windowFlag {
		runWindow(catalog)
		return
	}

	if err := runTimeline(catalog); err != nil {
		log.Fatal(err)
	}
}

// runWindow 打开查看器窗口
func runWindow(catalog *config.Catalog) {
	viewer, err := app.NewApp(app.Config{
		Verbose:  *verboseFlag,
		Sequence: *sequenceFlag,
	}, catalog)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("Sequence Verifier - %s", *sequenceFlag))
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}

// runTimeline 无窗口运行并打印事件时间线
func runTimeline(catalog *config.Catalog) error {
	seq, err := catalog.Sequence(*sequenceFlag)
	if err != nil {
		return err
	}
	if types.SecondsToDuration(*dtFlag) <= 0 {
		return fmt.Errorf("dt must be positive, got %f", *dtFlag)
	}

	input := utils.NewScriptedActionInput()
	if err := parsePresses(*pressFlag, input); err != nil {
		return err
	}

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	templates := catalog.Templates
	rt := systems.NewSequenceRuntime(systems.RuntimeOptions{
		Input: input,
		NewSpawner: func(em *ecs.EntityManager, tweens *systems.TweenSystem) systems.Spawner {
			return entities.NewSpawnFactory(em, templates, tweens)
		},
		Verbose: *verboseFlag,
	})

	actor := rt.EntityManager.CreateEntity()
	ecs.AddComponent(rt.EntityManager, actor, &components.PositionComponent{X: 100, Y: 300})

	entity, err := rt.Player.Play(seq, actor)
	if err != nil {
		return err
	}

	fmt.Printf("Sequence %s (%s, %d steps, dt=%.4f)\n", seq.ID, seq.Kind, len(seq.Steps), *dtFlag)
	fmt.Println("  tick     time  event")

	limit := types.SecondsToDuration(*durationFlag)
	requested := 0
	for rt.Clock.Elapsed() < limit {
		rt.Tick(*dtFlag)
		requested += rt.Events.Count(game.EventSpawnRequested)

		for _, e := range rt.Events.Events() {
			// 逐轴到达过多，只打印主角的
			if e.Type == game.EventMovementReached && e.Entity != actor {
				continue
			}
			fmt.Printf("%6d %8.3f  %s\n", rt.Clock.Ticks(), rt.Clock.Elapsed().Seconds(), e)
		}

		if rt.Player.IsCompleted(entity) {
			break
		}
	}

	pos, _ := ecs.GetComponent[*components.PositionComponent](rt.EntityManager, actor)
	spawned := len(ecs.GetEntitiesWith1[*components.SpawnedComponent](rt.EntityManager))
	fmt.Printf("\nCompleted: %v  index=%d/%d  actor=(%.2f, %.2f) moving=%v\n",
		rt.Player.IsCompleted(entity), rt.Player.CurrentIndex(entity), len(seq.Steps),
		pos.X, pos.Y, rt.Tweens.IsMoving(actor))
	fmt.Printf("Spawns requested=%d live=%d  entities=%d  contributions=%d\n",
		requested, spawned, rt.EntityManager.EntityCount(), rt.Arena.Len())
	return nil
}

// parsePresses 解析 "tick:action" 列表
func parsePresses(spec string, input *utils.ScriptedActionInput) error {
	if strings.TrimSpace(spec) == "" {
		return nil
	}
	for _, item := range strings.Split(spec, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid press %q, expected tick:action", item)
		}
		tick, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid press tick %q: %w", parts[0], err)
		}
		switch parts[1] {
		case "continue":
			input.PressAt(tick, utils.ActionContinue)
		case "skip":
			input.PressAt(tick, utils.ActionSkip)
		default:
			return fmt.Errorf("unknown action %q (expected continue or skip)", parts[1])
		}
	}
	return nil
}
