package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gonewx/arcade/pkg/app"
	"github.com/gonewx/arcade/pkg/config"
	"github.com/gonewx/arcade/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	sequenceFlag  = flag.String("sequence", "", "Sequence ID to play (default: first sequence)")
	timeScaleFlag = flag.Float64("timescale", 1.0, "Time scale multiplier")
	persistFlag   = flag.Bool("persist", true, "Remember completed sequences (seen sequences become skippable)")
	verboseFlag   = flag.Bool("verbose", false, "Enable verbose logging")
	listFlag      = flag.Bool("list", false, "List embedded sequences and exit")
)

func main() {
	flag.Parse()

	// 初始化嵌入数据
	embedded.Init(dataFS)
	fsys, err := embedded.FS()
	if err != nil {
		log.Fatal(err)
	}

	catalog, err := config.LoadCatalog(fsys)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	if *listFlag {
		for _, id := range catalog.SequenceIDs() {
			seq := catalog.Sequences[id]
			fmt.Printf("%-12s %-9s %2d steps  %s\n", id, seq.Kind, len(seq.Steps), seq.Name)
		}
		os.Exit(0)
	}

	viewer, err := app.NewApp(app.Config{
		Verbose:   *verboseFlag,
		Sequence:  *sequenceFlag,
		TimeScale: *timeScaleFlag,
		Persist:   *persistFlag,
	}, catalog)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Arcade Sequence Viewer")

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
