// Command cityview draws a generated city in the terminal. It is a debugging
// aid for layout and placement tuning.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/tuning"
)

func main() {
	seed := flag.Uint64("seed", 1, "city seed")
	tuningPath := flag.String("tuning", "", "path to a tuning yaml file")
	flag.Parse()

	if err := run(*seed, *tuningPath); err != nil {
		slog.Error("running cityview", "error", err)
		os.Exit(1)
	}
}

func run(seed uint64, tuningPath string) error {
	tn, err := tuning.Load(tuningPath)
	if err != nil {
		return fmt.Errorf("loading tuning: %w", err)
	}

	v, err := newViewer(tn.Params, city.DefaultMonoliths(), seed)
	if err != nil {
		return err
	}

	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer scr.Fini()

	for {
		v.draw(scr)

		switch ev := scr.PollEvent().(type) {
		case *tcell.EventResize:
			scr.Sync()
		case *tcell.EventKey:
			quit, err := v.handleKey(ev.Key())
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}
