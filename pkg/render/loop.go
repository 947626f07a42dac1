package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/astroviz/solarsim/pkg/astronomy/nbody"
	"github.com/astroviz/solarsim/pkg/utils"
)

// Run owns the interactive loop: advance one tick, draw, repeat at the
// configured frame rate. The stepper writes and the renderer reads in
// strict alternation on this goroutine; only event delivery runs
// elsewhere. Keys: q or Esc quits, space pauses, n steps once while
// paused.
func Run(sys *nbody.System, stepper *nbody.Stepper, dt float64, display utils.DisplayConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

	fps := display.FPS
	if fps <= 0 {
		fps = 60
	}

	renderer := NewRenderer(screen, display)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	paused := false
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Rune() == 'q':
					return nil
				case ev.Rune() == ' ':
					paused = !paused
				case ev.Rune() == 'n':
					if paused {
						if err := stepper.Step(sys, dt); err != nil {
							return err
						}
						renderer.Draw(sys, paused)
					}
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if !paused {
				if err := stepper.Step(sys, dt); err != nil {
					return err
				}
			}
			renderer.Draw(sys, paused)
		}
	}
}
