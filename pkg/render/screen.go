package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	astromath "github.com/astroviz/solarsim/pkg/astronomy/math"
	"github.com/astroviz/solarsim/pkg/astronomy/nbody"
	"github.com/astroviz/solarsim/pkg/utils"
)

// cellAspect compensates for terminal cells being about twice as tall
// as they are wide.
const cellAspect = 0.5

var defaultColor = colorful.Color{R: 0.8, G: 0.8, B: 1.0}

// Renderer draws the system onto a tcell screen. It owns the
// meters-to-cells transform; the physics never sees screen coordinates.
type Renderer struct {
	screen     tcell.Screen
	showTrails bool
	showLabels bool
}

// NewRenderer wraps an initialized screen. Tests pass a
// tcell.SimulationScreen here.
func NewRenderer(screen tcell.Screen, display utils.DisplayConfig) *Renderer {
	return &Renderer{
		screen:     screen,
		showTrails: display.ShowTrails,
		showLabels: display.ShowLabels,
	}
}

// scale returns simulation units per cell so the widest orbit fits the
// screen with a small margin.
func (r *Renderer) scale(sys *nbody.System) float64 {
	center := r.center(sys)
	maxR := 0.0
	for _, b := range sys.Bodies {
		if d := b.Position.Distance(center); d > maxR {
			maxR = d
		}
	}
	if maxR == 0 {
		return 1
	}

	w, h := r.screen.Size()
	usableX := float64(w)/2 - 2
	usableY := (float64(h-1)/2 - 1) / cellAspect
	if usableX < 1 {
		usableX = 1
	}
	if usableY < 1 {
		usableY = 1
	}
	sx := maxR / usableX
	sy := maxR / usableY
	if sx > sy {
		return sx
	}
	return sy
}

func (r *Renderer) center(sys *nbody.System) astromath.Vec2 {
	if c := sys.Central(); c != nil {
		return c.Position
	}
	return astromath.Vec2{}
}

// project maps a simulation position to a screen cell.
func (r *Renderer) project(p, center astromath.Vec2, scale float64) (int, int) {
	w, h := r.screen.Size()
	d := p.Sub(center)
	x := float64(w)/2 + d.X/scale
	y := float64(h-1)/2 + d.Y/scale*cellAspect
	return int(x + 0.5), int(y + 0.5)
}

// Draw renders one frame: trails first, then bodies, then the status
// line with the simulated time and each planet's distance to its parent.
func (r *Renderer) Draw(sys *nbody.System, paused bool) {
	r.screen.Clear()

	center := r.center(sys)
	scale := r.scale(sys)
	w, h := r.screen.Size()

	if r.showTrails {
		for _, b := range sys.Bodies {
			if b.Trail == nil || b.Trail.Len() < 2 {
				continue
			}
			base := bodyColor(b)
			points := b.Trail.Points()
			for i, p := range points {
				x, y := r.project(p, center, scale)
				if x < 0 || x >= w || y < 0 || y >= h-1 {
					continue
				}
				age := 1.0 - float64(i+1)/float64(len(points))
				faded := base.BlendRgb(colorful.Color{}, age*0.8)
				style := tcell.StyleDefault.Foreground(toTcell(faded))
				r.screen.SetContent(x, y, '·', nil, style)
			}
		}
	}

	for _, b := range sys.Bodies {
		x, y := r.project(b.Position, center, scale)
		if x < 0 || x >= w || y < 0 || y >= h-1 {
			continue
		}
		style := tcell.StyleDefault.Foreground(toTcell(bodyColor(b)))
		r.screen.SetContent(x, y, glyph(b), nil, style)
		if r.showLabels && b.Name != "" {
			for i, ch := range b.Name {
				lx := x + 2 + i
				if lx >= w {
					break
				}
				r.screen.SetContent(lx, y, ch, nil, style)
			}
		}
	}

	r.drawStatus(sys, paused)
	r.screen.Show()
}

func (r *Renderer) drawStatus(sys *nbody.System, paused bool) {
	w, h := r.screen.Size()
	status := fmt.Sprintf(" day %.0f", sys.Time/86400)
	if paused {
		status += "  [paused]"
	}
	for _, b := range sys.Bodies {
		if b.Parent < 0 {
			continue
		}
		status += fmt.Sprintf("  %s %s", b.Name, formatDistance(b.DistanceToParent(sys.Bodies)))
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for x := 0; x < w; x++ {
		ch := ' '
		if x < len(status) {
			ch = rune(status[x])
		}
		r.screen.SetContent(x, h-1, ch, nil, style)
	}
}

// formatDistance prints astronomical distances in AU and everything
// else in raw simulation units.
func formatDistance(d float64) string {
	if d >= 0.01*utils.AU {
		return fmt.Sprintf("%.3f AU", d/utils.AU)
	}
	return fmt.Sprintf("%.1f", d)
}

// glyph picks a marker by display radius; the central body gets the
// largest one.
func glyph(b nbody.Body) rune {
	switch {
	case b.Parent < 0:
		return '◉'
	case b.Radius >= 5:
		return '●'
	default:
		return '•'
	}
}

func bodyColor(b nbody.Body) colorful.Color {
	c, err := colorful.Hex(b.Color)
	if err != nil {
		return defaultColor
	}
	return c
}

func toTcell(c colorful.Color) tcell.Color {
	cr, cg, cb := c.RGB255()
	return tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))
}
