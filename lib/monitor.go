package wallpaperlib

import (
	"fmt"
	"image"
	"sort"
)

// Geometry is a monitor's placement inside the virtual screen.
// X and Y can be negative for monitors left of or above the primary.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (g Geometry) Rect() image.Rectangle {
	return image.Rect(g.X, g.Y, g.X+g.Width, g.Y+g.Height)
}

func (g Geometry) Empty() bool {
	return g.Width <= 0 || g.Height <= 0
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", g.Width, g.Height, g.X, g.Y)
}

type Monitor struct {
	Name     string
	Geometry Geometry
	// Empty when nothing has been assigned yet
	Wallpaper AbsolutePath
	Fit       FitMode
}

type AbsolutePath = string

func (m Monitor) String() string {
	return m.Name + " " + m.Geometry.String()
}

func monitorLess(a, b Monitor) bool {
	if a.Geometry.X != b.Geometry.X {
		return a.Geometry.X < b.Geometry.X
	}
	if a.Geometry.Y != b.Geometry.Y {
		return a.Geometry.Y < b.Geometry.Y
	}
	return a.Name < b.Name
}

// SortMonitors puts monitors in the canonical order: left to right, then top
// to bottom, then by name.
func SortMonitors(ms []Monitor) {
	sort.SliceStable(ms, func(i, j int) bool {
		return monitorLess(ms[i], ms[j])
	})
}

// Bounds is the smallest rectangle covering every geometry.
func Bounds(gs ...Geometry) image.Rectangle {
	var r image.Rectangle
	for i, g := range gs {
		if i == 0 {
			r = g.Rect()
			continue
		}
		r = r.Union(g.Rect())
	}
	return r
}
