package drag

import "math"

// autoScroll tracks whether the pointer is pushing against a viewport edge.
// It starts when the pointer sits within the edge margin and keeps moving
// outward; it stops once the pointer travels back inward past the position
// where scrolling began.
type autoScroll struct {
	active bool
	dir    float64 // -1 left, +1 right
	anchor float64
	ticks  int
}

// observe updates the scroll state after a pointer move from lastX by dx.
func (a *autoScroll) observe(lastX, x, dx float64, nearLeft, nearRight bool) {
	switch {
	case nearLeft:
		if dx < 0 {
			a.start(-1, lastX)
		} else if x >= a.anchor {
			a.stop()
		}
	case nearRight:
		if dx > 0 {
			a.start(1, lastX)
		} else if x <= a.anchor {
			a.stop()
		}
	default:
		a.stop()
	}
}

func (a *autoScroll) start(dir, anchor float64) {
	if a.active {
		return
	}
	a.active, a.dir, a.anchor, a.ticks = true, dir, anchor, 0
}

func (a *autoScroll) stop() {
	a.active = false
	a.ticks = 0
}

// next returns the signed step for the coming tick. The step speeds up the
// longer scrolling continues, capped at three times the base step.
func (a *autoScroll) next(base float64) float64 {
	a.ticks++
	speed := math.Min(1+float64(a.ticks-1)/20, 3)
	return a.dir * base * speed
}
