package viewport

import (
	"sort"
	"time"

	"github.com/alexanderramin/ganttline/internal/gantt/timeline"
)

// InView returns the half-open index range of segs overlapping [d0, d1):
// segments with End ≥ d0 and Start < d1. segs must be sorted by start and
// non-overlapping, which makes both End and Start monotonic.
func InView(segs []*timeline.Node, d0, d1 time.Time) (lo, hi int) {
	lo = sort.Search(len(segs), func(i int) bool {
		return !segs[i].End.Before(d0)
	})
	hi = sort.Search(len(segs), func(i int) bool {
		return !segs[i].Start.Before(d1)
	})
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
