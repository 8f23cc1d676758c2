package timeline

import "time"

// PointsNear resolves every point of a segment lying within half a marker
// width of the clicked pixel, so stacked markers can be acted on as a batch.
// offsetX is the click position relative to the clicked marker's left edge.
func PointsNear(points []*PointNode, clicked *PointNode, offsetX, markerSize, perHourSpacing float64) []*PointNode {
	if clicked == nil || perHourSpacing <= 0 {
		return nil
	}
	toDuration := func(px float64) time.Duration {
		return time.Duration(px / perHourSpacing * float64(time.Hour))
	}
	clickedAt := clicked.Date.Add(toDuration(offsetX - markerSize/2))
	half := toDuration(markerSize / 2)
	lo, hi := clickedAt.Add(-half), clickedAt.Add(half)

	var out []*PointNode
	for _, p := range points {
		if p.Date.After(lo) && p.Date.Before(hi) {
			out = append(out, p)
		}
	}
	return out
}
