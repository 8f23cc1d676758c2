package timeline

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/alexanderramin/ganttline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan1 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return jan1.AddDate(0, 0, n-1) }

func seg(id string, start, end time.Time) *Node {
	return NewNode(domain.TimeLine{ID: id, Start: start, End: end})
}

func TestMerge_OverlappingPairBecomesOneGroup(t *testing.T) {
	a := seg("a", day(1), day(5))
	b := seg("b", day(4), day(10))
	nodes := []*Node{b, a}
	Sort(nodes)

	merged := Merge(nodes)

	require.Len(t, merged, 1)
	g := merged[0]
	assert.True(t, g.IsMerge)
	assert.True(t, g.Start.Equal(day(1)))
	assert.True(t, g.End.Equal(day(10)))
	assert.ElementsMatch(t, []string{"a", "b"}, g.IDs())
	assert.True(t, a.End.Equal(day(5)), "raw members keep their own dates")
	assert.False(t, a.IsMerge)
}

func TestMerge_TouchingSegmentsMerge(t *testing.T) {
	merged := Merge([]*Node{seg("a", day(1), day(3)), seg("b", day(3), day(4))})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].IsMerge)
}

func TestMerge_DisjointSegmentsStaySeparate(t *testing.T) {
	merged := Merge([]*Node{seg("a", day(1), day(2)), seg("b", day(3), day(4))})
	require.Len(t, merged, 2)
	assert.False(t, merged[0].IsMerge)
	assert.False(t, merged[1].IsMerge)
}

func TestMerge_ContainedSegmentKeepsGroupEnd(t *testing.T) {
	merged := Merge([]*Node{seg("a", day(1), day(10)), seg("b", day(2), day(3))})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].End.Equal(day(10)))
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil))
}

func TestMerge_MembershipStaysFlat(t *testing.T) {
	first := Merge([]*Node{seg("a", day(1), day(3)), seg("b", day(2), day(4))})
	require.Len(t, first, 1)

	// Re-merge the existing group with a newcomer that overlaps it.
	again := Merge([]*Node{first[0], seg("c", day(4), day(6))})
	require.Len(t, again, 1)
	for _, m := range again[0].Members {
		assert.False(t, m.IsMerge, "members are never groups")
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, again[0].IDs())
	assert.Len(t, first[0].Members, 2, "input group is not mutated")
}

func TestMerge_GroupCollectsPointsInDateOrder(t *testing.T) {
	a := NewNode(domain.TimeLine{ID: "a", Start: day(1), End: day(5),
		Points: []domain.TimePoint{{ID: "p2", At: day(4)}}})
	b := NewNode(domain.TimeLine{ID: "b", Start: day(2), End: day(6),
		Points: []domain.TimePoint{{ID: "p1", At: day(3)}}})

	merged := Merge([]*Node{a, b})
	require.Len(t, merged, 1)
	require.Len(t, merged[0].Points, 2)
	assert.Equal(t, "p1", merged[0].Points[0].ID)
	assert.Equal(t, "p2", merged[0].Points[1].ID)
}

func TestMerge_GroupInheritsDisableFlags(t *testing.T) {
	a := NewNode(domain.TimeLine{ID: "a", Start: day(1), End: day(3)})
	b := NewNode(domain.TimeLine{ID: "b", Start: day(2), End: day(4), DisableMove: true})
	merged := Merge([]*Node{a, b})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].DisableMove)
	assert.False(t, merged[0].DisableStretch)
}

func TestSortAndMerge_CanBreakGroups(t *testing.T) {
	a := seg("a", day(1), day(3))
	b := seg("b", day(2), day(4))
	merged := Merge([]*Node{a, b})
	require.Len(t, merged, 1)

	b.SetDates(day(10), day(12))
	again := SortAndMerge(merged)
	require.Len(t, again, 2)
	assert.Equal(t, "a", again[0].ID)
	assert.Equal(t, "b", again[1].ID)
}

func TestNewNode_SameDateGetsMarkerColor(t *testing.T) {
	n := seg("a", day(2), day(2))
	assert.True(t, n.IsSameDate)
	assert.Equal(t, ParentColor, n.Color)
}

func TestNewParentNode_NilSpan(t *testing.T) {
	assert.Nil(t, NewParentNode("r", nil, nil))
	start, end := day(1), day(2)
	n := NewParentNode("r", &start, &end)
	require.NotNil(t, n)
	assert.True(t, n.HasChildren)
}

// randomSegments builds n segments with random starts and lengths over ~60 days.
func randomSegments(rng *rand.Rand, n int) []*Node {
	nodes := make([]*Node, n)
	for i := range nodes {
		start := jan1.Add(time.Duration(rng.Intn(60*24)) * time.Hour)
		end := start.Add(time.Duration(rng.Intn(5*24)) * time.Hour)
		nodes[i] = seg(fmt.Sprintf("s%d", i), start, end)
	}
	return nodes
}

func TestMerge_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 300; trial++ {
		original := randomSegments(rng, rng.Intn(15))
		nodes := append([]*Node(nil), original...)
		Sort(nodes)
		merged := Merge(nodes)

		// No remaining overlap between neighbours.
		for i := 1; i < len(merged); i++ {
			assert.True(t, merged[i].Start.After(merged[i-1].End),
				"trial %d: %s overlaps %s", trial, merged[i].ID, merged[i-1].ID)
		}

		// Every original segment is represented exactly once.
		var got []string
		for _, m := range merged {
			got = append(got, m.IDs()...)
		}
		var want []string
		for _, o := range original {
			want = append(want, o.ID)
		}
		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(t, want, got, "trial %d", trial)

		// Merging the output again changes nothing.
		again := Merge(merged)
		require.Len(t, again, len(merged), "trial %d", trial)
		for i := range again {
			assert.Same(t, merged[i], again[i])
		}
	}
}
