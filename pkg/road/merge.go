package road

import (
	"github.com/natevvv/yapf-routing/pkg/slice"
	"github.com/paulmach/orb"
)

// Merger joins segments which continue each other and share their attributes
type Merger struct {
	roads           []*Segment
	mergeCount      int
	unmergableCount int
}

func NewMerger(roads []*Segment) *Merger {
	return &Merger{
		roads: roads,
	}
}

func (m *Merger) Merge() {
	// segments by their end points
	nodeToSegments := make(map[orb.Point][]*Segment)
	for _, seg := range m.roads {
		if len(seg.Line) < 2 {
			continue
		}
		nodeToSegments[seg.Start()] = append(nodeToSegments[seg.Start()], seg)
		nodeToSegments[seg.End()] = append(nodeToSegments[seg.End()], seg)
	}

	merged := make(map[int64]bool)
	newRoads := make([]*Segment, 0)
	for _, seg := range m.roads {
		if merged[seg.ID] {
			continue
		}
		merged[seg.ID] = true
		if len(seg.Line) < 2 {
			m.unmergableCount++
			newRoads = append(newRoads, seg)
			continue
		}

		current := seg
		for {
			next := m.findNext(current, nodeToSegments[current.End()], merged)
			if next == nil {
				break
			}
			current = mergeTwoSegments(current, next)
			merged[next.ID] = true
			m.mergeCount++
		}
		newRoads = append(newRoads, current)
	}

	m.roads = newRoads
}

// findNext returns a segment starting at the end of current.
// Two way segments ending there are turned around.
func (m *Merger) findNext(current *Segment, connected []*Segment, merged map[int64]bool) *Segment {
	end := current.End()
	for _, next := range connected {
		if merged[next.ID] || !canMerge(current, next) {
			continue
		}
		if next.Start() == end {
			return next
		}
		if !next.OneWay && next.End() == end {
			// next is consumed by this merge
			slice.ReverseInPlace(next.Line)
			return next
		}
	}
	return nil
}

func canMerge(s1, s2 *Segment) bool {
	return s1.Type == s2.Type &&
		s1.OneWay == s2.OneWay &&
		s1.MaxSpeed == s2.MaxSpeed
}

func mergeTwoSegments(s1, s2 *Segment) *Segment {
	merged := &Segment{
		ID:       s1.ID,
		Type:     s1.Type,
		OneWay:   s1.OneWay,
		MaxSpeed: s1.MaxSpeed,
		Tags:     s1.Tags,
	}

	merged.Line = make(orb.LineString, 0, len(s1.Line)+len(s2.Line)-1)
	merged.Line = append(merged.Line, s1.Line...)
	// the first point of s2 is the last point of s1
	merged.Line = append(merged.Line, s2.Line[1:]...)

	return merged
}

func (m *Merger) Roads() []*Segment {
	return m.roads
}

func (m *Merger) MergeCount() int {
	return m.mergeCount
}

func (m *Merger) UnmergableRoadCount() int {
	return m.unmergableCount
}
