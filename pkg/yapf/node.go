package yapf

import (
	"fmt"

	"github.com/natevvv/yapf-routing/pkg/tile"
)

// Key identifies a node: a vehicle on a tile, travelling along a trackdir
type Key struct {
	Tile     tile.Index
	Trackdir tile.Trackdir
}

func (k Key) String() string { return fmt.Sprintf("%v/%v", k.Tile, k.Trackdir) }

// Node is the start of a segment. The segment runs from the key to the segment end
// without passing a fork.
// implements queue.Priorizable
type Node struct {
	key      Key
	id       int32 // position in the node list
	parent   int32 // -1 for origin nodes
	cost     int   // real cost from the origin up to the segment end
	estimate int   // cost plus the remaining distance to the destination

	segmentLastTile     tile.Index
	segmentLastTrackdir tile.Trackdir

	isChoice          bool // created at a fork
	predictedOccupied bool // a leading vehicle is expected on the segment

	sequence int // creation order, breaks ties between equal estimates
	index    int // heap position
}

func (n *Node) Key() Key                           { return n.key }
func (n *Node) Tile() tile.Index                   { return n.key.Tile }
func (n *Node) Trackdir() tile.Trackdir            { return n.key.Trackdir }
func (n *Node) Cost() int                          { return n.cost }
func (n *Node) Estimate() int                      { return n.estimate }
func (n *Node) SegmentLastTile() tile.Index        { return n.segmentLastTile }
func (n *Node) SegmentLastTrackdir() tile.Trackdir { return n.segmentLastTrackdir }
func (n *Node) IsChoice() bool                     { return n.isChoice }
func (n *Node) PredictedOccupied() bool            { return n.predictedOccupied }

func (n *Node) Priority() int      { return n.estimate }
func (n *Node) Sequence() int      { return n.sequence }
func (n *Node) Index() int         { return n.index }
func (n *Node) SetIndex(index int) { n.index = index }
func (n *Node) String() string {
	return fmt.Sprintf("%v -> %v/%v: cost %v, estimate %v", n.key, n.segmentLastTile, n.segmentLastTrackdir, n.cost, n.estimate)
}

const nodePageSize = 1024

// nodeList owns every node of a search. Nodes are allocated in pages so pointers stay valid while the list grows.
type nodeList struct {
	pages [][]Node
	count int
}

func (l *nodeList) create(parent int32, key Key, isChoice bool) *Node {
	page, offset := l.count/nodePageSize, l.count%nodePageSize
	if page == len(l.pages) {
		l.pages = append(l.pages, make([]Node, nodePageSize))
	}
	n := &l.pages[page][offset]
	*n = Node{
		key:                 key,
		id:                  int32(l.count),
		parent:              parent,
		segmentLastTile:     key.Tile,
		segmentLastTrackdir: key.Trackdir,
		isChoice:            isChoice,
		index:               -1,
	}
	l.count++
	return n
}

func (l *nodeList) at(id int32) *Node {
	return &l.pages[id/nodePageSize][id%nodePageSize]
}

func (l *nodeList) len() int { return l.count }
