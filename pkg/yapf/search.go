package yapf

import (
	"log"

	"github.com/natevvv/yapf-routing/pkg/queue"
	"github.com/natevvv/yapf-routing/pkg/slice"
	"github.com/natevvv/yapf-routing/pkg/tile"
)

type State int

const (
	StateInitialized State = iota
	StateExpanding
	StateSucceeded
	StateExhausted
	StateAborted
)

func (s State) String() string {
	return [...]string{"initialized", "expanding", "succeeded", "exhausted", "aborted"}[s]
}

// Destination decides when a search is done and estimates the remaining cost
type Destination interface {
	IsDestination(t tile.Index, td tile.Trackdir) bool
	// Estimate returns the node cost plus a lower bound of the remaining cost
	Estimate(n *Node) int
	String() string
}

// Expander moves a vehicle between nodes and prices what it passes
type Expander interface {
	// Follow returns the tile and the trackdirs reachable from the end of n's segment
	Follow(n *Node) (tile.Index, tile.TrackdirBits, bool)
	// CalcCost walks the segment starting at n's key and sets its end and cost.
	// Returning false discards the node.
	CalcCost(s *Search, n *Node) bool
}

type SearchKPIs struct {
	pqPops              int // nodes taken from the open set
	pqUpdates           int // pushes and replacements on the open set
	createdNodes        int // nodes created, including discarded ones
	closedNodes         int // nodes that were expanded
	deadNodes           int // nodes discarded by the cost calculation
	loops               int // segments running back onto their own key
	segmentLimitHits    int // segments longer than the tile limit
	costCeilingHits     int // segments more expensive than the cost ceiling
	heuristicViolations int // estimates lower than the estimate of the parent or of an already closed node
	searchedTiles       int // tiles priced
}

func (k *SearchKPIs) Add(other SearchKPIs) {
	k.pqPops += other.pqPops
	k.pqUpdates += other.pqUpdates
	k.createdNodes += other.createdNodes
	k.closedNodes += other.closedNodes
	k.deadNodes += other.deadNodes
	k.loops += other.loops
	k.segmentLimitHits += other.segmentLimitHits
	k.costCeilingHits += other.costCeilingHits
	k.heuristicViolations += other.heuristicViolations
	k.searchedTiles += other.searchedTiles
}

func (k SearchKPIs) PqPops() int              { return k.pqPops }
func (k SearchKPIs) PqUpdates() int           { return k.pqUpdates }
func (k SearchKPIs) CreatedNodes() int        { return k.createdNodes }
func (k SearchKPIs) ClosedNodes() int         { return k.closedNodes }
func (k SearchKPIs) DeadNodes() int           { return k.deadNodes }
func (k SearchKPIs) Loops() int               { return k.loops }
func (k SearchKPIs) SegmentLimitHits() int    { return k.segmentLimitHits }
func (k SearchKPIs) CostCeilingHits() int     { return k.costCeilingHits }
func (k SearchKPIs) HeuristicViolations() int { return k.heuristicViolations }
func (k SearchKPIs) SearchedTiles() int       { return k.searchedTiles }

// Search is a best first search over segments.
// A search is used once: add the origins, then Run it.
type Search struct {
	settings    Settings
	destination Destination
	expander    Expander

	nodes       nodeList
	open        *queue.MinHeap[*Node]
	openNodes   map[Key]*Node
	closedNodes map[Key]*Node

	state            State
	best             *Node // the node satisfying the destination
	bestIntermediate *Node // the node closest to the destination, kept when a limited search fails
	sequence         int
	maxCost          int // discard segments more expensive than this, 0 for no ceiling
	budgetExceeded   bool

	kpis       SearchKPIs
	debugLevel int
}

func NewSearch(settings Settings, destination Destination, expander Expander) *Search {
	return &Search{
		settings:    settings,
		destination: destination,
		expander:    expander,
		open:        queue.NewMinHeap[*Node](nil),
		openNodes:   make(map[Key]*Node),
		closedNodes: make(map[Key]*Node),
		state:       StateInitialized,
	}
}

func (s *Search) SetMaxCost(maxCost int) { s.maxCost = maxCost }

func (s *Search) MaxCost() int { return s.maxCost }

func (s *Search) SetDebugLevel(level int) { s.debugLevel = level }

// AddOrigin seeds the search with a zero cost node for each trackdir on the start tile
func (s *Search) AddOrigin(t tile.Index, trackdirs tile.TrackdirBits) {
	if s.state != StateInitialized {
		panic("origins must be added before the search runs")
	}
	for _, td := range trackdirs.Slice() {
		key := Key{Tile: t, Trackdir: td}
		if _, ok := s.openNodes[key]; ok {
			continue
		}
		n := s.nodes.create(-1, key, false)
		s.kpis.createdNodes++
		s.pushOpen(n)
	}
}

// Run expands nodes until the destination is popped, the open set is empty or a budget is used up.
// It returns ErrNoPath or ErrBudgetExceeded if no destination was reached.
func (s *Search) Run() error {
	if s.state != StateInitialized {
		panic("search was already run")
	}
	if s.debugLevel >= 1 {
		log.Printf("New search: %v origins -> %v\n", s.open.Len(), s.destination)
	}
	s.state = StateExpanding

	for s.state == StateExpanding {
		if s.open.Len() == 0 {
			s.state = StateExhausted
			break
		}
		n := s.open.Pop()
		delete(s.openNodes, n.key)
		s.kpis.pqPops++
		if s.debugLevel >= 2 {
			log.Printf("Pop node %v\n", n)
		}

		if s.destination.IsDestination(n.segmentLastTile, n.segmentLastTrackdir) {
			s.best = n
			s.state = StateSucceeded
			break
		}

		s.closedNodes[n.key] = n
		s.kpis.closedNodes++
		s.followNode(n)

		if s.budgetExceeded || (s.settings.MaxSearchNodes > 0 && len(s.closedNodes) >= s.settings.MaxSearchNodes) {
			s.state = StateAborted
		}
	}

	switch s.state {
	case StateSucceeded:
		if s.debugLevel >= 1 {
			log.Printf("Found path to %v with cost %v, %v nodes closed\n", s.best.segmentLastTile, s.best.cost, s.kpis.closedNodes)
		}
		return nil
	case StateAborted:
		if s.debugLevel >= 1 {
			log.Printf("Aborted search after %v nodes and %v tiles\n", s.kpis.closedNodes, s.kpis.searchedTiles)
		}
		return ErrBudgetExceeded
	}
	if s.debugLevel >= 1 {
		log.Printf("Finished search, no path found, %v nodes closed\n", s.kpis.closedNodes)
	}
	if s.kpis.costCeilingHits > 0 {
		return ErrBudgetExceeded
	}
	return ErrNoPath
}

func (s *Search) followNode(n *Node) {
	newTile, trackdirs, ok := s.expander.Follow(n)
	if !ok {
		return
	}
	isChoice := trackdirs.Count() > 1
	for _, td := range trackdirs.Slice() {
		if s.budgetExceeded {
			return
		}
		child := s.nodes.create(n.id, Key{Tile: newTile, Trackdir: td}, isChoice)
		s.kpis.createdNodes++
		s.addNewNode(child, n)
	}
}

func (s *Search) addNewNode(n, parent *Node) {
	if !s.expander.CalcCost(s, n) {
		s.kpis.deadNodes++
		return
	}
	n.estimate = s.destination.Estimate(n)
	if n.estimate < parent.estimate {
		s.kpis.heuristicViolations++
		if s.debugLevel >= 1 {
			log.Printf("Estimate of %v is lower than estimate of parent %v\n", n, parent)
		}
	}
	if s.debugLevel >= 3 {
		log.Printf("New node %v\n", n)
	}

	if s.settings.MaxSearchNodes > 0 && (s.bestIntermediate == nil || remaining(n) < remaining(s.bestIntermediate)) {
		s.bestIntermediate = n
	}

	if open, ok := s.openNodes[n.key]; ok {
		if n.estimate < open.estimate {
			s.open.Remove(open.index)
			s.pushOpen(n)
		}
		return
	}
	if closed, ok := s.closedNodes[n.key]; ok {
		if n.estimate < closed.estimate {
			s.kpis.heuristicViolations++
			if s.debugLevel >= 1 {
				log.Printf("Closed node %v reached again with lower estimate %v\n", closed, n.estimate)
			}
		}
		return
	}
	s.pushOpen(n)
}

func (s *Search) pushOpen(n *Node) {
	s.sequence++
	n.sequence = s.sequence
	s.open.Push(n)
	s.openNodes[n.key] = n
	s.kpis.pqUpdates++
}

func remaining(n *Node) int { return n.estimate - n.cost }

// CountTiles accounts for priced tiles. It returns false once the search wide tile budget is used up.
func (s *Search) CountTiles(count int) bool {
	s.kpis.searchedTiles += count
	if s.settings.MaxSearchTiles > 0 && s.kpis.searchedTiles > s.settings.MaxSearchTiles {
		s.budgetExceeded = true
		return false
	}
	return true
}

func (s *Search) State() State { return s.state }

func (s *Search) Found() bool { return s.best != nil }

// BestNode returns the destination node, or the most promising node if the destination was not reached
func (s *Search) BestNode() *Node {
	if s.best != nil {
		return s.best
	}
	return s.bestIntermediate
}

func (s *Search) Parent(n *Node) *Node {
	if n.parent < 0 {
		return nil
	}
	return s.nodes.at(n.parent)
}

// Path returns the nodes from the origin to n
func (s *Search) Path(n *Node) []*Node {
	path := make([]*Node, 0)
	for node := n; node != nil; node = s.Parent(node) {
		path = append(path, node)
	}
	// reverse path (to create the correct direction)
	slice.ReverseInPlace(path)
	return path
}

func (s *Search) KPIs() SearchKPIs { return s.kpis }

func (s *Search) NodeCount() int { return s.nodes.len() }
