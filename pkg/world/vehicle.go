package world

import (
	"fmt"

	"github.com/natevvv/yapf-routing/pkg/tile"
)

type VehicleID uint32

type OrderType uint8

const (
	OrderNothing OrderType = iota
	OrderGotoStation
	OrderGotoWaypoint
	OrderGotoDepot
	OrderGotoTile
)

var orderTypeNames = [...]string{"none", "station", "waypoint", "depot", "tile"}

func (o OrderType) String() string { return orderTypeNames[o] }

// NoSpeedRestriction marks orders without a maximum speed
const NoSpeedRestriction = 0xFFFF

type Order struct {
	Type    OrderType
	Station StationID
	Tile    tile.Index
	// accepted trackdirs at the destination, empty for any
	Trackdirs tile.TrackdirBits
	MaxSpeed  int
}

func (o Order) String() string {
	switch o.Type {
	case OrderGotoStation, OrderGotoWaypoint:
		return fmt.Sprintf("%v %v", o.Type, o.Station)
	case OrderGotoDepot, OrderGotoTile:
		return fmt.Sprintf("%v %v", o.Type, o.Tile)
	}
	return o.Type.String()
}

// PathCache holds the choices of a previous search, front first
type PathCache struct {
	Tiles     []tile.Index
	Trackdirs []tile.Trackdir
}

func (c *PathCache) Len() int      { return len(c.Tiles) }
func (c *PathCache) IsEmpty() bool { return len(c.Tiles) == 0 }

func (c *PathCache) Push(t tile.Index, td tile.Trackdir) {
	c.Tiles = append(c.Tiles, t)
	c.Trackdirs = append(c.Trackdirs, td)
}

func (c *PathCache) Front() (tile.Index, tile.Trackdir) { return c.Tiles[0], c.Trackdirs[0] }

func (c *PathCache) Back() (tile.Index, tile.Trackdir) {
	last := len(c.Tiles) - 1
	return c.Tiles[last], c.Trackdirs[last]
}

func (c *PathCache) PopFront() {
	c.Tiles = c.Tiles[1:]
	c.Trackdirs = c.Trackdirs[1:]
}

func (c *PathCache) PopBack() {
	last := len(c.Tiles) - 1
	c.Tiles = c.Tiles[:last]
	c.Trackdirs = c.Trackdirs[:last]
}

func (c *PathCache) Clear() {
	c.Tiles = nil
	c.Trackdirs = nil
}

type Vehicle struct {
	ID          VehicleID
	Owner       Owner
	Type        StationType // bus or truck
	RoadType    RoadTramType
	Tile        tile.Index
	Trackdir    tile.Trackdir
	Progress    int // position on the current tile, larger is further ahead
	MaxSpeed    int
	Articulated bool
	Order       Order
	DestTile    tile.Index
	Path        PathCache
}

func (v *Vehicle) IsTram() bool { return v.RoadType == RoadTypeTram }

// StopType returns the kind of road stop the current order targets
func (v *Vehicle) StopType() StationType {
	if v.Order.Type == OrderGotoWaypoint {
		return StationRoadWaypoint
	}
	return v.Type
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("vehicle %v (%v on %v, %v)", v.ID, v.Type, v.Tile, v.Trackdir)
}
