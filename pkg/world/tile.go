package world

import "github.com/natevvv/yapf-routing/pkg/tile"

type TileType uint8

const (
	TypeClear TileType = iota
	TypeRoad
	TypeStation
	TypeDepot
	TypeTunnel
)

func (t TileType) String() string {
	return [...]string{"clear", "road", "station", "depot", "tunnel"}[t]
}

// Owner of a tile or vehicle (a company)
type Owner uint8

const OwnerNone Owner = 0xFF

type RoadTramType uint8

const (
	RoadTypeRoad RoadTramType = iota
	RoadTypeTram
)

func (r RoadTramType) String() string {
	if r == RoadTypeTram {
		return "tram"
	}
	return "road"
}

// TileHeight is the height of one level in pixels
const TileHeight = 8

// NoSpeedLimit is reported for tiles without a maximum speed
const NoSpeedLimit = 1<<31 - 1

type Tile struct {
	Type     TileType
	Height   uint8
	Inclined bool
	Owner    Owner
	Road     tile.RoadBits
	Tram     tile.RoadBits
	Crossing bool // level crossing with a rail track
	MaxSpeed int  // 0 if not limited
	MinSpeed int

	// station tiles
	Station      StationID
	StopType     StationType
	DriveThrough bool

	// Entrance of depots and bay stops, or the direction into the tunnel for tunnel heads
	Direction tile.DiagDirection
	TunnelEnd tile.Index
}

func (t *Tile) Bits(rtt RoadTramType) tile.RoadBits {
	if rtt == RoadTypeTram {
		return t.Tram
	}
	return t.Road
}

func (t *Tile) IsRoadDepot() bool        { return t.Type == TypeDepot }
func (t *Tile) IsStation() bool          { return t.Type == TypeStation }
func (t *Tile) IsDriveThroughStop() bool { return t.Type == TypeStation && t.DriveThrough }
func (t *Tile) IsBayStop() bool          { return t.Type == TypeStation && !t.DriveThrough }
func (t *Tile) IsLevelCrossing() bool    { return t.Type == TypeRoad && t.Crossing }
func (t *Tile) IsTunnelHead() bool       { return t.Type == TypeTunnel }

// CenterZ returns the height of the tile center in pixels
func (t *Tile) CenterZ() int {
	z := int(t.Height) * TileHeight
	if t.Inclined {
		z += TileHeight / 2
	}
	return z
}

// Trackdirs available on this tile for the given road/tram type
func (t *Tile) Trackdirs(rtt RoadTramType) tile.TrackdirBits {
	return t.Bits(rtt).Trackdirs()
}

// SpeedLimit returns the maximum and minimum speed on the tile
func (t *Tile) SpeedLimit() (maxSpeed, minSpeed int) {
	maxSpeed = NoSpeedLimit
	if t.MaxSpeed > 0 {
		maxSpeed = t.MaxSpeed
	}
	return maxSpeed, t.MinSpeed
}
