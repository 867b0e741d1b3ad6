package world

import "github.com/natevvv/yapf-routing/pkg/tile"

type FollowError uint8

const (
	FollowOK FollowError = iota
	FollowOffMap
	FollowOwner
	FollowWrongType
	FollowNoWay
)

// RoadFollower answers which trackdirs can be reached from a tile and trackdir.
// Create one per vehicle and call Follow as often as needed; results describe the last call.
type RoadFollower struct {
	m       Reader
	rtt     RoadTramType
	owner   Owner
	vehType StationType

	OldTile      tile.Index
	OldTrackdir  tile.Trackdir
	ExitDir      tile.DiagDirection // movement direction entering NewTile
	NewTile      tile.Index
	NewTrackdirs tile.TrackdirBits
	TilesSkipped int
	IsTunnel     bool
	Reversed     bool
	Err          FollowError
}

func NewRoadFollower(m Reader, v *Vehicle) *RoadFollower {
	return &RoadFollower{m: m, rtt: v.RoadType, owner: v.Owner, vehType: v.Type}
}

// Follow moves from t along td onto the next tile.
// Road vehicles turn around at dead ends, trams only in depots and bay stops.
func (f *RoadFollower) Follow(t tile.Index, td tile.Trackdir) bool {
	f.OldTile = t
	f.OldTrackdir = td
	f.ExitDir = td.ExitDir()
	f.NewTile = tile.Invalid
	f.NewTrackdirs = tile.TrackdirBitsNone
	f.TilesSkipped = 0
	f.IsTunnel = false
	f.Reversed = false
	f.Err = FollowOK

	old := f.m.Tile(t)
	if !f.canExitOldTile(old) {
		return f.tryReverse(old)
	}
	if old.IsTunnelHead() && f.ExitDir == old.Direction {
		f.NewTile = old.TunnelEnd
		f.TilesSkipped = f.m.Grid().Distance(t, old.TunnelEnd) - 1
		f.IsTunnel = true
	} else {
		next, ok := f.m.Grid().Neighbour(t, f.ExitDir)
		if !ok {
			f.Err = FollowOffMap
			return f.tryReverse(old)
		}
		f.NewTile = next
	}
	if !f.canEnterNewTile(f.m.Tile(f.NewTile)) {
		return f.tryReverse(old)
	}
	f.NewTrackdirs = f.m.Tile(f.NewTile).Trackdirs(f.rtt) & tile.TrackdirsEnteredBy(f.ExitDir)
	if f.NewTrackdirs.IsEmpty() {
		f.Err = FollowNoWay
		return f.tryReverse(old)
	}
	return true
}

// SpeedLimit of the tile entered by the last successful follow
func (f *RoadFollower) SpeedLimit() (maxSpeed, minSpeed int) {
	return f.m.Tile(f.NewTile).SpeedLimit()
}

func (f *RoadFollower) canExitOldTile(old *Tile) bool {
	// depots and bay stops are left through their entrance only
	if old.IsRoadDepot() || old.IsBayStop() {
		return f.ExitDir == old.Direction
	}
	return true
}

func (f *RoadFollower) canEnterNewTile(nt *Tile) bool {
	switch {
	case nt.IsRoadDepot():
		if f.ExitDir != nt.Direction.Reverse() {
			f.Err = FollowNoWay
			return false
		}
		if nt.Owner != f.owner {
			f.Err = FollowOwner
			return false
		}
	case nt.IsBayStop():
		if f.ExitDir != nt.Direction.Reverse() {
			f.Err = FollowNoWay
			return false
		}
		if nt.StopType != f.vehType || f.rtt == RoadTypeTram {
			f.Err = FollowWrongType
			return false
		}
	case nt.IsTunnelHead():
		// the inner side of a tunnel head is only reached through the tunnel
		if !f.IsTunnel && f.ExitDir == nt.Direction.Reverse() {
			f.Err = FollowNoWay
			return false
		}
	}
	return true
}

func (f *RoadFollower) tryReverse(old *Tile) bool {
	if f.rtt == RoadTypeTram && !old.IsRoadDepot() && !old.IsBayStop() {
		if f.Err == FollowOK {
			f.Err = FollowNoWay
		}
		return false
	}
	f.ExitDir = f.ExitDir.Reverse()
	f.NewTile = f.OldTile
	f.TilesSkipped = 0
	f.IsTunnel = false
	f.NewTrackdirs = old.Trackdirs(f.rtt) & tile.TrackdirsEnteredBy(f.ExitDir)
	if f.NewTrackdirs.IsEmpty() {
		f.Err = FollowNoWay
		return false
	}
	f.Reversed = true
	f.Err = FollowOK
	return true
}
