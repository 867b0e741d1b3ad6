package tile

import (
	"strings"

	"github.com/pkg/errors"
)

// RoadBits marks which tile edges are connected to the tile's center by road
type RoadBits uint8

const (
	RoadNW RoadBits = 1 << iota
	RoadSW
	RoadSE
	RoadNE

	RoadNone RoadBits = 0
	RoadX             = RoadSW | RoadNE
	RoadY             = RoadNW | RoadSE
	RoadAll           = RoadX | RoadY
)

var diagDirRoadBits = [DiagDirEnd]RoadBits{RoadNE, RoadSE, RoadSW, RoadNW}

// DiagDirToRoadBits returns the road bit of the edge in direction d
func DiagDirToRoadBits(d DiagDirection) RoadBits { return diagDirRoadBits[d] }

func AxisToRoadBits(a Axis) RoadBits {
	if a == AxisX {
		return RoadX
	}
	return RoadY
}

func (b RoadBits) Has(d DiagDirection) bool { return b&DiagDirToRoadBits(d) != 0 }

// Trackdirs returns every trackdir whose two edges are present.
// A tile with a single road bit is a dead end and has no trackdirs.
func (b RoadBits) Trackdirs() TrackdirBits {
	var tds TrackdirBits
	for td := Trackdir(0); td < TrackdirEnd; td++ {
		need := td.RoadBits()
		if b&need == need {
			tds |= td.Bit()
		}
	}
	return tds
}

func (b RoadBits) String() string {
	if b == RoadNone {
		return "-"
	}
	names := make([]string, 0, 4)
	for d := DiagDirNE; d < DiagDirEnd; d++ {
		if b.Has(d) {
			names = append(names, d.String())
		}
	}
	return strings.Join(names, "+")
}

func ParseRoadBits(s string) (RoadBits, error) {
	if s == "-" {
		return RoadNone, nil
	}
	var b RoadBits
	for _, name := range strings.Split(s, "+") {
		d, err := ParseDiagDirection(name)
		if err != nil {
			return RoadNone, errors.Wrapf(err, "road bits %q", s)
		}
		b |= DiagDirToRoadBits(d)
	}
	return b, nil
}
