package tile

import (
	"math/bits"
	"strings"

	"github.com/pkg/errors"
)

// Track is a piece of road between two tile edges
type Track uint8

const (
	TrackX Track = iota
	TrackY
	TrackUpper
	TrackLower
	TrackLeft
	TrackRight
	TrackEnd
)

// Trackdir is a track together with the direction it is travelled in.
// The reverse of trackdir td is td+6 (mod 12).
type Trackdir uint8

const (
	TrackdirXNE Trackdir = iota
	TrackdirYSE
	TrackdirUpperE
	TrackdirLowerE
	TrackdirLeftS
	TrackdirRightS
	TrackdirXSW
	TrackdirYNW
	TrackdirUpperW
	TrackdirLowerW
	TrackdirLeftN
	TrackdirRightN
	TrackdirEnd

	InvalidTrackdir Trackdir = 0xFF
)

var trackdirNames = [TrackdirEnd]string{
	"x_ne", "y_se", "upper_e", "lower_e", "left_s", "right_s",
	"x_sw", "y_nw", "upper_w", "lower_w", "left_n", "right_n",
}

// movement direction when entering the tile on this trackdir
var trackdirEnterDir = [TrackdirEnd]DiagDirection{
	DiagDirNE, DiagDirSE, DiagDirSE, DiagDirNE, DiagDirSE, DiagDirSW,
	DiagDirSW, DiagDirNW, DiagDirSW, DiagDirNW, DiagDirNE, DiagDirNW,
}

// movement direction when leaving the tile on this trackdir
var trackdirExitDir = [TrackdirEnd]DiagDirection{
	DiagDirNE, DiagDirSE, DiagDirNE, DiagDirSE, DiagDirSW, DiagDirSE,
	DiagDirSW, DiagDirNW, DiagDirNW, DiagDirSW, DiagDirNW, DiagDirNE,
}

var diagDirToDiagTrackdir = [DiagDirEnd]Trackdir{TrackdirXNE, TrackdirYSE, TrackdirXSW, TrackdirYNW}

func (td Trackdir) IsValid() bool { return td < TrackdirEnd }

func (td Trackdir) Track() Track { return Track(td % 6) }

func (td Trackdir) Reverse() Trackdir {
	if td < 6 {
		return td + 6
	}
	return td - 6
}

// IsDiagonal reports whether the trackdir runs straight along the X or Y axis
func (td Trackdir) IsDiagonal() bool { return td.Track() <= TrackY }

func (td Trackdir) EnterDir() DiagDirection { return trackdirEnterDir[td] }

func (td Trackdir) ExitDir() DiagDirection { return trackdirExitDir[td] }

// RoadBits returns the two tile edges the trackdir connects
func (td Trackdir) RoadBits() RoadBits {
	return DiagDirToRoadBits(td.EnterDir().Reverse()) | DiagDirToRoadBits(td.ExitDir())
}

func (td Trackdir) String() string {
	if !td.IsValid() {
		return "invalid"
	}
	return trackdirNames[td]
}

func ParseTrackdir(s string) (Trackdir, error) {
	for i, name := range trackdirNames {
		if strings.EqualFold(name, s) {
			return Trackdir(i), nil
		}
	}
	return InvalidTrackdir, errors.Errorf("unknown trackdir %q", s)
}

// DiagDirToDiagTrackdir returns the straight trackdir moving in direction d
func DiagDirToDiagTrackdir(d DiagDirection) Trackdir { return diagDirToDiagTrackdir[d] }

// TrackdirBits is a set of trackdirs
type TrackdirBits uint16

const TrackdirBitsNone TrackdirBits = 0

func (td Trackdir) Bit() TrackdirBits { return 1 << td }

func (b TrackdirBits) Has(td Trackdir) bool { return td.IsValid() && b&td.Bit() != 0 }

func (b TrackdirBits) Count() int { return bits.OnesCount16(uint16(b)) }

func (b TrackdirBits) IsEmpty() bool { return b == 0 }

// First returns the lowest trackdir of the set, or InvalidTrackdir for an empty set
func (b TrackdirBits) First() Trackdir {
	if b == 0 {
		return InvalidTrackdir
	}
	return Trackdir(bits.TrailingZeros16(uint16(b)))
}

// Slice returns the trackdirs in ascending order
func (b TrackdirBits) Slice() []Trackdir {
	trackdirs := make([]Trackdir, 0, b.Count())
	for rest := b; rest != 0; rest &= rest - 1 {
		trackdirs = append(trackdirs, rest.First())
	}
	return trackdirs
}

func (b TrackdirBits) String() string {
	names := make([]string, 0, b.Count())
	for _, td := range b.Slice() {
		names = append(names, td.String())
	}
	return strings.Join(names, "+")
}

func ParseTrackdirBits(s string) (TrackdirBits, error) {
	var b TrackdirBits
	if s == "" || s == "-" {
		return b, nil
	}
	for _, name := range strings.Split(s, "+") {
		td, err := ParseTrackdir(name)
		if err != nil {
			return 0, err
		}
		b |= td.Bit()
	}
	return b, nil
}

var trackdirsEnteredBy [DiagDirEnd]TrackdirBits

func init() {
	for td := Trackdir(0); td < TrackdirEnd; td++ {
		trackdirsEnteredBy[td.EnterDir()] |= td.Bit()
	}
}

// TrackdirsEnteredBy returns the trackdirs a vehicle may take after entering a tile moving in direction d
func TrackdirsEnteredBy(d DiagDirection) TrackdirBits { return trackdirsEnteredBy[d] }
