package tile

import (
	"strings"

	"github.com/pkg/errors"
)

// DiagDirection is one of the four directions crossing a tile edge
type DiagDirection uint8

const (
	DiagDirNE DiagDirection = iota // x-1
	DiagDirSE                      // y+1
	DiagDirSW                      // x+1
	DiagDirNW                      // y-1
	DiagDirEnd

	InvalidDiagDir DiagDirection = 0xFF
)

type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

var diagDirNames = [DiagDirEnd]string{"NE", "SE", "SW", "NW"}

var diagDirOffsets = [DiagDirEnd][2]int{
	{-1, 0},
	{0, 1},
	{1, 0},
	{0, -1},
}

func (d DiagDirection) IsValid() bool { return d < DiagDirEnd }

func (d DiagDirection) Reverse() DiagDirection { return (d + 2) % DiagDirEnd }

func (d DiagDirection) Axis() Axis {
	if d == DiagDirNE || d == DiagDirSW {
		return AxisX
	}
	return AxisY
}

// Offset returns the coordinate step when leaving a tile in this direction
func (d DiagDirection) Offset() (dx, dy int) {
	o := diagDirOffsets[d]
	return o[0], o[1]
}

func (d DiagDirection) String() string {
	if !d.IsValid() {
		return "invalid"
	}
	return diagDirNames[d]
}

func ParseDiagDirection(s string) (DiagDirection, error) {
	for i, name := range diagDirNames {
		if strings.EqualFold(name, s) {
			return DiagDirection(i), nil
		}
	}
	return InvalidDiagDir, errors.Errorf("unknown direction %q", s)
}

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	}
	return AxisX, errors.Errorf("unknown axis %q", s)
}
