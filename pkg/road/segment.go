package road

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

type RoadType int

const (
	Unknown RoadType = iota
	Motorway
	Trunk
	Primary
	Secondary
	Tertiary
	Residential
	Tramway
)

var roadTypeNames = []string{"unknown", "motorway", "trunk", "primary", "secondary", "tertiary", "residential", "tramway"}

func (r RoadType) String() string { return roadTypeNames[r] }

// ParseRoadType maps the highway (or railway=tram) tag of an OSM way
func ParseRoadType(highway, railway string) RoadType {
	if railway == "tram" {
		return Tramway
	}
	switch highway {
	case "motorway", "motorway_link":
		return Motorway
	case "trunk", "trunk_link":
		return Trunk
	case "primary", "primary_link":
		return Primary
	case "secondary", "secondary_link":
		return Secondary
	case "tertiary", "tertiary_link":
		return Tertiary
	case "residential", "unclassified", "living_street":
		return Residential
	default:
		return Unknown
	}
}

// Segment is a road way, possibly made of several merged OSM ways
type Segment struct {
	ID       int64
	Type     RoadType
	Line     orb.LineString // lon/lat
	Tags     map[string]string
	OneWay   bool
	MaxSpeed int // km/h, 0 if unknown
}

func NewSegment(id int64, tags map[string]string) *Segment {
	return &Segment{
		ID:       id,
		Type:     ParseRoadType(tags["highway"], tags["railway"]),
		Tags:     tags,
		OneWay:   tags["oneway"] == "yes" || tags["oneway"] == "1",
		MaxSpeed: ParseMaxSpeed(tags["maxspeed"]),
		Line:     make(orb.LineString, 0),
	}
}

// ParseMaxSpeed reads a maxspeed tag like "50" or "30 mph" in km/h
func ParseMaxSpeed(value string) int {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0
	}
	speed, err := strconv.Atoi(fields[0])
	if err != nil || speed < 0 {
		return 0
	}
	if len(fields) > 1 && fields[1] == "mph" {
		speed = speed * 1609 / 1000
	}
	return speed
}

func (s *Segment) IsTram() bool { return s.Type == Tramway }

func (s *Segment) Start() orb.Point { return s.Line[0] }
func (s *Segment) End() orb.Point   { return s.Line[len(s.Line)-1] }

func (s *Segment) Bound() orb.Bound { return s.Line.Bound() }

// Length in meters
func (s *Segment) Length() float64 {
	length := 0.0
	for i := 1; i < len(s.Line); i++ {
		length += geo.Distance(s.Line[i-1], s.Line[i])
	}
	return length
}

// BoundOf returns the bounding box of all segments
func BoundOf(segments []*Segment) orb.Bound {
	var bound orb.Bound
	first := true
	for _, s := range segments {
		if len(s.Line) == 0 {
			continue
		}
		if first {
			bound = s.Bound()
			first = false
			continue
		}
		bound = bound.Union(s.Bound())
	}
	return bound
}
