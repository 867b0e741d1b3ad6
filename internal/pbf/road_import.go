package pbf

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/natevvv/yapf-routing/pkg/road"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"github.com/qedus/osmpbf"
)

// RoadImporter reads the road and tram ways of an OSM extract.
// Files ending in .pbf are read with two passes, .osm and .xml files with one.
type RoadImporter struct {
	filename string
	roads    []*road.Segment
	nodes    map[int64]orb.Point
	missing  int
}

func NewRoadImporter(filename string) *RoadImporter {
	return &RoadImporter{
		filename: filename,
		roads:    make([]*road.Segment, 0),
		nodes:    make(map[int64]orb.Point),
	}
}

func (ri *RoadImporter) Import() error {
	if filepath.Ext(ri.filename) != ".pbf" {
		file, err := os.Open(ri.filename)
		if err != nil {
			return errors.Wrap(err, "open extract")
		}
		defer file.Close()
		return ri.ImportXML(context.Background(), file)
	}

	if err := ri.collectNodes(); err != nil {
		return err
	}
	file, err := os.Open(ri.filename)
	if err != nil {
		return errors.Wrap(err, "open extract")
	}
	defer file.Close()

	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return errors.Wrap(err, "start decoder")
	}

	var wg sync.WaitGroup
	roadsChan := make(chan *road.Segment, 1000)

	// collect the segments while decoding
	wg.Add(1)
	go func() {
		defer wg.Done()
		for segment := range roadsChan {
			ri.roads = append(ri.roads, segment)
		}
	}()

	var decodeErr error
	for {
		v, err := decoder.Decode()
		if err != nil {
			if err != io.EOF {
				decodeErr = errors.Wrap(err, "decode way")
			}
			break
		}
		if way, ok := v.(*osmpbf.Way); ok {
			if segment := ri.newSegment(way.ID, way.Tags, way.NodeIDs); segment != nil {
				roadsChan <- segment
			}
		}
	}
	close(roadsChan)
	wg.Wait()
	return decodeErr
}

// ImportXML reads an OSM XML document, nodes have to come before the ways using them
func (ri *RoadImporter) ImportXML(ctx context.Context, r io.Reader) error {
	scanner := osmxml.New(ctx, r)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			ri.nodes[int64(o.ID)] = orb.Point{o.Lon, o.Lat}
		case *osm.Way:
			nodeIDs := make([]int64, 0, len(o.Nodes))
			for _, n := range o.Nodes {
				nodeIDs = append(nodeIDs, int64(n.ID))
			}
			if segment := ri.newSegment(int64(o.ID), o.Tags.Map(), nodeIDs); segment != nil {
				ri.roads = append(ri.roads, segment)
			}
		}
	}
	return errors.Wrap(scanner.Err(), "scan xml")
}

// newSegment returns nil for ways which are no roads
func (ri *RoadImporter) newSegment(id int64, tags map[string]string, nodeIDs []int64) *road.Segment {
	segment := road.NewSegment(id, tags)
	if segment.Type == road.Unknown {
		return nil
	}
	for _, nodeID := range nodeIDs {
		if point, ok := ri.nodes[nodeID]; ok {
			segment.Line = append(segment.Line, point)
		} else {
			ri.missing++
		}
	}
	if len(segment.Line) == 0 {
		return nil
	}
	return segment
}

func (ri *RoadImporter) Roads() []*road.Segment {
	return ri.roads
}

// MissingNodes returns how many way nodes were not found in the extract
func (ri *RoadImporter) MissingNodes() int {
	return ri.missing
}

func (ri *RoadImporter) collectNodes() error {
	file, err := os.Open(ri.filename)
	if err != nil {
		return errors.Wrap(err, "open extract")
	}
	defer file.Close()

	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return errors.Wrap(err, "start decoder")
	}

	for {
		v, err := decoder.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "decode node")
		}
		if node, ok := v.(*osmpbf.Node); ok {
			ri.nodes[node.ID] = orb.Point{node.Lon, node.Lat}
		}
	}
}
