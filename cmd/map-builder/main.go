package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/natevvv/yapf-routing/internal/pbf"
	"github.com/natevvv/yapf-routing/pkg/road"
)

var flagInputFile = flag.String("f", "extract.osm.pbf", "OSM extract (.osm.pbf, .osm or .xml)")
var flagOutputFile = flag.String("o", "map.txt", "scenario file to write")
var flagGeoJSONFile = flag.String("geojson", "", "also write the merged roads as GeoJSON")
var flagWidth = flag.Int("width", 256, "map width in tiles")
var flagHeight = flag.Int("height", 256, "map height in tiles")

func main() {
	flag.Parse()

	start := time.Now()

	roadImporter := pbf.NewRoadImporter(*flagInputFile)
	if err := roadImporter.Import(); err != nil {
		log.Fatal(err)
	}

	elapsed := time.Since(start)
	fmt.Printf("[TIME-Import] = %s\n", elapsed)
	fmt.Printf("Imported roads: %d, missing nodes: %d\n", len(roadImporter.Roads()), roadImporter.MissingNodes())

	start = time.Now()

	merger := road.NewMerger(roadImporter.Roads())
	merger.Merge()

	elapsed = time.Since(start)
	fmt.Printf("[TIME-Merge] = %s\n", elapsed)
	fmt.Printf("Road segments: %d\n", len(merger.Roads()))
	fmt.Printf("Merges: %d\n", merger.MergeCount())
	fmt.Printf("Unmergable segments: %d\n", merger.UnmergableRoadCount())

	if *flagGeoJSONFile != "" {
		if err := pbf.ExportRoadGeoJSON(merger.Roads(), *flagGeoJSONFile); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Exported roads to %s\n", *flagGeoJSONFile)
	}

	start = time.Now()

	rasterizer, err := pbf.ExportScenario(merger.Roads(), *flagWidth, *flagHeight, *flagOutputFile)
	if err != nil {
		log.Fatal(err)
	}

	elapsed = time.Since(start)
	fmt.Printf("[TIME-Rasterize] = %s\n", elapsed)
	fmt.Printf("Tile links: %d, skipped segments: %d, road coverage: %.2f%%\n", rasterizer.Links(), rasterizer.Skipped(), rasterizer.Coverage()*100)
	fmt.Printf("Exported map to %s\n", *flagOutputFile)
}
