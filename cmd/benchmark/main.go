package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/natevvv/yapf-routing/pkg/routing"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/natevvv/yapf-routing/pkg/yapf"
)

func main() {
	scenarioFile := flag.String("scenario", "map.txt", "scenario with map, stations and vehicles")
	settingsFile := flag.String("settings", "", "YAML file with pathfinder settings")
	ticks := flag.Int("n", 100, "How many ticks should be simulated")
	cpuProfile := flag.String("cpu", "", "write cpu profile to file")
	debugLevel := flag.Int("debug", 0, "debug level of the pathfinder")
	// search budget options
	maxSearchNodes := flag.Int("max-search-nodes", -1, "override the node budget of a search")
	cacheSegments := flag.Int("cache-segments", -1, "override the number of cached choices")
	flag.Parse()

	start := time.Now()

	m, err := world.ReadFile(*scenarioFile)
	if err != nil {
		log.Fatal(err)
	}
	settings := yapf.DefaultSettings()
	if *settingsFile != "" {
		if settings, err = yapf.LoadSettings(*settingsFile); err != nil {
			log.Fatal(err)
		}
	}
	if *maxSearchNodes >= 0 {
		settings.MaxSearchNodes = *maxSearchNodes
	}
	if *cacheSegments >= 0 {
		settings.PathCacheSegments = *cacheSegments
	}

	elapsed := time.Since(start)
	fmt.Printf("[TIME-Import] = %s\n", elapsed)

	router := routing.NewRouter(m, settings)
	router.SetDebugLevel(*debugLevel)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	benchmark(router, *ticks)
}

// Run the given number of ticks and show the search statistics
func benchmark(router *routing.Router, ticks int) {
	var runtime time.Duration = 0
	completed := 0

	showResults := func() {
		if completed == 0 {
			fmt.Println("No tick completed")
			return
		}
		stats := router.Stats()
		searches := stats.Searches
		if searches == 0 {
			searches = 1
		}
		fmt.Printf("Average tick runtime: %.3fms\n", float64(int(runtime.Nanoseconds())/completed)/1000000)
		fmt.Printf("Moves: %d, decisions: %d, cache hits: %d\n", stats.Moves, stats.Decisions, stats.CacheHits)
		fmt.Printf("Arrivals: %d, lost: %d, stuck: %d\n", stats.Arrivals, stats.Lost, stats.Stuck)
		fmt.Printf("Searches: %d\n", stats.Searches)
		fmt.Printf("Average pq pops: %d\n", stats.KPIs.PqPops()/searches)
		fmt.Printf("Average pq updates: %d\n", stats.KPIs.PqUpdates()/searches)
		fmt.Printf("Average created nodes: %d\n", stats.KPIs.CreatedNodes()/searches)
		fmt.Printf("Average closed nodes: %d\n", stats.KPIs.ClosedNodes()/searches)
		fmt.Printf("Average priced tiles: %d\n", stats.KPIs.SearchedTiles()/searches)
		fmt.Printf("Cost ceiling hits: %d, segment limit hits: %d, loops: %d\n", stats.KPIs.CostCeilingHits(), stats.KPIs.SegmentLimitHits(), stats.KPIs.Loops())
		fmt.Printf("Heuristic violations: %d\n", stats.KPIs.HeuristicViolations())
	}

	// catch interrupt to still show already calculated results
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		showResults()
		os.Exit(0)
	}()

	for i := 0; i < ticks; i++ {
		before := router.Stats()
		start := time.Now()
		decisions := router.Step()
		elapsed := time.Since(start)
		after := router.Stats()

		fmt.Printf("[%3v TIME-Tick, decisions, searches, closed nodes] = %12s, %5d, %5d, %7d\n", i, elapsed, len(decisions), after.Searches-before.Searches, after.KPIs.ClosedNodes()-before.KPIs.ClosedNodes())

		runtime += elapsed
		completed++
	}
	// normal termination, show results
	showResults()
}
