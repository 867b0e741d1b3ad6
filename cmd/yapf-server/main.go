package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/natevvv/yapf-routing/pkg/routing"
	server "github.com/natevvv/yapf-routing/pkg/server/openapi_server"
	"github.com/natevvv/yapf-routing/pkg/world"
	"github.com/natevvv/yapf-routing/pkg/yapf"
)

func main() {
	scenarioFile := flag.String("scenario", "map.txt", "scenario with map, stations and vehicles")
	settingsFile := flag.String("settings", "", "YAML file with pathfinder settings")
	address := flag.String("address", ":8081", "address to listen on")
	debugLevel := flag.Int("debug", 0, "debug level of the pathfinder")
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

	elapsed := time.Since(start)
	fmt.Printf("[TIME-Import] = %s\n", elapsed)
	fmt.Printf("Map %vx%v, %v stations, %v vehicles\n", m.Grid().Width, m.Grid().Height, len(m.Stations()), len(m.Vehicles()))

	router := routing.NewRouter(m, settings)
	router.SetDebugLevel(*debugLevel)
	server.SetDebugRequests(*debugLevel > 0)

	DefaultApiService := server.NewDefaultApiService(router)
	DefaultApiController := server.NewDefaultApiController(DefaultApiService)

	fmt.Printf("Listening on %s\n", *address)
	log.Fatal(http.ListenAndServe(*address, server.NewRouter(DefaultApiController)))
}
