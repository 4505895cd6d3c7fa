package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/gramdex/gramdex/api"
	"github.com/gramdex/gramdex/config"
	"github.com/gramdex/gramdex/internal/engine"
)

func main() {
	var (
		version    = flag.Bool("version", false, "Show version information")
		port       = flag.Int("port", 0, "Port to run the server on (overrides config file)")
		configPath = flag.String("config", "", "Path to a YAML config file")
	)
	flag.Parse()

	if *version {
		fmt.Printf("gramdex %s\n", api.Version)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config %s: %v", *configPath, err)
		}
		cfg = loaded
	}
	if *port > 0 {
		cfg.Port = *port
	}

	searchEngine := engine.NewEngine()

	router := gin.Default()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
	api.SetupRoutes(router, searchEngine)

	log.Printf("Starting server on port %d...", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
