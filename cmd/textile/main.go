package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cllg-project/TexTile-Backend/api"
	"github.com/cllg-project/TexTile-Backend/config"
	"github.com/cllg-project/TexTile-Backend/internal/engine"
)

const maxRequestBytes = 1 << 20 // 1 MiB

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to the YAML configuration file")
	)

	flag.Parse()

	if *help {
		fmt.Printf("TexTile Backend - search and DTS-style retrieval over TEI manuscript corpora\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start with defaults and TEXTILE_* env overrides\n", os.Args[0])
		fmt.Printf("  %s --config textile.yml     # Start from a configuration file\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("TexTile Backend v1.0.0\n")
		return
	}

	// A .env file is optional; env overrides apply either way.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Failed to load .env file: %v", err)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Using data directory: %s", settings.DataDir)
	backend, err := engine.NewEngine(settings)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer backend.Close()

	router := gin.Default()
	router.Use(api.CORSMiddleware(settings.AllowedOrigins))
	router.Use(api.RequestSizeLimitMiddleware(maxRequestBytes))

	api.SetupRoutes(router, backend)

	log.Printf("Starting server on port %s...", settings.Port)
	if err := router.Run(":" + settings.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
