package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axion-health/axion-api/internal/agent"
	"github.com/axion-health/axion-api/internal/api"
	"github.com/axion-health/axion-api/internal/config"
	"github.com/axion-health/axion-api/internal/core"
	"github.com/axion-health/axion-api/internal/llm"
	"github.com/axion-health/axion-api/internal/research"
	"github.com/axion-health/axion-api/internal/store"
	"github.com/axion-health/axion-api/internal/tools"
	"github.com/axion-health/axion-api/internal/vector"
	"github.com/axion-health/axion-api/internal/wearable"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for seeding demo data
	seedUserFlag := flag.String("seed-user", "", "Sync 30 days of wearable data for the given external user ID and exit")
	flag.Parse()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Vector index lives in the same database file
	index, err := vector.NewSQLiteIndex(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize vector index: %v", err)
	}
	defer index.Close()

	// Initialize LLM service with the tool schemas the agent exposes
	llmService := llm.NewGeminiService(agent.ToolDeclarations())
	defer llmService.Close()

	// Wearable provider: mock by default, real client when credentials are set
	var provider wearable.Provider
	if config.AppConfig.MockWearable {
		log.Println("Using mock wearable provider")
		provider = wearable.NewMockProvider()
	} else {
		provider = wearable.NewClient(
			config.AppConfig.WearableBaseURL,
			config.AppConfig.WearableClientID,
			config.AppConfig.WearableClientSecret,
		)
	}

	healthService := core.NewHealthDataService(dbStore, provider)

	// Handle demo data seeding if flag is set
	if *seedUserFlag != "" {
		user, err := dbStore.GetUserByExternalID(*seedUserFlag)
		if err != nil {
			log.Fatalf("Failed to look up user %s: %v", *seedUserFlag, err)
		}
		if user == nil {
			log.Fatalf("User %s not found, sign up first", *seedUserFlag)
		}
		report, err := healthService.Sync(context.Background(), user.ID)
		if err != nil {
			log.Fatalf("Data seeding failed: %v", err)
		}
		log.Printf("Seeding complete. Synced %d/%d biomarkers. Exiting.", report.SyncedCount, report.TotalFetched)
		os.Exit(0)
	}

	// Assemble the tool layer and the agent on top of it
	toolset := &tools.Toolset{
		Metrics:    dbStore,
		Journal:    dbStore,
		Index:      index,
		Embedder:   llmService,
		Researcher: research.NewClient(config.AppConfig.PerplexityAPIKey),
	}
	dispatcher, err := agent.NewDispatcher(toolset)
	if err != nil {
		log.Fatalf("Failed to initialize tool dispatcher: %v", err)
	}
	orchestrator := agent.NewOrchestrator(llmService, dispatcher)

	journalService := core.NewJournalService(dbStore, index, llmService)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(dbStore, healthService, journalService, toolset, orchestrator)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM tool loops can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
