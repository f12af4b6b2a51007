package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"hmda-lens/api"
	"hmda-lens/cache"
	"hmda-lens/census"
	"hmda-lens/config"
	"hmda-lens/fetch"
)

// App represents the main application
type App struct {
	config  *config.Config
	tracts  *census.Data
	msa     *census.MSAIndex
	store   *cache.Store
	fetcher *fetch.Client
	sweeper *CacheSweeper
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start starts the application
func (a *App) Start() error {
	// 1. Load census reference data
	fmt.Println("🗺️  Loading census reference data...")
	tracts, err := census.Load(a.config.Census.Files, a.config.Census.DefaultYear)
	if err != nil {
		return fmt.Errorf("census load failed: %w", err)
	}
	a.tracts = tracts
	if stats := tracts.Stats(); stats.TractCount == 0 {
		fmt.Println("⚠️  No census files configured. Tract lookups disabled.")
	} else {
		log.Printf("✅ Census data loaded (%d tracts, years %v)", stats.TractCount, stats.Years)
		if stats.Duplicates > 0 {
			log.Printf("⚠️  Census flat files carried %d duplicate tract rows", stats.Duplicates)
		}
	}

	// 2. Load MSA lookup table
	msa, err := census.LoadMSAIndex(a.config.Census.MSAFile)
	if err != nil {
		return fmt.Errorf("MSA lookup table load failed: %w", err)
	}
	a.msa = msa
	if msa.Len() > 0 {
		log.Printf("✅ MSA lookup table loaded (%d entries)", msa.Len())
	}

	// 3. Open fetch cache
	fmt.Println("🗄️  Opening fetch cache...")
	if dir := filepath.Dir(a.config.Cache.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cache directory creation failed: %w", err)
		}
	}
	store, err := cache.Open(a.config.Cache.Path)
	if err != nil {
		return fmt.Errorf("cache open failed: %w", err)
	}
	a.store = store
	log.Printf("✅ Fetch cache ready at %s", a.config.Cache.Path)

	// 4. Create data browser client
	a.fetcher = fetch.NewClient(a.config.DataBrowserURL, a.config.FetchTimeout(), store)

	// 5. Start cache sweeper
	a.sweeper = NewCacheSweeper(store, a.config.CacheTTL(), a.config.SweepInterval())
	go a.sweeper.Start()

	// 6. Start API server
	apiServer := api.NewServer(a.fetcher, a.tracts, a.msa, a.store)
	apiServer.SetDefaultStates(a.config.DefaultStates)
	apiServer.SetLoanDefaults(a.config.Loan.InterestRate, a.config.Loan.TermYears)

	go func() {
		if err := apiServer.Start(a.config.Port); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 7. Wait for interrupt and perform graceful shutdown
	return a.gracefulShutdown()
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown() error {
	// Setup signal handling
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	// Wait for interrupt signal
	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown tasks with timeout
	shutdownComplete := make(chan struct{})
	go func() {
		if a.sweeper != nil {
			fmt.Println("🧹 Stopping cache sweeper...")
			a.sweeper.Stop()
		}

		if a.store != nil {
			if err := a.store.Close(); err != nil {
				log.Printf("Error closing cache store: %v", err)
			} else {
				fmt.Println("✅ Fetch cache closed")
			}
		}

		close(shutdownComplete)
	}()

	// Wait for shutdown to complete or timeout
	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}
