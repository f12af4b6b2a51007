package app

import (
	"context"
	"log"
	"time"

	"hmda-lens/cache"
)

// CacheSweeper periodically evicts fetch cache entries older than the TTL
type CacheSweeper struct {
	store    *cache.Store
	ttl      time.Duration
	interval time.Duration
	done     chan bool
}

// NewCacheSweeper creates a new cache sweeper
func NewCacheSweeper(store *cache.Store, ttl, interval time.Duration) *CacheSweeper {
	return &CacheSweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		done:     make(chan bool),
	}
}

// Start begins the sweep loop
func (cs *CacheSweeper) Start() {
	log.Printf("🧹 Cache Sweeper started (TTL %v, every %v)", cs.ttl, cs.interval)

	ticker := time.NewTicker(cs.interval)
	defer ticker.Stop()

	// Initial run
	cs.sweep()

	for {
		select {
		case <-ticker.C:
			cs.sweep()
		case <-cs.done:
			log.Println("🧹 Cache Sweeper stopped")
			return
		}
	}
}

// Stop stops the sweep loop
func (cs *CacheSweeper) Stop() {
	cs.done <- true
}

// sweep evicts entries fetched before the TTL cutoff
func (cs *CacheSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := cs.store.Sweep(ctx, time.Now().UTC().Add(-cs.ttl))
	if err != nil {
		log.Printf("⚠️  Cache sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🧹 Swept %d stale cache entries", n)
	}
}
