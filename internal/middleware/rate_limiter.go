package middleware

import (
	"net/http"
	"sync"
	"time"

	"gescoop/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Sliding-window request counters per client IP. The login limiter is
// stricter than the general one since till credentials are a brute-force
// target.

type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	loginMap   = make(map[string]*rateEntry)
	loginMapMu sync.Mutex

	apiRateMap   = make(map[string]*rateEntry)
	apiRateMapMu sync.Mutex
)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limitWith(&loginMapMu, loginMap, 20, time.Minute,
		"Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter returns the general-purpose limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limitWith(&apiRateMapMu, apiRateMap, limit, window,
		"Demasiadas solicitudes. Intente nuevamente en un momento.")
}

func limitWith(mu *sync.Mutex, entries map[string]*rateEntry, limit int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		entry, exists := entries[ip]
		if !exists {
			entry = &rateEntry{}
			entries[ip] = entry
		}
		mu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// Expired IPs are purged periodically so the maps don't grow without bound.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := purgeMap(&loginMapMu, loginMap, now) + purgeMap(&apiRateMapMu, apiRateMap, now)
		if purged > 0 {
			log.Debug().Int("entries_purged", purged).Msg("rate limiter maps purged")
		}
	}
}

func purgeMap(mu *sync.Mutex, entries map[string]*rateEntry, now time.Time) int {
	mu.Lock()
	defer mu.Unlock()
	purged := 0
	for ip, entry := range entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(entries, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}
