package web

import (
	"context"
	"net/http"
	"time"

	"roster/internal/adapters/events"
	"roster/internal/adapters/http/middleware"
	"roster/internal/adapters/http/perf"
	activityStore "roster/internal/adapters/storage/activity"
	participantStore "roster/internal/adapters/storage/participant"
	studentStore "roster/internal/adapters/storage/student"
)

// Stores holds all storage dependencies.
type Stores struct {
	StudentStore     studentStore.Store
	ActivityStore    activityStore.Store
	ParticipantStore participantStore.Store
}

// Options configures the middleware chain and side effects of the API.
type Options struct {
	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	AllowedOrigins []string
	RateLimit      int // requests per second per IP; <= 0 selects RateLimitPerSecond
	SlowRequestMs  int
	Publisher      events.Publisher // optional
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global event publisher (set by NewMux, may be nil)
var publisher events.Publisher

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond is the default per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the roster API.
// ctx bounds background work owned by the middleware.
func NewMux(ctx context.Context, s *Stores, collector *perf.Collector, opts Options) http.Handler {
	stores = s
	perfCollector = collector
	publisher = opts.Publisher

	mux := http.NewServeMux()
	registerRoutes(mux)

	rate := opts.RateLimit
	if rate <= 0 {
		rate = RateLimitPerSecond
	}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	// Request flow: RequestID -> SecurityHeaders -> RateLimit -> CORS -> CSRF -> Timing -> Mux
	return middleware.Chain(mux,
		middleware.Timing(collector, opts.SlowRequestMs),
		middleware.CSRF(opts.CSRFKey, opts.SecureCookies, opts.AllowedOrigins),
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
		middleware.RequestID,
	)
}
