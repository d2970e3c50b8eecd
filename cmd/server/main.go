package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roster/internal/adapters/events"
	web "roster/internal/adapters/http"
	"roster/internal/adapters/http/perf"
	"roster/internal/adapters/storage"
	activityStore "roster/internal/adapters/storage/activity"
	participantStore "roster/internal/adapters/storage/participant"
	studentStore "roster/internal/adapters/storage/student"
	"roster/internal/application/orchestrators"
	"roster/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.GeneratedCSRFKey {
		log.Println("WARNING: using random CSRF key. Set ROSTER_CSRF_KEY for production.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// WAL mode, foreign keys and busy timeout are set in the DSN
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	stores := &web.Stores{
		StudentStore:     studentStore.NewSQLiteStore(timedDB),
		ActivityStore:    activityStore.NewSQLiteStore(timedDB),
		ParticipantStore: participantStore.NewSQLiteStore(timedDB),
	}

	// Sample roster for development only
	if !cfg.Production() {
		seedDeps := orchestrators.SeedRosterDeps{
			StudentStore:  stores.StudentStore,
			ActivityStore: stores.ActivityStore,
		}
		if err := orchestrators.ExecuteSeedRoster(ctx, seedDeps); err != nil {
			log.Fatalf("failed to seed roster: %v", err)
		}
	}

	var publisher events.Publisher = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to NATS: %v", err)
		}
		publisher = natsPub
		log.Printf("Publishing save events to %s", cfg.NATSURL)
	}
	defer publisher.Close()

	handler := web.NewMux(ctx, stores, collector, web.Options{
		CSRFKey:        cfg.CSRFKey,
		SecureCookies:  cfg.Production(),
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		SlowRequestMs:  cfg.SlowRequestMs,
		Publisher:      publisher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Roster %s starting on %s (env=%s, schema=%d)", version, cfg.Addr, cfg.Env, storage.LatestSchemaVersion())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
