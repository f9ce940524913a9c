// cmd/server/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mikelezc/proyecto-sherpa/internal/config"
	"github.com/mikelezc/proyecto-sherpa/internal/database"
	"github.com/mikelezc/proyecto-sherpa/internal/repository"
	"github.com/mikelezc/proyecto-sherpa/internal/service"
	"github.com/mikelezc/proyecto-sherpa/pkg/notify"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Connect to database
	db, err := database.Connect(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	// Initialize notification dispatcher
	var dispatcher notify.Dispatcher
	if cfg.NATS.Enabled {
		dispatcher, err = notify.NewNATSDispatcher(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		log.Println("✅ Connected to NATS")
	} else {
		log.Println("Notifications disabled, using mock dispatcher")
		dispatcher = notify.NewMockDispatcher()
	}
	defer func() {
		if err := dispatcher.Close(); err != nil {
			log.Printf("Failed to close dispatcher: %v", err)
		}
	}()

	// Initialize repository and services
	var opts []repository.Option
	if cfg.Database.DisableFullText {
		opts = append(opts, repository.WithoutFullText())
	}
	repo := repository.New(db, logger, opts...)

	maintenance := service.NewMaintenanceService(repo, dispatcher, logger, cfg.Maintenance.ArchiveRetention)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catch up the search index before the periodic jobs start.
	if _, err := maintenance.Reindex(ctx, false); err != nil {
		log.Printf("Initial reindex failed: %v", err)
	}

	go runMaintenanceJobs(ctx, maintenance, cfg.Maintenance)

	log.Println("🚀 Task engine running, press Ctrl+C to stop")
	<-ctx.Done()

	log.Println("📴 Shutting down...")
	log.Println("✅ Shutdown complete")
}

// runMaintenanceJobs drives the periodic jobs: the overdue sweep, the
// archived task cleanup and the incremental reindex.
func runMaintenanceJobs(ctx context.Context, maintenance *service.MaintenanceService, cfg config.MaintenanceConfig) {
	sweep := time.NewTicker(cfg.OverdueSweepInterval)
	cleanup := time.NewTicker(cfg.ArchiveCleanupInterval)
	reindex := time.NewTicker(cfg.ReindexInterval)
	defer sweep.Stop()
	defer cleanup.Stop()
	defer reindex.Stop()

	log.Printf("🧹 Maintenance jobs started (sweep every %v, cleanup every %v, reindex every %v)",
		cfg.OverdueSweepInterval, cfg.ArchiveCleanupInterval, cfg.ReindexInterval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			if _, err := maintenance.SweepOverdue(ctx); err != nil {
				log.Printf("Overdue sweep failed: %v", err)
			}
		case <-cleanup.C:
			if _, err := maintenance.CleanupArchived(ctx); err != nil {
				log.Printf("Archive cleanup failed: %v", err)
			}
		case <-reindex.C:
			if _, err := maintenance.Reindex(ctx, false); err != nil {
				log.Printf("Incremental reindex failed: %v", err)
			}
		}
	}
}
