// Command cronjob runs a single background job once and exits. Useful for
// manual reruns and for environments that schedule jobs externally.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"campuslink-backend/internal/config"
	"campuslink-backend/internal/jobs"
	"campuslink-backend/internal/logger"
	"campuslink-backend/internal/push"
	"campuslink-backend/internal/repository/postgres"
	"campuslink-backend/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "path to config file")
	jobName := flag.String("job", "", "job to run: dispatch_outbox, expire_resubmissions, cleanup_orphan_uploads")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := postgres.NewStore(db)

	var backend storage.StorageInterface
	if cfg.Storage.Type == "minio" {
		backend, err = storage.NewMinIOStorageService(cfg.Storage)
	} else {
		backend, err = storage.NewLocalStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
	}
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	pusher := push.NewNoopSender()
	if cfg.Firebase.Enabled && cfg.Firebase.CredentialsFile != "" {
		if s, err := push.NewFCMSender(context.Background(), cfg.Firebase.CredentialsFile); err == nil {
			pusher = s
		} else {
			logger.Error("Failed to initialize push sender, continuing without push", "error", err)
		}
	}

	dispatcher := jobs.NewOutboxDispatcher(store, pusher,
		int32(cfg.Scheduler.OutboxBatchSize), int32(cfg.Scheduler.OutboxMaxDeliveryRetries))
	maintenance := jobs.NewMaintenanceJobs(store, backend)

	var job jobs.Job
	switch *jobName {
	case "dispatch_outbox":
		job = dispatcher.Dispatch
	case "expire_resubmissions":
		job = maintenance.ExpireResubmissionWindows
	case "cleanup_orphan_uploads":
		job = maintenance.CleanupOrphanUploads
	default:
		fmt.Fprintf(os.Stderr, "unknown job: %q\n", *jobName)
		os.Exit(2)
	}

	jobs.NewJobRunner(10 * time.Minute).Run(*jobName, job)
}
