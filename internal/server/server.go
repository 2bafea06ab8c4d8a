package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/auth"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/file"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
)

// Server owns the http server and everything that must be released with it
type Server struct {
	*http.Server

	db        *database.DBinstanceStruct
	storage   *file.CloudStorageClient
	blacklist *auth.InMemoryBlacklistStore
	scheduler *cron.Cron
}

// NewServer construct new Server instance from cfg
func NewServer(cfg config.ServerConfig) (*Server, error) {
	auth.SetLogging(cfg.Logging)
	if cfg.SecretKey != "" {
		auth.SetSecretKey(cfg.SecretKey)
	}

	db, err := database.GetMainDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("database failed to initialize: %w", err)
	}
	s := &Server{db: db}

	var storage file.StorageClient
	if cfg.GCSBucket != "" {
		s.storage, err = file.NewCloudStorageClient(context.Background(), cfg.GCSBucket)
		if err != nil {
			s.Release()
			return nil, err
		}
		storage = s.storage
		log.Printf("Storing uploads in bucket %s", cfg.GCSBucket)
	} else {
		log.Println("GCS_BUCKET not set, storing uploads in the database")
	}

	s.scheduler, err = StartJobExpiry(db, cfg.JobExpirySchedule)
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("invalid JOB_EXPIRY_SCHEDULE %q: %w", cfg.JobExpirySchedule, err)
	}

	s.blacklist = auth.NewInMemoryBlacklistStore(10 * time.Minute)
	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(db, cfg, storage, s.blacklist),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s, nil
}

// Release stops the scheduler and releases storage and database connections
func (s *Server) Release() {
	if s.scheduler != nil {
		<-s.scheduler.Stop().Done()
	}
	if s.blacklist != nil {
		s.blacklist.Close()
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			log.Printf("failed to close storage client: %v", err)
		}
	}
	if err := s.db.Close(); err != nil {
		log.Printf("failed to close database: %v", err)
	}
}
