package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/config"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/db"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/engine"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/sqlite"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/yamlfile"
)

// stack is the storage and policy layer shared by the commands. The
// database always backs readers, heartbeats and the audit log; policy
// comes from the database or a YAML file.
type stack struct {
	cfg    config.Config
	logger *slog.Logger

	db     *sql.DB
	writer *db.Worker

	readers    *sqlite.ReaderStore
	heartbeats *sqlite.HeartbeatStore
	events     *sqlite.AccessEventStore

	policyFile *yamlfile.Loader // nil unless policy_source is yaml
	processor  *engine.Processor
	reloader   service.Reloader
}

func openStack(ctx context.Context, cfg config.Config, logger *slog.Logger) (*stack, error) {
	sqlDB, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	writer := db.NewWorker(sqlDB)

	s := &stack{
		cfg:        cfg,
		logger:     logger,
		db:         sqlDB,
		writer:     writer,
		readers:    sqlite.NewReaderStore(sqlDB, writer),
		heartbeats: sqlite.NewHeartbeatStore(sqlDB, writer),
		events:     sqlite.NewAccessEventStore(sqlDB, writer),
	}

	var loader engine.Loader
	switch cfg.PolicySource {
	case config.PolicySourceYAML:
		s.policyFile, err = yamlfile.Open(cfg.PolicyFile, time.Now)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("load policy file: %w", err)
		}
		loader = s.policyFile
	default:
		loader = sqlite.NewPolicyLoader(sqlDB, time.Now)
	}

	s.processor, err = engine.New(ctx, loader,
		engine.WithLocation(cfg.TimeZone()),
		engine.WithLogger(logger.With("component", "engine")))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("build policy snapshot: %w", err)
	}

	s.reloader = s.processor
	if s.policyFile != nil {
		s.reloader = yamlfile.NewRefresher(s.policyFile, s.processor)
	}

	logger.Info("policy loaded",
		"source", cfg.PolicySource,
		"version", s.processor.Snapshot().Version(),
		"badges", s.processor.Snapshot().Stats().Badges)
	return s, nil
}

// commissionKnown enables every configured reader id in the database.
func (s *stack) commissionKnown(ctx context.Context) error {
	now := time.Now()
	for _, id := range s.cfg.KnownReaders {
		known, err := s.readers.IsKnown(ctx, id)
		if err != nil {
			return err
		}
		if known {
			continue
		}
		if err := s.readers.Commission(ctx, id, "", now); err != nil {
			return err
		}
		s.logger.Info("reader commissioned from config", "reader_id", id)
	}
	return nil
}

func (s *stack) Close() {
	s.writer.Close()
	if err := s.db.Close(); err != nil {
		s.logger.Warn("close db", "error", err)
	}
}
