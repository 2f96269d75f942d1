package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BrandonDHaskell/Portunus/policyd/internal/grpcapi"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/httpapi"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/router"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/policyd/internal/portunus/store/yamlfile"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC reader endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), g)
		},
	}
}

func runServe(ctx context.Context, g *globalFlags) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	st, err := openStack(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.commissionKnown(ctx); err != nil {
		return fmt.Errorf("commission readers: %w", err)
	}

	// Services
	rt := router.New(st.processor, logger.With("component", "router"))
	rt.AddListener(router.NewLogObserver(logger.With("component", "decisions")))
	audit := service.NewAuditObserver(st.events, logger, nil)
	rt.AddListener(audit)

	registry := service.NewReaderRegistry(st.readers, st.processor, nil)
	accessSvc := service.NewAccessService(registry, rt, nil, logger)
	accessSvc.SetRefusedObserver(audit)
	readerSvc := service.NewReaderService(st.heartbeats, registry, rt, nil, logger)
	reloadSvc := service.NewReloadService(st.reloader, logger)

	pruner := service.NewEventPruner(st.events, st.heartbeats, service.PrunerConfig{
		RetentionDays: cfg.EventRetentionDays,
		IntervalHours: cfg.PruneIntervalHours,
	}, logger)

	httpSrv := httpapi.NewServer(httpapi.Dependencies{
		Logger:        logger.With("component", "http"),
		Addr:          cfg.HTTPAddr,
		AccessService: accessSvc,
		ReaderService: readerSvc,
		ReloadService: reloadSvc,
		Policy:        st.processor,
	})

	var grpcLis net.Listener
	if cfg.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if grpcLis != nil {
		grpcSrv := grpcapi.NewServer(grpcapi.Dependencies{
			Logger:        logger.With("component", "grpc"),
			AccessService: accessSvc,
			ReaderService: readerSvc,
		})
		eg.Go(func() error {
			logger.Info("grpc listening", "addr", cfg.GRPCAddr)
			return grpcSrv.Serve(grpcLis)
		})
		eg.Go(func() error {
			<-ctx.Done()
			grpcSrv.GracefulStop()
			return nil
		})
	}

	if st.policyFile != nil {
		w := yamlfile.NewWatcher(st.policyFile.Path(), func(ctx context.Context) error {
			return reloadSvc.Reload(ctx, "file")
		}, logger.With("component", "watcher"))
		eg.Go(func() error { return w.Run(ctx) })
	}

	if cfg.ReloadInterval > 0 {
		eg.Go(func() error {
			reloadSvc.RunEvery(ctx, cfg.ReloadInterval)
			return nil
		})
	}

	if cfg.ReaderSilence > 0 {
		eg.Go(func() error {
			expireSilentReaders(ctx, readerSvc, cfg.ReaderSilence)
			return nil
		})
	}

	pruner.Start(ctx)
	defer pruner.Stop()

	return eg.Wait()
}

// expireSilentReaders marks remote readers inactive once they miss
// heartbeats for longer than silence.
func expireSilentReaders(ctx context.Context, readers *service.ReaderService, silence time.Duration) {
	if silence <= 0 {
		return
	}
	ticker := time.NewTicker(max(silence/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			readers.ExpireSilent(silence)
		}
	}
}
