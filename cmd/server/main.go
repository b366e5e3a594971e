package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wordchain/backend/internal/broker"
	"github.com/wordchain/backend/internal/config"
	"github.com/wordchain/backend/internal/httpapi"
	"github.com/wordchain/backend/internal/hub"
	"github.com/wordchain/backend/internal/identity"
	"github.com/wordchain/backend/internal/store"
	"github.com/wordchain/backend/internal/timer"
)

func main() {
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var snapshots store.SnapshotStore
	if cfg.DatabaseDSN != "" {
		pg, err := store.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("open snapshot store", zap.Error(err))
		}
		snapshots = pg
	} else {
		log.Warn("DATABASE_DSN not set, snapshots are in-memory only")
		snapshots = store.NewMemory()
	}

	h := hub.New(ctx, hub.Deps{
		Store:     snapshots,
		Broker:    broker.New(),
		Scheduler: timer.NewInProcess(),
		Rules:     cfg.Rules,
		Log:       log,
	})

	handler := httpapi.SetupRoutes(h, identity.Header{}, log)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
