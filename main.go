package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/BrawlerYura/BlogAPIBack/internal/address"
	"github.com/BrawlerYura/BlogAPIBack/internal/comments"
	"github.com/BrawlerYura/BlogAPIBack/internal/config"
	"github.com/BrawlerYura/BlogAPIBack/internal/identity"
	"github.com/BrawlerYura/BlogAPIBack/internal/likes"
	"github.com/BrawlerYura/BlogAPIBack/internal/membership"
	"github.com/BrawlerYura/BlogAPIBack/internal/obs"
	"github.com/BrawlerYura/BlogAPIBack/internal/posts"
	"github.com/BrawlerYura/BlogAPIBack/internal/store"
)

const version = "1.0.0"

func main() {
	logger := logrus.New()
	logger.Formatter = &logrus.JSONFormatter{}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Error("invalid configuration")
		os.Exit(1)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("server has been stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.App, logger *logrus.Logger) error {
	shutdownTracer, err := obs.InitTracer(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.WithError(err).Warn("tracer shutdown")
		}
	}()

	st, err := store.Open(ctx, cfg.DBDriver, cfg.PostgresConn)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	tokens := identity.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTLifetime())
	svc := newServices(st, identity.NewService(st, tokens, cfg.BcryptCost, logger), logger)
	s := NewServer(cfg.ServerAddress, cfg.ShutdownTimeout, logger, svc)
	sweeper := identity.NewSweeper(st, cfg.TokenSweepInterval, logger.WithField("task", "token-sweep"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Start(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })
	return g.Wait()
}

func newServices(st *store.Store, id *identity.Service, logger logrus.FieldLogger) Services {
	members := membership.NewResolver(st, logger)
	addresses := address.Unavailable{}
	return Services{
		Identity:  id,
		Members:   members,
		Posts:     posts.NewEngine(st, members, addresses, logger),
		Likes:     likes.NewLedger(st, members, logger),
		Comments:  comments.NewTree(st, members, logger),
		Addresses: addresses,
	}
}
