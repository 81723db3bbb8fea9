package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Oloap008/Trello-Clone/internal/config"
	"github.com/Oloap008/Trello-Clone/internal/handler"
	"github.com/Oloap008/Trello-Clone/internal/kvstore"
	"github.com/Oloap008/Trello-Clone/internal/middleware"
	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/queue"
	"github.com/Oloap008/Trello-Clone/internal/repository"
	"github.com/Oloap008/Trello-Clone/internal/router"
	"github.com/Oloap008/Trello-Clone/internal/service"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Info("redis unavailable, using in-process rate limiting and token revocation")
	} else {
		defer rdb.Close()
	}

	backend, err := kvstore.Open(ctx, kvstore.Config{
		Backend: cfg.Storage.Backend,
		Dir:     cfg.Storage.Dir,
		DSN:     cfg.Storage.DSN,
		Prefix:  cfg.Storage.Prefix,
	}, rdb)
	if err != nil {
		log.Error("open storage", "backend", cfg.Storage.Backend, "err", err)
		os.Exit(1)
	}
	defer backend.Close()

	store, err := repository.Open(ctx, kvstore.NewValue[model.Document](backend, repository.DocumentKey, log), repository.Options{Logger: log})
	if err != nil {
		log.Error("load document", "backend", cfg.Storage.Backend, "err", err)
		os.Exit(1)
	}
	auth := service.NewAuth(store, nil, service.AuthOptions{Latency: cfg.Auth.Latency, BcryptCost: cfg.Auth.BcryptCost})

	bus := queue.NewBus()
	activity := service.Sinks{bus}
	if cfg.Queue.URL != "" {
		pub := queue.NewPublisher(cfg.Queue.URL, cfg.Queue.Name, cfg.Queue.Buffer, log)
		go pub.Run(ctx)
		activity = append(activity, pub)

		if cfg.Queue.LogDir != "" {
			c := &queue.Consumer{URL: cfg.Queue.URL, Queue: cfg.Queue.Name, Handle: queue.FileLogger(cfg.Queue.LogDir), Log: log}
			go c.Run(ctx)
		}
	}

	var tokens repository.TokenRepo = repository.NewMemoryTokenRepo()
	if rdb != nil {
		tokens = repository.NewRedisTokenRepo(rdb, cfg.Storage.Prefix)
	}

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Store:      store,
		Auth:       handler.NewAuthHandler(cfg.Auth, auth, store, tokens),
		Boards:     handler.NewBoardHandler(store, activity, bus, log),
		Workspaces: handler.NewWorkspaceHandler(store, service.NewWorkspaces(store, log)),
		Data:       handler.NewDataHandler(store),
		Bus:        bus,
		JWTSecret:  cfg.Auth.JWTSecret,
		Revoked:    tokens,
		Admins:     cfg.Auth.Admins,
		RateLimit:  middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.Error("shutdown", "err", err)
	}
}
