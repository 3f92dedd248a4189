package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/cart-checkout/internal/cart/application"
	"github.com/dmehra2102/cart-checkout/internal/cart/infrastructure/api"
	cartkafka "github.com/dmehra2102/cart-checkout/internal/cart/infrastructure/kafka"
	"github.com/dmehra2102/cart-checkout/pkg/credentials"
	"github.com/dmehra2102/cart-checkout/pkg/outbox"
	"github.com/dmehra2102/cart-checkout/pkg/tracing"
)

const serviceName = "cart-page"

// app holds the wired page and everything that must be closed with it.
type app struct {
	log    *slog.Logger
	store  *application.Store
	rdb    *redis.Client
	relay  *outbox.Relay
	writer *cartkafka.Writer
	tp     tracing.Provider
}

func newApp(ctx context.Context, cfg config, log *slog.Logger) (*app, error) {
	a := &app{log: log}

	tp, err := tracing.Init(ctx, serviceName, cfg.OTLPEndpoint, log)
	if err != nil {
		return nil, err
	}
	a.tp = tp

	client, err := api.NewClient(log, cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	if cfg.RedisAddr != "" {
		a.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	var creds application.Credentials = credentials.Static(cfg.Token)
	if cfg.Token == "" && a.rdb != nil {
		creds = credentials.NewRedis(a.rdb, cfg.TokenKey)
	}

	var opts []application.Option
	if cfg.KafkaAddr != "" {
		events := outbox.NewMemoryStore(log, 1024, 5)
		a.writer = cartkafka.NewWriter(strings.Split(cfg.KafkaAddr, ","))
		dispatch := outbox.NewDispatcher(log, a.writer, cfg.EventsTopic)
		a.relay = outbox.NewRelay(log, events, dispatch, serviceName+"-relay")
		opts = append(opts, application.WithPublisher(cartkafka.NewPublisher(log, events, uuid.NewString())))
	}

	a.store = application.NewStore(log, client, creds, application.NewFixedTokenValidator(cfg.PromoToken), opts...)
	return a, nil
}

// startRelay ships page events in the background. stop flushes what is
// queued and waits for the relay to exit.
func (a *app) startRelay(ctx context.Context) (stop func()) {
	if a.relay == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.relay.Run(ctx); err != nil {
			a.log.Error("relay stopped with error", "err", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (a *app) close(ctx context.Context) {
	if a.writer != nil {
		_ = a.writer.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.tp != nil {
		_ = a.tp.Shutdown(ctx)
	}
}
