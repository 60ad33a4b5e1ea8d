package command

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/token-dispenser/pkg/api"
	"github.com/huynhanx03/token-dispenser/pkg/database/redis"
	"github.com/huynhanx03/token-dispenser/pkg/dispenser"
	"github.com/huynhanx03/token-dispenser/pkg/display"
	"github.com/huynhanx03/token-dispenser/pkg/events"
	"github.com/huynhanx03/token-dispenser/pkg/logger"
	"github.com/huynhanx03/token-dispenser/pkg/metrics"
	"github.com/huynhanx03/token-dispenser/pkg/mq/batcher"
	"github.com/huynhanx03/token-dispenser/pkg/settings"
	"github.com/huynhanx03/token-dispenser/pkg/utils"
)

// Serve runs the HTTP API with the optional Redis board and Kafka feed.
type Serve struct {
	ConfigPath *string
}

func (cmd Serve) Command(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the token dispenser HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := settings.Load(*cmd.ConfigPath)
			if err != nil {
				return err
			}
			return cmd.main(ctx, cfg)
		},
	}
}

func (cmd Serve) main(ctx context.Context, cfg *settings.Config) error {
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return errors.Wrap(err, "serve: build logger")
	}
	defer func() { _ = log.Sync() }()

	d := dispenser.New(cfg.Dispenser, dispenser.WithLogger(log.Named("dispenser")))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(reg, d)
	if err != nil {
		return err
	}
	d.Subscribe(collector)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Redis.Enabled() {
		engine, err := redis.NewConnection(&cfg.Redis)
		if err != nil {
			return err
		}
		defer engine.Close()

		board := display.NewBoard(engine)
		if err := board.Reset(ctx); err != nil {
			return errors.Wrap(err, "serve: reset display board")
		}
		d.Subscribe(board)
		log.Info("display board enabled", zap.String("redis", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)))
	}

	if cfg.Kafka.Enabled() {
		producer, err := events.NewSyncProducer(cfg.Kafka)
		if err != nil {
			return err
		}
		sink := events.NewKafkaSink(producer, cfg.Kafka.Topic, log.Named("kafka"))
		defer func() { _ = sink.Close() }()

		b := batcher.New[events.Message](sink, batcher.Config{
			Size:     cfg.Kafka.ConsumerBatchSize,
			Interval: utils.ToDurationMs(cfg.Kafka.FlushFrequency),
		}, log.Named("batcher"))
		publisher := events.NewPublisher(b)
		d.Subscribe(publisher)
		g.Go(func() error { return publisher.Run(ctx) })
		log.Info("event feed enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	srv := api.New(cfg.Server.Mode, log.Named("http"))
	srv.SetupRoutes(api.NewTokenHandler(d), reg)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	g.Go(func() error {
		return srv.Serve(ctx, address, utils.ToDuration(cfg.Server.ShutdownTimeout))
	})

	log.Info("dispenser ready", zap.Int("capacity", d.Capacity()))
	return g.Wait()
}
