package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/graysonrie/vevtor/v1/indexable"
	"github.com/graysonrie/vevtor/v1/ingest"
	"github.com/graysonrie/vevtor/v1/ingest/kafka"
	"github.com/graysonrie/vevtor/v1/ingest/minio"
	"github.com/graysonrie/vevtor/v1/ingest/postgres"
	"github.com/graysonrie/vevtor/v1/ingest/rabbit"
	"github.com/graysonrie/vevtor/v1/metrics"
	"github.com/graysonrie/vevtor/v1/observability"
	"github.com/graysonrie/vevtor/v1/service"
	"github.com/graysonrie/vevtor/v1/worker"
	"github.com/spf13/cobra"
)

func newConsumeCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Index documents from a broker, a bucket or a database",
		Long: `Consume reads JSON documents from Kafka or RabbitMQ until interrupted,
or reads every JSON-lines object under a MinIO prefix or every row of a
PostgreSQL query once. A message body, an object line and a row all have
the shape of an "index" input line.

When metrics.address is configured, Prometheus metrics are served there
while consuming.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "kafka",
			Short: "Consume the topic configured under kafka",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), load, func(a *app) error {
					return runConsume(cmd.Context(), a, consumeKafka)
				})
			},
		},
		&cobra.Command{
			Use:   "rabbit",
			Short: "Consume the queue configured under rabbit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), load, func(a *app) error {
					return runConsume(cmd.Context(), a, consumeRabbit)
				})
			},
		},
		&cobra.Command{
			Use:   "minio",
			Short: "Read the objects configured under minio once",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), load, func(a *app) error {
					return runConsume(cmd.Context(), a, consumeMinio)
				})
			},
		},
		&cobra.Command{
			Use:   "postgres",
			Short: "Read the rows of the query configured under postgres once",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd.Context(), load, func(a *app) error {
					return runConsume(cmd.Context(), a, consumePostgres)
				})
			},
		},
	)
	return cmd
}

type docSender = ingest.Sender[indexable.Tagged[Document]]

// consumer runs a broker source until ctx ends.
type consumer func(ctx context.Context, a *app, sender docSender, observer observability.Observer) error

func runConsume(ctx context.Context, a *app, run consumer) error {
	var observer observability.Observer
	if a.cfg.Metrics.Address != "" {
		m := metrics.NewMetrics(a.cfg.Metrics)
		a.svc.WithObserver(m)
		observer = m

		go func() {
			a.log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{"address": m.Server.Addr})
			if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("Metrics server stopped", err)
			}
		}()
		defer m.Server.Close()
	}

	// The worker outlives ctx so the final flush is not cancelled.
	w, err := service.SpawnIndexWorker[indexable.Tagged[Document]](context.WithoutCancel(ctx), a.svc, a.cfg.Worker)
	if err != nil {
		return err
	}
	w.WithName("consume")

	runErr := run(ctx, a, w.Producer(), observer)
	closeErr := w.Close(context.WithoutCancel(ctx))

	stats := w.Stats()
	a.log.Info("Consumer stopped", runErr, map[string]interface{}{
		"batches": stats.Batches,
		"items":   stats.Items,
		"failed":  stats.Failed,
	})
	return errors.Join(runErr, closeErr)
}

func consumeKafka(ctx context.Context, a *app, sender docSender, observer observability.Observer) error {
	reader, err := kafka.NewReader(a.cfg.Kafka)
	if err != nil {
		return err
	}
	src := kafka.NewSource(reader, sender, ingest.TaggedJSON[Document]()).
		WithLogger(a.log).
		WithObserver(observer)
	defer src.Close()
	return src.Run(ctx)
}

func consumeRabbit(ctx context.Context, a *app, sender docSender, observer observability.Observer) error {
	conn, ch, err := rabbit.Dial(a.cfg.Rabbit)
	if err != nil {
		return err
	}
	defer conn.Close()

	src := rabbit.NewSource(ch, a.cfg.Rabbit.Queue, sender, ingest.TaggedJSON[Document]()).
		WithLogger(a.log).
		WithObserver(observer)
	return src.Run(ctx)
}

func consumeMinio(ctx context.Context, a *app, sender docSender, observer observability.Observer) error {
	bucket, err := minio.NewClient(ctx, a.cfg.Minio)
	if err != nil {
		return err
	}
	sum, err := minio.NewSource(bucket, a.cfg.Minio, sender, ingest.TaggedJSON[Document]()).
		WithLogger(a.log).
		WithObserver(observer).
		Run(ctx)
	logSummary(a, "minio", sum)
	return err
}

func consumePostgres(ctx context.Context, a *app, sender docSender, observer observability.Observer) error {
	db, err := postgres.Open(ctx, a.cfg.Postgres.Connection)
	if err != nil {
		return err
	}
	defer db.Close()

	sum, err := postgres.NewSource(db, a.cfg.Postgres, sender, ingest.TaggedJSON[Document]()).
		WithLogger(a.log).
		WithObserver(observer).
		Run(ctx)
	logSummary(a, "postgres", sum)
	return err
}

func logSummary(a *app, source string, sum ingest.Summary) {
	a.log.Info("Source exhausted", nil, map[string]interface{}{
		"source":  source,
		"read":    sum.Read,
		"sent":    sum.Sent,
		"skipped": sum.Skipped,
	})
}

var _ docSender = (*worker.Producer[indexable.Tagged[Document]])(nil)
