package main

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	assethandler "github.com/cgartco6/asset-engine/internal/api/handlers/asset"
	taskhandler "github.com/cgartco6/asset-engine/internal/api/handlers/task"
	"github.com/cgartco6/asset-engine/internal/api/router"
	"github.com/cgartco6/asset-engine/internal/api/server"
	"github.com/cgartco6/asset-engine/internal/archive"
	"github.com/cgartco6/asset-engine/internal/campaign"
	"github.com/cgartco6/asset-engine/internal/config"
	"github.com/cgartco6/asset-engine/internal/dispatcher"
	"github.com/cgartco6/asset-engine/internal/envelope"
	"github.com/cgartco6/asset-engine/internal/generator"
	"github.com/cgartco6/asset-engine/internal/infra/kafka/consumer"
	"github.com/cgartco6/asset-engine/internal/infra/kafka/producer"
	taskmsg "github.com/cgartco6/asset-engine/internal/kafka/handlers/task"
	"github.com/cgartco6/asset-engine/internal/messenger"
	"github.com/cgartco6/asset-engine/internal/queue"
	assetrepo "github.com/cgartco6/asset-engine/internal/repository/asset"
	"github.com/cgartco6/asset-engine/internal/service/engine"
	"github.com/cgartco6/asset-engine/internal/storage/file"
	"github.com/cgartco6/asset-engine/internal/store/asset"
	"github.com/cgartco6/asset-engine/internal/textgen"
	"github.com/cgartco6/asset-engine/internal/worker"
)

func main() {
	// Context & signals: used for graceful shutdown on system interrupts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize logger and load application configuration.
	zlog.Init()
	cfg := config.MustLoad("./config/config.yml")

	if cfg.Security.EncryptionKey == "" {
		zlog.Logger.Fatal().Msg("encryption key is not set")
	}

	codec, err := envelope.NewCodec([]byte(cfg.Security.EncryptionKey))
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to initialize envelope codec")
	}

	// Retry strategy for Kafka and other external calls.
	strategy := retry.Strategy{
		Attempts: cfg.Retry.Attempts,
		Delay:    cfg.Retry.Delay,
		Backoff:  cfg.Retry.Backoff,
	}

	// Core engine state: task queue, asset store, campaign tables.
	q := queue.New()
	store := asset.New()
	tables := campaign.NewTables()

	// Text completion client with its deterministic offline fallback.
	textClient := textgen.NewClient(textgen.Options{
		APIKey:  cfg.Text.APIKey,
		BaseURL: cfg.Text.BaseURL,
		Model:   cfg.Text.Model,
	})

	// Generation capabilities for every supported asset type.
	registry := generator.Default(
		generator.NewText(textClient),
		generator.NewImage(cfg.Engine.FontPath),
		generator.NewVideo(cfg.Engine.FontPath),
		generator.NewAudio(),
	)

	// Outbound transport: Kafka when enabled, otherwise log-only delivery.
	var transport messenger.Transport = messenger.LogTransport{}
	var p *producer.Producer
	if cfg.Kafka.Enabled {
		p = producer.New(&cfg.Kafka, strategy)
		transport = p
	}
	m := messenger.New(codec, transport, cfg.Security.Origin)

	d := dispatcher.New(codec, registry, store, m, tables, textClient)

	// Worker loop with its periodic maintenance jobs.
	w := worker.New(q, d, cfg.Engine.PollInterval)
	w.AddJob("heartbeat", cfg.Engine.HeartbeatInterval, func(_ context.Context) {
		zlog.Logger.Info().
			Int("queue_depth", q.Len()).
			Int("assets", store.Len()).
			Msg("engine heartbeat")
	})
	w.AddJob("template_refresh", cfg.Engine.TemplateRefresh, func(_ context.Context) {
		tables.Reload()
	})

	// Optional archival backend: MinIO for content, PostgreSQL for metadata.
	var db *dbpg.DB
	var repo *assetrepo.Repository
	var storage *file.Storage
	if cfg.Storage.Enabled {
		storage, err = file.NewStorage(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.BucketName, cfg.Storage.UseSSL)
		if err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to connect to storage")
		}

		var arch *archive.Archiver
		if cfg.Database.Enabled {
			opts := &dbpg.Options{
				MaxOpenConns:    cfg.Database.MaxOpenConns,
				MaxIdleConns:    cfg.Database.MaxIdleConns,
				ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			}

			// Collect slave DSNs for replica connections.
			slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
			for _, s := range cfg.Database.Slaves {
				slaveDSNs = append(slaveDSNs, s.DSN())
			}

			db, err = dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
			if err != nil {
				zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
			}

			repo = assetrepo.NewRepository(db)
			arch = archive.New(store, storage, repo)
		} else {
			arch = archive.New(store, storage, nil)
		}

		w.AddJob("archive_sweep", cfg.Engine.ArchiveInterval, arch.Sweep)
	}

	if err := w.Start(ctx); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to start worker")
	}

	// Submission and query surface shared by HTTP and Kafka ingress.
	var service *engine.Service
	if repo != nil && storage != nil {
		service = engine.NewService(q, store, repo, storage)
	} else {
		service = engine.NewService(q, store, nil, nil)
	}

	// Kafka consumer for inbound task submissions.
	var wg sync.WaitGroup
	var c *consumer.Consumer
	if cfg.Kafka.Enabled {
		submitHandler := taskmsg.NewSubmitHandler(service)
		c = consumer.New(&cfg.Kafka, strategy, submitHandler)

		wg.Add(1)
		go c.Consume(ctx, &wg)
	}

	// Start HTTP server in a separate goroutine.
	r := router.Setup(taskhandler.NewHandler(service), assethandler.NewHandler(service))
	s := server.New(cfg.Server.HTTPPort, r)
	go func() {
		if err := s.ListenAndServe(); err != nil {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Block until context is canceled (SIGINT/SIGTERM).
	<-ctx.Done()
	zlog.Logger.Info().Msg("context done")

	// Wait for Kafka consumer goroutine to finish.
	wg.Wait()

	// Stop the worker, letting the current task finish.
	if err := w.Stop(cfg.Engine.ShutdownTimeout); err != nil {
		zlog.Logger.Error().Err(err).Msg("worker did not drain in time")
	}

	// Graceful shutdown with timeout for HTTP server.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// Close master and slave databases.
	if db != nil {
		if err := db.Master.Close(); err != nil {
			zlog.Logger.Printf("failed to close master DB: %v", err)
		}
		for i, slave := range db.Slaves {
			if err := slave.Close(); err != nil {
				zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
			}
		}
	}

	// Close Kafka producer and consumer clients.
	if p != nil {
		if err := p.Client.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close kafka producer client")
		}
	}
	if c != nil {
		if err := c.Client.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to close kafka consumer client")
		}
	}
}
