package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rosterhq/roster/internal/ops"
	rosteroutbox "github.com/rosterhq/roster/modules/roster/infrastructure/outbox"
	"github.com/rosterhq/roster/modules/roster/infrastructure/persistence"
	"github.com/rosterhq/roster/modules/roster/services"
	"github.com/rosterhq/roster/pkg/composables"
	"github.com/rosterhq/roster/pkg/configuration"
	"github.com/rosterhq/roster/pkg/eventbus"
	"github.com/rosterhq/roster/pkg/outbox"
	eventbusdispatcher "github.com/rosterhq/roster/pkg/outbox/dispatchers/eventbus"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lifecycle engine with its ops endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	return cmd
}

func serve(ctx context.Context) error {
	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	pool, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	bus := eventbus.NewEventPublisher(logger)

	service := services.NewRosterService(
		persistence.NewPersonnelRepository(),
		persistence.NewCatalogRepository(),
		persistence.NewHistoryRepository(),
		persistence.NewBlacklistRepository(),
		services.NewPgTxManager(),
		outbox.NewPublisher(),
		bus,
		logrus.NewEntry(logger),
		services.Options{
			BlacklistThresholdDays: conf.Roster.BlacklistThresholdDays,
			ManualBlacklistDays:    conf.Roster.ManualBlacklistDays,
			PolicyRetryAttempts:    conf.Roster.PolicyRetryAttempts,
			PolicyRetryMaxBackoff:  conf.Roster.PolicyRetryMaxBackoff,
			StoreRetryAttempts:     conf.Roster.StoreRetryAttempts,
			StoreRetryMaxBackoff:   conf.Roster.StoreRetryMaxBackoff,
		},
	)

	subscribeCollaborators(bus, logger)

	appCtx := composables.WithPool(ctx, pool)
	if conf.Roster.CachePreloadEnabled {
		n, err := service.PreloadCache(appCtx)
		if err != nil {
			// The cache is advisory; the store stays authoritative.
			logger.WithError(err).Error("summary cache preload failed")
		} else {
			logger.WithField("entries", n).Info("summary cache preloaded")
		}
	}

	startOutboxBackground(conf, pool, logger, bus)

	outboxTable := ""
	if tables, err := outbox.ParseIdentifierList(conf.Outbox.RelayTables); err == nil && len(tables) > 0 {
		outboxTable = tables[0].Sanitize()
	}
	router := ops.NewRouter(pool, outboxTable, logrus.NewEntry(logger))
	server := &http.Server{
		Addr:              conf.SocketAddress,
		Handler:           router.Handler(conf.Prometheus.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", conf.SocketAddress).Info("ops server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// subscribeCollaborators registers the post-commit collaborators: the
// audit notifier and the identity sync consumer.
func subscribeCollaborators(bus eventbus.EventBus, logger *logrus.Logger) {
	auditLog := logger.WithField("component", "roster.audit_notify")
	bus.Subscribe(func(n services.AuditNotification) {
		auditLog.WithFields(logrus.Fields{
			"action":       n.Action,
			"discord_id":   n.Summary.DiscordID,
			"performed_by": n.PerformedBy,
			"changed":      len(n.Changes),
		}).Info("audit notification")
	})

	syncer := rosteroutbox.NewLoggingNameSyncer(logrus.NewEntry(logger))
	handler := rosteroutbox.NewIdentitySyncHandler(syncer, logrus.NewEntry(logger))
	bus.Subscribe(handler.Handler())
}

func startOutboxBackground(
	conf *configuration.Configuration,
	pool *pgxpool.Pool,
	logger *logrus.Logger,
	bus eventbus.EventBus,
) {
	outboxLog := logger.WithField("component", "outbox")

	relayTables, err := outbox.ParseIdentifierList(conf.Outbox.RelayTables)
	if err != nil {
		outboxLog.WithError(err).Warn("outbox: invalid OUTBOX_RELAY_TABLES; relay disabled")
		relayTables = nil
	}

	if conf.Outbox.RelayEnabled && len(relayTables) > 0 {
		eb, ok := bus.(eventbus.EventBusWithError)
		if !ok {
			outboxLog.Warn("outbox: eventbus does not support PublishE; relay not started")
		} else {
			dispatcher := eventbusdispatcher.New(eb)
			for _, table := range relayTables {
				relay, err := outbox.NewRelay(pool, table, dispatcher, outbox.RelayOptions{
					PollInterval:    conf.Outbox.RelayPollInterval,
					BatchSize:       conf.Outbox.RelayBatchSize,
					LockTTL:         conf.Outbox.RelayLockTTL,
					MaxAttempts:     conf.Outbox.RelayMaxAttempts,
					SingleActive:    conf.Outbox.RelaySingleActive,
					LastErrorMaxLen: conf.Outbox.LastErrorMaxBytes,
					DispatchTimeout: conf.Outbox.RelayDispatchTimeout,
					Logger:          outboxLog.WithField("table", outbox.TableLabel(table)),
				})
				if err != nil {
					outboxLog.WithError(err).Warn("outbox: failed to create relay")
					continue
				}
				go func(r *outbox.Relay) {
					if err := r.Run(context.Background()); err != nil {
						outboxLog.WithError(err).Error("outbox: relay stopped")
					}
				}(relay)
			}
		}
	}

	if conf.Outbox.CleanerEnabled && len(relayTables) > 0 {
		for _, table := range relayTables {
			cleaner, err := outbox.NewCleaner(pool, table, outbox.CleanerOptions{
				Enabled:               true,
				Interval:              conf.Outbox.CleanerInterval,
				Retention:             conf.Outbox.CleanerRetention,
				DeadRetention:         conf.Outbox.CleanerDeadRetention,
				DeadAttemptsThreshold: conf.Outbox.RelayMaxAttempts,
				Logger:                outboxLog.WithField("table", outbox.TableLabel(table)),
			})
			if err != nil {
				outboxLog.WithError(err).Warn("outbox: failed to create cleaner")
				continue
			}
			go func(c *outbox.Cleaner) {
				if err := c.Run(context.Background()); err != nil {
					outboxLog.WithError(err).Error("outbox: cleaner stopped")
				}
			}(cleaner)
		}
	}
}
