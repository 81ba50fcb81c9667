// Package server wires the FreePanel backend together: configuration,
// storage, the panel client, the provisioning workflow, the gRPC command
// surface and the metrics endpoint. It also handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/freepanel/internal/logging"
	"github.com/dmitrijs2005/freepanel/internal/panel"
	"github.com/dmitrijs2005/freepanel/internal/server/config"
	"github.com/dmitrijs2005/freepanel/internal/server/metrics"
	"github.com/dmitrijs2005/freepanel/internal/server/orphans"
	"github.com/dmitrijs2005/freepanel/internal/server/provisioning"
	"github.com/dmitrijs2005/freepanel/internal/server/store"

	gs "github.com/dmitrijs2005/freepanel/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *store.Store
	metrics *metrics.Recorder
	service *provisioning.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel))

	st, err := store.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	recorder := metrics.New()

	opts := c.PanelOptions()
	opts.Observer = recorder
	api, err := panel.New(opts)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("panel client init error: %w", err)
	}

	reporter, err := orphanReporter(ctx, c, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	svc := provisioning.NewService(st, api, c.ProvisioningSettings(),
		provisioning.WithLogger(logger),
		provisioning.WithRecorder(recorder),
		provisioning.WithOrphanReporter(reporter),
	)

	return &App{config: c, logger: logger, store: st, metrics: recorder, service: svc}, nil
}

// orphanReporter always logs orphans and also uploads them when a bucket
// is configured.
func orphanReporter(ctx context.Context, c *config.Config, logger logging.Logger) (orphans.Reporter, error) {
	reporters := orphans.Multi{orphans.NewLogReporter(logger.With("module", "orphans"))}

	if s3cfg, ok := c.S3Config(); ok {
		r, err := orphans.NewS3Reporter(ctx, s3cfg)
		if err != nil {
			return nil, fmt.Errorf("orphan bucket init error: %w", err)
		}
		reporters = append(reporters, r)
	}
	return reporters, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.service,
		app.config.PanelLink, app.config.SecretKey, app.config.CommandCooldown)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {

	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger.With("module", "metrics")); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails,
// then closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
