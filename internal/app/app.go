// Package app wires configmirror's components together: configuration
// validation, the file store, the reconciler and the watch collaborator.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/rest"

	"configmirror/internal/config"
	"configmirror/internal/events"
	"configmirror/internal/filestore"
	"configmirror/internal/reconciler"
	"configmirror/internal/watcher"
	"configmirror/pkg/logging"
)

// Application owns the running components of configmirror.
type Application struct {
	cfg        config.Config
	watcher    *watcher.Watcher
	reconciler *reconciler.Reconciler
	manager    *reconciler.Manager
}

// NewApplication validates the configuration, prepares the target directory
// and constructs all components. Fatal misconfiguration is returned as an
// error before any event is consumed; recoverable misconfiguration is
// logged as a warning and the application continues degraded.
func NewApplication(cfg config.Config, restConfig *rest.Config) (*Application, error) {
	warnings, err := cfg.Validate()
	for _, warning := range warnings {
		logging.Warn("Startup", "%s", warning)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := filestore.EnsureDirectory(cfg.Folder); err != nil {
		return nil, err
	}

	if cfg.UniqueFilenames {
		logging.Info("Startup", "Unique filenames will be enforced")
	}
	logging.Info("Startup", "Client watching requests using a timeout of %d seconds", cfg.WatchClientTimeoutSeconds)
	logging.Info("Startup", "Server watching requests using a timeout of %d seconds", cfg.WatchServerTimeoutSeconds)

	restConfig.Timeout = time.Duration(cfg.WatchClientTimeoutSeconds) * time.Second

	store := filestore.NewStore(cfg.Folder, cfg.UniqueFilenames)

	var sink reconciler.EventSink
	if cfg.EventLogging {
		recorder, err := events.NewRecorder(restConfig)
		if err != nil {
			return nil, err
		}
		sink = recorder
	}

	rec := reconciler.New(cfg.SelectorConfig(), store, sink)

	w, err := watcher.New(restConfig, watcher.Options{
		Namespace:    cfg.Namespace,
		Kind:         cfg.SelectorConfig().Kind,
		ResyncPeriod: time.Duration(cfg.WatchServerTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &Application{
		cfg:        cfg,
		watcher:    w,
		reconciler: rec,
		manager:    reconciler.NewManager(rec, cfg.WorkerCount),
	}, nil
}

// Run starts the watcher, converges the initial snapshot and then processes
// the event stream until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	// Converge the full current state before consuming the stream, so
	// files for resources that changed while we were down are healed
	// immediately.
	snapshot, err := a.watcher.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to list initial state: %w", err)
	}
	logging.Info("App", "Converging initial snapshot of %d resources", len(snapshot))
	if err := a.reconciler.ApplySnapshot(ctx, snapshot); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.manager.Run(ctx, a.watcher.Events())
	})

	return g.Wait()
}
