// Package watcher delivers resource lifecycle events for the watched kinds.
//
// It wraps controller-runtime cache informers on ConfigMaps and Secrets and
// translates their callbacks into the reconciler's ResourceEvents. A resync
// period derived from the server watch timeout periodically re-delivers the
// full state, which heals any events missed across watch reconnects.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	toolscache "k8s.io/client-go/tools/cache"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"configmirror/internal/reconciler"
	"configmirror/internal/selector"
	"configmirror/pkg/logging"
)

const eventChannelBuffer = 100

// Options configures a Watcher.
type Options struct {
	// Namespace scopes watching to one namespace; empty watches all.
	Namespace string

	// Kind selects which resource kinds get informers. The selector gates
	// events again downstream; this only avoids watching kinds that can
	// never match.
	Kind selector.ResourceKind

	// ResyncPeriod is how often the informers re-deliver the full state.
	ResyncPeriod time.Duration
}

// Watcher watches ConfigMaps and Secrets and emits ResourceEvents.
type Watcher struct {
	mu sync.RWMutex

	restConfig *rest.Config
	options    Options
	scheme     *runtime.Scheme
	cache      cache.Cache
	events     chan reconciler.ResourceEvent

	ctx        context.Context
	cancelFunc context.CancelFunc
	running    bool

	registrations []toolscache.ResourceEventHandlerRegistration
}

// New creates a Watcher for the given REST configuration.
func New(restConfig *rest.Config, options Options) (*Watcher, error) {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	return &Watcher{
		restConfig:    restConfig,
		options:       options,
		scheme:        scheme,
		events:        make(chan reconciler.ResourceEvent, eventChannelBuffer),
		registrations: make([]toolscache.ResourceEventHandlerRegistration, 0),
	}, nil
}

// Events returns the channel the watcher emits resource events on.
func (w *Watcher) Events() <-chan reconciler.ResourceEvent {
	return w.events
}

// Start creates the cache, registers informer handlers for the desired
// kinds and blocks until the initial listing has synced.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.ctx, w.cancelFunc = context.WithCancel(ctx)
	w.running = true
	w.mu.Unlock()

	cacheOpts := cache.Options{
		Scheme: w.scheme,
	}
	if w.options.ResyncPeriod > 0 {
		resync := w.options.ResyncPeriod
		cacheOpts.SyncPeriod = &resync
	}
	if w.options.Namespace != "" {
		cacheOpts.DefaultNamespaces = map[string]cache.Config{
			w.options.Namespace: {},
		}
	}

	c, err := cache.New(w.restConfig, cacheOpts)
	if err != nil {
		w.fail()
		return fmt.Errorf("failed to create cache: %w", err)
	}

	w.mu.Lock()
	w.cache = c
	w.mu.Unlock()

	if err := w.setupInformers(); err != nil {
		w.fail()
		return fmt.Errorf("failed to setup informers: %w", err)
	}

	go func() {
		if err := w.cache.Start(w.ctx); err != nil {
			logging.Error("Watcher", err, "Cache stopped with error")
		}
	}()

	if !w.cache.WaitForCacheSync(w.ctx) {
		w.fail()
		return fmt.Errorf("failed to sync cache")
	}

	logging.Info("Watcher", "Started watching %s resources in %s",
		w.options.Kind, w.namespaceDisplay())
	return nil
}

func (w *Watcher) fail() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// setupInformers registers event handlers for every desired kind.
func (w *Watcher) setupInformers() error {
	sel := selector.Config{Kind: w.options.Kind}

	if sel.KindDesired(selector.KindConfigMap) {
		if err := w.setupInformerFor(selector.KindConfigMap, &corev1.ConfigMap{}); err != nil {
			return err
		}
	}
	if sel.KindDesired(selector.KindSecret) {
		if err := w.setupInformerFor(selector.KindSecret, &corev1.Secret{}); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) setupInformerFor(kind selector.ResourceKind, obj client.Object) error {
	informer, err := w.cache.GetInformer(w.ctx, obj)
	if err != nil {
		return fmt.Errorf("failed to get informer for %s: %w", kind, err)
	}

	registration, err := informer.AddEventHandler(w.createEventHandler(kind))
	if err != nil {
		return fmt.Errorf("failed to add event handler for %s: %w", kind, err)
	}

	w.mu.Lock()
	w.registrations = append(w.registrations, registration)
	w.mu.Unlock()

	logging.Debug("Watcher", "Setup informer for %s", kind)
	return nil
}

func (w *Watcher) createEventHandler(kind selector.ResourceKind) toolscache.ResourceEventHandler {
	return toolscache.ResourceEventHandlerFuncs{
		AddFunc: func(obj interface{}) {
			w.handle(kind, obj, reconciler.EventCreate)
		},
		UpdateFunc: func(oldObj, newObj interface{}) {
			// A resync re-delivers the object unchanged; real updates
			// bump the resource version.
			eventType := reconciler.EventUpdate
			if resourceVersion(oldObj) == resourceVersion(newObj) {
				eventType = reconciler.EventResume
			}
			w.handle(kind, newObj, eventType)
		},
		DeleteFunc: func(obj interface{}) {
			// Tombstones stand in for objects deleted while the watch
			// was disconnected.
			if deletedState, ok := obj.(toolscache.DeletedFinalStateUnknown); ok {
				obj = deletedState.Obj
			}
			w.handle(kind, obj, reconciler.EventDelete)
		},
	}
}

func (w *Watcher) handle(kind selector.ResourceKind, obj interface{}, eventType reconciler.EventType) {
	event, ok := translate(kind, obj, eventType)
	if !ok {
		logging.Warn("Watcher", "Failed to translate %s event for %s", eventType, kind)
		return
	}
	w.send(event)
}

func (w *Watcher) send(event reconciler.ResourceEvent) {
	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()

	if !running {
		return
	}

	select {
	case w.events <- event:
		logging.Debug("Watcher", "Emitted %s event for %s %s/%s",
			event.Type, event.Kind, event.Namespace, event.Name)
	default:
		// Dropped events are healed by the next resync.
		logging.Warn("Watcher", "Event channel full, dropping %s event for %s %s/%s",
			event.Type, event.Kind, event.Namespace, event.Name)
	}
}

// Snapshot lists the complete current state of the desired kinds from the
// synced cache as resume events, used to converge on-disk content at
// startup before the event stream is consumed asynchronously.
func (w *Watcher) Snapshot(ctx context.Context) ([]reconciler.ResourceEvent, error) {
	w.mu.RLock()
	c := w.cache
	running := w.running
	w.mu.RUnlock()

	if !running || c == nil {
		return nil, fmt.Errorf("watcher not started")
	}

	sel := selector.Config{Kind: w.options.Kind}
	var snapshot []reconciler.ResourceEvent

	if sel.KindDesired(selector.KindConfigMap) {
		var list corev1.ConfigMapList
		if err := c.List(ctx, &list); err != nil {
			return nil, fmt.Errorf("failed to list configmaps: %w", err)
		}
		for i := range list.Items {
			if event, ok := translate(selector.KindConfigMap, &list.Items[i], reconciler.EventResume); ok {
				snapshot = append(snapshot, event)
			}
		}
	}

	if sel.KindDesired(selector.KindSecret) {
		var list corev1.SecretList
		if err := c.List(ctx, &list); err != nil {
			return nil, fmt.Errorf("failed to list secrets: %w", err)
		}
		for i := range list.Items {
			if event, ok := translate(selector.KindSecret, &list.Items[i], reconciler.EventResume); ok {
				snapshot = append(snapshot, event)
			}
		}
	}

	return snapshot, nil
}

// Stop cancels the watcher's context, stopping the cache and informers.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.registrations = nil

	logging.Info("Watcher", "Stopped")
	return nil
}

func (w *Watcher) namespaceDisplay() string {
	if w.options.Namespace == "" {
		return "all namespaces"
	}
	return "namespace " + w.options.Namespace
}

// GetRestConfig resolves the Kubernetes REST config using controller-runtime's
// detection (in-cluster config or kubeconfig).
func GetRestConfig() (*rest.Config, error) {
	return ctrl.GetConfig()
}
