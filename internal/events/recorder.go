// Package events emits cluster-visible lifecycle events for mirrored
// resources when event logging is enabled.
package events

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"configmirror/internal/selector"
	"configmirror/pkg/logging"
	pkgstrings "configmirror/pkg/strings"
)

const component = "configmirror"

// Event reasons attached to emitted events.
const (
	ReasonFilesSynced  = "FilesSynced"
	ReasonFilesRemoved = "FilesRemoved"
)

// Recorder creates Kubernetes Events against the mirrored resources. It
// implements the reconciler's EventSink. Emission is best-effort: failures
// are logged, never propagated, so a broken events API cannot stall
// reconciliation.
type Recorder struct {
	client client.Client
}

// NewRecorder creates a Recorder using the given REST configuration.
func NewRecorder(restConfig *rest.Config) (*Recorder, error) {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))

	c, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create events client: %w", err)
	}

	return &Recorder{client: c}, nil
}

// RecordSynced emits an event noting that the resource's files were written.
func (r *Recorder) RecordSynced(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName) {
	r.record(ctx, kind, id, ReasonFilesSynced,
		fmt.Sprintf("Mirrored %s %s/%s to the local filesystem", apiKind(kind), id.Namespace, id.Name))
}

// RecordRemoved emits an event noting that the resource's files were removed.
func (r *Recorder) RecordRemoved(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName) {
	r.record(ctx, kind, id, ReasonFilesRemoved,
		fmt.Sprintf("Removed local files for %s %s/%s", apiKind(kind), id.Namespace, id.Name))
}

func (r *Recorder) record(ctx context.Context, kind selector.ResourceKind, id types.NamespacedName, reason, message string) {
	now := metav1.NewTime(time.Now())

	event := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: id.Name + "-",
			Namespace:    id.Namespace,
		},
		InvolvedObject: corev1.ObjectReference{
			APIVersion: "v1",
			Kind:       apiKind(kind),
			Name:       id.Name,
			Namespace:  id.Namespace,
		},
		Reason:         reason,
		Message:        pkgstrings.TruncateMessage(message, pkgstrings.MaxEventMessageLen),
		Type:           corev1.EventTypeNormal,
		Source:         corev1.EventSource{Component: component},
		FirstTimestamp: now,
		LastTimestamp:  now,
		Count:          1,
	}

	if err := r.client.Create(ctx, event); err != nil {
		logging.Error("EventRecorder", err, "Failed to create event %s for %s %s/%s",
			reason, kind, id.Namespace, id.Name)
		return
	}

	logging.Debug("EventRecorder", "Created event %s for %s %s/%s",
		reason, kind, id.Namespace, id.Name)
}

// apiKind maps a watched kind to its Kubernetes API kind name.
func apiKind(kind selector.ResourceKind) string {
	switch kind {
	case selector.KindConfigMap:
		return "ConfigMap"
	case selector.KindSecret:
		return "Secret"
	default:
		return string(kind)
	}
}
