package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"configmirror/internal/selector"
)

func newFakeRecorder() *Recorder {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	return &Recorder{client: fake.NewClientBuilder().WithScheme(scheme).Build()}
}

func TestRecorder_RecordSynced(t *testing.T) {
	recorder := newFakeRecorder()
	id := types.NamespacedName{Namespace: "default", Name: "app-config"}

	recorder.RecordSynced(context.Background(), selector.KindConfigMap, id)

	var list corev1.EventList
	require.NoError(t, recorder.client.List(context.Background(), &list))
	require.Len(t, list.Items, 1)

	event := list.Items[0]
	assert.Equal(t, ReasonFilesSynced, event.Reason)
	assert.Equal(t, corev1.EventTypeNormal, event.Type)
	assert.Equal(t, "ConfigMap", event.InvolvedObject.Kind)
	assert.Equal(t, "app-config", event.InvolvedObject.Name)
	assert.Equal(t, component, event.Source.Component)
}

func TestRecorder_RecordRemoved(t *testing.T) {
	recorder := newFakeRecorder()
	id := types.NamespacedName{Namespace: "vault", Name: "tls"}

	recorder.RecordRemoved(context.Background(), selector.KindSecret, id)

	var list corev1.EventList
	require.NoError(t, recorder.client.List(context.Background(), &list))
	require.Len(t, list.Items, 1)

	event := list.Items[0]
	assert.Equal(t, ReasonFilesRemoved, event.Reason)
	assert.Equal(t, "Secret", event.InvolvedObject.Kind)
	assert.Equal(t, "vault", event.InvolvedObject.Namespace)
}

func TestAPIKind(t *testing.T) {
	assert.Equal(t, "ConfigMap", apiKind(selector.KindConfigMap))
	assert.Equal(t, "Secret", apiKind(selector.KindSecret))
	assert.Equal(t, "other", apiKind(selector.ResourceKind("other")))
}
