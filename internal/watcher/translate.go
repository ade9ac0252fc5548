package watcher

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"configmirror/internal/reconciler"
	"configmirror/internal/selector"
)

// translate converts a typed object from an informer callback into a
// ResourceEvent. The boolean result is false for unexpected object types.
func translate(kind selector.ResourceKind, obj interface{}, eventType reconciler.EventType) (reconciler.ResourceEvent, bool) {
	switch resource := obj.(type) {
	case *corev1.ConfigMap:
		return reconciler.ResourceEvent{
			Kind:      kind,
			Namespace: resource.Namespace,
			Name:      resource.Name,
			Type:      eventType,
			Labels:    resource.Labels,
			Data:      configMapData(resource),
		}, true

	case *corev1.Secret:
		return reconciler.ResourceEvent{
			Kind:      kind,
			Namespace: resource.Namespace,
			Name:      resource.Name,
			Type:      eventType,
			Labels:    resource.Labels,
			Data:      secretData(resource),
		}, true
	}

	return reconciler.ResourceEvent{}, false
}

// configMapData merges a ConfigMap's textual and binary entries into one
// payload map.
func configMapData(cm *corev1.ConfigMap) map[string][]byte {
	data := make(map[string][]byte, len(cm.Data)+len(cm.BinaryData))
	for key, value := range cm.Data {
		data[key] = []byte(value)
	}
	for key, value := range cm.BinaryData {
		data[key] = value
	}
	return data
}

// secretData returns a Secret's entries. client-go has already base64-decoded
// the values.
func secretData(secret *corev1.Secret) map[string][]byte {
	data := make(map[string][]byte, len(secret.Data))
	for key, value := range secret.Data {
		data[key] = value
	}
	return data
}

// resourceVersion extracts the object's resource version, empty when the
// object does not carry metadata.
func resourceVersion(obj interface{}) string {
	if accessor, ok := obj.(metav1.Object); ok {
		return accessor.GetResourceVersion()
	}
	return ""
}
