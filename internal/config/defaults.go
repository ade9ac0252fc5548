package config

import "configmirror/internal/selector"

const (
	// DefaultResource is the kind filter used when RESOURCE is unset.
	DefaultResource = string(selector.KindConfigMap)

	// DefaultWatchClientTimeoutSeconds is the default client-side watch
	// timeout. It must stay above the server timeout or the watch may
	// stop responding.
	DefaultWatchClientTimeoutSeconds = 660

	// DefaultWatchServerTimeoutSeconds is the default server-side watch
	// timeout.
	DefaultWatchServerTimeoutSeconds = 600

	// DefaultWorkerCount is the default reconciliation worker count.
	DefaultWorkerCount = 2
)

// GetDefaultConfig returns a Config populated with defaults. Required
// fields (LabelKey, Folder) stay empty and fail validation until provided.
func GetDefaultConfig() Config {
	return Config{
		Resource:                  DefaultResource,
		WatchClientTimeoutSeconds: DefaultWatchClientTimeoutSeconds,
		WatchServerTimeoutSeconds: DefaultWatchServerTimeoutSeconds,
		WorkerCount:               DefaultWorkerCount,
	}
}
