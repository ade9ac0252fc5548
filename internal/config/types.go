package config

import "configmirror/internal/selector"

// Config holds the complete configmirror configuration, constructed once at
// startup and passed explicitly to the components that need it.
type Config struct {
	// LabelKey identifies in-scope resources. Required.
	LabelKey string `yaml:"labelKey"`

	// LabelValue optionally narrows the match to a specific label value.
	LabelValue string `yaml:"labelValue"`

	// Resource is the resource-kind filter: configmap, secret or both.
	Resource string `yaml:"resource"`

	// Folder is the target directory for materialized files. Required.
	Folder string `yaml:"folder"`

	// UniqueFilenames disambiguates files across resources sharing an
	// entry key name.
	UniqueFilenames bool `yaml:"uniqueFilenames"`

	// EventLogging enables emission of cluster-visible lifecycle events.
	EventLogging bool `yaml:"eventLogging"`

	// Namespace scopes watching to a single namespace. Empty watches all.
	Namespace string `yaml:"namespace"`

	// WatchClientTimeoutSeconds is the client-side watch timeout passed to
	// the watch collaborator.
	WatchClientTimeoutSeconds int `yaml:"watchClientTimeout"`

	// WatchServerTimeoutSeconds is the server-side watch timeout passed to
	// the watch collaborator.
	WatchServerTimeoutSeconds int `yaml:"watchServerTimeout"`

	// WorkerCount is the number of concurrent reconciliation workers.
	WorkerCount int `yaml:"workerCount"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// SelectorConfig derives the selection criteria from the configuration.
// An unrecognized resource filter is carried through unchanged and matches
// nothing until corrected.
func (c Config) SelectorConfig() selector.Config {
	kind, _ := selector.ParseKind(c.Resource)
	return selector.Config{
		LabelKey:   c.LabelKey,
		LabelValue: c.LabelValue,
		Kind:       kind,
	}
}
