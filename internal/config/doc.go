// Package config provides configmirror's startup configuration.
//
// Configuration is layered: built-in defaults, an optional config.yaml, and
// environment variable overrides, in that order. The resulting Config struct
// is validated once before the event stream is consumed and then passed
// explicitly to the components that need it; there are no hidden globals.
//
// Validation distinguishes fatal problems (missing label key or target
// folder) from recoverable ones (unknown kind filter, inverted watch
// timeouts), which are surfaced as warnings.
package config
