// Package selector implements the predicates that decide whether a watched
// resource is in scope for mirroring.
//
// Selection is the AND of two independent predicates: a label match and a
// resource-kind filter. Both are pure functions of their inputs and run on
// every incoming event.
package selector

import "strings"

// ResourceKind identifies a watched resource kind.
type ResourceKind string

const (
	// KindConfigMap selects ConfigMap resources.
	KindConfigMap ResourceKind = "configmap"

	// KindSecret selects Secret resources.
	KindSecret ResourceKind = "secret"

	// KindBoth selects both ConfigMaps and Secrets.
	KindBoth ResourceKind = "both"
)

// ValidKinds lists the accepted values for the resource-kind filter.
var ValidKinds = []ResourceKind{KindConfigMap, KindSecret, KindBoth}

// ParseKind normalizes a kind filter string. The boolean result reports
// whether the value is one of the known filters; an unknown value is
// returned as-is so it can be logged, and matches nothing.
func ParseKind(s string) (ResourceKind, bool) {
	kind := ResourceKind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidKinds {
		if kind == valid {
			return kind, true
		}
	}
	return kind, false
}

// Config holds the selection criteria, constructed once at startup and
// passed explicitly to whoever gates events.
type Config struct {
	// LabelKey is the label that marks a resource as in scope.
	LabelKey string

	// LabelValue optionally narrows the match to a specific label value.
	// Empty means key presence alone is enough.
	LabelValue string

	// Kind filters which resource kinds are mirrored.
	Kind ResourceKind
}

// LabelSatisfied reports whether the given label map matches the configured
// label criteria. A nil or empty map never matches.
func (c Config) LabelSatisfied(labels map[string]string) bool {
	if len(labels) == 0 {
		return false
	}

	value, present := labels[c.LabelKey]
	if !present {
		return false
	}

	// Key presence is enough when no value is required.
	if c.LabelValue == "" {
		return true
	}

	return value == c.LabelValue
}

// KindDesired reports whether the given resource kind passes the configured
// kind filter. An unrecognized configured filter matches nothing.
func (c Config) KindDesired(kind ResourceKind) bool {
	return c.Kind == KindBoth || c.Kind == kind
}

// InScope is the AND-composition of both predicates.
func (c Config) InScope(kind ResourceKind, labels map[string]string) bool {
	return c.KindDesired(kind) && c.LabelSatisfied(labels)
}
