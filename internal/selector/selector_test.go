package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		kind  ResourceKind
		valid bool
	}{
		{"configmap", KindConfigMap, true},
		{"secret", KindSecret, true},
		{"both", KindBoth, true},
		{"ConfigMap", KindConfigMap, true},
		{" secret ", KindSecret, true},
		{"deployment", ResourceKind("deployment"), false},
		{"", ResourceKind(""), false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			kind, valid := ParseKind(test.input)
			assert.Equal(t, test.kind, kind)
			assert.Equal(t, test.valid, valid)
		})
	}
}

func TestConfig_LabelSatisfied(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		labels   map[string]string
		expected bool
	}{
		{
			name:     "nil labels never match",
			config:   Config{LabelKey: "sync"},
			labels:   nil,
			expected: false,
		},
		{
			name:     "empty labels never match",
			config:   Config{LabelKey: "sync"},
			labels:   map[string]string{},
			expected: false,
		},
		{
			name:     "key presence is enough when no value required",
			config:   Config{LabelKey: "sync"},
			labels:   map[string]string{"sync": "x"},
			expected: true,
		},
		{
			name:     "missing key does not match",
			config:   Config{LabelKey: "sync"},
			labels:   map[string]string{"other": "x"},
			expected: false,
		},
		{
			name:     "required value matches exactly",
			config:   Config{LabelKey: "sync", LabelValue: "prod"},
			labels:   map[string]string{"sync": "prod"},
			expected: true,
		},
		{
			name:     "required value mismatch does not match",
			config:   Config{LabelKey: "sync", LabelValue: "prod"},
			labels:   map[string]string{"sync": "dev"},
			expected: false,
		},
		{
			name:     "required value on missing key does not match",
			config:   Config{LabelKey: "sync", LabelValue: "prod"},
			labels:   map[string]string{"other": "prod"},
			expected: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.config.LabelSatisfied(test.labels))
		})
	}
}

func TestConfig_KindDesired(t *testing.T) {
	tests := []struct {
		name     string
		filter   ResourceKind
		kind     ResourceKind
		expected bool
	}{
		{"configmap filter matches configmap", KindConfigMap, KindConfigMap, true},
		{"configmap filter rejects secret", KindConfigMap, KindSecret, false},
		{"secret filter matches secret", KindSecret, KindSecret, true},
		{"secret filter rejects configmap", KindSecret, KindConfigMap, false},
		{"both matches configmap", KindBoth, KindConfigMap, true},
		{"both matches secret", KindBoth, KindSecret, true},
		{"unknown filter matches nothing", ResourceKind("deployment"), KindConfigMap, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := Config{LabelKey: "sync", Kind: test.filter}
			assert.Equal(t, test.expected, config.KindDesired(test.kind))
		})
	}
}

func TestConfig_InScope(t *testing.T) {
	config := Config{LabelKey: "sync", Kind: KindSecret}

	// Both predicates must pass.
	assert.True(t, config.InScope(KindSecret, map[string]string{"sync": "x"}))
	assert.False(t, config.InScope(KindConfigMap, map[string]string{"sync": "x"}))
	assert.False(t, config.InScope(KindSecret, map[string]string{"other": "x"}))
	assert.False(t, config.InScope(KindConfigMap, nil))
}
