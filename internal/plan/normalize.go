package plan

import "strings"

// reservedLabelPrefixes name label namespaces managed by the provider.
// Labels under these prefixes are excluded from comparison and must never be
// re-applied by a generated action.
var reservedLabelPrefixes = []string{
	"goog-gke",
	"goog-",
}

// taintEffects maps provider API enums to the canonical Kubernetes forms.
// Canonical forms map to themselves so normalization is total and stable.
var taintEffects = map[string]string{
	"NO_SCHEDULE":        "NoSchedule",
	"NO_EXECUTE":         "NoExecute",
	"PREFER_NO_SCHEDULE": "PreferNoSchedule",
	"NoSchedule":         "NoSchedule",
	"NoExecute":          "NoExecute",
	"PreferNoSchedule":   "PreferNoSchedule",
}

// NormalizeTaintEffect maps a taint effect to its canonical form. Unknown
// effects pass through unchanged.
func NormalizeTaintEffect(effect string) string {
	if canonical, ok := taintEffects[strings.TrimSpace(effect)]; ok {
		return canonical
	}
	return effect
}

// IsReservedLabel reports whether the key belongs to a provider-managed
// label namespace.
func IsReservedLabel(key string) bool {
	for _, prefix := range reservedLabelPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// FilterReservedLabels returns a copy of labels with provider-managed keys
// removed.
func FilterReservedLabels(labels map[string]string) map[string]string {
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		if IsReservedLabel(k) {
			continue
		}
		out[k] = v
	}
	return out
}
