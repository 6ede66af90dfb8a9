package plan

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Comparator selects how a tracked field's current and desired values are
// compared.
type Comparator string

const (
	// CompareExact treats values as opaque strings.
	CompareExact Comparator = "exact"
	// CompareSet treats values as unordered sets after normalization.
	CompareSet Comparator = "set"
	// CompareGrowth treats values as integers and requires desired > current.
	CompareGrowth Comparator = "growth"
	// ComparePresence only checks whether the current side exists.
	ComparePresence Comparator = "presence"
)

// FieldDelta captures the comparison of one tracked attribute. Current is
// empty when the resource or relationship does not exist yet.
type FieldDelta struct {
	Field      string
	Current    string
	Desired    string
	Comparator Comparator
	// exists is only meaningful for presence comparisons.
	exists bool
}

// ExactDelta builds a delta compared by string equality.
func ExactDelta(field, current, desired string) FieldDelta {
	return FieldDelta{Field: field, Current: current, Desired: desired, Comparator: CompareExact}
}

// SetDelta builds a delta over set-valued fields. Both sides are rendered as
// sorted canonical strings so that representation order never produces a
// spurious difference.
func SetDelta(field string, current, desired []string) FieldDelta {
	return FieldDelta{
		Field:      field,
		Current:    canonicalSet(current),
		Desired:    canonicalSet(desired),
		Comparator: CompareSet,
	}
}

// MapDelta builds a set delta over key=value pairs such as labels.
func MapDelta(field string, current, desired map[string]string) FieldDelta {
	return SetDelta(field, mapToPairs(current), mapToPairs(desired))
}

// GrowthDelta builds a delta that only permits numeric growth.
func GrowthDelta(field string, current, desired int64) FieldDelta {
	return FieldDelta{
		Field:      field,
		Current:    strconv.FormatInt(current, 10),
		Desired:    strconv.FormatInt(desired, 10),
		Comparator: CompareGrowth,
	}
}

// PresenceDelta builds a delta on whether a relationship currently exists.
func PresenceDelta(field string, exists bool) FieldDelta {
	return FieldDelta{Field: field, Comparator: ComparePresence, exists: exists, Desired: "present"}
}

// Changed reports whether the field requires reconciliation. Growth
// comparisons return a domain error when the desired value is not strictly
// greater than the current one, or when either side is non-numeric.
func (d FieldDelta) Changed() (bool, error) {
	switch d.Comparator {
	case CompareExact, CompareSet:
		return d.Current != d.Desired, nil
	case CompareGrowth:
		current, err := strconv.ParseInt(strings.TrimSpace(d.Current), 10, 64)
		if err != nil {
			return false, newValidationError("current size is not numeric", map[string]interface{}{
				"field": d.Field,
				"value": d.Current,
			})
		}
		desired, err := strconv.ParseInt(strings.TrimSpace(d.Desired), 10, 64)
		if err != nil {
			return false, newValidationError("desired size is not numeric", map[string]interface{}{
				"field": d.Field,
				"value": d.Desired,
			})
		}
		if desired <= current {
			return false, NewResizeError(d.Field, current, desired)
		}
		return true, nil
	case ComparePresence:
		return !d.exists, nil
	default:
		return false, newValidationError("unknown comparator", map[string]interface{}{
			"field":      d.Field,
			"comparator": string(d.Comparator),
		})
	}
}

func canonicalSet(values []string) string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

func mapToPairs(m map[string]string) []string {
	pairs := make([]string, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	return pairs
}
