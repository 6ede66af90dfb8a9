package main

import (
	"strconv"
	"strings"

	pkgerrors "github.com/gcpctl/gcpctl/pkg/errors"
)

// parseKeyValues turns "env=prod,team=data" into a map. Empty input yields
// a nil map, meaning "no override".
func parseKeyValues(raw, flag string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, pkgerrors.NewParseError(pair, flag, "expected key=value", nil)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

// splitList turns a comma-separated flag value into trimmed entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseSizeGb parses an operator-supplied size like "200", "200GB" or
// "200GiB".
func parseSizeGb(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	for _, suffix := range []string{"GiB", "GB", "Gi", "G"} {
		if strings.HasSuffix(trimmed, suffix) {
			trimmed = strings.TrimSuffix(trimmed, suffix)
			break
		}
	}
	size, err := strconv.ParseInt(strings.TrimSpace(trimmed), 10, 64)
	if err != nil || size <= 0 {
		return 0, pkgerrors.NewParseError(raw, "size", "expected a positive whole number of GiB", err)
	}
	return size, nil
}
