package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Duration is the unit for every timeout and interval in Config.
type Duration = time.Duration

// lookup returns the trimmed value of key and whether it is set to anything.
func lookup(key string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	return raw, raw != ""
}

func envOrDefault(key, defaultValue string) string {
	if raw, ok := lookup(key); ok {
		return raw
	}
	return defaultValue
}

// parsedEnvOrDefault parses key with parse and keeps the result only when it
// passes valid. Unset or unusable values fall back to defaultValue.
func parsedEnvOrDefault[T any](key string, defaultValue T, parse func(string) (T, error), valid func(T) bool) T {
	raw, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	val, err := parse(raw)
	if err != nil || (valid != nil && !valid(val)) {
		return defaultValue
	}
	return val
}

func durationEnvOrDefault(key string, defaultValue Duration) Duration {
	return parsedEnvOrDefault(key, defaultValue, time.ParseDuration, func(d Duration) bool { return d > 0 })
}

// intEnvOrDefault accepts positive integers only.
func intEnvOrDefault(key string, defaultValue int) int {
	return parsedEnvOrDefault(key, defaultValue, strconv.Atoi, func(n int) bool { return n > 0 })
}

var boolWords = map[string]bool{
	"1": true, "true": true, "yes": true, "on": true,
	"0": false, "false": false, "no": false, "off": false,
}

func boolEnvOrDefault(key string, defaultValue bool) bool {
	raw, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	if val, known := boolWords[strings.ToLower(raw)]; known {
		return val
	}
	return defaultValue
}
