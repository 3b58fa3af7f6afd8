package allure

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Version is the reporter version recorded in environment.properties.
var Version = "v0.1.0"

// EnvVarPrefix selects which process environment variables are copied
// into environment.properties, with the prefix stripped.
const EnvVarPrefix = "APIPROBE_ALLURE_"

const environmentFilename = "environment.properties"

// initializeEnvironment builds the environment map from preset values,
// prefixed process environment variables, and configured extras, in that
// order (later sources win).
func initializeEnvironment(extra map[string]string) map[string]string {
	env := map[string]string{
		"os_platform":      runtime.GOOS,
		"os_arch":          runtime.GOARCH,
		"reporter_version": Version,
	}
	loadEnvWithPrefix(env, EnvVarPrefix)
	for key, value := range extra {
		env[key] = value
	}
	return env
}

// loadEnvWithPrefix copies process environment variables with the given
// prefix into env, prefix stripped.
func loadEnvWithPrefix(env map[string]string, prefix string) {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if stripped, found := strings.CutPrefix(key, prefix); found {
			env[stripped] = value
		}
	}
}

// writeEnvironment writes the environment.properties file the report
// generator displays on its Environment widget. Keys are sorted for
// deterministic output; an empty map writes nothing.
func writeEnvironment(dir string, env map[string]string) error {
	if len(env) == 0 {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create results directory %s: %w", dir, err)
	}

	lines := make([]string, 0, len(env))
	for key, value := range env {
		lines = append(lines, fmt.Sprintf("%s = %s", escapePropertyKey(key), escapePropertyValue(value)))
	}
	sort.Strings(lines)

	path := filepath.Join(dir, environmentFilename)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write environment file %s: %w", path, err)
	}
	return nil
}

// escapePropertyKey escapes the characters the Java properties format
// treats specially in keys.
func escapePropertyKey(key string) string {
	key = strings.ReplaceAll(key, `\`, `\\`)
	key = strings.ReplaceAll(key, "=", `\=`)
	key = strings.ReplaceAll(key, ":", `\:`)
	return key
}

// escapePropertyValue escapes backslashes and line breaks in values.
func escapePropertyValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	value = strings.ReplaceAll(value, "\r", `\r`)
	return value
}
