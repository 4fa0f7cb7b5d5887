package gateway

import (
	"fmt"
	"os"
	"strings"
)

// ReadEnvFile parses a dotenv-style secrets file into a map. Lines are
// KEY=VALUE, optionally prefixed with "export"; quotes around values are
// stripped and comment lines skipped.
func ReadEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading secrets env file: %w", err)
	}
	env := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		s := strings.TrimSpace(line)
		if s == "" || s[0] == '#' {
			continue
		}
		s = strings.TrimPrefix(s, "export ")
		key, val, ok := strings.Cut(s, "=")
		if !ok {
			continue
		}
		env[key] = stripQuotes(val)
	}
	return env, nil
}

// LookupAPIKey resolves the named env var from the secrets file when present,
// falling back to the process environment.
func LookupAPIKey(envVar, secretsFile string) string {
	if envVar == "" {
		return ""
	}
	if secretsFile != "" {
		if env, err := ReadEnvFile(secretsFile); err == nil {
			if v, ok := env[envVar]; ok {
				return v
			}
		}
	}
	return os.Getenv(envVar)
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
