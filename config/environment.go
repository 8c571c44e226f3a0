package config

import (
	"os"
	"strings"
)

const appEnvVar = "APP_ENV"

const (
	environmentDevelopment = "development"
	environmentStaging     = "staging"
	environmentProduction  = "production"
)

// Short forms accepted in APP_ENV.
var environmentAliases = map[string]string{
	"dev":  environmentDevelopment,
	"prod": environmentProduction,
	"stg":  environmentStaging,
	"stag": environmentStaging,
}

// AppEnvironment returns the normalised APP_ENV value, development when
// unset.
func AppEnvironment() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv(appEnvVar)))
	if env == "" {
		return environmentDevelopment
	}
	if canonical, ok := environmentAliases[env]; ok {
		return canonical
	}
	return env
}

// IsProductionLike reports whether env refuses downloads without provider
// credentials.
func IsProductionLike(env string) bool {
	return env == environmentProduction || env == environmentStaging
}

// resolveEnvSpecificPath swaps the default config path for the file of the
// current environment when that file exists. Explicit paths are kept.
func resolveEnvSpecificPath(path, defaultPath string, envPaths map[string]string) string {
	if path == "" {
		path = defaultPath
	}
	if path != defaultPath {
		return path
	}
	envPath, ok := envPaths[AppEnvironment()]
	if !ok {
		return path
	}
	if _, err := os.Stat(envPath); err != nil {
		return path
	}
	return envPath
}
