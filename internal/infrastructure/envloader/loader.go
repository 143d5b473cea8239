package envloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"network_resolver/internal/app/port"

	"github.com/joho/godotenv"
)

const defaultEnvFilePath = ".env"

// DotEnvLoader reads KEY=VALUE files into an immutable snapshot.
type DotEnvLoader struct {
	filePaths  []string
	loggerInfo func(msg string, args ...any)
}

// NewDotEnvLoader creates a loader for paths, or for ".env" when no path is given.
func NewDotEnvLoader(loggerInfo func(msg string, args ...any), paths ...string) *DotEnvLoader {
	if len(paths) == 0 {
		paths = []string{defaultEnvFilePath}
	}
	return &DotEnvLoader{filePaths: paths, loggerInfo: loggerInfo}
}

// Load reads every configured file. A missing file is skipped; any other read or parse
// error is returned. Later files override earlier ones. Only variable names are logged.
func (l *DotEnvLoader) Load() (map[string]string, error) {
	merged := make(map[string]string)
	for _, path := range l.filePaths {
		vars, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if l.loggerInfo != nil {
					l.loggerInfo("Env file not found, skipping", "path", path)
				}
				continue
			}
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for k, v := range vars {
			merged[k] = v
		}
		if l.loggerInfo != nil {
			l.loggerInfo("Env file loaded", "path", path, "variables", len(vars))
		}
	}
	return merged, nil
}

// OSLookup reads the process environment.
func OSLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapLookup returns a lookup over a fixed mapping. The map is copied.
func MapLookup(vars map[string]string) port.EnvLookup {
	snapshot := make(map[string]string, len(vars))
	for k, v := range vars {
		snapshot[k] = v
	}
	return func(name string) (string, bool) {
		v, ok := snapshot[name]
		return v, ok
	}
}

// Layered consults lookups in order and returns the first hit.
func Layered(lookups ...port.EnvLookup) port.EnvLookup {
	return func(name string) (string, bool) {
		for _, lookup := range lookups {
			if lookup == nil {
				continue
			}
			if v, ok := lookup(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// NewAmbientLookup returns the process environment layered over the given env files,
// so real environment variables win over file entries.
func NewAmbientLookup(loggerInfo func(msg string, args ...any), paths ...string) (port.EnvLookup, error) {
	fileVars, err := NewDotEnvLoader(loggerInfo, paths...).Load()
	if err != nil {
		return nil, err
	}
	return Layered(OSLookup, MapLookup(fileVars)), nil
}
