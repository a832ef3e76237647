package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is the part of the OS the loader touches.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFileSystem struct{}

func (osFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv never overrides variables already set in the process.
func (osFileSystem) LoadEnv(path string) error { return godotenv.Load(path) }

// LoaderConfig collects LoaderOptions.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvAliases maps a bare variable to a config key, e.g.
	// GLADIA_API_KEY -> transcription.api_key.
	EnvAliases map[string]string
}

type LoaderOption func(*LoaderConfig)

func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile skips the search for config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile skips the search for .env.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvAliases adds aliases; they win over the file and over the
// generic key spellings.
func WithEnvAliases(aliases map[string]string) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.EnvAliases == nil {
			lc.EnvAliases = map[string]string{}
		}
		for env, key := range aliases {
			lc.EnvAliases[env] = key
		}
	}
}

// LoadConfig fills cfg from config.yml, a .env file and the environment,
// in increasing order of precedence. A missing file is not an error; a
// malformed one is.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: osFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			// logging is not configured yet
			fmt.Fprintf(os.Stderr, "config: ignoring %s: %v\n", files.EnvFile, err)
		}
	}

	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, key := range generateEnvKeyVariants(name) {
			// SERVER=x must not clobber the server section
			if _, section := v.Get(key).(map[string]any); !section {
				v.Set(key, value)
			}
		}
	}
	for env, key := range lc.EnvAliases {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", serviceName, err)
	}
	return nil
}

// generateEnvKeyVariants spells an environment variable as every config
// key it could mean: TRANSCRIPTION_API_KEY becomes transcription_api_key,
// transcription.api_key, transcription.api.key and so on.
func generateEnvKeyVariants(name string) []string {
	lower := strings.ToLower(name)
	parts := strings.Split(lower, "_")
	variants := []string{lower}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	if len(parts) > 2 {
		variants = append(variants, strings.Join(parts, "."))
	}
	return variants
}

// Resolver finds config.yml and .env when no explicit path is given.
type Resolver struct {
	FileSystem FileSystem
}

type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles searches from the most specific directory (cmd/<service>)
// outwards, from the working directory and up to two parents.
func (r *Resolver) ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	dirs := searchDirs(serviceName)
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(dirs, "config.yml")
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(dirs, ".env."+serviceName, ".env")
	}
	return files
}

func (r *Resolver) first(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			path := filepath.ToSlash(filepath.Join(dir, name))
			if !strings.HasPrefix(path, "..") {
				path = "./" + path
			}
			if r.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

func searchDirs(serviceName string) []string {
	var dirs []string
	for _, up := range []string{".", "..", "../.."} {
		dirs = append(dirs, filepath.Join(up, "cmd", serviceName))
	}
	for _, up := range []string{".", ".."} {
		dirs = append(dirs, filepath.Join(up, "config"))
	}
	return append(dirs, ".")
}
