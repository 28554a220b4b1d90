package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tally/internal/paths"
	"github.com/mesh-intelligence/tally/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TALLY"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyStorageKey = "storage_key"
	cfgKeyLogLevel   = "log_level"
	cfgKeyCategories = "categories"

	defaultBackend  = types.BackendSQLite
	defaultLogLevel = "warn"
)

// defaultConfigHeader is written above the generated config.yaml.
const defaultConfigHeader = `# tally configuration
#
# backend: sqlite, file or memory (memory forgets everything on exit)
# data_dir: where saved state lives (overridable by --data-dir or TALLY_DATA_DIR)
# storage_key: key the category list is saved under
# categories: the tallied materials and the sizes each one comes in

`

// loadEnvFile loads .env from the working directory when it exists.
// Variables already set in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadConfig reads config.yaml from configDir with Viper, creating the
// directory and a default file on first run. A missing config.yaml is not
// an error. TALLY_* environment variables override file values.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyStorageKey, types.DefaultStorageKey)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// buildConfig turns the loaded settings and the --data-dir flag into a
// validated types.Config.
func buildConfig(v *viper.Viper, dataDirFlag string) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:    v.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		StorageKey: v.GetString(cfgKeyStorageKey),
		LogLevel:   v.GetString(cfgKeyLogLevel),
	}
	if err := v.UnmarshalKey(cfgKeyCategories, &cfg.Categories); err != nil {
		return types.Config{}, fmt.Errorf("decode categories: %w", err)
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = types.DefaultCategories()
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile writes a default config.yaml into configDir if it
// does not exist yet.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := types.Config{
		Backend:    defaultBackend,
		StorageKey: types.DefaultStorageKey,
		LogLevel:   defaultLogLevel,
		Categories: types.DefaultCategories(),
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultConfigHeader), data...), 0o644)
}
