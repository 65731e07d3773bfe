package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"gooze.dev/pkg/testimport/internal/adapter"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "testimport"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName      = "output"
	verboseFlagName     = "verbose"
	runParallelFlagName = "parallel"
	shardFlagName       = "shard"
	baseDirFlagName     = "base-dir"
	xsltFlagName        = "xslt"
	moduleKeyFlagName   = "module-key"
	limitFlagName       = "limit"

	reportPathsKey       = "report.paths"
	reportBaseDirKey     = "report.base_dir"
	reportXSLTKey        = "report.xslt"
	moduleKeyConfigKey   = "project.module_key"
	runParallelConfigKey = "run.parallel"

	historyEnabledKey = "history.enabled"
	historyDriverKey  = "history.driver"
	historyDSNKey     = "history.dsn"

	s3BucketKey          = "s3.bucket"
	s3PrefixKey          = "s3.prefix"
	s3RegionKey          = "s3.region"
	s3EndpointURLKey     = "s3.endpoint_url"
	s3ForcePathStyleKey  = "s3.force_path_style"
	s3AccessKeyIDKey     = "s3.access_key_id"
	s3SecretAccessKeyKey = "s3.secret_access_key"
	s3StorageClassKey    = "s3.storage_class"

	defaultOutputDir     = ".testimport"
	defaultRunParallel   = 1
	defaultHistoryDriver = adapter.HistoryDriverSQLite
	historyDBFileName    = "history.db"

	envPrefix = "TESTIMPORT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".testimport.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// appConfig is the typed view of the configuration file, environment and flags.
type appConfig struct {
	Output  string           `mapstructure:"output"`
	Report  reportConfig     `mapstructure:"report"`
	Project projectConfig    `mapstructure:"project"`
	Run     runConfig        `mapstructure:"run"`
	History historyConfig    `mapstructure:"history"`
	S3      adapter.S3Config `mapstructure:"s3"`
}

type reportConfig struct {
	Paths   []string `mapstructure:"paths"`
	BaseDir string   `mapstructure:"base_dir"`
	XSLT    string   `mapstructure:"xslt"`
}

type projectConfig struct {
	ModuleKey string `mapstructure:"module_key"`
}

type runConfig struct {
	Parallel int `mapstructure:"parallel"`
}

type historyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	DSN     string `mapstructure:"dsn"`
}

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultOutputDir)
	viper.SetDefault(reportPathsKey, []string{})
	viper.SetDefault(reportBaseDirKey, "")
	viper.SetDefault(reportXSLTKey, "")
	viper.SetDefault(moduleKeyConfigKey, "")
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)

	viper.SetDefault(historyEnabledKey, false)
	viper.SetDefault(historyDriverKey, defaultHistoryDriver)
	viper.SetDefault(historyDSNKey, "")

	viper.SetDefault(s3BucketKey, "")
	viper.SetDefault(s3PrefixKey, "")
	viper.SetDefault(s3RegionKey, "")
	viper.SetDefault(s3EndpointURLKey, "")
	viper.SetDefault(s3ForcePathStyleKey, false)
	viper.SetDefault(s3AccessKeyIDKey, "")
	viper.SetDefault(s3SecretAccessKeyKey, "")
	viper.SetDefault(s3StorageClassKey, "")

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return
		}

		slog.Warn("Failed to read config file", "path", viper.ConfigFileUsed(), "error", err)
	}
}

// loadConfig decodes the merged configuration. Comma separated strings, as
// passed through environment variables, are accepted for list settings.
func loadConfig() (appConfig, error) {
	var cfg appConfig

	err := viper.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)))
	if err != nil {
		return appConfig{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Run.Parallel < 1 {
		cfg.Run.Parallel = defaultRunParallel
	}

	if cfg.History.Driver == "" {
		cfg.History.Driver = defaultHistoryDriver
	}

	if cfg.History.DSN == "" && cfg.History.Driver == adapter.HistoryDriverSQLite {
		cfg.History.DSN = filepath.Join(cfg.Output, historyDBFileName)
	}

	return cfg, nil
}

// configDir is the directory holding the configuration file; bundled
// stylesheets are looked up below it.
func configDir() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return filepath.Dir(used)
	}

	return configFolderPath
}

// resolveBaseDir makes the report base directory absolute, defaulting to the
// working directory.
func resolveBaseDir(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("working directory: %w", err)
		}

		return wd, nil
	}

	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("base directory %q: %w", value, err)
	}

	return abs, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
