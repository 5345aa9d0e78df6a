package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Study   StudyConfig   `mapstructure:"study"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig locates the four data files
type StorageConfig struct {
	DataDir        string `mapstructure:"data_dir"`
	ScheduleFile   string `mapstructure:"schedule_file"`
	TasksFile      string `mapstructure:"tasks_file"`
	FlashcardsFile string `mapstructure:"flashcards_file"`
	NotebooksFile  string `mapstructure:"notebooks_file"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// StudyConfig tunes the flashcard engine
type StudyConfig struct {
	// ShuffleSeed fixes cram-mode shuffling; 0 seeds from the clock.
	ShuffleSeed int64 `mapstructure:"shuffle_seed"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Textfile string `mapstructure:"textfile"`
}

// Load loads configuration from .env, defaults, an optional config file and
// the environment. An empty path skips the config file.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "ISKAALAMAN")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	// Storage defaults
	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("storage.schedule_file", "schedule.dat")
	v.SetDefault("storage.tasks_file", "tasks.dat")
	v.SetDefault("storage.flashcards_file", "flashcards.dat")
	v.SetDefault("storage.notebooks_file", "notebooks.dat")

	// Logger defaults; the shell owns stdout
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "file")
	v.SetDefault("logger.filename", "iskaalaman.log")

	// Study defaults
	v.SetDefault("study.shuffle_seed", 0)

	// Metrics defaults
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile", "iskaalaman.prom")
}

func bindEnvVars(v *viper.Viper) {
	// App
	_ = v.BindEnv("app.name", "APP_NAME")
	_ = v.BindEnv("app.version", "APP_VERSION")
	_ = v.BindEnv("app.environment", "APP_ENVIRONMENT")

	// Storage
	_ = v.BindEnv("storage.data_dir", "ISKAALAMAN_DATA_DIR")
	_ = v.BindEnv("storage.schedule_file", "ISKAALAMAN_SCHEDULE_FILE")
	_ = v.BindEnv("storage.tasks_file", "ISKAALAMAN_TASKS_FILE")
	_ = v.BindEnv("storage.flashcards_file", "ISKAALAMAN_FLASHCARDS_FILE")
	_ = v.BindEnv("storage.notebooks_file", "ISKAALAMAN_NOTEBOOKS_FILE")

	// Logger
	_ = v.BindEnv("logger.level", "LOG_LEVEL")
	_ = v.BindEnv("logger.format", "LOG_FORMAT")
	_ = v.BindEnv("logger.output", "LOG_OUTPUT")
	_ = v.BindEnv("logger.filename", "LOG_FILE")

	// Study
	_ = v.BindEnv("study.shuffle_seed", "STUDY_SHUFFLE_SEED")

	// Metrics
	_ = v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	_ = v.BindEnv("metrics.textfile", "METRICS_TEXTFILE")
}

// Validate checks the values Load cannot default away
func (cfg *Config) Validate() error {
	files := map[string]string{
		"schedule_file":   cfg.Storage.ScheduleFile,
		"tasks_file":      cfg.Storage.TasksFile,
		"flashcards_file": cfg.Storage.FlashcardsFile,
		"notebooks_file":  cfg.Storage.NotebooksFile,
	}
	for key, name := range files {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("storage %s is required", key)
		}
	}

	switch cfg.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger format must be json or console, got %q", cfg.Logger.Format)
	}

	switch cfg.Logger.Output {
	case "stdout", "stderr":
	case "file":
		if cfg.Logger.Filename == "" {
			return fmt.Errorf("logger filename is required when output is file")
		}
	default:
		return fmt.Errorf("logger output must be stdout, stderr or file, got %q", cfg.Logger.Output)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Textfile == "" {
		return fmt.Errorf("metrics textfile is required when metrics are enabled")
	}

	return nil
}

// SchedulePath returns the schedule file inside the data directory
func (cfg *StorageConfig) SchedulePath() string {
	return filepath.Join(cfg.DataDir, cfg.ScheduleFile)
}

// TasksPath returns the tasks file inside the data directory
func (cfg *StorageConfig) TasksPath() string {
	return filepath.Join(cfg.DataDir, cfg.TasksFile)
}

// FlashcardsPath returns the flashcards file inside the data directory
func (cfg *StorageConfig) FlashcardsPath() string {
	return filepath.Join(cfg.DataDir, cfg.FlashcardsFile)
}

// NotebooksPath returns the notebooks file inside the data directory
func (cfg *StorageConfig) NotebooksPath() string {
	return filepath.Join(cfg.DataDir, cfg.NotebooksFile)
}
