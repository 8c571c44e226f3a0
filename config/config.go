package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"macroflow/models"
)

type Config struct {
	Macroflow MacroflowConfig `yaml:"macroflow"`
	Reader    ReaderConfig    `yaml:"reader"`
	Source    SourceConfig    `yaml:"source"`
	Writer    WriterConfig    `yaml:"writer"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type MacroflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ReaderConfig struct {
	MaxWorkers int           `yaml:"max_workers"`
	Timeout    time.Duration `yaml:"timeout"`
	Deadline   time.Duration `yaml:"deadline"`
	Retry      RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts       int           `yaml:"max_attempts"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
	Jitter            float64       `yaml:"jitter"`
}

type RateLimitConfig struct {
	Interval time.Duration `yaml:"interval"`
	Burst    int           `yaml:"burst"`
}

type ProviderSourceConfig struct {
	URL       string          `yaml:"url"`
	APIKey    string          `yaml:"api_key"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type SourceConfig struct {
	FRED      ProviderSourceConfig `yaml:"fred"`
	ECB       ProviderSourceConfig `yaml:"ecb"`
	WorldBank ProviderSourceConfig `yaml:"worldbank"`
}

// Provider returns the source settings for p.
func (s SourceConfig) Provider(p models.Provider) (ProviderSourceConfig, bool) {
	switch p {
	case models.ProviderFRED:
		return s.FRED, true
	case models.ProviderECB:
		return s.ECB, true
	case models.ProviderWorldBank:
		return s.WorldBank, true
	}
	return ProviderSourceConfig{}, false
}

type WriterConfig struct {
	OutputDir string        `yaml:"output_dir"`
	BOM       bool          `yaml:"bom"`
	Formats   FormatsConfig `yaml:"formats"`
}

type FormatsConfig struct {
	Parquet ParquetConfig `yaml:"parquet"`
}

type ParquetConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Compression string `yaml:"compression"`
}

type StorageConfig struct {
	S3    S3Config    `yaml:"s3"`
	Kafka KafkaConfig `yaml:"kafka"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level      string           `yaml:"level"`
	Format     string           `yaml:"format"`
	Output     string           `yaml:"output"`
	MaxAge     int              `yaml:"max_age"`
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Region    string `yaml:"region"`
	Namespace string `yaml:"namespace"`
}

const defaultConfigPath = "config/config.yml"

var envConfigPaths = map[string]string{
	environmentProduction: "config/config.production.yml",
	environmentStaging:    "config/config.staging.yml",
}

func defaults() Config {
	return Config{
		Reader: ReaderConfig{
			MaxWorkers: 4,
			Timeout:    30 * time.Second,
			Deadline:   30 * time.Minute,
			Retry: RetryConfig{
				MaxAttempts:       3,
				BaseDelay:         time.Second,
				MaxDelay:          30 * time.Second,
				BackoffMultiplier: 2,
				Jitter:            0.1,
			},
		},
		Source: SourceConfig{
			FRED:      ProviderSourceConfig{URL: "https://api.stlouisfed.org/fred", RateLimit: RateLimitConfig{Interval: 50 * time.Millisecond, Burst: 1}},
			ECB:       ProviderSourceConfig{URL: "https://data-api.ecb.europa.eu/service", RateLimit: RateLimitConfig{Interval: 200 * time.Millisecond, Burst: 1}},
			WorldBank: ProviderSourceConfig{URL: "https://api.worldbank.org/v2", RateLimit: RateLimitConfig{Interval: 100 * time.Millisecond, Burst: 1}},
		},
		Writer: WriterConfig{
			OutputDir: "output",
			BOM:       true,
			Formats:   FormatsConfig{Parquet: ParquetConfig{Enabled: true, Compression: "snappy"}},
		},
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
	}
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path resolves to the APP_ENV specific file when one is configured.
func LoadConfig(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, defaultConfigPath, envConfigPaths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaults()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if v := os.Getenv("FRED_API_KEY"); v != "" {
		config.Source.FRED.APIKey = strings.TrimSpace(v)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}
	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" && config.Storage.Kafka.Enabled {
		config.Storage.Kafka.Brokers = strings.Split(v, ",")
	}
	for i, b := range config.Storage.Kafka.Brokers {
		config.Storage.Kafka.Brokers[i] = strings.TrimSpace(b)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Credentials returns the provider to secret mapping. Keyless providers are
// omitted.
func (c *Config) Credentials() map[models.Provider]string {
	creds := make(map[models.Provider]string)
	if c.Source.FRED.APIKey != "" {
		creds[models.ProviderFRED] = c.Source.FRED.APIKey
	}
	return creds
}

func validateConfig(cfg *Config) error {
	if cfg.Macroflow.Name == "" {
		return fmt.Errorf("macroflow.name is required")
	}
	if cfg.Macroflow.Version == "" {
		return fmt.Errorf("macroflow.version is required")
	}

	if cfg.Reader.MaxWorkers <= 0 {
		return fmt.Errorf("reader.max_workers must be greater than 0")
	}
	if cfg.Reader.Timeout <= 0 {
		return fmt.Errorf("reader.timeout must be greater than 0")
	}
	if cfg.Reader.Deadline < 0 {
		return fmt.Errorf("reader.deadline must not be negative")
	}

	retry := cfg.Reader.Retry
	if retry.MaxAttempts <= 0 {
		return fmt.Errorf("reader.retry.max_attempts must be greater than 0")
	}
	if retry.BaseDelay < 0 || retry.MaxDelay < retry.BaseDelay {
		return fmt.Errorf("reader.retry delays must satisfy 0 <= base_delay <= max_delay")
	}
	if retry.BackoffMultiplier < 1 {
		return fmt.Errorf("reader.retry.backoff_multiplier must be at least 1")
	}
	if retry.Jitter < 0 || retry.Jitter > 1 {
		return fmt.Errorf("reader.retry.jitter must be between 0 and 1")
	}

	for name, src := range map[string]ProviderSourceConfig{"fred": cfg.Source.FRED, "ecb": cfg.Source.ECB, "worldbank": cfg.Source.WorldBank} {
		if src.URL == "" {
			return fmt.Errorf("source.%s.url is required", name)
		}
		if src.RateLimit.Interval < 0 || src.RateLimit.Burst < 0 {
			return fmt.Errorf("source.%s.rate_limit must not be negative", name)
		}
	}

	switch cfg.Writer.Formats.Parquet.Compression {
	case "", "snappy", "gzip", "uncompressed":
	default:
		return fmt.Errorf("writer.formats.parquet.compression '%s' is not supported", cfg.Writer.Formats.Parquet.Compression)
	}
	if cfg.Writer.OutputDir == "" {
		return fmt.Errorf("writer.output_dir is required")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	if cfg.Storage.Kafka.Enabled {
		if len(cfg.Storage.Kafka.Brokers) == 0 {
			return fmt.Errorf("storage.kafka.brokers is required when Kafka is enabled")
		}
		if cfg.Storage.Kafka.Topic == "" {
			return fmt.Errorf("storage.kafka.topic is required when Kafka is enabled")
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
