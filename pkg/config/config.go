package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Archive   ArchiveConfig
	SQLite    SQLiteConfig
	Insight   InsightConfig
	Analytics AnalyticsConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ArchiveConfig struct {
	Endpoint   string
	APIKey     string
	TimeoutSec int
}

type SQLiteConfig struct {
	Path string
}

type InsightConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

// AnalyticsConfig carries the tier-routing threshold and the named constants
// of the cost model. Business logic receives these values, never literals.
type AnalyticsConfig struct {
	HotColdThresholdDays  int
	RecordsPerBillingUnit int
	UnitReadCost          float64
	StorageAccessRate     float64
	SelectQueryRate       float64
	AvgRecordSizeKB       float64
	CPMConstant           float64
	QueryTimeoutSec       int
	MarkPartialReports    bool
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/contentpulse")

	viper.SetEnvPrefix("CONTENTPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("archive.endpoint", "http://localhost:9000")
	viper.SetDefault("archive.timeoutSec", 30)

	viper.SetDefault("sqlite.path", "./data/reports.db")

	viper.SetDefault("insight.model", "gpt-4")
	viper.SetDefault("insight.temperature", 0.3)
	viper.SetDefault("insight.maxTokens", 1024)
	viper.SetDefault("insight.timeoutSec", 30)

	viper.SetDefault("analytics.hotColdThresholdDays", 7)
	viper.SetDefault("analytics.recordsPerBillingUnit", 1000)
	viper.SetDefault("analytics.unitReadCost", 0.00025)
	viper.SetDefault("analytics.storageAccessRate", 0.0007)
	viper.SetDefault("analytics.selectQueryRate", 0.002)
	viper.SetDefault("analytics.avgRecordSizeKB", 2.0)
	viper.SetDefault("analytics.cpmConstant", 0.001)
	viper.SetDefault("analytics.queryTimeoutSec", 60)
	viper.SetDefault("analytics.markPartialReports", false)

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
