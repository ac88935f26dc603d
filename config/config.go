package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// 配额策略
const (
	QuotaPolicyDaily  = "daily"  // 每日重置
	QuotaPolicyPeriod = "period" // 订阅周期总池
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
	Quota    QuotaConfig    `mapstructure:"quota"`
	Notify   NotifyConfig   `mapstructure:"notify"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql, postgres, sqlite
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	DSN          string `mapstructure:"dsn"` // 非空时优先使用
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // text, json
	File       string `mapstructure:"file"`   // 为空时输出到 stdout
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type QuotaConfig struct {
	Policy                string `mapstructure:"policy"`   // daily, period
	Timezone              string `mapstructure:"timezone"` // 每日窗口使用的时区
	ConflictBufferMinutes int    `mapstructure:"conflict_buffer_minutes"`
	EarlyStartMinutes     int    `mapstructure:"early_start_minutes"`
	MaxDurationMinutes    int    `mapstructure:"max_duration_minutes"`
	ExpireIntervalMinutes int    `mapstructure:"expire_interval_minutes"` // 到期整理周期，负数关闭
}

type NotifyConfig struct {
	DiscordWebhookURL string `mapstructure:"discord_webhook_url"`
	Queue             string `mapstructure:"queue"` // Redis 列表名，为空时进程内直接投递
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	Workers           int    `mapstructure:"workers"` // cmd/worker 并发数
}

// ApplyDefaults 填充未配置的默认值
func (c *Config) ApplyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.JWT.ExpireHours <= 0 {
		c.JWT.ExpireHours = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Quota.Policy == "" {
		c.Quota.Policy = QuotaPolicyDaily
	}
	if c.Quota.Timezone == "" {
		c.Quota.Timezone = "UTC"
	}
	if c.Quota.ConflictBufferMinutes <= 0 {
		c.Quota.ConflictBufferMinutes = 30
	}
	if c.Quota.EarlyStartMinutes <= 0 {
		c.Quota.EarlyStartMinutes = 15
	}
	if c.Quota.MaxDurationMinutes <= 0 {
		c.Quota.MaxDurationMinutes = 480
	}
	if c.Quota.ExpireIntervalMinutes == 0 {
		c.Quota.ExpireIntervalMinutes = 60
	}
	if c.Notify.TimeoutSeconds <= 0 {
		c.Notify.TimeoutSeconds = 10
	}
	if c.Notify.Workers <= 0 {
		c.Notify.Workers = 2
	}
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 环境变量覆盖
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}
