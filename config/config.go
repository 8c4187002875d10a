package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultConfigYAML 内置默认配置
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Log      LogConfig      `mapstructure:"log"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig 数据库配置
// Driver 为 sqlite 时只使用 Path，为 mysql 时使用连接参数
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console / json
}

// DefaultCategory 注册时为新用户创建的默认类别
// Type 为 other 的条目只用于界面展示，不会写入数据库
type DefaultCategory struct {
	Key  string `mapstructure:"key"`
	Type string `mapstructure:"type"`
}

// LedgerConfig 账本配置
type LedgerConfig struct {
	DefaultCategories []DefaultCategory `mapstructure:"default_categories"`
	RecentLimit       int               `mapstructure:"recent_limit"`
}

var (
	// GlobalConfig 全局配置实例，仅用于错误信息脱敏等只读场景
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// .env 只在本地开发时存在，读取失败直接忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	log.Debug().Msg("已加载内置默认配置")

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Warn().Err(err).Str("path", configPath).Msg("无法读取指定配置文件")
		} else {
			log.Info().Str("path", configPath).Msg("已合并外部配置文件")
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/budget")
		externalViper.AddConfigPath("$HOME/.budget")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Warn().Err(err).Msg("合并外部配置失败")
			} else {
				log.Info().Str("path", externalViper.ConfigFileUsed()).Msg("已合并外部配置文件")
			}
		}
	}

	// 3. 支持环境变量覆盖，如 BUDGET_DATABASE_DRIVER=mysql
	v.SetEnvPrefix("BUDGET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if cfg.Ledger.RecentLimit <= 0 {
		cfg.Ledger.RecentLimit = 20
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg

	return &cfg, nil
}

// Validate 校验配置的基本合法性
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path 不能为空")
		}
	case "mysql":
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("database.host 和 database.dbname 不能为空")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}
	for _, dc := range c.Ledger.DefaultCategories {
		switch dc.Type {
		case "income", "expense", "other":
		default:
			return fmt.Errorf("默认类别 %q 的类型无效: %q", dc.Key, dc.Type)
		}
	}
	return nil
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig(logger zerolog.Logger, cfg *Config) {
	if cfg == nil {
		return
	}
	ev := logger.Info().
		Str("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver)
	if cfg.Database.Driver == "sqlite" {
		ev = ev.Str("path", cfg.Database.Path)
	} else {
		ev = ev.Str("dsn", fmt.Sprintf("%s@%s:%s/%s",
			cfg.Database.Username, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName))
	}
	ev.Bool("email", cfg.Email.Enabled).
		Int("default_categories", len(cfg.Ledger.DefaultCategories)).
		Msg("当前配置")
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情
// 未加载配置时视为开发环境
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
