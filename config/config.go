package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/wexxqt/ecatsulta-api/internal/model"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	SMTP          SMTPConfig          `mapstructure:"smtp"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Outbox        OutboxConfig        `mapstructure:"outbox"`
	Doctors       []model.Doctor      `mapstructure:"doctors"`
	AccessSecrets AccessSecretsConfig `ignored:"true"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type OutboxConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

// AccessSecretsConfig holds the secrets that must never live in the yaml
// file: the four static role passkeys, the JWT signing secret override
// and the SMTP password override. Populated from the environment.
type AccessSecretsConfig struct {
	AdminPasskey      string `envconfig:"ADMIN_PASSKEY"`
	StaffPasskey      string `envconfig:"STAFF_PASSKEY"`
	DrAbundoPasskey   string `envconfig:"DR_ABUNDO_PASSKEY"`
	DrDecastroPasskey string `envconfig:"DR_DECASTRO_PASSKEY"`
	JWTSecret         string `envconfig:"JWT_SECRET"`
	SMTPPassword      string `envconfig:"SMTP_PASSWORD"`
	DatabasePassword  string `envconfig:"DB_PASSWORD"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("ECATSULTA", &config.AccessSecrets); err != nil {
		return nil, fmt.Errorf("failed to read environment secrets: %w", err)
	}

	if config.AccessSecrets.JWTSecret != "" {
		config.JWT.Secret = config.AccessSecrets.JWTSecret
	}
	if config.AccessSecrets.SMTPPassword != "" {
		config.SMTP.Password = config.AccessSecrets.SMTPPassword
	}
	if config.AccessSecrets.DatabasePassword != "" {
		config.Database.Password = config.AccessSecrets.DatabasePassword
	}

	return &config, nil
}

// RolePasskeys maps the configured role secrets to their access roles.
func (c *Config) RolePasskeys() map[model.AccessRole]string {
	return map[model.AccessRole]string{
		model.RoleAdmin:      c.AccessSecrets.AdminPasskey,
		model.RoleStaff:      c.AccessSecrets.StaffPasskey,
		model.RoleDrAbundo:   c.AccessSecrets.DrAbundoPasskey,
		model.RoleDrDecastro: c.AccessSecrets.DrDecastroPasskey,
	}
}
