// Package config loads console settings from configs/config.yml, a local .env
// file and TELEOP_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TELEOP"

type Config struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	DB          DBConfig          `mapstructure:"db"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Health      HealthConfig      `mapstructure:"health"`
	Controllers ControllersConfig `mapstructure:"controllers"`
	MQTT        MQTTConfig        `mapstructure:"mqtt"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// HealthConfig holds the liveness ladder and the initial activity source.
type HealthConfig struct {
	WarnAfter    time.Duration `mapstructure:"warn_after"`
	LostAfter    time.Duration `mapstructure:"lost_after"`
	EvalInterval time.Duration `mapstructure:"eval_interval"`
	DemoMode     bool          `mapstructure:"demo_mode"`
	DemoPeriod   time.Duration `mapstructure:"demo_period"`
}

// ControllersConfig holds the identifier tokens used for role classification.
type ControllersConfig struct {
	DriveToken string `mapstructure:"drive_token"`
	ArmToken   string `mapstructure:"arm_token"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// maxDemoPeriod mirrors the health monitor bound.
const maxDemoPeriod = time.Hour

var (
	errNoPort          = errors.New("port must not be empty")
	errThresholdOrder  = errors.New("health.warn_after must be > 0 and < health.lost_after")
	errEvalInterval    = errors.New("health.eval_interval must be > 0")
	errDemoPeriod      = errors.New("health.demo_period must be in (0, 1h]")
	errEmptyRoleToken  = errors.New("controllers.drive_token and controllers.arm_token must not be empty")
	errNoSigningKey    = errors.New("auth.signing_key must not be empty")
	errMQTTBrokerUnset = errors.New("mqtt.broker is required when mqtt.enabled is true")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "console.db")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("health.warn_after", 3*time.Second)
	v.SetDefault("health.lost_after", 10*time.Second)
	v.SetDefault("health.eval_interval", 250*time.Millisecond)
	v.SetDefault("health.demo_mode", false)
	v.SetDefault("health.demo_period", 2*time.Second)
	v.SetDefault("controllers.drive_token", "standard")
	v.SetDefault("controllers.arm_token", "extreme")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "teleop-console")
	v.SetDefault("mqtt.topic_prefix", "teleop")
}

// Load reads configuration. dirs are searched for config.yml; a missing file
// is not an error, defaults and the environment still apply.
func Load(dirs ...string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errNoPort
	}
	if c.Health.WarnAfter <= 0 || c.Health.WarnAfter >= c.Health.LostAfter {
		return errThresholdOrder
	}
	if c.Health.EvalInterval <= 0 {
		return errEvalInterval
	}
	if c.Health.DemoPeriod <= 0 || c.Health.DemoPeriod > maxDemoPeriod {
		return errDemoPeriod
	}
	if strings.TrimSpace(c.Controllers.DriveToken) == "" || strings.TrimSpace(c.Controllers.ArmToken) == "" {
		return errEmptyRoleToken
	}
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errNoSigningKey
	}
	if c.MQTT.Enabled && strings.TrimSpace(c.MQTT.Broker) == "" {
		return errMQTTBrokerUnset
	}
	return nil
}
