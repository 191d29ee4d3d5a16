package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	SelectionHandRaise = "hand-raise"
	SelectionOpen      = "open"
)

var (
	ErrSelectionMode = errors.New("unknown selection_mode")
	ErrLimit         = errors.New("limit must be positive")
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`

	// AdminKey, when set, is required (via POST /api/admin/login) before a
	// connection may register as admin.
	AdminKey      string   `mapstructure:"admin_key"`
	SelectionMode string   `mapstructure:"selection_mode"`
	ICEServers    []string `mapstructure:"ice_servers"`
	PublicURL     string   `mapstructure:"public_url"`
	JournalPath   string   `mapstructure:"journal_path"`

	HandRateLimit    int           `mapstructure:"hand_rate_limit"`
	HandRateInterval time.Duration `mapstructure:"hand_rate_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("spotlight")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Secret == "" {
		cfg.Secret = uuid.NewString()
		log.Warn().Str("module", "config").Msg("no secret configured, admin sessions will not survive a restart")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Str("selection", cfg.SelectionMode).
		Bool("admin_key", cfg.AdminKey != "").
		Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("log_level", "info")
	v.SetDefault("selection_mode", SelectionHandRaise)
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("journal_path", "")
	v.SetDefault("secret", "")
	v.SetDefault("admin_key", "")
	v.SetDefault("public_url", "")
	v.SetDefault("hand_rate_limit", 10)
	v.SetDefault("hand_rate_interval", "10s")
}

func (c *Config) Validate() error {
	switch c.SelectionMode {
	case SelectionHandRaise, SelectionOpen:
	default:
		return fmt.Errorf("%w: %q", ErrSelectionMode, c.SelectionMode)
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send_buffer: %w", ErrLimit)
	}
	if c.HandRateLimit <= 0 || c.HandRateInterval <= 0 {
		return fmt.Errorf("hand_rate_limit: %w", ErrLimit)
	}
	if c.PingPeriod <= 0 || c.PongWait <= c.PingPeriod {
		return fmt.Errorf("pong_wait must exceed ping_period (%s <= %s)", c.PongWait, c.PingPeriod)
	}
	return nil
}
