package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Redis    RedisConfig    `mapstructure:"redis"`
	QuranAPI QuranAPIConfig `mapstructure:"quran_api"`
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Summary  SummaryConfig  `mapstructure:"summary"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type RedisConfig struct {
	URI string `mapstructure:"uri"`
}

type QuranAPIConfig struct {
	BaseURL                string        `mapstructure:"base_url"`
	TextEdition            string        `mapstructure:"text_edition"`
	TranslationEdition     string        `mapstructure:"translation_edition"`
	TransliterationEdition string        `mapstructure:"transliteration_edition"`
	AudioEdition           string        `mapstructure:"audio_edition"`
	Timeout                time.Duration `mapstructure:"timeout"`
}

type AppConfig struct {
	LocalesDir      string `mapstructure:"locales_dir"`
	DefaultLanguage string `mapstructure:"default_language"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

type SummaryConfig struct {
	Width           int     `mapstructure:"width"`
	Dark            bool    `mapstructure:"dark"`
	ArabicFont      string  `mapstructure:"arabic_font"`
	OutputDir       string  `mapstructure:"output_dir"`
	ShowTranslation bool    `mapstructure:"show_translation"`
	VerseFontSize   float64 `mapstructure:"verse_font_size"`
	JPEGQuality     int     `mapstructure:"jpeg_quality"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// A missing file leaves the defaults in place.
func Load(filename string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Environment variable configuration, e.g. TELEGRAM_TOKEN
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.QuranAPI.BaseURL == "" {
		return nil, fmt.Errorf("quran API base URL is required")
	}
	if cfg.Summary.Width <= 0 {
		return nil, fmt.Errorf("summary width must be positive, got %d", cfg.Summary.Width)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("redis.uri", "")

	v.SetDefault("quran_api.base_url", "https://api.alquran.cloud/v1")
	v.SetDefault("quran_api.text_edition", "quran-uthmani")
	v.SetDefault("quran_api.translation_edition", "en.sahih")
	v.SetDefault("quran_api.transliteration_edition", "en.transliteration")
	v.SetDefault("quran_api.audio_edition", "ar.alafasy")
	v.SetDefault("quran_api.timeout", 30*time.Second)

	v.SetDefault("app.locales_dir", "locales")
	v.SetDefault("app.default_language", "en")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("summary.width", 1080)
	v.SetDefault("summary.dark", false)
	v.SetDefault("summary.arabic_font", "")
	v.SetDefault("summary.output_dir", ".")
	v.SetDefault("summary.show_translation", true)
	v.SetDefault("summary.verse_font_size", 40)
	v.SetDefault("summary.jpeg_quality", 90)
}

// ValidateBot checks the fields only the Telegram bot needs
func (c *Config) ValidateBot() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if c.Redis.URI == "" {
		return fmt.Errorf("redis URI is required")
	}
	return nil
}
