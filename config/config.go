package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	SMTP      SMTPConfig
	Watch     WatchConfig
	StatePath string
	DBPath    string
	Site      *SiteConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
	To       []string
}

// Configured reports whether enough is set to attempt email delivery.
func (c *SMTPConfig) Configured() bool {
	return c.Host != "" && c.From != "" && c.Password != "" && len(c.To) > 0
}

type WatchConfig struct {
	Interval           time.Duration
	Cron               string
	SoundPlayer        string
	SoundFile          string
	NormalizeAddresses bool
}

// SiteConfig describes the one site we watch. The selectors are an external
// contract with the site's markup: when the layout changes, this file changes,
// not the extraction code.
type SiteConfig struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	URL           string    `yaml:"url"`
	BaseURL       string    `yaml:"base_url"`
	ScrollDelayMS int       `yaml:"scroll_delay_ms"`
	MaxScrolls    int       `yaml:"max_scrolls"`
	Selectors     Selectors `yaml:"selectors"`
}

type Selectors struct {
	Container    string `yaml:"container"`
	Address      string `yaml:"address"`
	Price        string `yaml:"price"`
	Bedrooms     string `yaml:"bedrooms"`
	Availability string `yaml:"availability"`
	URL          string `yaml:"url"`
}

func (s *SiteConfig) ScrollDelay() time.Duration {
	if s.ScrollDelayMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(s.ScrollDelayMS) * time.Millisecond
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			From:     os.Getenv("EMAIL_FROM"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			To:       splitList(os.Getenv("EMAIL_TO")),
		},
		Watch: WatchConfig{
			Interval:           getEnvDuration("CHECK_INTERVAL", 30*time.Second),
			Cron:               os.Getenv("CHECK_CRON"),
			SoundPlayer:        os.Getenv("SOUND_PLAYER"),
			SoundFile:          os.Getenv("SOUND_FILE"),
			NormalizeAddresses: os.Getenv("NORMALIZE_ADDRESSES") == "true",
		},
		StatePath: getEnv("APARTMENTS_FILE", "apartments.json"),
		DBPath:    getEnv("DB_PATH", "stuywatch.db"),
	}

	site, err := loadSiteConfig(getEnv("SITE_CONFIG", "config/sites/stuytown.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Site = site

	return cfg, nil
}

func loadSiteConfig(path string) (*SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site config %s: %w", path, err)
	}

	var site SiteConfig
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parse site config %s: %w", path, err)
	}
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("site config %s: %w", path, err)
	}

	return &site, nil
}

func (s *SiteConfig) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	if s.Selectors.Container == "" {
		return fmt.Errorf("selectors.container is required")
	}
	if s.Selectors.Address == "" || s.Selectors.Price == "" {
		return fmt.Errorf("selectors.address and selectors.price are required")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
