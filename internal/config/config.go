package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brogergvhs/revimg/internal/retry"
	"github.com/brogergvhs/revimg/internal/search"
)

type Retry struct {
	Attempts   int           `yaml:"attempts"`
	Delay      time.Duration `yaml:"delay"`
	Multiplier float64       `yaml:"multiplier"`
}

type Config struct {
	Output       string `yaml:"output"`
	DownloadsDir string `yaml:"downloads_dir"`
	ExcludeStock bool   `yaml:"exclude_stock"`
	NoDownload   bool   `yaml:"no_download"`
	Debug        bool   `yaml:"debug"`

	ChromePath    string        `yaml:"chrome_path"`
	Headless      bool          `yaml:"headless"`
	UserAgent     string        `yaml:"user_agent"`
	ActionTimeout time.Duration `yaml:"action_timeout"`

	CFBypass    bool          `yaml:"cf_bypass"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	Retry      Retry          `yaml:"retry"`
	StockHosts []string       `yaml:"stock_hosts"`
	Locator    search.Locator `yaml:"locator"`
}

// Options are the CLI-side overrides. Zero values leave the loaded config
// untouched.
type Options struct {
	IgnoreConfig bool
	Debug        bool
	Output       string
	DownloadsDir string
	ExcludeStock bool
	NoDownload   bool
	ChromePath   string
	Headful      bool
	UserAgent    string
	CFBypass     bool
}

func DefaultConfig() *Config {
	def := retry.Default()

	return &Config{
		Output:        search.Terminal,
		DownloadsDir:  "downloads",
		ExcludeStock:  false,
		NoDownload:    false,
		Debug:         false,
		ChromePath:    "",
		Headless:      true,
		UserAgent:     "",
		ActionTimeout: 15 * time.Second,
		CFBypass:      false,
		HTTPTimeout:   30 * time.Second,
		Retry: Retry{
			Attempts:   def.Attempts,
			Delay:      def.Delay,
			Multiplier: def.Multiplier,
		},
		StockHosts: append([]string(nil), search.DefaultStockHosts...),
		Locator:    search.GoogleLocator(),
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory, run `revimg config init` to create one)", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.DownloadsDir != "" {
		c.DownloadsDir = o.DownloadsDir
	}
	if o.ExcludeStock {
		c.ExcludeStock = true
	}
	if o.NoDownload {
		c.NoDownload = true
	}
	if o.ChromePath != "" {
		c.ChromePath = o.ChromePath
	}
	if o.Headful {
		c.Headless = false
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.CFBypass {
		c.CFBypass = true
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.DownloadsDir == "" {
		c.DownloadsDir = def.DownloadsDir
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = def.ActionTimeout
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = def.HTTPTimeout
	}
	if c.Retry.Attempts <= 0 {
		c.Retry.Attempts = def.Retry.Attempts
	}
	if c.Retry.Delay <= 0 {
		c.Retry.Delay = def.Retry.Delay
	}
	if c.Retry.Multiplier < 1 {
		c.Retry.Multiplier = def.Retry.Multiplier
	}
	if len(c.StockHosts) == 0 {
		c.StockHosts = def.StockHosts
	}
	c.Locator = c.Locator.Merge(def.Locator)
}

// RetryPolicy is the backoff schedule shared by every flaky page interaction.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		Attempts:   c.Retry.Attempts,
		Delay:      c.Retry.Delay,
		Multiplier: c.Retry.Multiplier,
	}
}

func (c *Config) Print(w io.Writer) {
	fmt.Fprintf(w, " -output: %s\n", c.Output)
	fmt.Fprintf(w, " -downloads_dir: %s\n", c.DownloadsDir)
	if c.ExcludeStock {
		fmt.Fprintf(w, " -exclude_stock: %t\n", c.ExcludeStock)
	}
	if c.NoDownload {
		fmt.Fprintf(w, " -no_download: %t\n", c.NoDownload)
	}
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.ChromePath != "" {
		fmt.Fprintf(w, " -chrome_path: %s\n", c.ChromePath)
	}
	fmt.Fprintf(w, " -headless: %t\n", c.Headless)
	if c.UserAgent != "" {
		fmt.Fprintf(w, " -user_agent: %s\n", c.UserAgent)
	}
	if c.CFBypass {
		fmt.Fprintf(w, " -cf_bypass: %t\n", c.CFBypass)
	}
	fmt.Fprintf(w, " -retry: %d attempts, %s initial delay, x%g\n", c.Retry.Attempts, c.Retry.Delay, c.Retry.Multiplier)
	if len(c.StockHosts) > 0 {
		fmt.Fprintf(w, " -stock_hosts: %s\n", strings.Join(c.StockHosts, ", "))
	}
	fmt.Fprintf(w, " -landing_url: %s\n", c.Locator.LandingURL)
}
