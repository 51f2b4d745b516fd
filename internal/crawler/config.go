package crawler

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a crawl run. Values
// originate from Viper so the crawler can be configured via file, env
// vars, or CLI flags.
type Config struct {
	Workers           int
	MaxRequests       int
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	DomainQPS         float64
	UserAgents        []string
	IgnoredHeaders    []string
	DriverName        string
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Workers:           v.GetInt("crawler.workers"),
		MaxRequests:       v.GetInt("crawler.max_requests"),
		NavigationTimeout: v.GetDuration("crawler.navigation_timeout"),
		SettleDelay:       v.GetDuration("crawler.settle_delay"),
		DomainQPS:         v.GetFloat64("crawler.domain_qps"),
		UserAgents:        v.GetStringSlice("crawler.user_agents"),
		IgnoredHeaders:    v.GetStringSlice("crawler.ignored_headers"),
		DriverName:        v.GetString("crawler.driver"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be > 0")
	}
	if c.MaxRequests < 0 {
		return fmt.Errorf("crawler.max_requests must be >= 0")
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("crawler.navigation_timeout must be > 0")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("crawler.settle_delay must be >= 0")
	}
	if c.DomainQPS < 0 {
		return fmt.Errorf("crawler.domain_qps must be >= 0")
	}
	switch c.DriverName {
	case "", "chromedp", "static":
	default:
		return fmt.Errorf("crawler.driver must be chromedp or static, got %q", c.DriverName)
	}
	return nil
}
