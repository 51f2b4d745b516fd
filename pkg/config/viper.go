// Package config is responsible for initializing the application's
// configuration. It uses the Viper library to read settings from an
// optional config file, environment variables, and command-line flags,
// providing a unified configuration system.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// InitConfig initializes the application's configuration using Viper.
// It sets up default values, defines configuration search paths, and
// enables reading from environment variables. Call once at startup; the
// returned error only covers a config file that exists but cannot be
// parsed — a missing file is fine.
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nightcrawler")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.nightcrawler")
	}

	viper.SetDefault("crawler.workers", 10)
	viper.SetDefault("crawler.max_requests", 0)
	viper.SetDefault("crawler.navigation_timeout", "45s")
	viper.SetDefault("crawler.settle_delay", "2s")
	viper.SetDefault("crawler.domain_qps", 0.0)
	viper.SetDefault("crawler.driver", "chromedp")
	viper.SetDefault("crawler.request_timeout", "30s")
	viper.SetDefault("crawler.user_agents", []string{})
	viper.SetDefault("crawler.ignored_headers", []string{
		"content-length",
		"age",
		"date",
		"etag",
		"last-modified",
		"expires",
		"keep-alive",
	})

	viper.SetEnvPrefix("CRAWLER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}
