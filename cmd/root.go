// Package cmd defines the CLI surface of the nightcrawler executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nthompson/nightcrawler/internal/crawler"
	"github.com/nthompson/nightcrawler/internal/driver/headless"
	"github.com/nthompson/nightcrawler/internal/driver/static"
	"github.com/nthompson/nightcrawler/internal/logging"
	"github.com/nthompson/nightcrawler/internal/report"
	"github.com/nthompson/nightcrawler/pkg/config"
)

type rootOptions struct {
	cfgFile     string
	silent      bool
	maxRequests int
	outputFile  string
	driverName  string
}

// newRootCmd creates and configures the root command. The crawl runs
// directly off the root command: the only positional argument is the
// seed URL.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nightcrawler <start_url>",
		Short: "Crawl a site with a headless browser and report pages and headers",
		Long: `nightcrawler crawls every same-origin page reachable from the seed URL
using a pool of headless-browser workers, collects the set of discovered
page URLs and the merged response headers, and prints the result as JSON.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd.Context(), opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is ./nightcrawler.yaml)")
	flags.BoolVar(&opts.silent, "silent", false, "suppress progress and debug output")
	flags.IntVar(&opts.maxRequests, "max-requests", 0, "maximum number of URLs to crawl (0 = unlimited)")
	flags.StringVar(&opts.outputFile, "output-file", "", "write the JSON result to this file instead of stdout")
	flags.StringVar(&opts.driverName, "driver", "", "page driver to use: chromedp or static")

	return cmd
}

func runCrawl(ctx context.Context, opts *rootOptions, seed string) error {
	if err := config.InitConfig(opts.cfgFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.maxRequests > 0 {
		viper.Set("crawler.max_requests", opts.maxRequests)
	}
	if opts.driverName != "" {
		viper.Set("crawler.driver", opts.driverName)
	}

	cfg, err := crawler.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("crawler config: %w", err)
	}

	logger, err := buildLogger(opts.silent)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	driver, err := buildDriver(cfg, logger)
	if err != nil {
		return fmt.Errorf("init page driver: %w", err)
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := crawler.NewEngine(cfg, driver, logger)
	result, err := engine.Run(runCtx, seed)
	if err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	return writeResult(opts, result)
}

func buildLogger(silent bool) (*zap.Logger, error) {
	if silent {
		return logging.NewSilent(), nil
	}
	return logging.New(true)
}

func buildDriver(cfg crawler.Config, logger *zap.Logger) (crawler.Driver, error) {
	switch cfg.DriverName {
	case "static":
		return static.New(static.Config{
			RequestTimeout: viper.GetDuration("crawler.request_timeout"),
		}, logger), nil
	default:
		driver, err := headless.New(headless.Config{
			NavigationTimeout: cfg.NavigationTimeout,
			SettleDelay:       cfg.SettleDelay,
			DomainQPS:         cfg.DomainQPS,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("launch headless browser: %w", err)
		}
		return driver, nil
	}
}

func writeResult(opts *rootOptions, result crawler.Result) error {
	if opts.outputFile == "" {
		return report.Write(os.Stdout, result)
	}
	if err := report.WriteFile(opts.outputFile, result); err != nil {
		return err
	}
	if !opts.silent {
		fmt.Printf("Results written to %s\n", opts.outputFile)
	}
	return nil
}

// Execute is the main entry point. Configuration errors print a
// one-line message and set a non-zero exit code; a crawl whose seed
// simply fails to load is still a success with an empty result.
func Execute() {
	cmd := newRootCmd()
	cmd.SetContext(context.Background())
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
