package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/transistor/config"
	"github.com/s0up4200/transistor/filter"
	"github.com/s0up4200/transistor/transistor"
)

// skipConfig marks commands that run without an API key.
const skipConfig = "skip-config"

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *transistor.Client
	filters *filter.Manager

	// Command flags
	timeout    time.Duration
	filterExpr string
	preset     string
	raw        bool
	outputYAML bool
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "transistor",
	Short: "A command line client for the Transistor.fm API",
	Long: `transistor talks to the Transistor.fm REST API. It sends GET, POST, PATCH and
DELETE requests with your API key, prints the JSON:API documents that come back and
can filter the returned resources with expressions.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "per-request timeout, 0 disables it (default from config)")
	rootCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to returned resources")
	rootCmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	rootCmd.PersistentFlags().BoolVar(&raw, "raw", false, "print the response body exactly as received")
	rootCmd.PersistentFlags().BoolVar(&outputYAML, "yaml", false, "print structured results as YAML instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print request and response diagnostics to stderr")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		if cmd.Annotations[skipConfig] == "true" {
			logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	// Override timeout from command line if specified
	if cmd.Flags().Changed("timeout") {
		cfg.API.Timeout = timeout
	}

	client, err = transistor.NewClient(cfg.API.Key, logger,
		transistor.WithBaseURL(cfg.API.BaseURL),
		transistor.WithDefaultTimeout(cfg.API.Timeout),
		transistor.WithUserAgent(userAgent(cfg.API.UserAgent)),
	)
	if err != nil {
		return fmt.Errorf("failed to create Transistor client: %w", err)
	}

	filters = filter.NewManager(filter.WithEvaluator(
		filter.NewConcurrentEvaluator(filter.WithWorkers(cfg.Filter.Workers)),
	))
	if err := filters.Load(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only on a terminal
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// userAgent appends the build version to the configured agent
func userAgent(base string) string {
	if base == "" {
		base = transistor.DefaultUserAgent
	}
	if appVersion == "" || appVersion == "dev" {
		return base
	}
	return base + "/" + appVersion
}

// getFilterExpression determines the filter expression to use.
// A --filter expression takes priority over --preset.
func getFilterExpression() (filter.CompiledFilter, error) {
	return filters.Resolve(filterExpr, preset)
}
