package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"yashubustudio/cityresolver/cityresolver"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath  string
	catalogPath string
	debug       bool
}

// overrides are the config fields a subcommand may set from flags.
type overrides struct {
	cutoff        float64
	workers       int
	onError       string
	messageColumn string
	cityColumn    string
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("cityresolver-cli: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	var opts globalOptions
	root := &cobra.Command{
		Use:           "cityresolver-cli",
		Short:         "Extract the Russian city mentioned in free-text messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "YAML/JSON city catalog (default: built-in catalog)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Log every resolution at debug level")

	root.AddCommand(
		newEnrichCommand(&opts),
		newResolveCommand(&opts),
		newCatalogCommand(&opts),
	)
	return root
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// loadConfig reads config.json and applies the flags the user actually set.
func loadConfig(cmd *cobra.Command, opts *globalOptions, ov *overrides) (cityresolver.Config, error) {
	cfg, err := cityresolver.LoadConfig(strings.TrimSpace(opts.configPath))
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p := strings.TrimSpace(opts.catalogPath); p != "" {
		cfg.CatalogPath = p
	}
	if ov == nil {
		return cfg, nil
	}
	flags := cmd.Flags()
	if flags.Changed("cutoff") {
		cfg.Fuzzy.Cutoff = ov.cutoff
	}
	if flags.Changed("workers") {
		cfg.Workers = ov.workers
	}
	if flags.Changed("on-error") {
		cfg.OnError = cityresolver.ErrorPolicy(strings.ToLower(strings.TrimSpace(ov.onError)))
	}
	if flags.Changed("message-column") {
		cfg.Columns.Message = strings.TrimSpace(ov.messageColumn)
	}
	if flags.Changed("city-column") {
		cfg.Columns.City = strings.TrimSpace(ov.cityColumn)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func bindOverrides(cmd *cobra.Command, ov *overrides) {
	cmd.Flags().Float64Var(&ov.cutoff, "cutoff", cityresolver.DefaultFuzzyCutoff, "Minimum similarity for fuzzy matches (0-1)")
	cmd.Flags().IntVar(&ov.workers, "workers", 1, "Number of messages resolved in parallel")
	cmd.Flags().StringVar(&ov.onError, "on-error", string(cityresolver.OnErrorSkip), "What to do when a message fails: skip or abort")
}

// openService assembles the resolver runtime and the bulk service around it.
func openService(ctx context.Context, cfg cityresolver.Config, logger zerolog.Logger) (*cityresolver.Service, func(), error) {
	rt, err := cityresolver.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init resolver: %w", err)
	}
	svc, err := cityresolver.NewService(rt.Resolver, cfg, logger)
	if err != nil {
		_ = rt.Close()
		return nil, nil, fmt.Errorf("init service: %w", err)
	}
	closeFn := func() {
		if err := rt.Close(); err != nil {
			logger.Warn().Err(err).Msg("close resolver")
		}
	}
	return svc, closeFn, nil
}
