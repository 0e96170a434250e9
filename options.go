package stratum

import (
	"log/slog"

	"github.com/strataml/stratum/internal/config"
	"github.com/strataml/stratum/layers"
	"github.com/strataml/stratum/pkg/errors"
	"github.com/strataml/stratum/pkg/layer"
	"github.com/strataml/stratum/pkg/plugin"
	"github.com/strataml/stratum/pkg/strategy"
)

// Option configures the executor builder.
type Option func(*builderConfig) error

type builderConfig struct {
	layers   []layer.Layer
	plugins  []plugin.Plugin
	strategy strategy.JSONStrategy
	logger   *slog.Logger
	metadata map[string]string
}

func defaultBuilderConfig() *builderConfig {
	return &builderConfig{
		logger: slog.Default(),
	}
}

// WithLayer attaches a layer to the connector chain. Layers apply in
// attachment order: the first attached is innermost, the last outermost.
func WithLayer(l layer.Layer) Option {
	return func(cfg *builderConfig) error {
		if l == nil {
			return errors.NewConfigurationError("layer is nil")
		}
		cfg.layers = append(cfg.layers, l)
		return nil
	}
}

// WithPlugin registers a plugin. Plugins are sorted by phase once at build
// time; registration order is preserved within a phase.
func WithPlugin(p plugin.Plugin) Option {
	return func(cfg *builderConfig) error {
		if p == nil {
			return errors.NewConfigurationError("plugin is nil")
		}
		cfg.plugins = append(cfg.plugins, p)
		return nil
	}
}

// WithJSONStrategy sets an explicit JSON output strategy, overriding
// auto-detection from the backend id.
func WithJSONStrategy(s strategy.JSONStrategy) Option {
	return func(cfg *builderConfig) error {
		cfg.strategy = s
		return nil
	}
}

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *builderConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithMetadata attaches opaque key-value pairs propagated read-only to every
// hook via the request context.
func WithMetadata(metadata map[string]string) Option {
	return func(cfg *builderConfig) error {
		cfg.metadata = metadata
		return nil
	}
}

// WithConfigFile loads layer tuning and a strategy override from a YAML
// file. Layers declared in the file attach in a fixed order — cache, retry,
// logging — so logging observes the full retried operation. Options placed
// after WithConfigFile stack on top of the file's layers.
func WithConfigFile(path string) Option {
	return func(cfg *builderConfig) error {
		fileCfg, err := config.Load(path)
		if err != nil {
			return errors.NewConfigurationError(err.Error())
		}
		applyFileConfig(cfg, fileCfg)
		return nil
	}
}

func applyFileConfig(cfg *builderConfig, fileCfg *config.Config) {
	if fileCfg.Cache.Enabled {
		opts := []layers.CacheOption{layers.WithCacheLogger(cfg.logger)}
		if fileCfg.Cache.TTL > 0 {
			opts = append(opts, layers.WithTTL(fileCfg.Cache.TTL))
		}
		cfg.layers = append(cfg.layers, layers.NewCacheLayer(opts...))
	}

	if fileCfg.Retry.Enabled {
		opts := []layers.RetryOption{layers.WithRetryLogger(cfg.logger)}
		if fileCfg.Retry.MaxRetries > 0 {
			opts = append(opts, layers.WithMaxRetries(fileCfg.Retry.MaxRetries))
		}
		if fileCfg.Retry.InitialDelay > 0 {
			opts = append(opts, layers.WithInitialDelay(fileCfg.Retry.InitialDelay))
		}
		if fileCfg.Retry.MaxDelay > 0 {
			opts = append(opts, layers.WithMaxDelay(fileCfg.Retry.MaxDelay))
		}
		if fileCfg.Retry.Multiplier > 0 {
			opts = append(opts, layers.WithMultiplier(fileCfg.Retry.Multiplier))
		}
		cfg.layers = append(cfg.layers, layers.NewRetryLayer(opts...))
	}

	if fileCfg.Logging.Enabled {
		opts := []layers.LoggingOption{layers.WithLogger(cfg.logger)}
		if fileCfg.Logging.Scope != "" {
			opts = append(opts, layers.WithScope(fileCfg.Logging.Scope))
		}
		cfg.layers = append(cfg.layers, layers.NewLoggingLayer(opts...))
	}

	switch fileCfg.Strategy.Mode {
	case "schema":
		cfg.strategy = &strategy.SchemaStrategy{Strict: fileCfg.Strategy.Strict}
	case "prompt":
		cfg.strategy = &strategy.PromptStrategy{UseSystemMessage: fileCfg.Strategy.UseSystemMessage}
	}
}
