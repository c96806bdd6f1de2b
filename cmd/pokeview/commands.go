package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/reoring/castkit/config"
	"github.com/reoring/castkit/i18n"
	"github.com/reoring/castkit/internal/cache"
	"github.com/reoring/castkit/internal/logging"
	"github.com/reoring/castkit/internal/metrics"
	"github.com/reoring/castkit/pokeapi"
	"github.com/reoring/castkit/viewer"
)

// app holds the persistent flags and the configuration they resolve to.
type app struct {
	flagConfPath string
	flagLogLevel string
	flagBaseURL  string

	conf *config.Config
}

// Run executes CLI.
func Run() int {
	if err := newRootCmd().Execute(); err != nil {
		return 1
	}

	return 0
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "pokeview",
		Short:             "Browse PokeAPI resources validated by castkit schemas",
		SilenceUsage:      true,
		PersistentPreRunE: a.preload,
	}

	rootCmd.PersistentFlags().StringVarP(&a.flagConfPath, "config", "c", "", "Config path")
	rootCmd.PersistentFlags().StringVarP(&a.flagLogLevel, "log-level", "l", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.flagBaseURL, "base-url", "", "PokeAPI base URL")

	rootCmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newBrowseCmd(a),
		newServeCmd(a),
		newSchemaCmd(a),
		newValidateCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// preload resolves the configuration: defaults, then the config file, then
// POKEVIEW_* variables, then flags.
func (a *app) preload(_ *cobra.Command, _ []string) error {
	conf := config.NewConfig()
	if a.flagConfPath != "" {
		parsed, err := config.NewConfigFromFile(a.flagConfPath)
		if err != nil {
			return err
		}
		conf = parsed
	}
	if err := conf.ApplyEnv(); err != nil {
		return err
	}
	if a.flagLogLevel != "" {
		conf.Log.Level = a.flagLogLevel
	}
	if a.flagBaseURL != "" {
		conf.Client.BaseURL = a.flagBaseURL
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	if err := logging.SetLogLevel(conf.Log.Level); err != nil {
		return err
	}
	i18n.SetLanguage(conf.Caster.MessageLanguage)
	a.conf = conf
	return nil
}

// newStore builds the response cache selected by the configuration.
func (a *app) newStore(ctx context.Context) (cache.Store, func(), error) {
	conf := a.conf.Cache
	if conf.Backend != "redis" {
		return cache.NewLRUStore(conf.Size, conf.TTL), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: conf.RedisAddr, DB: conf.RedisDB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", conf.RedisAddr, err)
	}
	store, err := cache.NewRedisStore(client, conf.KeyPrefix, conf.TTL)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logging.DefaultLogger().Warnf("close redis: %v", err)
		}
	}, nil
}

// newViewer wires the client and the viewer. m may be nil.
func (a *app) newViewer(ctx context.Context, m *metrics.Metrics) (*viewer.Viewer, func(), error) {
	store, closeStore, err := a.newStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	client, err := pokeapi.NewClient(pokeapi.Options{
		BaseURL:         a.conf.Client.BaseURL,
		Store:           store,
		Logger:          logging.New("pokeapi"),
		Metrics:         m,
		RequestTimeout:  a.conf.Client.RequestTimeout,
		MaxRetries:      a.conf.Client.MaxRetries,
		MaxWaitInterval: a.conf.Client.MaxWaitInterval,
		StrictUnknown:   a.conf.Caster.StrictUnknown,
		MaxDepth:        a.conf.Caster.MaxDepth,
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return viewer.New(client, a.conf.Client.Language), closeStore, nil
}
