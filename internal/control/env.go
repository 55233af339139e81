package control

import (
	"context"

	"parasite/internal/catalog"
	"parasite/internal/config"
	"parasite/internal/hook"
	"parasite/internal/logging"
	"parasite/internal/preview"
	"parasite/internal/session"

	"github.com/sirupsen/logrus"
)

// env holds what every command needs once the config is loaded.
type env struct {
	cfg     *config.Config
	logger  *logrus.Logger
	catalog *catalog.Store
	hooks   *hook.Queue
	player  preview.Player
	cancel  context.CancelFunc
}

// loadEnv loads config and logging. Catalog, hook queue and preview player
// are opened on request.
func loadEnv(cfgPath string, withSession, withPlayer bool) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.Configure(cfg)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger}
	if !withSession {
		return e, nil
	}
	if cfg.Catalog.Enabled {
		store, err := catalog.Open(cfg.Paths.CatalogPath)
		if err != nil {
			// The catalog is a convenience; extraction still works without it.
			logger.Warnf("catalog disabled: %v", err)
		} else {
			e.catalog = store
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.hooks = hook.NewQueue(ctx, hook.NewRunner(cfg.Hook, logger), logger, 8)
	if withPlayer {
		player, err := preview.New(cfg, logger)
		if err != nil {
			logger.Warnf("preview disabled: %v", err)
			player = preview.Disabled{}
		}
		e.player = player
	}
	return e, nil
}

// options maps the env onto controller options.
func (e *env) options() session.Options {
	opts := session.OptionsFromConfig(e.cfg)
	opts.Logger = e.logger
	if e.catalog != nil {
		opts.Recorder = e.catalog
	}
	if e.hooks != nil {
		opts.Hook = e.hooks
	}
	if e.player != nil {
		opts.Player = e.player
	}
	return opts
}

// Close drains pending hooks and releases resources.
func (e *env) Close() {
	if e.player != nil {
		if err := e.player.Close(); err != nil {
			e.logger.Warnf("close preview: %v", err)
		}
	}
	if e.hooks != nil {
		e.hooks.Close()
		e.cancel()
		s := e.hooks.Stats()
		e.logger.Debugf("hooks: sent=%d failed=%d dropped=%d", s.Sent, s.Failed, s.Dropped)
	}
	if e.catalog != nil {
		if err := e.catalog.Close(); err != nil {
			e.logger.Warnf("close catalog: %v", err)
		}
	}
}
