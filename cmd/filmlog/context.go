package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"filmlog/internal/auth"
	"filmlog/internal/config"
	"filmlog/internal/lifecycle"
	"filmlog/internal/logging"
	"filmlog/internal/store"
)

// defaultPassword seeds the configured account on first run. Change it
// with `filmlog user passwd`.
const defaultPassword = "filmlog"

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	storeOnce sync.Once
	store     *store.Store
	lock      *flock.Flock
	storeErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	userOnce sync.Once
	user     *store.User
	userErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{configFlag: configFlag, jsonFlag: jsonFlag}
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// ensureStore opens the database and takes the single-instance lock on
// the data directory. The lock is held for the life of the process.
func (c *commandContext) ensureStore() (*store.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}

		lock := flock.New(cfg.LockPath())
		locked, err := lock.TryLock()
		if err != nil {
			c.storeErr = fmt.Errorf("acquire instance lock: %w", err)
			return
		}
		if !locked {
			c.storeErr = fmt.Errorf("another filmlog instance is using %s", cfg.Paths.DataDir)
			return
		}
		c.lock = lock

		st, err := store.Open(cfg)
		if err != nil {
			_ = lock.Unlock()
			c.lock = nil
			c.storeErr = err
			return
		}
		c.store = st
	})
	return c.store, c.storeErr
}

// currentUser resolves the configured account, creating it with the
// default password on first run.
func (c *commandContext) currentUser(ctx context.Context) (*store.User, error) {
	c.userOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.userErr = err
			return
		}
		st, err := c.ensureStore()
		if err != nil {
			c.userErr = err
			return
		}

		hash, err := auth.HashPassword(defaultPassword)
		if err != nil {
			c.userErr = fmt.Errorf("hash default password: %w", err)
			return
		}
		c.user, c.userErr = st.EnsureUser(ctx, cfg.User.Name, hash)
	})
	return c.user, c.userErr
}

func (c *commandContext) engine() (*lifecycle.Engine, error) {
	st, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return lifecycle.New(st, logger), nil
}
