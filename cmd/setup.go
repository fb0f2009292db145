package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/seatsched/internal/infrastructure/config"
	"github.com/example/seatsched/internal/infrastructure/icspace"
	"github.com/example/seatsched/internal/infrastructure/logging"
	"github.com/example/seatsched/internal/interfaces/prompt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// loadConfig applies flag overrides on top of file and env config and
// validates the result.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.area != "" {
		cfg.RoomID = cfg.ResolveArea(opts.area)
	} else if cfg.RoomID != "" {
		cfg.RoomID = cfg.ResolveArea(cfg.RoomID)
	}
	if opts.date != "" {
		cfg.Date = opts.date
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
}

// newClient builds the booking client, asking on term for the session cookie
// when neither config nor env supplied one.
func newClient(ctx context.Context, cfg *config.Config, log *logrus.Logger, term *prompt.Terminal) (*icspace.Client, error) {
	cookie := strings.TrimSpace(cfg.Session.Cookie)
	if cookie == "" {
		var err error
		cookie, err = term.ReadSecret(ctx, "Session cookie (copy the Cookie header from a logged-in browser): ")
		if err != nil {
			return nil, fmt.Errorf("read session cookie: %w", err)
		}
		if cookie == "" {
			return nil, fmt.Errorf("a session cookie is required (set SEATSCHED_SESSION_COOKIE)")
		}
	}
	return icspace.New(cfg.Host, cookie, cfg.RequestTimeout(), log), nil
}
