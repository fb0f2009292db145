package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/seatsched/internal/application/poller"
	"github.com/example/seatsched/internal/application/usecases"
	"github.com/example/seatsched/internal/interfaces/prompt"
	"github.com/example/seatsched/internal/interfaces/web"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var statusAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the room until stopped, reserving the best seat as it frees up",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			terminal := prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			client, err := newClient(ctx, cfg, log, terminal)
			if err != nil {
				return err
			}
			id, err := usecases.ResolveIdentity{Provider: client}.Execute(ctx)
			if err != nil {
				return err
			}
			log.WithField("account", id.AccountNo).Infof("signed in as %s (%s)", id.Name, id.PersonID)

			day, err := cfg.DayStart(time.Now())
			if err != nil {
				return err
			}
			window, err := cfg.SearchWindow()
			if err != nil {
				return err
			}

			loop := poller.New(poller.Config{
				RoomID:      cfg.RoomID,
				DayStart:    day,
				Window:      window,
				Constraints: cfg.Constraints(),
				Interval:    cfg.FetchInterval(),
			}, id, client, usecases.ReserveSeat{Booker: client}, terminal, poller.RealClock{}, log)

			if statusAddr == "" {
				statusAddr = cfg.Status.Addr
			}
			if statusAddr != "" {
				srv := &web.Server{Loop: loop, Log: log}
				go func() {
					log.Infof("status endpoint listening on %s", statusAddr)
					if err := web.Start(ctx, statusAddr, srv.Routes()); err != nil {
						log.WithError(err).Error("status endpoint stopped")
					}
				}()
			}

			err = loop.Run(ctx)
			if errors.Is(err, context.Canceled) {
				log.Info("stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&statusAddr, "status-addr", "", "serve /status and /healthz on this address (e.g. 127.0.0.1:8089)")
	return cmd
}
