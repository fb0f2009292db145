package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/example/seatsched/internal/application/usecases"
	"github.com/example/seatsched/internal/interfaces/prompt"
	"github.com/spf13/cobra"
)

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check the session cookie and print the account it belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			client, err := newClient(cmd.Context(), cfg, log, prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout()+5*time.Second)
			defer cancel()
			id, err := usecases.ResolveIdentity{Provider: client}.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) account=%d\n", id.Name, id.PersonID, id.AccountNo)
			return nil
		},
	}
}
