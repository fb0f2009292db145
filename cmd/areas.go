package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/example/seatsched/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

func newAreasCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "areas",
		Short: "List the areas configured for --area",
		RunE: func(cmd *cobra.Command, args []string) error {
			// only the area list is needed, so skip full validation
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if len(cfg.Areas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no areas configured")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\t")
			for _, a := range cfg.Areas {
				marker := ""
				if a.ID == cfg.RoomID || a.Name == cfg.RoomID {
					marker = " (default)"
				}
				fmt.Fprintf(tw, "%s\t%s%s\t\n", a.ID, a.Name, marker)
			}
			return tw.Flush()
		},
	}
}
