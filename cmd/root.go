package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

type rootOptions struct {
	configPath string
	area       string
	date       string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "seatsched",
		Short:         "Watches an ICSpace room and reserves the longest free study-seat slot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.area, "area", "", "area name or room id (overrides room_id)")
	root.PersistentFlags().StringVar(&opts.date, "date", "", "target date YYYYMMDD or YYYY-MM-DD (overrides date)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newWatchCmd(opts))
	root.AddCommand(newScanCmd(opts))
	root.AddCommand(newWhoamiCmd(opts))
	root.AddCommand(newAreasCmd(opts))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
