package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/example/seatsched/internal/domain/seat"
	"github.com/example/seatsched/internal/interfaces/prompt"
	"github.com/spf13/cobra"
)

func newScanCmd(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Fetch the room once and show eligible seats and the decision, without reserving",
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
			day, err := cfg.DayStart(time.Now())
			if err != nil {
				return err
			}
			window, err := cfg.SearchWindow()
			if err != nil {
				return err
			}
			cons := cfg.Constraints()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout()+5*time.Second)
			defer cancel()
			devices, err := client.Devices(ctx, cfg.RoomID, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "room %s on %s, window %s-%s, %d devices\n",
				cfg.RoomID, day.Format("2006-01-02"), seat.FormatClock(window.Start), seat.FormatClock(window.End), len(devices))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SEAT\tFROM\tTO\tMINUTES\tRATIO\t")
			if all {
				for _, d := range devices {
					for _, fi := range seat.FreeIntervals(d, window) {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t\n", d.DisplayName, seat.FormatClock(fi.Start), seat.FormatClock(fi.End),
							fi.Duration(), float64(fi.Duration())/float64(window.Span()))
					}
				}
			} else {
				for _, r := range seat.Eligible(devices, window, cons) {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t\n", r.Device.DisplayName, seat.FormatClock(r.Interval.Start), seat.FormatClock(r.Interval.End),
						r.Duration, r.Ratio)
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			best, ok := seat.SelectBest(devices, window, cons)
			if !ok {
				fmt.Fprintln(out, "no seat matches the constraints")
				return nil
			}
			dec := seat.Decide(best, window, cons, time.Now(), day)
			fmt.Fprintf(out, "best: %s %s-%s (full window: %t), would %s\n",
				best.Device.DisplayName, seat.FormatClock(best.Interval.Start), seat.FormatClock(best.Interval.End), dec.FullCoverage, dec.Action)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list every free interval, ignoring the ratio and seat-range filters")
	return cmd
}
