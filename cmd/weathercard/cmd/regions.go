package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/weathercard/weathercard/internal/bootstrap"
	"github.com/weathercard/weathercard/internal/location"
)

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List selectable regions, marking the preferred one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withComponents(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				preferred := c.Preferences.PreferredRegion(ctx)

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, region := range location.All() {
					mark := " "
					if region.Name == preferred.Name {
						mark = "*"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, region.Name, region.StationName)
				}
				return tw.Flush()
			})
		},
	}
}

func newSetRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set-region NAME",
		Short:   "Store the preferred region",
		Example: "  weathercard set-region 花蓮縣",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, func(ctx context.Context, c *bootstrap.Components) error {
				region, err := c.Preferences.SavePreferredRegion(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "preferred region set to %s (station %s)\n", region.Name, region.StationName)
				return nil
			})
		},
	}
}
