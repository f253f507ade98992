package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/weathercard/weathercard/internal/app"
	"github.com/weathercard/weathercard/internal/bootstrap"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch and print the weather card for the preferred region",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
	cmd.Flags().Bool("json", false, "Print the card as JSON")
	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	return withComponents(cmd, func(ctx context.Context, c *bootstrap.Components) error {
		c.Controller.Load(ctx)
		if err := c.Controller.Refresh(ctx); err != nil {
			return fmt.Errorf("fetching weather: %w", err)
		}

		card := c.Controller.Card()
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(card)
		}
		return printCard(cmd.OutOrStdout(), card)
	})
}

func printCard(w io.Writer, card app.Card) error {
	_, err := fmt.Fprintf(w,
		"%s (%s)\n%s  %d°C\nwind %.1f m/s  rain %s%%  %s\nobserved %s at %s\n",
		card.RegionName, card.Moment,
		card.Weather.Description, card.Temperature,
		card.Weather.WindSpeed, card.Weather.RainPossibility, card.Weather.Comfortability,
		card.ObservedAt, card.Weather.StationName,
	)
	return err
}
