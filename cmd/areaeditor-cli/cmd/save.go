package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"areacatalog/internal/domain"
)

var (
	savePoints   []string
	saveLevel    string
	saveParentID string
)

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a closed draft polygon as a new area",
	Long: `Save a closed draft polygon as a new area.

Examples:
  areaeditor-cli save "Westlake" --level district --parent <id> \
    --point 47.61,-122.35 --point 47.62,-122.35 --point 47.62,-122.34`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := parsePoints(savePoints)
		if err != nil {
			return err
		}
		draft := domain.DraftShape{Points: points, Closed: true}
		area, err := GetEngine().SaveAsArea(draft, args[0], saveLevel, saveParentID)
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", area.ID, area.DisplayName)
		return nil
	},
}

func parsePoints(raw []string) ([]domain.LatLng, error) {
	points := make([]domain.LatLng, 0, len(raw))
	for _, s := range raw {
		parts := strings.SplitN(s, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid point %q, expected lat,lng", s)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", s, err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", s, err)
		}
		points = append(points, domain.LatLng{Lat: lat, Lng: lng})
	}
	return points, nil
}

func init() {
	saveCmd.Flags().StringArrayVar(&savePoints, "point", nil, "lat,lng vertex (repeatable)")
	saveCmd.Flags().StringVar(&saveLevel, "level", "", "level key for the new area")
	saveCmd.Flags().StringVar(&saveParentID, "parent", "", "parent area id (omit for a root area)")
	saveCmd.MarkFlagRequired("level")
	rootCmd.AddCommand(saveCmd)
}
