package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"specials-server/di"
	"specials-server/models"
	"specials-server/util"
)

var (
	flagSearchAddress  string
	flagSearchRadius   float64
	flagSearchText     string
	flagSearchType     string
	flagSearchAt       string
	flagSearchAll      bool
	flagSearchPage     int
	flagSearchPageSize int
	flagSearchJSON     bool
	flagSearchPlot     string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for venues with specials near an address",
	Long: `Geocode --address and list venues within --radius miles, nearest first.

Only venues with a special running at --at (RFC 3339, default now) are listed unless --all is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		q := models.SearchQuery{
			Address:     flagSearchAddress,
			RadiusMiles: flagSearchRadius,
			SearchText:  flagSearchText,
			SpecialType: flagSearchType,
			ActiveOnly:  !flagSearchAll,
			Page:        flagSearchPage,
			PageSize:    flagSearchPageSize,
		}
		if q.PageSize == 0 {
			q.PageSize = cfg.Search.DefaultPageSize
		}
		if flagSearchAt != "" {
			at, err := time.Parse(time.RFC3339, flagSearchAt)
			if err != nil {
				return fmt.Errorf("invalid --at value: %w", err)
			}
			q.ReferenceInstant = &at
		}

		container, err := di.NewContainer(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("initializing container: %w", err)
		}
		defer container.Close()

		result, err := container.SearchService.Search(cmd.Context(), q)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagSearchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			printSearchResult(out, result)
		}

		if flagSearchPlot != "" {
			f, err := os.Create(flagSearchPlot)
			if err != nil {
				return fmt.Errorf("creating plot file: %w", err)
			}
			defer f.Close()
			if err := util.PlotSearchResult(f, result); err != nil {
				return err
			}
			fmt.Fprintf(out, "Search map generated: %s\n", flagSearchPlot)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchAddress, "address", "", "address to search around")
	searchCmd.Flags().Float64Var(&flagSearchRadius, "radius", 1, "search radius in miles")
	searchCmd.Flags().StringVar(&flagSearchText, "q", "", "free text matched against venue name, description and specials")
	searchCmd.Flags().StringVar(&flagSearchType, "type", "", "only specials of this type")
	searchCmd.Flags().StringVar(&flagSearchAt, "at", "", "reference instant in RFC 3339 (default now)")
	searchCmd.Flags().BoolVar(&flagSearchAll, "all", false, "include venues without an active special")
	searchCmd.Flags().IntVar(&flagSearchPage, "page", 1, "result page")
	searchCmd.Flags().IntVar(&flagSearchPageSize, "page-size", 0, "results per page (default from config)")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "print the raw result as JSON")
	searchCmd.Flags().StringVar(&flagSearchPlot, "plot", "", "write an HTML map of the results to this file")
	_ = searchCmd.MarkFlagRequired("address")
}

func printSearchResult(w io.Writer, result *models.SearchResult) {
	origin := result.Origin.DisplayName
	if origin == "" {
		origin = fmt.Sprintf("%.5f, %.5f", result.Origin.Point.Lat, result.Origin.Point.Lon)
	}
	fmt.Fprintf(w, "Near %s at %s\n", origin, result.ReferenceInstant.Format(time.RFC3339))

	if len(result.Items) == 0 {
		fmt.Fprintln(w, "No venues found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISTANCE\tVENUE\tACTIVE SPECIALS")
	for _, item := range result.Items {
		specials := make([]string, 0, len(item.ActiveSpecials))
		for _, s := range item.ActiveSpecials {
			specials = append(specials, s.Content)
		}
		fmt.Fprintf(tw, "%.2f mi\t%s\t%s\n", item.DistanceMiles, item.Venue.Name, strings.Join(specials, "; "))
	}
	tw.Flush()

	p := result.Pagination
	fmt.Fprintf(w, "Page %d of %d (%d venues)\n", p.Page, p.TotalPages, p.TotalCount)
	if p.HasNext() {
		fmt.Fprintf(w, "More results: --page %d\n", p.Page+1)
	}
}
