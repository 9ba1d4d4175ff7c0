package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"specials-server/models"
)

// PlotSearchResult renders the search origin and the venues of one result page as an
// HTML geo scatter chart.
func PlotSearchResult(w io.Writer, result *models.SearchResult) error {
	origin := []opts.GeoData{{
		Name:  originLabel(result.Origin),
		Value: []float64{result.Origin.Point.Lon, result.Origin.Point.Lat},
	}}

	venues := make([]opts.GeoData, 0, len(result.Items))
	for _, item := range result.Items {
		venues = append(venues, opts.GeoData{
			Name:  fmt.Sprintf("%s (%.2f mi, %d active)", item.Venue.Name, item.DistanceMiles, len(item.ActiveSpecials)),
			Value: []float64{item.Venue.Location.Lon, item.Venue.Location.Lat},
		})
	}

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Specials Search",
			Width:     "900px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Specials near " + originLabel(result.Origin),
			Subtitle: fmt.Sprintf("page %d of %d, %d venues, at %s",
				result.Pagination.Page, result.Pagination.TotalPages, result.Pagination.TotalCount,
				result.ReferenceInstant.Format("2006-01-02 15:04 MST")),
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)

	geo.AddSeries("Origin", types.ChartScatter, origin,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}",
		}),
	)
	geo.AddSeries("Venues", types.ChartScatter, venues,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}",
		}),
	)

	if err := geo.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func originLabel(origin models.GeocodeResult) string {
	if origin.DisplayName != "" {
		return origin.DisplayName
	}
	return fmt.Sprintf("%.5f, %.5f", origin.Point.Lat, origin.Point.Lon)
}
