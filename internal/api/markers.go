package api

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"roamstay/server/internal/geo"
	"roamstay/server/internal/models"
	"roamstay/server/internal/pricing"
)

// renderClusters converts map clusters to a GeoJSON FeatureCollection.
// Marker positions are obfuscated per listing so the map never exposes an
// exact address; the salt includes the feature index so a listing's
// displayed point is stable for a given result set.
func (h *Handler) renderClusters(clusters []models.Cluster) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, cluster := range clusters {
		anchor := cluster.Anchor()
		pos, ok := geo.Obfuscate(anchor, h.cfg.Search.ObfuscationSalt+i)
		if !ok {
			continue
		}

		feature := geojson.NewFeature(orb.Point{pos.Longitude, pos.Latitude})
		feature.Properties = geojson.Properties{
			"listing_count": cluster.Size(),
			"listing_ids":   listingIDs(cluster),
			"approximate":   true,
		}

		if cluster.Size() == 1 {
			feature.Properties["title"] = anchor.Title
			feature.Properties["city"] = anchor.City
		}

		if summary, ok := clusterPriceSummary(cluster); ok {
			feature.Properties["price_min"] = summary.Min
			feature.Properties["price_max"] = summary.Max
			feature.Properties["has_price_range"] = summary.HasRange
		}

		fc.Append(feature)
	}

	return fc
}

func listingIDs(cluster models.Cluster) []string {
	ids := make([]string, len(cluster.Listings))
	for i, l := range cluster.Listings {
		ids[i] = l.ID
	}
	return ids
}

// clusterPriceSummary merges the members' display prices into one range
// for the cluster marker. Members without any price data are skipped.
func clusterPriceSummary(cluster models.Cluster) (models.PriceSummary, bool) {
	var merged models.PriceSummary
	found := false

	for _, l := range cluster.Listings {
		summary, ok := pricing.Summarize(l)
		if !ok {
			continue
		}
		if !found {
			merged = summary
			found = true
			continue
		}
		if summary.Min < merged.Min {
			merged.Min = summary.Min
		}
		if summary.Max > merged.Max {
			merged.Max = summary.Max
		}
	}

	if found {
		merged.HasRange = merged.Min != merged.Max
	}
	return merged, found
}
