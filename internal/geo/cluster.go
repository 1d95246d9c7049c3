package geo

import "roamstay/server/internal/models"

// Cluster groups listings into map display clusters using a single
// anchor-based pass: each unvisited listing seeds a new cluster, and every
// later unvisited listing within clusterRadiusMeters of that anchor joins
// it. Membership is decided against the anchor only, never against other
// members, so there is no transitive merging and the result depends on
// input order. Every input listing lands in exactly one cluster.
//
// A radius of zero or less puts every listing in its own cluster.
func Cluster(listings []models.Listing, clusterRadiusMeters float64) []models.Cluster {
	if len(listings) == 0 {
		return nil
	}

	clusters := make([]models.Cluster, 0, len(listings))

	if clusterRadiusMeters <= 0 {
		for _, l := range listings {
			clusters = append(clusters, models.Cluster{Listings: []models.Listing{l}})
		}
		return clusters
	}

	visited := make([]bool, len(listings))

	for i, anchor := range listings {
		if visited[i] {
			continue
		}
		visited[i] = true

		cluster := models.Cluster{Listings: []models.Listing{anchor}}
		anchorPos, anchorOK := anchor.Coordinate()

		for j := i + 1; j < len(listings); j++ {
			if visited[j] {
				continue
			}
			pos, ok := listings[j].Coordinate()
			if !anchorOK || !ok {
				continue
			}
			if DistanceMeters(anchorPos, pos) <= clusterRadiusMeters {
				cluster.Listings = append(cluster.Listings, listings[j])
				visited[j] = true
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}
