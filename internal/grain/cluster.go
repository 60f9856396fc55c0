package grain

import (
	"image"
	"math"
)

// Cluster is a run of crossing pixels in which consecutive members are no
// further apart than the clustering cutoff.
type Cluster []image.Point

// ClusterPixels splits pts, in their given order, into clusters. A new
// cluster starts whenever the Euclidean distance to the previous pixel
// exceeds cutoff.
func ClusterPixels(pts []image.Point, cutoff float64) []Cluster {
	var clusters []Cluster
	for i, p := range pts {
		if i == 0 || distance(pts[i-1], p) > cutoff {
			clusters = append(clusters, Cluster{p})
			continue
		}
		clusters[len(clusters)-1] = append(clusters[len(clusters)-1], p)
	}
	return clusters
}

func distance(a, b image.Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}
