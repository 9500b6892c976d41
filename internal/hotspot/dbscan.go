package hotspot

import (
	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/utils"
)

// DBSCAN clusters complaints by geographic density. epsilonKm is the
// neighborhood radius, minPoints the neighbor count required for a core
// point. Points never absorbed into a cluster are noise and are simply not
// returned. Complaints without coordinates are ignored.
func DBSCAN(complaints []models.Complaint, epsilonKm float64, minPoints int) []models.Cluster {
	points := make([]models.Complaint, 0, len(complaints))
	for _, c := range complaints {
		if c.HasCoordinates() {
			points = append(points, c)
		}
	}
	if len(points) == 0 {
		return nil
	}

	neighbors := func(idx int) []int {
		var out []int
		for i := range points {
			if i == idx {
				continue
			}
			d := utils.HaversineKm(*points[idx].Lat, *points[idx].Lon, *points[i].Lat, *points[i].Lon)
			if d <= epsilonKm {
				out = append(out, i)
			}
		}
		return out
	}

	visited := make([]bool, len(points))
	clustered := make([]bool, len(points))
	var memberSets [][]int

	for i := range points {
		if visited[i] {
			continue
		}
		visited[i] = true

		seed := neighbors(i)
		if len(seed) < minPoints {
			continue // noise unless a later expansion reaches it
		}

		cluster := []int{i}
		clustered[i] = true

		// Expand over the seed set; core neighbors contribute their own
		// neighborhoods transitively.
		queue := seed
		for k := 0; k < len(queue); k++ {
			n := queue[k]
			if !visited[n] {
				visited[n] = true
				nn := neighbors(n)
				if len(nn) >= minPoints {
					queue = append(queue, nn...)
				}
			}
			if !clustered[n] {
				cluster = append(cluster, n)
				clustered[n] = true
			}
		}
		memberSets = append(memberSets, cluster)
	}

	clusters := make([]models.Cluster, 0, len(memberSets))
	for i, members := range memberSets {
		clusterComplaints := make([]models.Complaint, 0, len(members))
		for _, idx := range members {
			clusterComplaints = append(clusterComplaints, points[idx])
		}
		clusters = append(clusters, summarize(i+1, clusterComplaints, epsilonKm))
	}
	return clusters
}

func summarize(id int, members []models.Complaint, epsilonKm float64) models.Cluster {
	var sumLat, sumLon float64
	priorities := map[string]int{}
	categories := map[string]int{}
	ids := make([]string, 0, len(members))
	var timeRange *models.TimeRange

	for _, c := range members {
		sumLat += *c.Lat
		sumLon += *c.Lon
		priorities[c.Priority]++
		categories[c.Category]++
		ids = append(ids, c.ID)
		if !c.CreatedAt.IsZero() {
			if timeRange == nil {
				timeRange = &models.TimeRange{Earliest: c.CreatedAt, Latest: c.CreatedAt}
			} else {
				if c.CreatedAt.Before(timeRange.Earliest) {
					timeRange.Earliest = c.CreatedAt
				}
				if c.CreatedAt.After(timeRange.Latest) {
					timeRange.Latest = c.CreatedAt
				}
			}
		}
	}

	n := float64(len(members))
	dominantPriority := dominantKey(priorities, members, func(c models.Complaint) string { return c.Priority })
	dominantCategory := dominantKey(categories, members, func(c models.Complaint) string { return c.Category })

	name, description, keywords := DescribeCluster(members)

	return models.Cluster{
		ClusterID:            id,
		Name:                 name,
		Description:          description,
		Keywords:             keywords,
		Center:               [2]float64{sumLon / n, sumLat / n},
		Size:                 len(members),
		Radius:               epsilonKm,
		ComplaintIDs:         ids,
		PriorityDistribution: priorities,
		CategoryDistribution: categories,
		DominantPriority:     dominantPriority,
		DominantCategory:     dominantCategory,
		Severity:             severity(dominantPriority),
		TimeRange:            timeRange,
	}
}

// dominantKey returns the mode; ties break by first encounter order in the
// member list.
func dominantKey(counts map[string]int, members []models.Complaint, key func(models.Complaint) string) string {
	best := ""
	bestCount := -1
	seen := map[string]bool{}
	for _, c := range members {
		k := key(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

func severity(priority string) float64 {
	switch priority {
	case models.PriorityHigh:
		return 1.0
	case models.PriorityMedium:
		return 0.6
	default:
		return 0.3
	}
}
