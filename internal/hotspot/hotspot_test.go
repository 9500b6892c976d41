package hotspot

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satwikkini-01/Sahaay/internal/models"
)

func point(id, category, priority string, lat, lon float64) models.Complaint {
	return models.Complaint{
		ID:       id,
		Category: category,
		Priority: priority,
		Lat:      &lat,
		Lon:      &lon,
	}
}

// denseRegion lays n complaints within ~100m of a center point.
func denseRegion(prefix, category, priority string, lat, lon float64, n int) []models.Complaint {
	out := make([]models.Complaint, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, point(
			fmt.Sprintf("%s-%d", prefix, i),
			category, priority,
			lat+float64(i)*0.0005,
			lon,
		))
	}
	return out
}

func TestDBSCANTwoDenseRegions(t *testing.T) {
	var complaints []models.Complaint
	complaints = append(complaints, denseRegion("north", "electricity", models.PriorityHigh, 12.97, 77.59, 5)...)
	complaints = append(complaints, denseRegion("south", "water", models.PriorityMedium, 12.90, 77.59, 5)...)
	// Isolated point far from both regions: noise.
	complaints = append(complaints, point("lone", "roads", models.PriorityLow, 13.20, 77.59))

	clusters := DBSCAN(complaints, 0.5, 3)
	require.Len(t, clusters, 2)

	total := 0
	for _, cl := range clusters {
		total += cl.Size
		for _, id := range cl.ComplaintIDs {
			assert.NotEqual(t, "lone", id, "noise point must not be clustered")
		}
	}
	assert.Equal(t, 10, total)
}

func TestDBSCANSparsePointsAreNoise(t *testing.T) {
	complaints := []models.Complaint{
		point("a", "water", models.PriorityLow, 12.90, 77.59),
		point("b", "water", models.PriorityLow, 12.95, 77.59),
		point("c", "water", models.PriorityLow, 13.00, 77.59),
	}
	assert.Empty(t, DBSCAN(complaints, 0.5, 3))
}

func TestDBSCANIgnoresMissingCoordinates(t *testing.T) {
	complaints := denseRegion("a", "water", models.PriorityHigh, 12.97, 77.59, 5)
	complaints = append(complaints, models.Complaint{ID: "nocoords", Category: "water"})

	clusters := DBSCAN(complaints, 0.5, 3)
	require.Len(t, clusters, 1)
	assert.NotContains(t, clusters[0].ComplaintIDs, "nocoords")
}

func TestDBSCANClusterSummary(t *testing.T) {
	complaints := denseRegion("e", "electricity", models.PriorityHigh, 12.97, 77.59, 4)
	complaints = append(complaints, point("m", "electricity", models.PriorityMedium, 12.9705, 77.59))

	clusters := DBSCAN(complaints, 0.5, 3)
	require.Len(t, clusters, 1)

	cl := clusters[0]
	assert.Equal(t, 1, cl.ClusterID)
	assert.Equal(t, 5, cl.Size)
	assert.Equal(t, models.PriorityHigh, cl.DominantPriority)
	assert.Equal(t, "electricity", cl.DominantCategory)
	assert.InDelta(t, 1.0, cl.Severity, 0.001)
	assert.Equal(t, 4, cl.PriorityDistribution[models.PriorityHigh])
	assert.Equal(t, 1, cl.PriorityDistribution[models.PriorityMedium])
	// Center is [lon, lat].
	assert.InDelta(t, 77.59, cl.Center[0], 0.001)
	assert.InDelta(t, 12.97, cl.Center[1], 0.01)
}

func TestHeatmapIntensityBounds(t *testing.T) {
	complaints := denseRegion("h", "water", models.PriorityHigh, 12.97, 77.59, 8)
	complaints = append(complaints, point("far", "water", models.PriorityLow, 13.05, 77.70))

	heatmap := Heatmap(complaints, 1.0)
	require.NotEmpty(t, heatmap)
	for _, p := range heatmap {
		assert.GreaterOrEqual(t, p.Intensity, 0.0)
		assert.LessOrEqual(t, p.Intensity, 1.0)
	}
}

func TestHeatmapPriorityWeighting(t *testing.T) {
	high := []models.Complaint{point("h", "water", models.PriorityHigh, 12.97, 77.59), point("h2", "water", models.PriorityHigh, 12.99, 77.59)}
	low := []models.Complaint{point("l", "water", models.PriorityLow, 12.97, 77.59), point("l2", "water", models.PriorityLow, 12.99, 77.59)}

	peak := func(points []models.HeatmapPoint) float64 {
		max := 0.0
		for _, p := range points {
			if p.Intensity > max {
				max = p.Intensity
			}
		}
		return max
	}

	assert.Greater(t, peak(Heatmap(high, 1.0)), peak(Heatmap(low, 1.0)))
}

func TestHeatmapEmptyInput(t *testing.T) {
	assert.Nil(t, Heatmap(nil, 1.0))
	assert.Nil(t, Heatmap([]models.Complaint{{ID: "nocoords"}}, 1.0))
}

func TestDescribeClusterPowerPattern(t *testing.T) {
	members := []models.Complaint{
		{ID: "a", Category: "electricity", Title: "Power outage", Description: "complete power outage since evening", Address: "Jayanagar, Bengaluru"},
		{ID: "b", Category: "electricity", Title: "No electricity", Description: "power failure in the whole block", Address: "Jayanagar, Bengaluru"},
	}
	name, description, keywords := DescribeCluster(members)
	assert.Equal(t, "Power Issues in Jayanagar", name)
	assert.NotEmpty(t, description)
	assert.Contains(t, keywords, "power")
}

func TestDescribeClusterFallbackLabel(t *testing.T) {
	members := []models.Complaint{
		{ID: "a", Category: "sanitation", Title: "Overflowing drain", Description: "drain overflowing near market", Address: ""},
	}
	name, _, _ := DescribeCluster(members)
	assert.Equal(t, "Sanitation Issues in Unknown Area", name)
}

func TestDescribeClusterEmpty(t *testing.T) {
	name, description, keywords := DescribeCluster(nil)
	assert.Equal(t, "Empty Cluster", name)
	assert.Equal(t, "No complaints in this area", description)
	assert.Nil(t, keywords)
}
