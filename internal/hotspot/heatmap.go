package hotspot

import (
	"math"

	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/utils"
)

const (
	gridSize           = 20
	intensityThreshold = 0.1
	intensityCap       = 10.0
)

// Heatmap builds a kernel-density estimate over a fixed-resolution grid
// spanning the bounding box of the complaints. High-priority complaints
// contribute three times the weight of low-priority ones; intensities are
// normalized to [0,1] against a fixed cap.
func Heatmap(complaints []models.Complaint, bandwidthKm float64) []models.HeatmapPoint {
	points := make([]models.Complaint, 0, len(complaints))
	for _, c := range complaints {
		if c.HasCoordinates() {
			points = append(points, c)
		}
	}
	if len(points) == 0 {
		return nil
	}
	if bandwidthKm <= 0 {
		bandwidthKm = 1.0
	}

	minLat, maxLat := *points[0].Lat, *points[0].Lat
	minLon, maxLon := *points[0].Lon, *points[0].Lon
	for _, c := range points[1:] {
		minLat = math.Min(minLat, *c.Lat)
		maxLat = math.Max(maxLat, *c.Lat)
		minLon = math.Min(minLon, *c.Lon)
		maxLon = math.Max(maxLon, *c.Lon)
	}

	latStep := (maxLat - minLat) / gridSize
	lonStep := (maxLon - minLon) / gridSize

	var out []models.HeatmapPoint
	for i := 0; i <= gridSize; i++ {
		for j := 0; j <= gridSize; j++ {
			lat := minLat + float64(i)*latStep
			lon := minLon + float64(j)*lonStep

			intensity := 0.0
			for _, c := range points {
				d := utils.HaversineKm(lat, lon, *c.Lat, *c.Lon)
				weight := math.Exp(-(d * d) / (2 * bandwidthKm * bandwidthKm))
				intensity += weight * priorityMultiplier(c.Priority)
			}

			if intensity > intensityThreshold {
				out = append(out, models.HeatmapPoint{
					Coordinates: [2]float64{lon, lat},
					Intensity:   math.Min(intensity, intensityCap) / intensityCap,
				})
			}
		}
	}
	return out
}

func priorityMultiplier(priority string) float64 {
	switch priority {
	case models.PriorityHigh:
		return 3
	case models.PriorityMedium:
		return 2
	default:
		return 1
	}
}
