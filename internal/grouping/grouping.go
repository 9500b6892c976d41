package grouping

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/satwikkini-01/Sahaay/internal/models"
	"github.com/satwikkini-01/Sahaay/internal/utils"
)

const (
	// DefaultWindow bounds how far back duplicate detection looks.
	DefaultWindow = 30 * 24 * time.Hour
	// candidateLimit caps the spatial query result for performance.
	candidateLimit = 100
)

// SpatialStore is the slice of the complaint store the grouper needs. The
// implementation only has to return candidates within the radius; exact
// distances are re-checked here.
type SpatialStore interface {
	FindNear(ctx context.Context, lat, lon, radiusMeters float64, since time.Time, excludeID string, limit int) ([]models.Complaint, error)
	UpdateGroup(ctx context.Context, complaintID, groupID string, groupSize int) error
}

// Grouper links a new complaint to near-duplicate reports of the same
// incident: same category and subcategory, within RadiusKm of each other,
// filed inside the time window.
type Grouper struct {
	Store    SpatialStore
	RadiusKm float64
	Window   time.Duration
	Logger   zerolog.Logger
	Now      func() time.Time
}

func New(store SpatialStore, radiusKm float64, logger zerolog.Logger) *Grouper {
	return &Grouper{
		Store:    store,
		RadiusKm: radiusKm,
		Window:   DefaultWindow,
		Logger:   logger,
		Now:      time.Now,
	}
}

// AssignGroup finds the group the complaint belongs to and writes the
// groupId/groupSize onto it and its peers. A nil group means the complaint
// stands alone. Grouping never fails complaint creation: missing
// coordinates and store errors degrade to "ungrouped".
func (g *Grouper) AssignGroup(ctx context.Context, c *models.Complaint) *models.Group {
	if !c.HasCoordinates() {
		g.Logger.Debug().Str("complaint_id", c.ID).Msg("grouping skipped: no coordinates")
		return nil
	}

	since := g.Now().Add(-g.Window)
	nearby, err := g.Store.FindNear(ctx, *c.Lat, *c.Lon, g.RadiusKm*1000, since, c.ID, candidateLimit)
	if err != nil {
		g.Logger.Warn().Err(err).Str("complaint_id", c.ID).Msg("grouping query failed")
		return nil
	}
	if len(nearby) == 0 {
		return nil
	}

	working := append([]models.Complaint{*c}, nearby...)
	groups := GroupComplaints(working, g.RadiusKm)

	var mine *models.Group
	for i := range groups {
		for _, member := range groups[i].Complaints {
			if member.ID == c.ID {
				mine = &groups[i]
				break
			}
		}
		if mine != nil {
			break
		}
	}
	if mine == nil {
		return nil
	}

	c.GroupID = mine.ID
	c.GroupSize = mine.Size()
	for _, member := range mine.Complaints {
		if err := g.Store.UpdateGroup(ctx, member.ID, mine.ID, mine.Size()); err != nil {
			g.Logger.Warn().Err(err).Str("complaint_id", member.ID).Msg("group update failed")
		}
	}
	return mine
}

// GroupComplaints runs the two-phase grouping over a working set: seed-based
// location clusters first, then exact (category, subcategory) partitions
// within each cluster. Only partitions with at least two members become
// groups; the group id is the first member's id.
func GroupComplaints(complaints []models.Complaint, radiusKm float64) []models.Group {
	assigned := make([]bool, len(complaints))
	var clusters [][]int

	// Phase 1: each unassigned complaint seeds a cluster and pulls in every
	// other unassigned complaint within one hop of the seed.
	for i := range complaints {
		if assigned[i] || !complaints[i].HasCoordinates() {
			continue
		}
		cluster := []int{i}
		assigned[i] = true
		for j := i + 1; j < len(complaints); j++ {
			if assigned[j] || !complaints[j].HasCoordinates() {
				continue
			}
			d := utils.HaversineKm(*complaints[i].Lat, *complaints[i].Lon, *complaints[j].Lat, *complaints[j].Lon)
			if d <= radiusKm {
				cluster = append(cluster, j)
				assigned[j] = true
			}
		}
		clusters = append(clusters, cluster)
	}

	// Phase 2: partition each location cluster by category+subcategory.
	var groups []models.Group
	for _, cluster := range clusters {
		partitions := map[string][]int{}
		var order []string
		for _, idx := range cluster {
			key := partitionKey(complaints[idx])
			if _, ok := partitions[key]; !ok {
				order = append(order, key)
			}
			partitions[key] = append(partitions[key], idx)
		}
		for _, key := range order {
			bucket := partitions[key]
			if len(bucket) < 2 {
				continue
			}
			members := make([]models.Complaint, 0, len(bucket))
			var sumLat, sumLon float64
			for _, idx := range bucket {
				members = append(members, complaints[idx])
				sumLat += *complaints[idx].Lat
				sumLon += *complaints[idx].Lon
			}
			groups = append(groups, models.Group{
				ID:          members[0].ID,
				Category:    members[0].Category,
				Subcategory: members[0].Subcategory,
				CenterLat:   sumLat / float64(len(members)),
				CenterLon:   sumLon / float64(len(members)),
				Complaints:  members,
			})
		}
	}
	return groups
}

func partitionKey(c models.Complaint) string {
	cat := strings.ToLower(strings.TrimSpace(c.Category))
	if cat == "" {
		cat = "uncategorized"
	}
	sub := strings.ToLower(strings.TrimSpace(c.Subcategory))
	return cat + "||" + sub
}
